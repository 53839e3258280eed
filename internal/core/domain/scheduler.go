package domain

import "time"

// JobReconcile is the built-in job that runs one reconciliation.
const JobReconcile = "reconcile"

// Scheduling bounds.
const (
	DefaultReconcileInterval = 15 * time.Minute
	MinJobInterval           = time.Minute

	// MaxJobBackoff caps how far consecutive failures push the next run.
	MaxJobBackoff = 4 * time.Hour
)

// JobName returns the display name of a built-in job.
func JobName(id string) string {
	switch id {
	case JobReconcile:
		return "Reconcile remote tasks"
	default:
		return id
	}
}

// Job is the persisted state of a recurring background job.
type Job struct {
	ID       string
	Interval time.Duration
	Enabled  bool

	LastRun     time.Time
	NextRun     time.Time
	LastSuccess time.Time
	LastError   string

	// Failures counts consecutive failed runs.
	Failures int
}

// Due reports whether the job should run at now.
func (j *Job) Due(now time.Time) bool {
	return j.Enabled && !j.NextRun.After(now)
}

// Delay is the wait after a run before the next one.
// Each consecutive failure doubles the interval, up to MaxJobBackoff.
func (j *Job) Delay() time.Duration {
	d := j.Interval
	for i := 0; i < j.Failures && d < MaxJobBackoff; i++ {
		d *= 2
	}
	return min(d, max(j.Interval, MaxJobBackoff))
}

// Finish folds the outcome of a run into the job state and schedules
// the next run.
func (j *Job) Finish(run JobRun) {
	j.LastRun = run.StartedAt
	if run.Succeeded() {
		j.Failures = 0
		j.LastError = ""
		if !run.Skipped {
			j.LastSuccess = run.EndedAt
		}
	} else {
		j.Failures++
		j.LastError = run.Error
	}
	j.NextRun = run.EndedAt.Add(j.Delay())
}

// JobRun is one execution of a job.
type JobRun struct {
	JobID string `json:"job_id"`

	// RunID is the reconciliation run the job started. Empty when skipped.
	RunID string `json:"run_id,omitempty"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	// Skipped is set when another run already held the reconciler.
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`

	// Changes is the number of delta entries the run produced.
	Changes int `json:"changes"`
}

// Succeeded reports whether the run ended without error.
func (r JobRun) Succeeded() bool {
	return r.Error == ""
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	// Enabled is the master switch.
	Enabled bool

	// Jobs holds per-job configuration keyed by job id.
	Jobs map[string]JobConfig
}

// JobConfig configures a single job.
type JobConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Job returns the configuration of one job.
// Unknown jobs are disabled.
func (c SchedulerConfig) Job(id string) JobConfig {
	return c.Jobs[id]
}

// SetJob replaces the configuration of one job.
func (c *SchedulerConfig) SetJob(id string, cfg JobConfig) {
	if c.Jobs == nil {
		c.Jobs = make(map[string]JobConfig)
	}
	c.Jobs[id] = cfg
}

// DefaultSchedulerConfig returns the default schedule: reconcile every
// DefaultReconcileInterval.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		Jobs: map[string]JobConfig{
			JobReconcile: {Enabled: true, Interval: DefaultReconcileInterval},
		},
	}
}
