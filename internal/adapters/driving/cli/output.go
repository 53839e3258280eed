package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/core/ports/driving"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const defaultWidth = 80

// palette mirrors the colours of the interactive views.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
)

// printer renders command results. Colours are only emitted when the
// writer is a terminal.
type printer struct {
	w       io.Writer
	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	added   lipgloss.Style
	changed lipgloss.Style
	removed lipgloss.Style
	width   int
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(colourPrimary),
		label:   r.NewStyle().Width(20),
		muted:   r.NewStyle().Foreground(colourMuted),
		added:   r.NewStyle().Foreground(colourSuccess),
		changed: r.NewStyle().Foreground(colourWarning),
		removed: r.NewStyle().Foreground(colourError),
		width:   terminalWidth(w),
	}
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func (p *printer) heading(s string) {
	fmt.Fprintln(p.w, p.title.Render(s))
	fmt.Fprintln(p.w, p.muted.Render(strings.Repeat("─", min(len(s)+8, p.width))))
}

func (p *printer) row(label string, value any) {
	fmt.Fprintf(p.w, "%s%v\n", p.label.Render(label), value)
}

func (p *printer) summary(s domain.DeltaSummary) {
	p.row("New categories", p.added.Render(fmt.Sprint(s.NewCategories)))
	p.row("Changed categories", p.changed.Render(fmt.Sprint(s.ChangedCategories)))
	p.row("Deleted categories", p.removed.Render(fmt.Sprint(s.DeletedCategories)))
	p.row("New tasks", p.added.Render(fmt.Sprint(s.NewTasks)))
	p.row("Changed tasks", p.changed.Render(fmt.Sprint(s.ChangedTasks)))
	p.row("Deleted tasks", p.removed.Render(fmt.Sprint(s.DeletedTasks)))
	if s.Anomalies > 0 {
		p.row("Anomalies", p.changed.Render(fmt.Sprint(s.Anomalies)))
	}
}

func (p *printer) runResult(r *driving.RunResult) {
	if r.DryRun {
		p.heading("Dry run " + r.RunID)
	} else {
		p.heading("Run " + r.RunID)
	}
	p.summary(r.Summary)
	if !r.DryRun {
		fmt.Fprintln(p.w)
		p.row("Created", r.Applied.Created)
		p.row("Updated", r.Applied.Updated)
		p.row("Archived", r.Applied.Archived)
		p.row("Reported", r.Applied.Reported)
		if r.Applied.Failed > 0 {
			p.row("Failed", p.removed.Render(fmt.Sprint(r.Applied.Failed)))
		}
	}
	p.row("Duration", r.Duration.Round(time.Millisecond))
}

// delta prints every entry of a delta grouped by partition.
func (p *printer) delta(d *domain.Delta) {
	header := "Delta " + d.RunID
	if d.Bootstrap {
		header += " (bootstrap)"
	}
	p.heading(header)
	p.row("Computed at", d.ComputedAt.Local().Format("2006-01-02 15:04:05"))
	p.summary(d.Summary())

	if d.IsEmpty() {
		fmt.Fprintln(p.w, p.muted.Render("No changes."))
		return
	}

	fmt.Fprintln(p.w)
	p.records("+", p.added, "", d.NewCategories)
	p.diffs("~", "", d.ChangedCategories)
	p.records("-", p.removed, "", d.DeletedCategories)
	for _, cat := range domain.SortedKeys(d.NewTasks) {
		p.records("+", p.added, cat, d.NewTasks[cat])
	}
	for _, cat := range domain.SortedKeys(d.ChangedTasks) {
		p.diffs("~", cat, d.ChangedTasks[cat])
	}
	for _, cat := range domain.SortedKeys(d.DeletedTasks) {
		p.records("-", p.removed, cat, d.DeletedTasks[cat])
	}
	for _, a := range d.Anomalies {
		fmt.Fprintln(p.w, p.changed.Render(fmt.Sprintf("! %s %s %s in %s (%d times)",
			a.Kind, a.Side, a.ID, scopeName(a.Scope), a.Count)))
	}
}

func (p *printer) records(mark string, style lipgloss.Style, categoryID string, recs map[string]domain.Record) {
	for _, id := range domain.SortedKeys(recs) {
		line := fmt.Sprintf("%s %s %q", mark, qualify(categoryID, id), recs[id].Title())
		fmt.Fprintln(p.w, style.Render(line))
	}
}

func (p *printer) diffs(mark, categoryID string, diffs map[string]domain.FieldDiff) {
	for _, id := range domain.SortedKeys(diffs) {
		diff := diffs[id]
		parts := make([]string, 0, len(diff))
		for _, name := range diff.Keys() {
			parts = append(parts, name+"="+diff[name].String())
		}
		line := fmt.Sprintf("%s %s %s", mark, qualify(categoryID, id), strings.Join(parts, " "))
		fmt.Fprintln(p.w, p.changed.Render(line))
	}
}

func qualify(categoryID, id string) string {
	if categoryID == "" {
		return "category " + id
	}
	return "task " + categoryID + "/" + id
}

func scopeName(scope string) string {
	if scope == "" {
		return "categories"
	}
	return scope
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// toYAML renders v through its JSON form so custom JSON marshalers and
// tags are honoured.
func toYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting style JSON input leaves on nodes.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", fmt.Errorf("getting output flag: %w", err)
	}
	switch format {
	case formatText, formatJSON, formatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (want text, json or yaml)", domain.ErrInvalidInput, format)
	}
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", formatText, "Output format: text, json or yaml")
}
