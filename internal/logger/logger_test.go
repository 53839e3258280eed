package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture routes logs into a buffer until the test ends.
func capture(t *testing.T, verbose, jsonLines bool) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	SetJSON(jsonLines)
	t.Cleanup(func() {
		SetVerbose(false)
		SetJSON(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func()
		want    string
	}{
		{"debug when verbose", true, func() { Debug("fetched %d lists", 3) }, "[DEBUG] fetched 3 lists"},
		{"info when verbose", true, func() { Info("applied") }, "[INFO] applied"},
		{"debug when quiet", false, func() { Debug("fetched") }, ""},
		{"info when quiet", false, func() { Info("applied") }, ""},
		{"section when quiet", false, func() { Section("Fetch") }, ""},
		{"warn when quiet", false, func() { Warn("duplicate id %s", "a") }, "[WARN] duplicate id a"},
		{"error when quiet", false, func() { Error("store failed") }, "[ERROR] store failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose, false)
			tt.log()
			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()))
		})
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, true, false)

	Section("Reconcile")

	assert.True(t, strings.HasPrefix(buf.String(), "[INFO] === Reconcile ==="), buf.String())
}

func TestJSONLines(t *testing.T) {
	buf := capture(t, true, true)

	Warn("anomaly %d", 2)
	Section("Apply")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var warn map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &warn))
	assert.Equal(t, "warn", warn["level"])
	assert.Equal(t, "anomaly 2", warn["message"])
	assert.Contains(t, warn, "time")

	var section map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &section))
	assert.Equal(t, "Apply", section["section"])
}

func TestConcurrentReconfigure(t *testing.T) {
	capture(t, false, false)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			SetVerbose(true)
			SetVerbose(false)
		}
	}()
	for range 100 {
		Debug("tick")
	}
	<-done
}
