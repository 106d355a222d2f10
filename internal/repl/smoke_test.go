package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestREPLSmoke exercises the REPL's per-line handling the way Start
// drives it, without going through liner (which talks to a real
// terminal, not an io.Reader).
func TestREPLSmoke(t *testing.T) {
	tests := []struct {
		name           string
		command        string
		mustContain    []string
		mustNotContain []string
	}{
		{
			name:        "scalar mismatch reports incompatible types",
			command:     "int = float",
			mustContain: []string{"incompatible"},
		},
		{
			name:        "tensor dims unify and print a substitution",
			command:     "tsr[3,f] = tsr[b,4]",
			mustContain: []string{"substitution:", "ok"},
		},
		{
			name:        "rank mismatch is reported",
			command:     "tsr[3,4] = tsr[5]",
			mustContain: []string{"rank_mismatch"},
		},
		{
			name:           "malformed input is a parse error, not a crash",
			command:        "int",
			mustContain:    []string{"parse error"},
			mustNotContain: []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("test")
			var out bytes.Buffer
			r.processLine(tt.command, &out)
			got := out.String()
			for _, s := range tt.mustContain {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.mustNotContain {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestREPLSmoke_HistoryAndReset(t *testing.T) {
	r := New("test")
	var out bytes.Buffer

	r.history = append(r.history, "tsr[3,f] = tsr[b,4]")
	r.handleCommand(":history", &out)
	assert.Contains(t, out.String(), "tsr[3,f] = tsr[b,4]")

	out.Reset()
	r.handleCommand(":clear", &out)
	assert.Empty(t, r.history)
	assert.Contains(t, out.String(), "cleared")

	envBefore := r.env
	out.Reset()
	r.handleCommand(":reset", &out)
	assert.NotSame(t, envBefore, r.env)
	assert.Contains(t, out.String(), "reset")
}

func TestREPLSmoke_UnknownCommand(t *testing.T) {
	r := New("test")
	var out bytes.Buffer
	r.handleCommand(":bogus", &out)
	assert.Contains(t, out.String(), "unknown command")
}
