package gate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/gate"
)

func TestRunner_Run(t *testing.T) {
	payload := `{"version":"1.1.300","generalDiagnostics":[` +
		`{"file":"app.py","severity":"error","message":"undefined name","rule":"reportUndefinedVariable",` +
		`"range":{"start":{"line":4,"character":2}}}]}`

	runner := &gate.Runner{Command: []string{"echo", payload}, Root: t.TempDir()}
	diagnostics, version, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1.1.300", version)
	require.Len(t, diagnostics, 1)
	diag := diagnostics[0]
	assert.Equal(t, "app.py", diag.File)
	assert.Equal(t, 4, diag.Line)
	assert.Equal(t, 2, diag.Column)
	assert.Equal(t, "error", diag.Severity)
	assert.Equal(t, "reportUndefinedVariable", diag.Rule)
	assert.Len(t, diag.Fingerprint, 16)
}

func TestRunner_MissingChecker(t *testing.T) {
	runner := &gate.Runner{Command: []string{"definitely-not-a-real-checker"}, Root: t.TempDir()}
	_, _, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, gate.ErrCheckerNotFound)
}

func TestRunner_EmptyCommand(t *testing.T) {
	runner := &gate.Runner{Root: t.TempDir()}
	_, _, err := runner.Run(context.Background())
	assert.Error(t, err)
}
