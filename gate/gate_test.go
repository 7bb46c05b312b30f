package gate_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/gate"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		message string
		want    string
	}{
		{
			name:    "line and column numbers stripped",
			file:    "src/app.py",
			message: "Expected type at line 42, column 7",
			want:    "src/app.py:expected type at line n, column n",
		},
		{
			name:    "whitespace collapsed",
			file:    "src/app.py",
			message: "too   many\n  spaces",
			want:    "src/app.py:too many spaces",
		},
		{
			name:    "lowercased",
			file:    "SRC/App.py",
			message: "Name Error",
			want:    "src/app.py:name error",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, gate.Normalize(tc.file, tc.message, "."))
		})
	}
}

func TestFingerprint_StableAcrossLineMoves(t *testing.T) {
	a := gate.Fingerprint("src/app.py", "undefined name at line 10", ".")
	b := gate.Fingerprint("src/app.py", "undefined name at line 99", ".")
	c := gate.Fingerprint("src/app.py", "some other problem", ".")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestCompare_NoBaseline(t *testing.T) {
	diags := []gate.Diagnostic{{Severity: "error", Fingerprint: "aaaa"}}

	passed, comparison := gate.Compare(diags, nil)

	assert.True(t, passed)
	assert.Equal(t, "no_baseline", comparison.Status)
	assert.Equal(t, 1, comparison.CurrentErrors)
}

func TestCompare_PassAndFail(t *testing.T) {
	baseline := &gate.Baseline{
		ErrorCount:   2,
		Fingerprints: []string{"aaaa", "bbbb"},
	}

	// Same count passes even when the specific errors changed.
	passed, comparison := gate.Compare([]gate.Diagnostic{
		{Severity: "error", Fingerprint: "aaaa"},
		{Severity: "error", Fingerprint: "cccc"},
	}, baseline)
	assert.True(t, passed)
	assert.Equal(t, "pass", comparison.Status)
	assert.Equal(t, 1, comparison.NewErrors)
	assert.Equal(t, 1, comparison.ResolvedErrors)
	assert.Equal(t, 0, comparison.Delta)

	// One more error than baseline fails.
	passed, comparison = gate.Compare([]gate.Diagnostic{
		{Severity: "error", Fingerprint: "aaaa"},
		{Severity: "error", Fingerprint: "bbbb"},
		{Severity: "error", Fingerprint: "dddd"},
	}, baseline)
	assert.False(t, passed)
	assert.Equal(t, "fail", comparison.Status)
	assert.Equal(t, 1, comparison.Delta)

	// Fewer errors pass.
	passed, _ = gate.Compare([]gate.Diagnostic{
		{Severity: "error", Fingerprint: "aaaa"},
	}, baseline)
	assert.True(t, passed)
}

func TestComparison_JSONKeepsZeroCounts(t *testing.T) {
	baseline := &gate.Baseline{ErrorCount: 1, Fingerprints: []string{"aaaa"}}
	_, comparison := gate.Compare([]gate.Diagnostic{
		{Severity: "error", Fingerprint: "aaaa"},
	}, baseline)
	require.Equal(t, 0, comparison.Delta)

	data, err := json.Marshal(comparison)
	require.NoError(t, err)

	// A zero delta means "no change", not "nothing to report".
	assert.Contains(t, string(data), `"delta":0`)
	assert.Contains(t, string(data), `"baseline_errors":1`)
}

func TestCompare_WarningsDoNotCount(t *testing.T) {
	baseline := &gate.Baseline{ErrorCount: 0}

	passed, comparison := gate.Compare([]gate.Diagnostic{
		{Severity: "warning", Fingerprint: "aaaa"},
		{Severity: "warning", Fingerprint: "bbbb"},
	}, baseline)

	assert.True(t, passed)
	assert.Equal(t, 0, comparison.CurrentErrors)
}

func TestEscalateWarnings(t *testing.T) {
	diags := []gate.Diagnostic{
		{Severity: "warning", Fingerprint: "aaaa"},
		{Severity: "error", Fingerprint: "bbbb"},
	}

	strict := gate.EscalateWarnings(diags)

	assert.Equal(t, "error", strict[0].Severity)
	assert.Equal(t, "error", strict[1].Severity)
	// the input is not mutated
	assert.Equal(t, "warning", diags[0].Severity)
}

func TestBaseline_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baselines", "gate.json")
	baseline := gate.NewBaseline("pyright", "1.1.0", []gate.Diagnostic{
		{Severity: "error", Fingerprint: "aaaa"},
		{Severity: "warning", Fingerprint: "bbbb"},
	})

	require.NoError(t, gate.SaveBaseline(path, baseline))

	loaded, err := gate.LoadBaseline(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "pyright", loaded.Tool)
	assert.Equal(t, 1, loaded.ErrorCount)
	assert.Equal(t, 1, loaded.WarningCount)
	assert.Equal(t, []string{"aaaa"}, loaded.Fingerprints)
}

func TestLoadBaseline_Missing(t *testing.T) {
	loaded, err := gate.LoadBaseline(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
