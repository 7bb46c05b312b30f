package extractor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/extractor"
)

func TestFactory_ExtractorFor(t *testing.T) {
	factory := extractor.NewFactory(nil)

	for _, name := range []string{"a.py", "b.js", "c.mjs", "d.cjs", "e.m", "F.PY"} {
		ext, err := factory.ExtractorFor(name)
		require.NoError(t, err, name)
		assert.NotNil(t, ext, name)
	}

	_, err := factory.ExtractorFor("unsupported.go")
	assert.Error(t, err)
}

func TestFactory_Extract(t *testing.T) {
	factory := extractor.NewFactory(nil)

	out, err := factory.Extract(context.Background(), []byte("def f():\n    pass\n"), "f.py")
	require.NoError(t, err)
	require.Len(t, out.Functions, 1)
	assert.Equal(t, "f", out.Functions[0].Name)
}
