package matlab_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/extractor/matlab"
)

func TestExtractor_Refs(t *testing.T) {
	src := `% entry point for the solver pipeline
function result = solve_system(A, b)
  result = preprocess(A) \ b;
  check = validate_input(A, b);  % validate_input lives in its own file
  run('postprocess.m');
  x = zeros(3, 3);
end
`
	extractor := matlab.NewExtractor(0)
	out := extractor.Extract(context.Background(), []byte(src), "solver/solve_system.m")

	require.Nil(t, out.Err)
	assert.Contains(t, out.Refs, "preprocess")
	assert.Contains(t, out.Refs, "validate_input")
	assert.Contains(t, out.Refs, "postprocess")
	assert.NotContains(t, out.Refs, "zeros")

	require.Len(t, out.Functions, 1)
	fn := out.Functions[0]
	assert.Equal(t, "solve_system", fn.Name)
	assert.Equal(t, 2, fn.Line)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "A", fn.Params[0].Name)
	assert.Equal(t, "b", fn.Params[1].Name)
}

func TestExtractor_CommentsIgnored(t *testing.T) {
	src := `x = 1;
% helper_func(x) is only mentioned in this comment
y = real_call(x);
`
	extractor := matlab.NewExtractor(0)
	out := extractor.Extract(context.Background(), []byte(src), "script.m")

	require.Nil(t, out.Err)
	assert.Equal(t, []string{"real_call"}, out.Refs)
}

func TestExtractor_RefsSortedAndDeduplicated(t *testing.T) {
	src := `b_func(1);
a_func(2);
b_func(3);
`
	extractor := matlab.NewExtractor(0)
	out := extractor.Extract(context.Background(), []byte(src), "script.m")

	require.Nil(t, out.Err)
	assert.Equal(t, []string{"a_func", "b_func"}, out.Refs)
}
