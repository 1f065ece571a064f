package resolve_test

import (
	"bytes"
	"testing"

	"github.com/brimdata/arrowfunc/cmd/arrowfunc/resolve"
	"github.com/brimdata/arrowfunc/runtime/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := resolve.New()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolve(t *testing.T) {
	cases := map[string]string{
		"list<int64>":                 "int64\n",
		"large_list<utf8>":            "utf8\n",
		"fixed_size_list<float64, 3>": "float64\n",
	}
	for in, expected := range cases {
		out, err := run(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, out, in)
	}
}

func TestResolveAlias(t *testing.T) {
	out, err := run("--fn", "list_any_value", "list<bool>")
	require.NoError(t, err)
	assert.Equal(t, "bool\n", out)
}

func TestResolveErrors(t *testing.T) {
	_, err := run("int64")
	assert.True(t, function.IsPlanError(err))
	assert.EqualError(t, err, "planning array_any_value: bad argument: first argument must be one of list, large_list, fixed_size_list")

	_, err = run("list_view<int64>")
	assert.ErrorIs(t, err, function.ErrBadArgument)

	_, err = run("--fn", "array_none_value", "list<int64>")
	assert.ErrorIs(t, err, function.ErrNoSuchFunction)

	_, err = run("list<int65>")
	assert.Error(t, err)
}
