package calllog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArguments_OrderAndOverwrite(t *testing.T) {
	var args Arguments
	args.Set("x", 1)
	args.Set("y", "a")
	args.Set("x", 9)

	assert.Equal(t, []string{"x", "y"}, args.Names())
	assert.Equal(t, 2, args.Len())
	v, ok := args.Get("x")
	require.True(t, ok)
	assert.Equal(t, 9, v)
	assert.Equal(t, "{'x': 9, 'y': 'a'}", args.String())
}

func TestArguments_NilSafe(t *testing.T) {
	var args *Arguments
	assert.Equal(t, 0, args.Len())
	assert.Nil(t, args.Names())
	_, ok := args.Get("x")
	assert.False(t, ok)
	assert.Equal(t, "{}", args.Clone().String())
}

func TestArguments_CloneIsIndependent(t *testing.T) {
	orig := NewArguments(1)
	orig.Set("x", 1)

	c := orig.Clone()
	c.Set("x", 2)
	c.Set("y", 3)

	v, _ := orig.Get("x")
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, orig.Len())
}

func TestKwargs_Get(t *testing.T) {
	kw := Kwargs{Named("a", 1), Named("b", 2), Named("a", 3)}

	v, ok := kw.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v, "last value wins")

	_, ok = kw.Get("c")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		params     []string
		positional []any
		named      Kwargs
		receiver   bool
		want       string
	}{
		{
			name:       "positional only",
			params:     []string{"x", "y", "api_key"},
			positional: []any{1, 2, "k"},
			want:       "{'x': 1, 'y': 2, 'api_key': 'k'}",
		},
		{
			name:       "positional then named",
			params:     []string{"x", "y", "api_key"},
			positional: []any{1},
			named:      Kwargs{Named("y", 2), Named("api_key", "k")},
			want:       "{'x': 1, 'y': 2, 'api_key': 'k'}",
		},
		{
			name:       "named replaces in place",
			params:     []string{"x", "y"},
			positional: []any{1, 2},
			named:      Kwargs{Named("x", 9)},
			want:       "{'x': 9, 'y': 2}",
		},
		{
			name:       "unknown named appended",
			params:     []string{"x"},
			positional: []any{1},
			named:      Kwargs{Named("extra", true)},
			want:       "{'x': 1, 'extra': True}",
		},
		{
			name:       "extra positional dropped",
			params:     []string{"x"},
			positional: []any{1, 2, 3},
			want:       "{'x': 1}",
		},
		{
			name:       "missing positional",
			params:     []string{"x", "y"},
			positional: []any{1},
			want:       "{'x': 1}",
		},
		{
			name:       "receiver dropped",
			params:     []string{"self", "x"},
			positional: []any{struct{}{}, 1},
			receiver:   true,
			want:       "{'x': 1}",
		},
		{
			name:     "receiver with nothing else",
			params:   []string{"self"},
			receiver: true,
			want:     "{}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.params, tt.positional, tt.named, tt.receiver)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNormalize_DoesNotTouchInputs(t *testing.T) {
	params := []string{"self", "x"}
	positional := []any{"recv", 1}

	Normalize(params, positional, nil, true)

	assert.Equal(t, []string{"self", "x"}, params)
	assert.Equal(t, []any{"recv", 1}, positional)
}
