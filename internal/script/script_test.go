package script

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkthrough(t *testing.T) {
	s, err := LoadFile("testdata/walkthrough.yaml")
	require.NoError(t, err)

	r, err := NewRunner(s, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.Names())

	steps, err := r.Run()
	require.NoError(t, err)
	require.Len(t, steps, 13)

	want := []Step{
		{Index: 0, Op: "append", Array: "a", OK: true, Count: 10, Len: 10},
		{Index: 1, Op: "get", Array: "a", OK: true, Value: 9, Len: 10},
		{Index: 2, Op: "append", Array: "a", OK: false, Count: 0, Len: 10},
		{Index: 3, Op: "resize", Array: "a", OK: true, Count: 3, Len: 3},
		{Index: 4, Op: "resize", Array: "a", OK: true, Count: 5, Len: 5},
		{Index: 5, Op: "get", Array: "a", OK: true, Value: 0, Len: 5},
		{Index: 6, Op: "append", Array: "b", OK: true, Count: 6, Len: 6},
		{Index: 7, Op: "slice", Array: "b", OK: true, Len: 6},
		{Index: 8, Op: "append_array", Array: "b", OK: false, Len: 6},
		{Index: 9, Op: "pop", Array: "b", OK: true, Value: 60, Len: 5},
		{Index: 10, Op: "append_array", Array: "b", OK: false, Len: 5},
		{Index: 11, Op: "set", Array: "a", OK: true, Len: 4},
		{Index: 12, Op: "replace", Array: "b", OK: true, Count: 4, Len: 4},
	}
	assert.Equal(t, want, steps)

	assert.Equal(t, []uint32{7, 30, 40, 50}, r.Array("a").Items())
	assert.Equal(t, []uint32{7, 30, 40, 50}, r.Array("b").Items())
	assert.Nil(t, r.Array("missing"))
}

func TestSeedClamped(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	s, err := Load(strings.NewReader(`
arrays:
  - {name: small, capacity: 2, seed: [1, 2, 3]}
`))
	require.NoError(t, err)

	r, err := NewRunner(s, logger)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, r.Array("small").Items())
	assert.Contains(t, logs.String(), "seed clamped")
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		ran     int
	}{
		{
			name: "unknown op",
			src: `
arrays: [{name: a, capacity: 2}]
steps:
  - {op: push, array: a, value: 1}
  - {op: shuffle, array: a}
`,
			wantErr: ErrUnknownOp,
			ran:     1,
		},
		{
			name: "unknown array",
			src: `
arrays: [{name: a, capacity: 2}]
steps:
  - {op: push, array: b, value: 1}
`,
			wantErr: ErrUnknownArray,
		},
		{
			name: "unknown source array",
			src: `
arrays: [{name: a, capacity: 2}]
steps:
  - {op: replace, array: a, from: z}
`,
			wantErr: ErrUnknownArray,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(strings.NewReader(tt.src))
			require.NoError(t, err)
			r, err := NewRunner(s, nil)
			require.NoError(t, err)

			steps, err := r.Run()
			require.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, steps, tt.ran)
		})
	}
}

func TestInvalidScripts(t *testing.T) {
	tests := map[string]string{
		"duplicate name":    `arrays: [{name: a, capacity: 1}, {name: a, capacity: 2}]`,
		"missing name":      `arrays: [{capacity: 1}]`,
		"negative capacity": `arrays: [{name: a, capacity: -1}]`,
		"huge capacity":     `arrays: [{name: a, capacity: 1000000000000000}]`,
		"huge total":        `arrays: [{name: a, capacity: 16000000}, {name: b, capacity: 1000000}]`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := Load(strings.NewReader(src))
			require.NoError(t, err)
			_, err = NewRunner(s, nil)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader(`arrays: [{name: a, size: 3}]`))
	require.Error(t, err)
}

func TestLoadEmpty(t *testing.T) {
	s, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	r, err := NewRunner(s, nil)
	require.NoError(t, err)
	steps, err := r.Run()
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.yaml")
	require.Error(t, err)
}

func TestZeroCapacityArray(t *testing.T) {
	s, err := Load(strings.NewReader(`
arrays: [{name: none, capacity: 0}]
steps:
  - {op: push, array: none, value: 1}
  - {op: pop, array: none}
`))
	require.NoError(t, err)
	r, err := NewRunner(s, nil)
	require.NoError(t, err)
	steps, err := r.Run()
	require.NoError(t, err)
	assert.False(t, steps[0].OK)
	assert.False(t, steps[1].OK)
}
