package pcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustArray(t *testing.T, data any, shape []int) *Array {
	t.Helper()
	a, err := NewArray(data, shape)
	require.NoError(t, err)
	return a
}

func TestDataset_AddAndSelection(t *testing.T) {
	ds := NewDataset()
	require.NoError(t, ds.Add("x", mustArray(t, []float64{1, 2, 3}, []int{3})))
	require.NoError(t, ds.Add("y", mustArray(t, []float64{4, 5, 6}, []int{3})))

	assert.Equal(t, []string{"x", "y"}, ds.Keys())
	assert.Equal(t, 3, ds.SizeMajor())

	sel := ds.Selection([]string{"y", "x"})
	require.Len(t, sel, 2)
	assert.Nil(t, ds.Selection([]string{"z"}))
}

func TestDataset_AddMajorAxisMismatch(t *testing.T) {
	ds := NewDataset()
	require.NoError(t, ds.Add("x", mustArray(t, []float64{1, 2, 3}, []int{3})))
	err := ds.Add("y", mustArray(t, []float64{1, 2}, []int{2}))
	require.Error(t, err)
}

func TestDataset_AppendFromEmpty(t *testing.T) {
	ds := NewDataset()
	tail := NewDataset()
	require.NoError(t, tail.Add("x", mustArray(t, []float64{1, 2}, []int{2})))

	var gotBeg, gotEnd int
	ds.RegisterAppendCallback(func(beg, end int) { gotBeg, gotEnd = beg, end })
	require.NoError(t, ds.Append(tail))
	assert.Equal(t, 0, gotBeg)
	assert.Equal(t, 2, gotEnd)
	assert.Equal(t, 2, ds.SizeMajor())
}

func TestDataset_AppendGrowsAndFiresCallbackRange(t *testing.T) {
	ds := NewDataset()
	require.NoError(t, ds.Add("x", mustArray(t, []float64{1, 2}, []int{2})))

	tail := NewDataset()
	require.NoError(t, tail.Add("x", mustArray(t, []float64{3, 4, 5}, []int{3})))

	var calls [][2]int
	ds.RegisterAppendCallback(func(beg, end int) { calls = append(calls, [2]int{beg, end}) })
	require.NoError(t, ds.Append(tail))

	assert.Equal(t, 5, ds.SizeMajor())
	require.Len(t, calls, 1)
	assert.Equal(t, [2]int{2, 5}, calls[0])

	got := ds.Get("x")
	for i, want := range []float64{1, 2, 3, 4, 5} {
		v, err := got.ElementF64(i)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestDataset_AppendAcceptsSupersetTail(t *testing.T) {
	ds := NewDataset()
	require.NoError(t, ds.Add("one", mustArray(t, []float64{1, 2, 3}, []int{3})))

	tail := NewDataset()
	require.NoError(t, tail.Add("one", mustArray(t, []float64{4, 5}, []int{2})))
	require.NoError(t, tail.Add("two", mustArray(t, []float64{4.4, 5.4}, []int{2})))

	require.NoError(t, ds.Append(tail))
	assert.Equal(t, 5, ds.SizeMajor())
	assert.False(t, ds.Has("two"), "tail's extra array must not be adopted by a non-empty dataset")
	for i, want := range []float64{1, 2, 3, 4, 5} {
		v, err := ds.Get("one").ElementF64(i)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestDataset_AppendRejectsTailMissingOwnKey(t *testing.T) {
	ds := NewDataset()
	require.NoError(t, ds.Add("one", mustArray(t, []float64{1, 2, 3}, []int{3})))
	require.NoError(t, ds.Add("two", mustArray(t, []float64{1, 2, 3}, []int{3})))

	tail := NewDataset()
	require.NoError(t, tail.Add("one", mustArray(t, []float64{4}, []int{1})))

	require.Error(t, ds.Append(tail))
}

func TestDataset_Extend(t *testing.T) {
	ds := NewDataset()
	require.NoError(t, ds.Add("x", mustArray(t, []float64{1, 2}, []int{2})))
	require.NoError(t, ds.Extend(3))
	assert.Equal(t, 5, ds.SizeMajor())
	v, err := ds.Get("x").ElementF64(2)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestDataset_CallbacksInvokedInRegistrationOrder(t *testing.T) {
	ds := NewDataset()
	require.NoError(t, ds.Add("x", mustArray(t, []float64{1}, []int{1})))

	var order []int
	ds.RegisterAppendCallback(func(beg, end int) { order = append(order, 1) })
	ds.RegisterAppendCallback(func(beg, end int) { order = append(order, 2) })
	require.NoError(t, ds.Extend(1))
	assert.Equal(t, []int{1, 2}, order)
}
