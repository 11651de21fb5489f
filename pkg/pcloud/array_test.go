package pcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_NewAndShape(t *testing.T) {
	a, err := NewArray([]float32{1, 2, 3, 4, 5, 6}, []int{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, a.Shape())
	assert.Equal(t, 3, a.SizeMajor())
	assert.Equal(t, DTFloat32, a.DType())
}

func TestArray_ShapeMismatch(t *testing.T) {
	_, err := NewArray([]float32{1, 2, 3}, []int{2, 2})
	require.Error(t, err)
}

func TestArray_ZerosLike(t *testing.T) {
	a, err := NewArray([]float64{1, 2, 3, 4}, []int{2, 2})
	require.NoError(t, err)
	z, err := a.ZerosLike(5)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 2}, z.Shape())
	assert.Equal(t, a.DType(), z.DType())
	for i := 0; i < z.Size(); i++ {
		v, err := z.ElementF64(i)
		require.NoError(t, err)
		assert.Zero(t, v)
	}
}

func TestArray_SharedVsOwnedAliasing(t *testing.T) {
	v := []int32{1, 2, 3}
	s, err := NewBorrowedArray(v, []int{3})
	require.NoError(t, err)
	c, err := NewArray(v, []int{3})
	require.NoError(t, err)

	v[0] = 42
	sv, err := s.ElementF64(0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, sv, "borrowed array must alias the caller's slice")
	cv, err := c.ElementF64(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cv, "owned array must not see later mutation of the caller's slice")

	s.AssureMutable()
	v[0] = 7
	sv, err = s.ElementF64(0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, sv, "assure_mutable must stop aliasing the caller's slice")
}

func TestArray_Assign(t *testing.T) {
	a, err := NewArray([]float32{1, 2, 3}, []int{3})
	require.NoError(t, err)

	v := []int32{9, 8, 7}
	require.NoError(t, a.Assign(v, []int{3}, true))
	assert.Equal(t, DTInt32, a.DType())
	assert.True(t, a.IsBorrowed())
	v[0] = 1
	got, err := a.ElementF64(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got, "Assign(share=true) must alias the new data")
}

func TestArray_AssureMutableCopyOnWrite(t *testing.T) {
	data := []float32{1, 2, 3}
	view, err := NewBorrowedArray(data, []int{3})
	require.NoError(t, err)
	assert.True(t, view.IsBorrowed())
	view.AssureMutable()
	assert.False(t, view.IsBorrowed())
	raw := view.Raw().([]float32)
	raw[0] = 99
	assert.Equal(t, float32(1), data[0], "borrowed source must be untouched after copy-on-write")
}

func TestArray_AppendGrowsMajorAxisAndCopiesBorrowed(t *testing.T) {
	data := []float32{1, 2, 3}
	view, err := NewBorrowedArray(data, []int{3})
	require.NoError(t, err)
	tail, err := NewArray([]float32{4, 5}, []int{2})
	require.NoError(t, err)

	require.NoError(t, view.Append(tail))
	assert.False(t, view.IsBorrowed())
	assert.Equal(t, []int{5}, view.Shape())
	for i, want := range []float32{1, 2, 3, 4, 5} {
		v, err := view.ElementF64(i)
		require.NoError(t, err)
		assert.Equal(t, float64(want), v)
	}
	assert.Equal(t, float32(1), data[0], "appending must not mutate the original borrowed slice")
}

func TestArray_AppendDTypeMismatch(t *testing.T) {
	a, _ := NewArray([]float32{1, 2, 3}, []int{3})
	b, _ := NewArray([]int32{1, 2}, []int{2})
	require.Error(t, a.Append(b))
}

func TestArray_Equal(t *testing.T) {
	a, _ := NewArray([]int32{1, 2, 3}, []int{3})
	b, _ := NewArray([]int32{1, 2, 3}, []int{3})
	c, _ := NewArray([]int32{1, 2, 4}, []int{3})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
