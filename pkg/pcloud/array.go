// Package pcloud implements the point cloud data model (PCDM): typed,
// dense N-dimensional Arrays, named collections of Arrays (Datasets), flat
// views over sequences of Datasets (DisjointRange/DisjointDataset), and
// column-wise coordinate selections over a Dataset.
//
// It is grounded on the teacher's tensor package
// (pkg/core/math/tensor/{dense,shape}.go, pkg/core/math/tensor/types/dtype.go)
// generalized from a single float32 tensor type to a type-tagged Array
// supporting several element types and zero-copy borrowed views, and on
// WireCellUtil/PointCloud{,Dataset,Disjoint,Coordinates}.h for the
// semantics (major axis, append callbacks, disjoint addressing).
package pcloud

import (
	"fmt"

	"github.com/lartpc-toolkit/wctgo/pkg/meta"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// Array is a typed, dense N-dimensional array. The first (major) axis is
// the one Datasets align on and the one DisjointRange walks. Arrays are
// either owned (this Array allocated the backing slice) or a borrowed
// view over someone else's slice; AssureMutable converts a view into an
// owned copy on first write, matching the "share" convention used
// throughout the tensor data model codecs.
type Array struct {
	shape    []int
	dtype    DataType
	data     any // one of []float32, []float64, []int8/16/32/64, []uint8
	borrowed bool
	Metadata meta.Tree
}

// NewArray builds an owned Array from a typed slice (one of the
// supported element types) and a shape. len(data) must equal the
// product of shape. The Array copies data into a freshly allocated
// buffer ("share=false" in Array.h's assign(data, shape, share)
// terms): later mutation of the caller's slice must not be visible
// through the returned Array. Use NewBorrowedArray for the zero-copy,
// "share=true" alternative.
func NewArray(data any, shape []int) (*Array, error) {
	return newArray(data, shape, false)
}

// NewBorrowedArray builds a view Array over someone else's slice
// without copying ("share=true"). Writes to it via AssureMutable will
// copy-on-write.
func NewBorrowedArray(data any, shape []int) (*Array, error) {
	return newArray(data, shape, true)
}

func newArray(data any, shape []int, share bool) (*Array, error) {
	dt, err := dataTypeOf(data)
	if err != nil {
		return nil, fmt.Errorf("pcloud: NewArray: %w: %v", wcterr.ErrType, err)
	}
	want := sizeOf(shape)
	if got := sliceLen(data); got != want {
		return nil, fmt.Errorf("pcloud: NewArray: %w: shape %v wants %d elements, got %d",
			wcterr.ErrValue, shape, want, got)
	}
	sh := make([]int, len(shape))
	copy(sh, shape)
	stored := data
	if !share {
		stored = cloneSlice(data)
	}
	return &Array{shape: sh, dtype: dt, data: stored, borrowed: share, Metadata: meta.New()}, nil
}

// Assign discards a's current state and adopts new typed data in
// place, either by borrowing (share=true, zero-copy) or copying
// (share=false) — the in-place counterpart of NewArray/NewBorrowedArray,
// matching Array.h's assign(data, shape, share). The type tag is
// captured fresh from data's Go type.
func (a *Array) Assign(data any, shape []int, share bool) error {
	fresh, err := newArray(data, shape, share)
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

func sizeOf(shape []int) int {
	if len(shape) == 0 {
		return 1
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Shape returns a copy of the Array's dimensions.
func (a *Array) Shape() []int {
	if a == nil {
		return nil
	}
	out := make([]int, len(a.shape))
	copy(out, a.shape)
	return out
}

// Rank is the number of dimensions.
func (a *Array) Rank() int { return len(a.shape) }

// DType returns the element type tag.
func (a *Array) DType() DataType { return a.dtype }

// Size returns the total number of elements.
func (a *Array) Size() int {
	if a == nil {
		return 0
	}
	return sizeOf(a.shape)
}

// SizeMajor returns the extent of the major (first) axis, or 1 for a
// scalar (rank 0) Array, matching Dataset's "major axis" invariant.
func (a *Array) SizeMajor() int {
	if a == nil || len(a.shape) == 0 {
		return 1
	}
	return a.shape[0]
}

// IsBorrowed reports whether this Array's storage aliases external memory.
func (a *Array) IsBorrowed() bool { return a.borrowed }

// AssureMutable makes a's storage exclusively owned, copying it first if
// it is currently a borrowed view. No-op if already owned.
func (a *Array) AssureMutable() {
	if !a.borrowed {
		return
	}
	a.data = cloneSlice(a.data)
	a.borrowed = false
}

// Clone returns a deep, owned copy of a, including its metadata.
func (a *Array) Clone() *Array {
	if a == nil {
		return nil
	}
	return &Array{
		shape:    a.Shape(),
		dtype:    a.dtype,
		data:     cloneSlice(a.data),
		borrowed: false,
		Metadata: a.Metadata.Clone(),
	}
}

// ZerosLike returns a new owned Array of the same dtype and trailing
// (non-major) shape as a, with its major axis set to nmajor.
func (a *Array) ZerosLike(nmajor int) (*Array, error) {
	shape := a.Shape()
	if len(shape) == 0 {
		shape = []int{}
	} else {
		shape[0] = nmajor
	}
	data, err := makeSlice(a.dtype, sizeOf(shape))
	if err != nil {
		return nil, err
	}
	return &Array{shape: shape, dtype: a.dtype, data: data, Metadata: meta.New()}, nil
}

// FlatFloat64 returns the Array's elements widened to float64, regardless
// of the underlying element type. It always copies.
func (a *Array) FlatFloat64() ([]float64, error) {
	switch s := a.data.(type) {
	case []float32:
		out := make([]float64, len(s))
		for i, v := range s {
			out[i] = float64(v)
		}
		return out, nil
	case []float64:
		out := make([]float64, len(s))
		copy(out, s)
		return out, nil
	case []int8:
		return widenInt8(s), nil
	case []int16:
		return widenInt16(s), nil
	case []int32:
		return widenInt32(s), nil
	case []int64:
		return widenInt64(s), nil
	case []uint8:
		return widenUint8(s), nil
	default:
		return nil, fmt.Errorf("pcloud: FlatFloat64: %w", wcterr.ErrType)
	}
}

func widenInt8(s []int8) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
func widenInt16(s []int16) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
func widenInt32(s []int32) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
func widenInt64(s []int64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
func widenUint8(s []uint8) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}

// Append extends a's major axis in place with other's rows. a and other
// must share dtype and trailing (non-major) shape; a is promoted to an
// owned buffer first if it was a borrowed view. Dataset.Append calls
// this once per array name.
func (a *Array) Append(other *Array) error {
	return appendArray(a, other)
}

// Raw returns the Array's backing typed slice without copying. Callers
// must not mutate it unless they first call AssureMutable.
func (a *Array) Raw() any { return a.data }

// ElementF64 returns element i (flat index over the whole Array, row
// major) widened to float64. Raises IndexError if i is out of range.
func (a *Array) ElementF64(i int) (float64, error) {
	if i < 0 || i >= a.Size() {
		return 0, fmt.Errorf("pcloud: ElementF64: %w: index %d, size %d", wcterr.ErrIndex, i, a.Size())
	}
	switch s := a.data.(type) {
	case []float32:
		return float64(s[i]), nil
	case []float64:
		return s[i], nil
	case []int8:
		return float64(s[i]), nil
	case []int16:
		return float64(s[i]), nil
	case []int32:
		return float64(s[i]), nil
	case []int64:
		return float64(s[i]), nil
	case []uint8:
		return float64(s[i]), nil
	default:
		return 0, fmt.Errorf("pcloud: ElementF64: %w", wcterr.ErrType)
	}
}

// Equal reports whether a and b have the same shape, dtype and element
// values. Metadata is not compared here; unlike Array, Dataset's Equal
// does compare metadata, per PointCloudDataset.cxx's operator==.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.dtype != b.dtype || len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	af, err1 := a.FlatFloat64()
	bf, err2 := b.FlatFloat64()
	if err1 != nil || err2 != nil {
		return false
	}
	for i := range af {
		if af[i] != bf[i] {
			return false
		}
	}
	return true
}
