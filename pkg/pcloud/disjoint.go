package pcloud

import (
	"fmt"
	"sort"

	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// sizeMajorer is the capability a disjoint range element must offer: a
// major-axis extent, matching the value_type::size_major() requirement
// of WireCellUtil/PointCloudDisjoint.h's DisjointBase<Value>.
type sizeMajorer interface {
	SizeMajor() int
}

// DisjointRange is a flat, read-mostly view over an ordered sequence of
// ranges (Datasets, in this module's only instantiation), addressed as a
// single contiguous index space. Random access at index i costs
// O(log R) via a cumulative-offset binary search, except for the common
// case of monotonically increasing access, which is O(1) amortized via a
// cached last lookup — grounded on WireCellUtil/DisjointRange.h's
// disjoint_cursor (cached `last` iterator advanced by the requested
// delta) and PointCloudDisjoint.h's DisjointBase::address.
type DisjointRange[T sizeMajorer] struct {
	values []T
	// offsets[i] is the cumulative element count before values[i].
	// len(offsets) == len(values); offsets is kept in sync with values
	// (appended to on Append, recomputed only then).
	offsets []int
	total   int

	lastIdx  int // cached last major-index queried
	lastPart int // which values[] entry it fell into
	lastOff  int // element offset within that entry
}

// NewDisjointRange returns an empty DisjointRange.
func NewDisjointRange[T sizeMajorer]() *DisjointRange[T] {
	return &DisjointRange[T]{}
}

// Append adds val as the next range in sequence.
func (d *DisjointRange[T]) Append(val T) {
	d.offsets = append(d.offsets, d.total)
	d.values = append(d.values, val)
	d.total += val.SizeMajor()
}

// Size returns the total number of elements across all constituent
// ranges.
func (d *DisjointRange[T]) Size() int { return d.total }

// NumParts returns the number of constituent ranges appended.
func (d *DisjointRange[T]) NumParts() int { return len(d.values) }

// Part returns the i'th constituent range.
func (d *DisjointRange[T]) Part(i int) T { return d.values[i] }

// Address resolves a flat index into (part index, offset within that
// part), raising IndexError if out of bounds. Uses the cached last
// position when the requested index is being walked monotonically (the
// common traversal pattern), else falls back to binary search over the
// cumulative offsets.
func (d *DisjointRange[T]) Address(index int) (partIdx int, offset int, err error) {
	if index < 0 || index >= d.total {
		var zero int
		return zero, zero, fmt.Errorf("pcloud: DisjointRange.Address: %w: index %d, size %d",
			wcterr.ErrIndex, index, d.total)
	}
	if len(d.values) == 0 {
		return 0, 0, fmt.Errorf("pcloud: DisjointRange.Address: %w: empty range", wcterr.ErrIndex)
	}

	// Fast path: if index falls inside the cached part, adjust from the
	// cached position by the delta; any other index takes the binary
	// search below.
	if d.lastPart < len(d.values) {
		cur := d.offsets[d.lastPart] + d.lastOff
		delta := index - cur
		p, o := d.lastPart, d.lastOff
		if delta >= 0 && delta < d.values[p].SizeMajor()-o {
			o += delta
			d.lastIdx, d.lastPart, d.lastOff = index, p, o
			return p, o, nil
		}
	}

	// Slow path: binary search the cumulative offsets for the last
	// offset <= index.
	p := sort.Search(len(d.offsets), func(i int) bool { return d.offsets[i] > index }) - 1
	if p < 0 {
		p = 0
	}
	o := index - d.offsets[p]
	d.lastIdx, d.lastPart, d.lastOff = index, p, o
	return p, o, nil
}

// DisjointDataset is a DisjointRange specialized to *Dataset, grounded on
// WireCellUtil/PointCloudDisjoint.h's DisjointDataset.
type DisjointDataset struct {
	*DisjointRange[*Dataset]
}

// NewDisjointDataset returns an empty DisjointDataset.
func NewDisjointDataset() *DisjointDataset {
	return &DisjointDataset{DisjointRange: NewDisjointRange[*Dataset]()}
}

// Selection returns a disjoint_selection-equivalent: the column-wise
// coordinate cursors for names, one per constituent Dataset, concatenated
// into a single flat Coordinates-like cursor.
func (dd *DisjointDataset) Selection(names []string) (*DisjointSelection, error) {
	cursors := make([]Coordinates, 0, dd.NumParts())
	for i := 0; i < dd.NumParts(); i++ {
		sel := dd.Part(i).Selection(names)
		if sel == nil {
			return nil, fmt.Errorf("pcloud: DisjointDataset.Selection: %w: names %v missing in part %d",
				wcterr.ErrValue, names, i)
		}
		cursors = append(cursors, NewCoordinates(sel))
	}
	return &DisjointSelection{dd: dd, cursors: cursors}, nil
}

// DisjointSelection dispenses CoordinatePoints across a DisjointDataset's
// constituent Datasets as a single flat index space, grounded on
// WireCellUtil/PointCloudDisjoint.h's disjoint_selection.
type DisjointSelection struct {
	dd      *DisjointDataset
	cursors []Coordinates
}

// Size is the total row count across all constituent cursors.
func (s *DisjointSelection) Size() int { return s.dd.Size() }

// Point returns the i'th row (flat index across all constituents).
func (s *DisjointSelection) Point(i int) (CoordinatePoint, error) {
	part, off, err := s.dd.Address(i)
	if err != nil {
		return CoordinatePoint{}, err
	}
	return s.cursors[part].Point(off)
}
