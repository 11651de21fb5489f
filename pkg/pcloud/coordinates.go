package pcloud

import (
	"fmt"

	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// Selection is an ordered set of array references, as returned by
// Dataset.Selection, grounded on PointCloudDataset.h's selection_t.
type Selection []*Array

// Size returns the common major-axis extent of the selection's arrays,
// or 0 if the selection is empty.
func (s Selection) Size() int {
	if len(s) == 0 {
		return 0
	}
	return s[0].SizeMajor()
}

// CoordinatePoint is a single row viewed across a Selection's arrays, one
// value per array ("dimension"), grounded on
// WireCellUtil/PointCloudCoordinates.h's coordinate_point.
type CoordinatePoint struct {
	sel   Selection
	index int
}

// Dim returns the number of coordinate dimensions (= len(selection)).
func (p CoordinatePoint) Dim() int { return len(p.sel) }

// At returns the value of dimension d widened to float64.
func (p CoordinatePoint) At(d int) (float64, error) {
	if d < 0 || d >= len(p.sel) {
		return 0, fmt.Errorf("pcloud: CoordinatePoint.At: %w: dim %d", wcterr.ErrIndex, d)
	}
	return p.sel[d].ElementF64(p.index)
}

// Coordinates is a column-wise cursor over a Selection, yielding one
// CoordinatePoint per major-axis row, grounded on
// WireCellUtil/PointCloudCoordinates.h's coordinates<VectorType>.
type Coordinates struct {
	sel Selection
}

// NewCoordinates wraps sel for row-wise point access.
func NewCoordinates(sel Selection) Coordinates { return Coordinates{sel: sel} }

// Size is the number of rows (points).
func (c Coordinates) Size() int { return c.sel.Size() }

// Point returns the i'th row as a CoordinatePoint, raising IndexError if
// out of range.
func (c Coordinates) Point(i int) (CoordinatePoint, error) {
	if i < 0 || i >= c.Size() {
		return CoordinatePoint{}, fmt.Errorf("pcloud: Coordinates.Point: %w: index %d, size %d",
			wcterr.ErrIndex, i, c.Size())
	}
	return CoordinatePoint{sel: c.sel, index: i}, nil
}

// AsFloat64Rows materializes every row as a []float64 (one call per
// point; prefer this for feeding a KDTree that wants dense rows).
func (c Coordinates) AsFloat64Rows() ([][]float64, error) {
	out := make([][]float64, c.Size())
	for i := range out {
		p, err := c.Point(i)
		if err != nil {
			return nil, err
		}
		row := make([]float64, p.Dim())
		for d := 0; d < p.Dim(); d++ {
			v, err := p.At(d)
			if err != nil {
				return nil, err
			}
			row[d] = v
		}
		out[i] = row
	}
	return out, nil
}
