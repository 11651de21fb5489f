package pcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dsOf(t *testing.T, vals ...float64) *Dataset {
	t.Helper()
	ds := NewDataset()
	require.NoError(t, ds.Add("x", mustArray(t, append([]float64{}, vals...), []int{len(vals)})))
	return ds
}

func TestDisjointRange_AddressSequential(t *testing.T) {
	dr := NewDisjointRange[*Dataset]()
	dr.Append(dsOf(t, 1, 2, 3))
	dr.Append(dsOf(t, 4, 5))
	dr.Append(dsOf(t, 6, 7, 8, 9))

	assert.Equal(t, 9, dr.Size())

	cases := []struct{ idx, part, off int }{
		{0, 0, 0}, {2, 0, 2}, {3, 1, 0}, {4, 1, 1}, {5, 2, 0}, {8, 2, 3},
	}
	for _, w := range cases {
		p, o, err := dr.Address(w.idx)
		require.NoError(t, err)
		assert.Equal(t, w.part, p, "index %d part", w.idx)
		assert.Equal(t, w.off, o, "index %d offset", w.idx)
	}
}

func TestDisjointRange_AddressRandomOrder(t *testing.T) {
	dr := NewDisjointRange[*Dataset]()
	dr.Append(dsOf(t, 1, 2, 3))
	dr.Append(dsOf(t, 4, 5))

	// Exercise the binary-search fallback by jumping around.
	for _, idx := range []int{4, 0, 3, 1, 2} {
		_, _, err := dr.Address(idx)
		require.NoError(t, err)
	}
}

func TestDisjointRange_OutOfBounds(t *testing.T) {
	dr := NewDisjointRange[*Dataset]()
	dr.Append(dsOf(t, 1, 2))
	_, _, err := dr.Address(2)
	require.Error(t, err)
	_, _, err = dr.Address(-1)
	require.Error(t, err)
}

func TestDisjointDataset_Selection(t *testing.T) {
	dd := NewDisjointDataset()
	dd.Append(dsOf(t, 1, 2, 3))
	dd.Append(dsOf(t, 4, 5))

	sel, err := dd.Selection([]string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 5, sel.Size())

	p, err := sel.Point(3)
	require.NoError(t, err)
	v, err := p.At(0)
	require.NoError(t, err)
	assert.Equal(t, float64(4), v)
}
