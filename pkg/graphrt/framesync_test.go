package graphrt

import (
	"testing"

	"github.com/lartpc-toolkit/wctgo/pkg/tensordm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fr(ident int) *tensordm.Frame { return &tensordm.Frame{Ident: ident} }

func TestFrameSync_OrdersByIdentAcrossTwoStreams(t *testing.T) {
	fs := NewFrameSync(2)
	q := &Queues{
		In: []FrameQueue{
			{fr(0), fr(2), nil},
			{fr(1), fr(3), nil},
		},
	}
	waiting, err := fs.Call(q)
	require.NoError(t, err)
	assert.True(t, waiting)

	require.Len(t, q.Out[0], 5)
	idents := make([]int, 4)
	for i := 0; i < 4; i++ {
		idents[i] = q.Out[0][i].Ident
	}
	assert.Equal(t, []int{0, 1, 2, 3}, idents)
	assert.Nil(t, q.Out[0][4])
}

func TestFrameSync_WaitsWhenAStreamIsEmpty(t *testing.T) {
	fs := NewFrameSync(2)
	q := &Queues{
		In: []FrameQueue{
			{fr(0)},
			{},
		},
	}
	waiting, err := fs.Call(q)
	require.NoError(t, err)
	assert.True(t, waiting)
	assert.Empty(t, q.Out[0], "must not forward until the second stream reports in")
}

func TestFrameSync_InputTypesMatchesMultiplicity(t *testing.T) {
	fs := NewFrameSync(3)
	assert.Len(t, fs.InputTypes(), 3)
}
