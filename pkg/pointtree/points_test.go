package pointtree

import (
	"testing"

	"github.com/lartpc-toolkit/wctgo/pkg/kdtree"
	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcOf(t *testing.T, xs, ys []float64) *pcloud.Dataset {
	t.Helper()
	ds := pcloud.NewDataset()
	xa, err := pcloud.NewArray(append([]float64{}, xs...), []int{len(xs)})
	require.NoError(t, err)
	ya, err := pcloud.NewArray(append([]float64{}, ys...), []int{len(ys)})
	require.NoError(t, err)
	require.NoError(t, ds.Add("x", xa))
	require.NoError(t, ds.Add("y", ya))
	return ds
}

func TestPoints_ScopedPCAggregatesSubtree(t *testing.T) {
	rootPC := map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{0}, []float64{0})}
	rootNode := NewPoints(rootPC)

	childPC := map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{1, 2}, []float64{1, 2})}
	childNode := NewPoints(childPC)
	rootNode.Insert(childNode)

	scope := Scope{PCName: "3d", Coords: []string{"x", "y"}, MaxDepth: 0}
	dd, err := rootNode.Value.ScopedPC(scope)
	require.NoError(t, err)
	assert.Equal(t, 3, dd.Size())
}

func TestPoints_ScopedPCRespectsMaxDepth(t *testing.T) {
	rootPC := map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{0}, []float64{0})}
	rootNode := NewPoints(rootPC)
	childNode := NewPoints(map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{1}, []float64{1})})
	rootNode.Insert(childNode)

	scope := Scope{PCName: "3d", Coords: []string{"x", "y"}, MaxDepth: 1}
	dd, err := rootNode.Value.ScopedPC(scope)
	require.NoError(t, err)
	assert.Equal(t, 1, dd.Size(), "depth 1 must not include the child")
}

func TestPoints_ScopedKDCachesAndAnswersNearestNeighbor(t *testing.T) {
	rootPC := map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{0, 5}, []float64{0, 5})}
	rootNode := NewPoints(rootPC)
	scope := Scope{PCName: "3d", Coords: []string{"x", "y"}, MaxDepth: 0}

	tree1, err := rootNode.Value.ScopedKD(scope, kdtree.L2Simple)
	require.NoError(t, err)
	tree2, err := rootNode.Value.ScopedKD(scope, kdtree.L2Simple)
	require.NoError(t, err)
	assert.Same(t, tree1, tree2, "second call must hit the cache")

	nn, ok := tree1.NearestNeighbor([]float64{0.1, 0.1})
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, nn)
}

func TestPoints_OnRemoveInvalidatesCache(t *testing.T) {
	rootPC := map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{0}, []float64{0})}
	rootNode := NewPoints(rootPC)
	childNode := NewPoints(map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{1}, []float64{1})})
	rootNode.Insert(childNode)

	scope := Scope{PCName: "3d", Coords: []string{"x", "y"}, MaxDepth: 0}
	dd1, err := rootNode.Value.ScopedPC(scope)
	require.NoError(t, err)
	assert.Equal(t, 2, dd1.Size())

	_, err = rootNode.Remove(childNode)
	require.NoError(t, err)

	dd2, err := rootNode.Value.ScopedPC(scope)
	require.NoError(t, err)
	assert.Equal(t, 1, dd2.Size())
}

// TestPoints_ScopedKDNeighborIndexResolvesViaDisjointAddress exercises
// the KDTree query -> DisjointDataset.Address path: ScopedKD builds its
// Tree over the rows of ScopedPC's DisjointSelection, so a Neighbor's
// Index is a flat row index addressable back to (part, offset) across
// the node's own local Dataset and its descendants'.
func TestPoints_ScopedKDNeighborIndexResolvesViaDisjointAddress(t *testing.T) {
	rootPC := map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{0}, []float64{0})}
	rootNode := NewPoints(rootPC)
	childNode := NewPoints(map[string]*pcloud.Dataset{"3d": pcOf(t, []float64{1, 9}, []float64{1, 9})})
	rootNode.Insert(childNode)

	scope := Scope{PCName: "3d", Coords: []string{"x", "y"}, MaxDepth: 0}
	tree, err := rootNode.Value.ScopedKD(scope, kdtree.L2Simple)
	require.NoError(t, err)

	got, err := tree.KNN([]float64{1.1, 1.1}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []float64{1, 1}, got[0].Point)

	dd, err := rootNode.Value.ScopedPC(scope)
	require.NoError(t, err)
	part, offset, err := dd.Address(got[0].Index)
	require.NoError(t, err)
	assert.Equal(t, 1, part, "the matched point lives in the child's part")
	assert.Equal(t, 0, offset, "it is the first row within that part")
}
