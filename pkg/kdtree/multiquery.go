package kdtree

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// MultiQuery is a Dataset-backed cache of Trees, keyed by the
// (coordinate-names, dynamic-flag, metric) triple that built them, so
// repeated queries against the same column selection and tree shape
// reuse one built tree instead of rebuilding it. Grounded on the
// Scope-keyed NFKD::Tree cache in WireCellUtil/PointTree.h's
// Points::scoped_kd, generalized here to stand alone from pkg/pointtree
// so any Dataset-backed caller can share it.
type MultiQuery struct {
	ds *pcloud.Dataset

	mu    sync.Mutex
	cache map[string]*Tree
}

// NewMultiQuery returns a MultiQuery over ds's columns.
func NewMultiQuery(ds *pcloud.Dataset) *MultiQuery {
	return &MultiQuery{ds: ds, cache: map[string]*Tree{}}
}

func treeCacheKey(coords []string, dynamic bool, metric Metric) string {
	var b strings.Builder
	b.WriteString(strings.Join(coords, ","))
	b.WriteByte('|')
	if dynamic {
		b.WriteString("dynamic")
	} else {
		b.WriteString("static")
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(metric)))
	return b.String()
}

// Tree returns the cached Tree built over coords's columns with the
// given dynamic shape and metric, building and caching it on first
// request. A cached tree, dynamic or static, does not follow later
// changes to the backing Dataset; Invalidate drops it so the next call
// rebuilds.
func (q *MultiQuery) Tree(coords []string, dynamic bool, metric Metric) (*Tree, error) {
	key := treeCacheKey(coords, dynamic, metric)

	q.mu.Lock()
	if t, ok := q.cache[key]; ok {
		q.mu.Unlock()
		return t, nil
	}
	q.mu.Unlock()

	rows, err := q.rows(coords)
	if err != nil {
		return nil, err
	}

	var tree *Tree
	if dynamic {
		tree = NewDynamic(metric)
		if _, _, err := tree.AddPoints(rows); err != nil {
			return nil, err
		}
	} else {
		tree, err = NewStatic(rows, metric)
		if err != nil {
			return nil, err
		}
	}

	q.mu.Lock()
	q.cache[key] = tree
	q.mu.Unlock()
	return tree, nil
}

func (q *MultiQuery) rows(coords []string) ([][]float64, error) {
	sel := q.ds.Selection(coords)
	if sel == nil {
		return nil, fmt.Errorf("kdtree: MultiQuery: %w: coords %v missing from dataset", wcterr.ErrValue, coords)
	}
	return pcloud.NewCoordinates(sel).AsFloat64Rows()
}

// Invalidate drops every cached tree, forcing the next Tree call for
// each key to rebuild from the current state of the backing Dataset.
func (q *MultiQuery) Invalidate() {
	q.mu.Lock()
	q.cache = map[string]*Tree{}
	q.mu.Unlock()
}

// KNN builds (or reuses) the tree for coords/dynamic/metric and returns
// its k nearest neighbors to query.
func (q *MultiQuery) KNN(coords []string, dynamic bool, metric Metric, query []float64, k int) ([]Neighbor, error) {
	tree, err := q.Tree(coords, dynamic, metric)
	if err != nil {
		return nil, err
	}
	return tree.KNN(query, k)
}
