package pointtree

import (
	"fmt"
	"sync"

	"github.com/lartpc-toolkit/wctgo/pkg/kdtree"
	"github.com/lartpc-toolkit/wctgo/pkg/narytree"
	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// Points is the value type bound to each narytree.Node in a point-cloud
// tree: a name->Dataset map of point clouds local to that node, plus
// scope-keyed caches of the disjoint union and k-d tree computed across
// that node's subtree. Grounded on PointTree.h's Points : public
// NaryTree::Notified<Points>.
type Points struct {
	node *narytree.Node[*Points]

	local map[string]*pcloud.Dataset

	mu    sync.Mutex
	djds  map[uint64]*pcloud.DisjointDataset
	trees map[uint64]*kdtree.Tree
}

// NewPoints builds a Points value owning the given named local point
// clouds (copied by reference, not cloned) and wraps it in a fresh
// narytree.Node.
func NewPoints(local map[string]*pcloud.Dataset) *narytree.Node[*Points] {
	p := &Points{
		local: local,
		djds:  map[uint64]*pcloud.DisjointDataset{},
		trees: map[uint64]*kdtree.Tree{},
	}
	return narytree.New(p)
}

// Node returns the narytree.Node this Points value is bound to.
func (p *Points) Node() *narytree.Node[*Points] { return p.node }

// LocalPC returns the node-local Dataset named name, or nil if absent.
func (p *Points) LocalPC(name string) *pcloud.Dataset { return p.local[name] }

// LocalPCs returns the full node-local name->Dataset map.
func (p *Points) LocalPCs() map[string]*pcloud.Dataset { return p.local }

// OnConstruct binds p to its owning node, matching PointTree.h's
// Points::on_construct.
func (p *Points) OnConstruct(node *narytree.Node[*Points]) {
	p.node = node
}

// OnInsert invalidates this node's scope caches (a new descendant may
// change what a scoped aggregation over this subtree contains) and keeps
// propagating up the ancestor chain.
func (p *Points) OnInsert(path []*narytree.Node[*Points]) bool {
	p.invalidate()
	return true
}

// OnRemove invalidates this node's scope caches wholesale. This mirrors
// PointTree.h's documented "brutal" behavior: removal drops entire
// cached scope entries rather than attempting fine-grained point
// removal from an already-built k-d tree or disjoint union.
func (p *Points) OnRemove(path []*narytree.Node[*Points]) bool {
	p.invalidate()
	return true
}

func (p *Points) invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.djds = map[uint64]*pcloud.DisjointDataset{}
	p.trees = map[uint64]*kdtree.Tree{}
}

// ScopedPC returns the disjoint union of the named point cloud
// scope.PCName across p's node and its descendants down to
// scope.MaxDepth levels, building and caching it on first request.
func (p *Points) ScopedPC(scope Scope) (*pcloud.DisjointDataset, error) {
	key := scope.Hash()
	p.mu.Lock()
	if dd, ok := p.djds[key]; ok {
		p.mu.Unlock()
		return dd, nil
	}
	p.mu.Unlock()

	dd := pcloud.NewDisjointDataset()
	for _, n := range p.node.Depth(scope.MaxDepth) {
		ds := n.Value.LocalPC(scope.PCName)
		if ds != nil {
			dd.Append(ds)
		}
	}

	p.mu.Lock()
	p.djds[key] = dd
	p.mu.Unlock()
	return dd, nil
}

// ScopedKD builds (or returns the cached) k-d tree over scope.Coords
// columns of ScopedPC(scope), raising ValueError if a previously cached
// tree for this scope was built with a different metric (a type/shape
// collision), matching PointTree.h's scoped_kd dynamic_cast check.
func (p *Points) ScopedKD(scope Scope, metric kdtree.Metric) (*kdtree.Tree, error) {
	key := scope.Hash()
	p.mu.Lock()
	if t, ok := p.trees[key]; ok {
		p.mu.Unlock()
		if t.Metric() != metric {
			return nil, fmt.Errorf("pointtree: ScopedKD: %w: cached tree uses a different metric", wcterr.ErrValue)
		}
		return t, nil
	}
	p.mu.Unlock()

	dd, err := p.ScopedPC(scope)
	if err != nil {
		return nil, err
	}
	sel, err := dd.Selection(scope.Coords)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, sel.Size())
	for i := range rows {
		pt, err := sel.Point(i)
		if err != nil {
			return nil, err
		}
		row := make([]float64, pt.Dim())
		for d := 0; d < pt.Dim(); d++ {
			v, err := pt.At(d)
			if err != nil {
				return nil, err
			}
			row[d] = v
		}
		rows[i] = row
	}
	tree, err := kdtree.NewStatic(rows, metric)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.trees[key] = tree
	p.mu.Unlock()
	return tree, nil
}
