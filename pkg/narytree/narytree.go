// Package narytree implements a generic n-ary tree of owned nodes with a
// notification hook a node's Value type can optionally implement.
//
// Grounded on the teacher's x/math/graph/tree.go GenericTree, but
// restructured from index-table storage (parentIdx/childIdxs into a
// flat slice) to pointer-owned storage (each Node holds its children as
// []*Node[V] and a single parent *Node[V]) because the spec requires
// "steal from another parent on insert" and "return ownership on
// remove" semantics an index table cannot express without an extra
// liveness/generation scheme. The owned-pointer shape, sibling/path
// navigation and the optional notify hook are grounded on
// WireCellUtil/NaryTree.h's Node<Value> and Notified<Data>.
package narytree

import "fmt"

// Notified is the optional interface a Node's Value type may implement
// to observe construction, insertion and removal. Use of an interface
// assertion at each call site (rather than requiring every V to
// implement it) mirrors NaryTree.h's SFINAE-based "detection idiom":
// a Value type that does not implement Notified is simply never called.
type Notified[V any] interface {
	// OnConstruct fires once, right after the owning Node is allocated.
	OnConstruct(node *Node[V])
	// OnInsert fires for the inserted node and then, as long as each
	// hook keeps returning true, for every ancestor up to the root.
	// path is the inserted node followed by the ancestors visited so
	// far (leaf-to-root order, growing as propagation continues).
	OnInsert(path []*Node[V]) bool
	// OnRemove fires the same way as OnInsert, just before the node is
	// actually unlinked from its parent.
	OnRemove(path []*Node[V]) bool
}

// NotifiedBase is a zero-cost embeddable default implementation of
// Notified: OnConstruct is a no-op and OnInsert/OnRemove keep propagating
// (return true), matching NaryTree.h's Notified<Data> base class
// defaults. Embed it in a Value type and override only the hooks that
// matter.
type NotifiedBase[V any] struct{}

func (NotifiedBase[V]) OnConstruct(*Node[V])          {}
func (NotifiedBase[V]) OnInsert(path []*Node[V]) bool { return true }
func (NotifiedBase[V]) OnRemove(path []*Node[V]) bool { return true }

// Node is one element of an n-ary tree. Children are owned: a Node
// reachable from children is never reachable from anywhere else in the
// tree at the same time (Insert steals it from its previous parent).
type Node[V any] struct {
	Value    V
	parent   *Node[V]
	children []*Node[V]
}

// New allocates a fresh, parentless Node wrapping value and fires
// OnConstruct if Value implements Notified.
func New[V any](value V) *Node[V] {
	n := &Node[V]{Value: value}
	if nv, ok := hook[V](n); ok {
		nv.OnConstruct(n)
	}
	return n
}

// hook reports whether n's Value implements Notified[V]. Every call site
// in this tree instantiates V as a pointer type (e.g. *Points), so the
// assertion is against n.Value itself, not its address: &n.Value would be
// a **T, whose method set is always empty regardless of what methods T or
// *T declare.
func hook[V any](n *Node[V]) (Notified[V], bool) {
	nv, ok := any(n.Value).(Notified[V])
	return nv, ok
}

// Parent returns the node's parent, or nil if it is a root.
func (n *Node[V]) Parent() *Node[V] { return n.parent }

// Children returns the node's children in sibling order. The returned
// slice is a copy; mutating it does not affect the tree.
func (n *Node[V]) Children() []*Node[V] {
	out := make([]*Node[V], len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of direct children.
func (n *Node[V]) NumChildren() int { return len(n.children) }

// Insert attaches child as n's last child. If child already has a
// parent, it is first removed from it (ownership transfer), matching
// NaryTree.h's Node::insert(Node*) "steal" behavior.
func (n *Node[V]) Insert(child *Node[V]) *Node[V] {
	if child.parent != nil {
		_, _ = child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	notifyInsert(child, []*Node[V]{child})
	return child
}

// InsertValue wraps value in a new Node and inserts it as n's child.
func (n *Node[V]) InsertValue(value V) *Node[V] {
	return n.Insert(New(value))
}

func notifyInsert[V any](cur *Node[V], path []*Node[V]) {
	for cur != nil {
		nv, ok := hook[V](cur)
		keep := true
		if ok {
			keep = nv.OnInsert(path)
		}
		if !keep || cur.parent == nil {
			return
		}
		path = append(path, cur.parent)
		cur = cur.parent
	}
}

// Remove detaches child from n's children and returns it, now parentless
// and ready to be re-inserted elsewhere. Raises an error if child is not
// one of n's children. OnRemove fires (for child and then propagating to
// ancestors) before the detach happens, matching NaryTree.h's ordering.
func (n *Node[V]) Remove(child *Node[V]) (*Node[V], error) {
	idx := -1
	for i, c := range n.children {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("narytree: Remove: node is not a child of n")
	}
	notifyRemove(child, []*Node[V]{child})
	n.children = append(n.children[:idx:idx], n.children[idx+1:]...)
	child.parent = nil
	return child, nil
}

func notifyRemove[V any](cur *Node[V], path []*Node[V]) {
	for cur != nil {
		nv, ok := hook[V](cur)
		keep := true
		if ok {
			keep = nv.OnRemove(path)
		}
		if !keep || cur.parent == nil {
			return
		}
		path = append(path, cur.parent)
		cur = cur.parent
	}
}

// SiblingIndex returns n's position among its parent's children, or -1
// if n is a root.
func (n *Node[V]) SiblingIndex() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// SiblingPath returns the sequence of sibling indices from the root down
// to n (root-to-leaf order), the inverse of walking via Children()[i]
// repeatedly starting at the tree's root.
func (n *Node[V]) SiblingPath() []int {
	var rev []int
	for cur := n; cur.parent != nil; cur = cur.parent {
		rev = append(rev, cur.SiblingIndex())
	}
	out := make([]int, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// First returns n's first sibling (including itself if n has no parent).
func (n *Node[V]) First() *Node[V] {
	if n.parent == nil || len(n.parent.children) == 0 {
		return n
	}
	return n.parent.children[0]
}

// Last returns n's last sibling.
func (n *Node[V]) Last() *Node[V] {
	if n.parent == nil || len(n.parent.children) == 0 {
		return n
	}
	return n.parent.children[len(n.parent.children)-1]
}

// Next returns n's next sibling, or nil if n is the last child (or a root).
func (n *Node[V]) Next() *Node[V] {
	i := n.SiblingIndex()
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// Prev returns n's previous sibling, or nil if n is the first child (or a root).
func (n *Node[V]) Prev() *Node[V] {
	i := n.SiblingIndex()
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// Depth returns every node in n's subtree visited depth-first,
// pre-order: 0 means unlimited depth, 1 means n itself only, 2 means n
// and its direct children, and so on, grounded on NaryTree.h's
// depth_range/depth_iter as scoped by PointTree.h's Scope::depth.
func (n *Node[V]) Depth(maxDepth int) []*Node[V] {
	var out []*Node[V]
	var walk func(cur *Node[V], level int)
	walk = func(cur *Node[V], level int) {
		out = append(out, cur)
		if maxDepth > 0 && level+1 >= maxDepth {
			return
		}
		for _, c := range cur.children {
			walk(c, level+1)
		}
	}
	walk(n, 0)
	return out
}
