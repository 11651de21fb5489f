package narytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	NotifiedBase[*recorder]
	name        string
	constructed bool
	inserts     int
	removes     int
}

func TestNode_InsertBuildsParentChildLinks(t *testing.T) {
	root := New(&recorder{name: "root"})
	child := root.InsertValue(&recorder{name: "child"})

	assert.Equal(t, root, child.Parent())
	assert.Equal(t, 1, root.NumChildren())
	assert.Same(t, child, root.Children()[0])
}

func TestNode_InsertStealsFromPreviousParent(t *testing.T) {
	a := New(&recorder{name: "a"})
	b := New(&recorder{name: "b"})
	child := a.InsertValue(&recorder{name: "child"})

	b.Insert(child)
	assert.Equal(t, 0, a.NumChildren())
	assert.Equal(t, 1, b.NumChildren())
	assert.Same(t, b, child.Parent())
}

func TestNode_RemoveDetaches(t *testing.T) {
	root := New(&recorder{name: "root"})
	child := root.InsertValue(&recorder{name: "child"})

	got, err := root.Remove(child)
	require.NoError(t, err)
	assert.Same(t, child, got)
	assert.Nil(t, child.Parent())
	assert.Equal(t, 0, root.NumChildren())
}

func TestNode_RemoveNonChildErrors(t *testing.T) {
	root := New(&recorder{name: "root"})
	other := New(&recorder{name: "other"})
	_, err := root.Remove(other)
	require.Error(t, err)
}

func TestNode_SiblingNavigation(t *testing.T) {
	root := New(&recorder{name: "root"})
	c0 := root.InsertValue(&recorder{name: "c0"})
	c1 := root.InsertValue(&recorder{name: "c1"})
	c2 := root.InsertValue(&recorder{name: "c2"})

	assert.Equal(t, 1, c1.SiblingIndex())
	assert.Same(t, c0, c1.Prev())
	assert.Same(t, c2, c1.Next())
	assert.Same(t, c0, c2.First())
	assert.Same(t, c2, c0.Last())
	assert.Nil(t, c2.Next())
	assert.Nil(t, c0.Prev())
}

func TestNode_SiblingPath(t *testing.T) {
	root := New(&recorder{name: "root"})
	branch := root.InsertValue(&recorder{name: "branch"})
	_ = root.InsertValue(&recorder{name: "branch-sibling"})
	leaf := branch.InsertValue(&recorder{name: "leaf"})
	_ = branch.InsertValue(&recorder{name: "leaf-sibling"})

	assert.Equal(t, []int{0, 0}, leaf.SiblingPath())
}

func TestNode_DepthLimitedTraversal(t *testing.T) {
	root := New(&recorder{name: "root"})
	c := root.InsertValue(&recorder{name: "c"})
	c.InsertValue(&recorder{name: "gc"})

	assert.Len(t, root.Depth(1), 1)
	assert.Len(t, root.Depth(2), 2)
	assert.Len(t, root.Depth(0), 3)
}

// notifyingValue is its own Node's value and records every hook call,
// demonstrating the detection idiom: only values implementing Notified
// are called, and OnInsert/OnRemove propagate up through ancestors as
// long as each hook returns true.
type notifyingValue struct {
	name  string
	trail *[]string
}

func (v *notifyingValue) OnConstruct(node *Node[*notifyingValue]) {
	*v.trail = append(*v.trail, "construct:"+v.name)
}
func (v *notifyingValue) OnInsert(path []*Node[*notifyingValue]) bool {
	*v.trail = append(*v.trail, "insert:"+v.name)
	return true
}
func (v *notifyingValue) OnRemove(path []*Node[*notifyingValue]) bool {
	*v.trail = append(*v.trail, "remove:"+v.name)
	return true
}

func TestNode_NotifyPropagatesToAncestors(t *testing.T) {
	var trail []string
	root := New(&notifyingValue{name: "root", trail: &trail})
	mid := root.InsertValue(&notifyingValue{name: "mid", trail: &trail})
	trail = nil // reset after setup churn

	leaf := mid.InsertValue(&notifyingValue{name: "leaf", trail: &trail})
	assert.Equal(t, []string{"construct:leaf", "insert:leaf", "insert:mid", "insert:root"}, trail)

	trail = nil
	_, err := mid.Remove(leaf)
	require.NoError(t, err)
	assert.Equal(t, []string{"remove:leaf", "remove:mid", "remove:root"}, trail)
}

// haltingValue stops propagation at itself by returning false.
type haltingValue struct {
	NotifiedBase[*haltingValue]
	calls *int
}

func (v *haltingValue) OnInsert(path []*Node[*haltingValue]) bool {
	*v.calls++
	return false
}

func TestNode_NotifyStopsWhenHookReturnsFalse(t *testing.T) {
	var calls int
	root := New(&haltingValue{calls: &calls})
	mid := root.InsertValue(&haltingValue{calls: &calls})
	calls = 0
	mid.InsertValue(&haltingValue{calls: &calls})
	// leaf itself halts, so root/mid must not be notified.
	assert.Equal(t, 1, calls)
}
