package tensordm

import (
	"fmt"
	"strconv"

	"github.com/lartpc-toolkit/wctgo/pkg/narytree"
	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/lartpc-toolkit/wctgo/pkg/pointtree"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// PointTreeToTensorSet flattens a point-cloud tree into one TensorSet: a
// "parent" index array (pre-order node index -> parent's pre-order
// index, -1 for the root) plus, for every node and every named local
// point cloud it carries, the tensors DatasetToTensorSet produces under
// the name "<node index>/<pc name>/<array name>".
//
// original_source/util/inc/WireCellUtil/TensorDM.h declares this
// traversal encoding (as_tensorset(const NaryTree::Node<Points>&)) but
// its implementation is a stub returning an empty vector; there is no
// original behavior to port here; the pre-order/parent-index scheme
// below is designed fresh, following the same "index_datapaths" naming
// convention TensorDM.h uses for the pieces that are implemented.
func PointTreeToTensorSet(root *narytree.Node[*pointtree.Points]) (*TensorSet, error) {
	order := root.Depth(0)
	indexOf := make(map[*narytree.Node[*pointtree.Points]]int, len(order))
	for i, n := range order {
		indexOf[n] = i
	}

	parent := make([]int32, len(order))
	out := NewTensorSet()
	for i, n := range order {
		if p := n.Parent(); p != nil {
			parent[i] = int32(indexOf[p])
		} else {
			parent[i] = -1
		}

		for pcName, ds := range n.Value.LocalPCs() {
			base := strconv.Itoa(i) + "/" + pcName
			nodeTS, err := DatasetToTensorSet(ds, base)
			if err != nil {
				return nil, fmt.Errorf("tensordm: PointTreeToTensorSet: node %d pc %q: %w", i, pcName, err)
			}
			for _, arrName := range nodeTS.Names() {
				out.Put(base+"/"+arrName, nodeTS.Get(arrName))
			}
		}
	}

	parentArr, err := pcloud.NewArray(parent, []int{len(parent)})
	if err != nil {
		return nil, err
	}
	parentTensor, err := ArrayToTensor(parentArr)
	if err != nil {
		return nil, err
	}
	out.Put("parent", parentTensor)
	out.Metadata.Set(datatypeKey, DataTypePCTree)
	out.Metadata.Set("nnodes", len(order))
	return out, nil
}

// TensorSetToPointTree is the inverse of PointTreeToTensorSet: it
// rebuilds the narytree.Node chain from the "parent" index array, then
// regroups every "<index>/<pc>/<array>" tensor back into its node's
// named local point clouds.
func TensorSetToPointTree(ts *TensorSet) (*narytree.Node[*pointtree.Points], error) {
	parentTensor := ts.Get("parent")
	if parentTensor == nil {
		return nil, fmt.Errorf("tensordm: TensorSetToPointTree: %w: missing parent tensor", wcterr.ErrValue)
	}
	parentArr, err := TensorToArray(parentTensor)
	if err != nil {
		return nil, err
	}
	parentFlat, err := parentArr.FlatFloat64()
	if err != nil {
		return nil, err
	}
	nnodes := len(parentFlat)

	// group tensors by node index and pc name
	perNode := make([]map[string]*TensorSet, nnodes)
	for i := range perNode {
		perNode[i] = map[string]*TensorSet{}
	}
	for _, name := range ts.Names() {
		if name == "parent" {
			continue
		}
		idxStr, pcName, arrName, ok := splitNodePath(name)
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= nnodes {
			return nil, fmt.Errorf("tensordm: TensorSetToPointTree: %w: malformed tensor name %q", wcterr.ErrValue, name)
		}
		if perNode[idx][pcName] == nil {
			perNode[idx][pcName] = NewTensorSet()
		}
		perNode[idx][pcName].Put(arrName, ts.Get(name))
	}

	nodes := make([]*narytree.Node[*pointtree.Points], nnodes)
	for i := 0; i < nnodes; i++ {
		local := map[string]*pcloud.Dataset{}
		for pcName, subTS := range perNode[i] {
			ds, err := TensorSetToDataset(subTS)
			if err != nil {
				return nil, fmt.Errorf("tensordm: TensorSetToPointTree: node %d pc %q: %w", i, pcName, err)
			}
			local[pcName] = ds
		}
		nodes[i] = pointtree.NewPoints(local)
	}
	var root *narytree.Node[*pointtree.Points]
	for i, p := range parentFlat {
		pi := int(p)
		if pi < 0 {
			root = nodes[i]
			continue
		}
		nodes[pi].Insert(nodes[i])
	}
	if root == nil {
		return nil, fmt.Errorf("tensordm: TensorSetToPointTree: %w: no root (parent=-1) node found", wcterr.ErrValue)
	}
	return root, nil
}

// splitNodePath parses "<index>/<pcName>/<arrName>" tensor names, where
// pcName itself may not contain '/'.
func splitNodePath(name string) (idx, pc, arr string, ok bool) {
	first := -1
	for i, c := range name {
		if c == '/' {
			first = i
			break
		}
	}
	if first < 0 {
		return "", "", "", false
	}
	rest := name[first+1:]
	second := -1
	for i, c := range rest {
		if c == '/' {
			second = i
			break
		}
	}
	if second < 0 {
		return "", "", "", false
	}
	return name[:first], rest[:second], rest[second+1:], true
}
