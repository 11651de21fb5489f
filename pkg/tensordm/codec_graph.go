package tensordm

import (
	"fmt"

	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
)

// PointGraphToTensorSet flattens a PointGraph's nodes and edges Datasets
// into one TensorSet under the "<path>/nodes" and "<path>/edges"
// subdatasets spec section 6 defines for a pcgraph, tagging the
// TensorSet's own metadata as a pcgraph head (datatype, datapath, and
// the nodes/edges sub-datapaths), matching TensorDM.h's
// as_tensorset(const PointGraph&).
func PointGraphToTensorSet(g *pcloud.PointGraph, path string) (*TensorSet, error) {
	nodesPath, edgesPath := joinPath(path, "nodes"), joinPath(path, "edges")
	nodes, err := DatasetToTensorSet(g.Nodes, nodesPath)
	if err != nil {
		return nil, fmt.Errorf("tensordm: PointGraphToTensorSet: nodes: %w", err)
	}
	edges, err := DatasetToTensorSet(g.Edges, edgesPath)
	if err != nil {
		return nil, fmt.Errorf("tensordm: PointGraphToTensorSet: edges: %w", err)
	}

	out := NewTensorSet()
	out.Metadata.Set(datatypeKey, DataTypePCGraph)
	out.Metadata.Set(datapathKey, path)
	out.Metadata.Set("nodes", nodesPath)
	out.Metadata.Set("edges", edgesPath)
	for _, name := range nodes.Names() {
		out.Put("nodes/"+name, nodes.Get(name))
	}
	for _, name := range edges.Names() {
		out.Put("edges/"+name, edges.Get(name))
	}
	return out, nil
}

// joinPath prefixes leaf with base + "/", or returns leaf bare if base
// is empty.
func joinPath(base, leaf string) string {
	if base == "" {
		return leaf
	}
	return base + "/" + leaf
}

// TensorSetToPointGraph is the inverse of PointGraphToTensorSet,
// splitting tensors back into a nodes and an edges TensorSet by their
// "nodes/"/"edges/" name prefix (assigned by PointGraphToTensorSet, not
// derived from datapath, so the split is unaffected by how deeply
// datapath itself is nested) before decoding each to a Dataset.
func TensorSetToPointGraph(ts *TensorSet) (*pcloud.PointGraph, error) {
	nodes, edges := NewTensorSet(), NewTensorSet()
	for _, name := range ts.Names() {
		switch {
		case hasPrefix(name, "nodes/"):
			nodes.Put(name[len("nodes/"):], ts.Get(name))
		case hasPrefix(name, "edges/"):
			edges.Put(name[len("edges/"):], ts.Get(name))
		}
	}
	nds, err := TensorSetToDataset(nodes)
	if err != nil {
		return nil, fmt.Errorf("tensordm: TensorSetToPointGraph: nodes: %w", err)
	}
	eds, err := TensorSetToDataset(edges)
	if err != nil {
		return nil, fmt.Errorf("tensordm: TensorSetToPointGraph: edges: %w", err)
	}
	return &pcloud.PointGraph{Nodes: nds, Edges: eds}, nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
