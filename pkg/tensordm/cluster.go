package tensordm

import (
	"fmt"

	"github.com/lartpc-toolkit/wctgo/pkg/meta"
	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
)

// Cluster is a blob-and-wire connectivity graph held as one
// pcloud.PointGraph: a single nodes Dataset and a single edges Dataset.
// Node and edge types are not kept apart, and ClusterToTensorSet emits
// no per-type clnodeset/cledgeset tensors; it reuses the pcgraph
// nodes/edges layout under a "cluster" head.
type Cluster struct {
	Ident    int
	Graph    *pcloud.PointGraph
	Metadata meta.Tree
}

// ClusterToTensorSet flattens c's graph the same way
// PointGraphToTensorSet does, under a "clusters/<ident>" datapath, then
// re-tags the set's head as a "cluster" Tensor (overriding the "pcgraph"
// tag PointGraphToTensorSet left) and merges in the cluster's own ident
// and metadata, matching TensorDM.h's as_tensorset(const ICluster&).
func ClusterToTensorSet(c *Cluster) (*TensorSet, error) {
	path := fmt.Sprintf("clusters/%d", c.Ident)
	ts, err := PointGraphToTensorSet(c.Graph, path)
	if err != nil {
		return nil, fmt.Errorf("tensordm: ClusterToTensorSet: %w", err)
	}
	if ts.Metadata == nil {
		ts.Metadata = meta.New()
	}
	ts.Metadata.Merge(c.Metadata)
	ts.Metadata.Set(datatypeKey, DataTypeCluster)
	ts.Metadata.Set(datapathKey, path)
	ts.Metadata.Set("ident", c.Ident)
	return ts, nil
}

// TensorSetToCluster is the inverse of ClusterToTensorSet.
func TensorSetToCluster(ts *TensorSet) (*Cluster, error) {
	g, err := TensorSetToPointGraph(ts)
	if err != nil {
		return nil, fmt.Errorf("tensordm: TensorSetToCluster: %w", err)
	}
	return &Cluster{
		Ident:    int(ts.Metadata.GetFloat("ident")),
		Graph:    g,
		Metadata: ts.Metadata.Clone(),
	}, nil
}
