package pcloud

// PointGraph pairs a "nodes" Dataset with an "edges" Dataset, recovered
// from original_source/util/inc/WireCellUtil/PointGraph.h: spec.md's
// TensorDM bullet list names "pcgraph" tensors without spelling out the
// Go-side struct they round-trip.
type PointGraph struct {
	Nodes *Dataset
	Edges *Dataset
}
