// Package pointtree binds named point clouds (pkg/pcloud Datasets) to
// narytree nodes and provides scoped, cached aggregation across a
// subtree: the disjoint union of one named point cloud across a node and
// its descendants (to a depth limit), and a k-d tree built over chosen
// coordinate columns of that union.
//
// Grounded on WireCellUtil/PointTree.h's Scope/KDTree<ValueType>/Points.
package pointtree

import "hash/fnv"

// Scope identifies a cached aggregation: which named point cloud to
// union ("pcname"), which of its arrays to treat as coordinate columns,
// and how many tree levels below a node to descend, grounded on
// PointTree.h's Scope{pcname, coords, depth}.
type Scope struct {
	PCName   string
	Coords   []string
	MaxDepth int
}

// Equal reports value equality (same pcname, same coords in the same
// order, same depth), matching PointTree.h's Scope::operator==.
func (s Scope) Equal(o Scope) bool {
	if s.PCName != o.PCName || s.MaxDepth != o.MaxDepth || len(s.Coords) != len(o.Coords) {
		return false
	}
	for i := range s.Coords {
		if s.Coords[i] != o.Coords[i] {
			return false
		}
	}
	return true
}

// Hash returns a stable FNV-1a hash over the Scope's fields, making
// Scope usable as a map key even though it embeds a slice (Go map keys
// cannot contain slices directly) — Go's comparable-key maps key on
// this Hash rather than the struct itself, matching PointTree.h's
// std::hash<Scope> specialization used to back an unordered_map.
func (s Scope) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.PCName))
	h.Write([]byte{0})
	for _, c := range s.Coords {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	var depthBytes [8]byte
	d := uint64(s.MaxDepth)
	for i := range depthBytes {
		depthBytes[i] = byte(d >> (8 * i))
	}
	h.Write(depthBytes[:])
	return h.Sum64()
}
