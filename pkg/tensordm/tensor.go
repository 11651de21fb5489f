// Package tensordm implements the tensor data model (TensorDM): a
// byte-oriented, self-describing Tensor type and the codecs that move
// pcloud's Array/Dataset/PointGraph types (and the higher-level frame and
// cluster concepts built from them) to and from flat TensorSets suitable
// for wire serialization.
//
// Grounded on original_source/util/inc/WireCellUtil/TensorDM.h, which
// defines the as_tensor/as_dataset/as_pointgraph family this package
// reproduces; the byte-oriented Tensor shape itself is adapted from the
// teacher's pkg/core/math/tensor.Tensor (a shape+flat-[]float32 pair),
// generalized to pcloud's multi-dtype, metadata-bearing Array.
package tensordm

import (
	"fmt"
	"regexp"

	"github.com/lartpc-toolkit/wctgo/pkg/meta"
	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// datatypeKey is the Tensor/TensorSet metadata key that drives decoding,
// matching TensorDM.h's "datatype" metadata convention: every self
// describing tensor carries one of the tags below so first_of/top_tensor
// can recover it without the caller knowing the shape in advance.
const datatypeKey = "datatype"

// Datatype tags defined by TensorDM.h / spec section 4.10.
const (
	DataTypePCArray   = "pcarray"
	DataTypePCDataset = "pcdataset"
	DataTypePCGraph   = "pcgraph"
	DataTypePCTree    = "pctree"
	DataTypeFrame     = "frame"
	DataTypeCluster   = "cluster"
)

// Tensor is a flat byte buffer plus enough metadata to reinterpret it: a
// shape, an element dtype tag borrowed from pcloud, and a free-form
// metadata tree (the array/dataset name, a PointTree path, a datapath
// string used by index_datapaths, etc. all live in Metadata rather than
// as dedicated fields, matching TensorDM.h's single untyped metadata
// object per tensor).
type Tensor struct {
	Shape    []int
	DType    pcloud.DataType
	Data     []byte
	Metadata meta.Tree
}

// TensorSet is an ordered, named bundle of Tensors plus a set-level
// metadata tree, matching TensorDM.h's vector<Tensor::pointer> plus a
// top-level Dataset-as-metadata convention. Order is preserved so a
// TensorSet round-trips deterministically.
type TensorSet struct {
	Metadata meta.Tree
	names    []string
	byName   map[string]*Tensor
}

// NewTensorSet returns an empty TensorSet.
func NewTensorSet() *TensorSet {
	return &TensorSet{Metadata: meta.New(), byName: map[string]*Tensor{}}
}

// Put adds or replaces the tensor named name, preserving first-insertion
// order.
func (ts *TensorSet) Put(name string, t *Tensor) {
	if _, ok := ts.byName[name]; !ok {
		ts.names = append(ts.names, name)
	}
	ts.byName[name] = t
}

// Get returns the tensor named name, or nil if absent.
func (ts *TensorSet) Get(name string) *Tensor { return ts.byName[name] }

// Names returns the tensor names in insertion order.
func (ts *TensorSet) Names() []string {
	out := make([]string, len(ts.names))
	copy(out, ts.names)
	return out
}

// Len reports the number of tensors in the set.
func (ts *TensorSet) Len() int { return len(ts.names) }

// datapathOf returns t's "datapath" metadata, falling back to its
// TensorSet name if the tensor carries none.
func (ts *TensorSet) datapathOf(name string) string {
	if p := ts.byName[name].Metadata.GetString(datapathKey); p != "" {
		return p
	}
	return name
}

// IndexDatapaths builds a datapath -> Tensor index over the whole set,
// matching TensorDM.h's index_datapaths helper query.
func (ts *TensorSet) IndexDatapaths() map[string]*Tensor {
	out := make(map[string]*Tensor, len(ts.names))
	for _, name := range ts.names {
		out[ts.datapathOf(name)] = ts.byName[name]
	}
	return out
}

// FirstOf returns the first tensor (in TensorSet order) whose "datatype"
// metadata equals datatype, or nil if none match, matching TensorDM.h's
// first_of helper query.
func (ts *TensorSet) FirstOf(datatype string) *Tensor {
	for _, name := range ts.names {
		if t := ts.byName[name]; t.Metadata.GetString(datatypeKey) == datatype {
			return t
		}
	}
	return nil
}

// MatchAt returns every tensor whose datapath matches the regular
// expression pattern, matching TensorDM.h's match_at helper query.
func (ts *TensorSet) MatchAt(pattern string) ([]*Tensor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("tensordm: MatchAt: %w: %v", wcterr.ErrValue, err)
	}
	var out []*Tensor
	for _, name := range ts.names {
		if re.MatchString(ts.datapathOf(name)) {
			out = append(out, ts.byName[name])
		}
	}
	return out, nil
}

// TopTensor returns the tensor at datapath if its "datatype" metadata
// equals datatype, or nil otherwise, matching TensorDM.h's top_tensor
// helper query: a combined identity+type check used to fetch a
// subtree's head tensor without trusting datapath alone.
func (ts *TensorSet) TopTensor(datatype, datapath string) *Tensor {
	t, ok := ts.IndexDatapaths()[datapath]
	if !ok || t.Metadata.GetString(datatypeKey) != datatype {
		return nil
	}
	return t
}

// elementSize mirrors pcloud.DataType.ElementSize but is restated here
// since tensordm treats dtype as a wire tag rather than reaching back
// into pcloud for every byte computation.
func elementSize(dt pcloud.DataType) (int, error) {
	n := dt.ElementSize()
	if n == 0 {
		return 0, fmt.Errorf("tensordm: elementSize: %w: unknown dtype %v", wcterr.ErrType, dt)
	}
	return n, nil
}

func shapeSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// validate checks that len(Data) matches Shape/DType, raising ValueError
// otherwise.
func (t *Tensor) validate() error {
	size, err := elementSize(t.DType)
	if err != nil {
		return err
	}
	want := shapeSize(t.Shape) * size
	if len(t.Data) != want {
		return fmt.Errorf("tensordm: Tensor: %w: shape %v dtype %v wants %d bytes, got %d",
			wcterr.ErrValue, t.Shape, t.DType, want, len(t.Data))
	}
	return nil
}
