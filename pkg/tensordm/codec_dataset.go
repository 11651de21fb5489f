package tensordm

import (
	"fmt"
	"strings"

	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// datapathKey is the Tensor/TensorSet metadata key recording a tensor's
// cross-reference path, matching TensorDM.h's "datapath" metadata
// convention used by index_datapaths/top_tensor.
const datapathKey = "datapath"

// arraysKey names the pcdataset head's metadata entry listing its array
// names and their datapaths, matching TensorDM.h's pcdataset shape
// ("metadata includes... arrays").
const arraysKey = "arrays"

// arrayPath builds the "<base>/arrays/<name>" datapath the path syntax
// in spec section 6 defines for a pcdataset's array children. base may
// be empty when the dataset is encoded at a TensorSet's own root.
func arrayPath(base, name string) string {
	if base == "" {
		return "arrays/" + name
	}
	return base + "/arrays/" + name
}

// arrayNameOf recovers an array's bare name from its datapath (the
// trailing path segment), falling back to fallback if datapath is
// empty. Using the trailing segment rather than the whole path keeps
// decoding correct regardless of how many namespacing prefixes an outer
// codec (pcgraph, pctree, frame) layers on top of "<base>/arrays/<name>".
func arrayNameOf(datapath, fallback string) string {
	if datapath == "" {
		return fallback
	}
	if i := strings.LastIndexByte(datapath, '/'); i >= 0 {
		return datapath[i+1:]
	}
	return datapath
}

// DatasetToTensorSet flattens every array in ds into its own pcarray
// Tensor under "<path>/arrays/<name>", and tags the TensorSet's own
// metadata as a pcdataset head (datatype, datapath, and an "arrays"
// name->datapath index), matching TensorDM.h's as_tensorset(const
// Dataset&) and the self-describing contract of spec section 4.10.
func DatasetToTensorSet(ds *pcloud.Dataset, path string) (*TensorSet, error) {
	ts := NewTensorSet()
	ts.Metadata = ds.Metadata.Clone()
	ts.Metadata.Set(datatypeKey, DataTypePCDataset)
	ts.Metadata.Set(datapathKey, path)

	arrays := make(map[string]any, len(ds.Keys()))
	for _, name := range ds.Keys() {
		t, err := ArrayToTensor(ds.Get(name))
		if err != nil {
			return nil, fmt.Errorf("tensordm: DatasetToTensorSet: array %q: %w", name, err)
		}
		sub := arrayPath(path, name)
		t.Metadata.Set(datapathKey, sub)
		arrays[name] = sub
		ts.Put(name, t)
	}
	ts.Metadata.Set(arraysKey, arrays)
	return ts, nil
}

// TensorSetToDataset rebuilds a Dataset from a TensorSet built by
// DatasetToTensorSet, using each tensor's "datapath" metadata (falling
// back to its TensorSet name) to recover the array's bare name. The
// pcdataset bookkeeping keys DatasetToTensorSet adds to the TensorSet's
// own metadata (datatype, datapath, arrays) are stripped back out so the
// rebuilt Dataset's metadata matches what was originally encoded.
func TensorSetToDataset(ts *TensorSet) (*pcloud.Dataset, error) {
	ds := pcloud.NewDataset()
	ds.Metadata = ts.Metadata.Clone()
	delete(ds.Metadata, datatypeKey)
	delete(ds.Metadata, datapathKey)
	delete(ds.Metadata, arraysKey)
	for _, name := range ts.Names() {
		t := ts.Get(name)
		arr, err := TensorToArray(t)
		if err != nil {
			return nil, fmt.Errorf("tensordm: TensorSetToDataset: tensor %q: %w", name, err)
		}
		key := arrayNameOf(t.Metadata.GetString(datapathKey), name)
		if err := ds.Add(key, arr); err != nil {
			return nil, fmt.Errorf("tensordm: TensorSetToDataset: %w", wcterr.ErrLogic)
		}
	}
	return ds, nil
}

// NamedTensorSet bundles several point clouds, each under its own name,
// into one tagged TensorSet collection, matching the "pcnamedset"
// convention in the spec's TensorDM bullet list: a frame can carry both
// a "3d" and a "wires" point cloud side by side.
type NamedTensorSet map[string]*TensorSet

// namedpcPath builds the "<base>/namedpcs/<name>" datapath spec section 6
// defines for the datasets held by a pcnamedset.
func namedpcPath(base, name string) string {
	if base == "" {
		return "namedpcs/" + name
	}
	return base + "/namedpcs/" + name
}

// DatasetsToNamedTensorSet converts a name->Dataset map (as used by
// pointtree.Points' local point clouds) into a NamedTensorSet, each
// entry's TensorSet tagged with its "<base>/namedpcs/<name>" datapath.
func DatasetsToNamedTensorSet(pcs map[string]*pcloud.Dataset) (NamedTensorSet, error) {
	out := make(NamedTensorSet, len(pcs))
	for name, ds := range pcs {
		ts, err := DatasetToTensorSet(ds, namedpcPath("", name))
		if err != nil {
			return nil, fmt.Errorf("tensordm: DatasetsToNamedTensorSet: pc %q: %w", name, err)
		}
		out[name] = ts
	}
	return out, nil
}

// NamedTensorSetToDatasets is the inverse of DatasetsToNamedTensorSet.
func NamedTensorSetToDatasets(n NamedTensorSet) (map[string]*pcloud.Dataset, error) {
	out := make(map[string]*pcloud.Dataset, len(n))
	for name, ts := range n {
		ds, err := TensorSetToDataset(ts)
		if err != nil {
			return nil, fmt.Errorf("tensordm: NamedTensorSetToDatasets: pc %q: %w", name, err)
		}
		out[name] = ds
	}
	return out, nil
}
