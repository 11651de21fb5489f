package pcloud

import (
	"fmt"
	"sort"

	"github.com/lartpc-toolkit/wctgo/pkg/meta"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// AppendCallback is invoked, in registration order, synchronously after
// a successful Append/Extend with the half-open [beg, end) row range that
// was added, matching PointCloudDataset.h's append_callback_f contract.
type AppendCallback func(beg, end int)

// Dataset is a named collection of Arrays that all agree on the extent of
// their major axis. Keys are kept sorted so Keys() is deterministic,
// mirroring the std::map<string, Array> backing store in
// WireCellUtil/PointCloudDataset.h.
type Dataset struct {
	store     map[string]*Array
	keys      []string // kept sorted
	Metadata  meta.Tree
	callbacks []AppendCallback
}

// NewDataset returns an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{store: map[string]*Array{}, Metadata: meta.New()}
}

// NewDatasetFrom builds a Dataset from a name->Array map, validating the
// equal-major-axis invariant up front.
func NewDatasetFrom(arrays map[string]*Array) (*Dataset, error) {
	ds := NewDataset()
	for name, arr := range arrays {
		if err := ds.Add(name, arr); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Keys returns the sorted array names.
func (d *Dataset) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Has reports whether name is present.
func (d *Dataset) Has(name string) bool {
	_, ok := d.store[name]
	return ok
}

// Get returns the array at name, or nil if absent.
func (d *Dataset) Get(name string) *Array {
	return d.store[name]
}

// Empty reports whether the Dataset has no arrays.
func (d *Dataset) Empty() bool { return len(d.store) == 0 }

// SizeMajor returns the common major-axis extent, or 0 if the Dataset has
// no arrays.
func (d *Dataset) SizeMajor() int {
	if len(d.keys) == 0 {
		return 0
	}
	return d.store[d.keys[0]].SizeMajor()
}

// Add inserts a new named array, raising ValueError if the name already
// exists or if arr disagrees with the Dataset's established major-axis
// extent.
func (d *Dataset) Add(name string, arr *Array) error {
	if _, ok := d.store[name]; ok {
		return fmt.Errorf("pcloud: Dataset.Add %q: %w: name already present", name, wcterr.ErrValue)
	}
	if len(d.keys) > 0 && arr.SizeMajor() != d.SizeMajor() {
		return fmt.Errorf("pcloud: Dataset.Add %q: %w: major axis %d disagrees with dataset's %d",
			name, wcterr.ErrValue, arr.SizeMajor(), d.SizeMajor())
	}
	d.store[name] = arr
	idx := sort.SearchStrings(d.keys, name)
	d.keys = append(d.keys, "")
	copy(d.keys[idx+1:], d.keys[idx:])
	d.keys[idx] = name
	return nil
}

// Missing returns the subset of names not present in the Dataset.
func (d *Dataset) Missing(names []string) []string {
	var out []string
	for _, n := range names {
		if !d.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Selection returns the arrays named, in the order given. Returns nil if
// any requested name is absent (PointCloudDataset.h's `selection`
// likewise yields an empty selection when a name is missing).
func (d *Dataset) Selection(names []string) Selection {
	sel := make(Selection, 0, len(names))
	for _, n := range names {
		arr, ok := d.store[n]
		if !ok {
			return nil
		}
		sel = append(sel, arr)
	}
	return sel
}

// ZerosLike returns a new Dataset with the same array names/dtypes/
// trailing shapes as d, each with major extent nmajor.
func (d *Dataset) ZerosLike(nmajor int) (*Dataset, error) {
	out := NewDataset()
	for _, k := range d.keys {
		za, err := d.store[k].ZerosLike(nmajor)
		if err != nil {
			return nil, err
		}
		if err := out.Add(k, za); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Append concatenates tail's arrays onto d's along the major axis. d
// must either be empty (in which case it adopts tail's arrays by
// reference) or have an array-name set that tail's is a superset of;
// any extra names tail carries beyond d's own are ignored, matching
// PointCloudDataset.h's append(), which only ever walks d's own key
// set. Invokes registered append callbacks with the newly added row
// range.
func (d *Dataset) Append(tail *Dataset) error {
	if d.Empty() {
		for _, k := range tail.Keys() {
			if err := d.Add(k, tail.Get(k)); err != nil {
				return err
			}
		}
		d.fireCallbacks(0, d.SizeMajor())
		return nil
	}
	for _, k := range d.keys {
		if !tail.Has(k) {
			return fmt.Errorf("pcloud: Dataset.Append: %w: tail missing array %q", wcterr.ErrLogic, k)
		}
	}
	beg := d.SizeMajor()
	for _, k := range d.keys {
		dst := d.store[k]
		if err := dst.Append(tail.Get(k)); err != nil {
			return err
		}
	}
	d.fireCallbacks(beg, d.SizeMajor())
	return nil
}

// Extend appends nmajor zero rows to every array in d, equivalent to
// Append(d.ZerosLike(nmajor)) in WireCellUtil/PointCloudDataset.h.
func (d *Dataset) Extend(nmajor int) error {
	zl, err := d.ZerosLike(nmajor)
	if err != nil {
		return err
	}
	return d.Append(zl)
}

// RegisterAppendCallback adds f to the list invoked after each Append,
// in registration order.
func (d *Dataset) RegisterAppendCallback(f AppendCallback) {
	d.callbacks = append(d.callbacks, f)
}

func (d *Dataset) fireCallbacks(beg, end int) {
	for _, cb := range d.callbacks {
		cb(beg, end)
	}
}

// appendArray grows dst in place along its major axis with src's rows.
// Both must share dtype and trailing (non-major) shape.
func appendArray(dst, src *Array) error {
	if dst.dtype != src.dtype {
		return fmt.Errorf("pcloud: appendArray: %w: dtype mismatch", wcterr.ErrType)
	}
	dshape, sshape := dst.Shape(), src.Shape()
	if len(dshape) != len(sshape) {
		return fmt.Errorf("pcloud: appendArray: %w: rank mismatch", wcterr.ErrLogic)
	}
	for i := 1; i < len(dshape); i++ {
		if dshape[i] != sshape[i] {
			return fmt.Errorf("pcloud: appendArray: %w: trailing shape mismatch", wcterr.ErrLogic)
		}
	}
	dst.AssureMutable()
	newShape := dshape
	if len(newShape) == 0 {
		newShape = []int{}
	} else {
		newShape[0] = dshape[0] + src.SizeMajor()
	}
	merged, err := concatSlice(dst.data, src.data)
	if err != nil {
		return err
	}
	dst.data = merged
	dst.shape = newShape
	return nil
}

func concatSlice(a, b any) (any, error) {
	switch av := a.(type) {
	case []float32:
		bv, ok := b.([]float32)
		if !ok {
			return nil, fmt.Errorf("pcloud: concatSlice: %w", wcterr.ErrType)
		}
		return append(append([]float32{}, av...), bv...), nil
	case []float64:
		bv, ok := b.([]float64)
		if !ok {
			return nil, fmt.Errorf("pcloud: concatSlice: %w", wcterr.ErrType)
		}
		return append(append([]float64{}, av...), bv...), nil
	case []int8:
		bv, ok := b.([]int8)
		if !ok {
			return nil, fmt.Errorf("pcloud: concatSlice: %w", wcterr.ErrType)
		}
		return append(append([]int8{}, av...), bv...), nil
	case []int16:
		bv, ok := b.([]int16)
		if !ok {
			return nil, fmt.Errorf("pcloud: concatSlice: %w", wcterr.ErrType)
		}
		return append(append([]int16{}, av...), bv...), nil
	case []int32:
		bv, ok := b.([]int32)
		if !ok {
			return nil, fmt.Errorf("pcloud: concatSlice: %w", wcterr.ErrType)
		}
		return append(append([]int32{}, av...), bv...), nil
	case []int64:
		bv, ok := b.([]int64)
		if !ok {
			return nil, fmt.Errorf("pcloud: concatSlice: %w", wcterr.ErrType)
		}
		return append(append([]int64{}, av...), bv...), nil
	case []uint8:
		bv, ok := b.([]uint8)
		if !ok {
			return nil, fmt.Errorf("pcloud: concatSlice: %w", wcterr.ErrType)
		}
		return append(append([]uint8{}, av...), bv...), nil
	default:
		return nil, fmt.Errorf("pcloud: concatSlice: %w", wcterr.ErrType)
	}
}

// Equal reports whether d and o have the same array names, the same
// metadata, and element-wise equal arrays, matching
// PointCloudDataset.cxx's operator==, which does compare metadata (not,
// as an earlier pass here wrongly claimed, ignore it).
func (d *Dataset) Equal(o *Dataset) bool {
	if len(d.keys) != len(o.keys) {
		return false
	}
	if !d.Metadata.Equal(o.Metadata) {
		return false
	}
	for _, k := range d.keys {
		if !d.store[k].Equal(o.Get(k)) {
			return false
		}
	}
	return true
}
