package tensordm

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/lartpc-toolkit/wctgo/pkg/meta"
	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// byteOrder is fixed to little-endian for every Tensor's Data buffer,
// matching TensorDM.h's wire convention of a flat, host-endian byte
// array (the reference platform is little-endian; no byte-swap step is
// needed on the far more common little-endian consumer).
var byteOrder = binary.LittleEndian

// ArrayToTensor flattens a into a byte-backed Tensor, matching
// TensorDM.h's as_tensor(const Array&).
func ArrayToTensor(a *pcloud.Array) (*Tensor, error) {
	raw := a.Raw()
	dt := a.DType()
	size, err := elementSize(dt)
	if err != nil {
		return nil, err
	}
	n := a.Size()
	buf := make([]byte, n*size)

	switch s := raw.(type) {
	case []float32:
		for i, v := range s {
			byteOrder.PutUint32(buf[i*4:], math.Float32bits(v))
		}
	case []float64:
		for i, v := range s {
			byteOrder.PutUint64(buf[i*8:], math.Float64bits(v))
		}
	case []int8:
		for i, v := range s {
			buf[i] = byte(v)
		}
	case []int16:
		for i, v := range s {
			byteOrder.PutUint16(buf[i*2:], uint16(v))
		}
	case []int32:
		for i, v := range s {
			byteOrder.PutUint32(buf[i*4:], uint32(v))
		}
	case []int64:
		for i, v := range s {
			byteOrder.PutUint64(buf[i*8:], uint64(v))
		}
	case []uint8:
		copy(buf, s)
	default:
		return nil, fmt.Errorf("tensordm: ArrayToTensor: %w", wcterr.ErrType)
	}

	tm := a.Metadata.Clone()
	tm.Set(datatypeKey, DataTypePCArray)
	return &Tensor{Shape: a.Shape(), DType: dt, Data: buf, Metadata: tm}, nil
}

// TensorToArray reconstructs a pcloud.Array from a byte-backed Tensor,
// matching TensorDM.h's as_array(const Tensor&). By default it copies
// into a freshly typed slice; WithShare(true) instead reinterprets
// t.Data in place via an unsafe cast, so the returned Array aliases the
// Tensor's own storage (it is borrowed, per pkg/pcloud's share
// convention) rather than being copied element-by-element.
func TensorToArray(t *Tensor, opts ...Option) (*pcloud.Array, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	n := shapeSize(t.Shape)
	o := resolveOptions(opts)

	if o.Share {
		data, err := shareTensorData(t.DType, t.Data, n)
		if err != nil {
			return nil, err
		}
		arr, err := pcloud.NewBorrowedArray(data, t.Shape)
		if err != nil {
			return nil, err
		}
		arr.Metadata = arrayMetadataOf(t)
		return arr, nil
	}

	var data any
	switch t.DType {
	case pcloud.DTFloat32:
		s := make([]float32, n)
		for i := range s {
			s[i] = math.Float32frombits(byteOrder.Uint32(t.Data[i*4:]))
		}
		data = s
	case pcloud.DTFloat64:
		s := make([]float64, n)
		for i := range s {
			s[i] = math.Float64frombits(byteOrder.Uint64(t.Data[i*8:]))
		}
		data = s
	case pcloud.DTInt8:
		s := make([]int8, n)
		for i := range s {
			s[i] = int8(t.Data[i])
		}
		data = s
	case pcloud.DTInt16:
		s := make([]int16, n)
		for i := range s {
			s[i] = int16(byteOrder.Uint16(t.Data[i*2:]))
		}
		data = s
	case pcloud.DTInt32:
		s := make([]int32, n)
		for i := range s {
			s[i] = int32(byteOrder.Uint32(t.Data[i*4:]))
		}
		data = s
	case pcloud.DTInt64:
		s := make([]int64, n)
		for i := range s {
			s[i] = int64(byteOrder.Uint64(t.Data[i*8:]))
		}
		data = s
	case pcloud.DTUint8:
		s := make([]uint8, n)
		copy(s, t.Data)
		data = s
	default:
		return nil, fmt.Errorf("tensordm: TensorToArray: %w", wcterr.ErrType)
	}

	arr, err := pcloud.NewArray(data, t.Shape)
	if err != nil {
		return nil, err
	}
	arr.Metadata = arrayMetadataOf(t)
	return arr, nil
}

// arrayMetadataOf returns t's metadata with the bookkeeping keys TensorDM
// adds for self-description (datatype, datapath) removed, so a decoded
// Array's metadata matches what was originally encoded rather than being
// polluted with wire-layer tags, matching TensorDM.h's as_array, which
// surfaces only the array's own metadata.
func arrayMetadataOf(t *Tensor) meta.Tree {
	m := t.Metadata.Clone()
	delete(m, datatypeKey)
	delete(m, datapathKey)
	return m
}

// shareTensorData reinterprets raw's bytes as a typed slice of n
// elements without copying, grounded on the unsafe.Pointer-based raw
// buffer accessors in eager_tensor/tensor.go and
// x/marshaller/storage/mmap_segment_unix.go. Valid only on a
// little-endian host, the same assumption ArrayToTensor's wire format
// already makes.
func shareTensorData(dt pcloud.DataType, raw []byte, n int) (any, error) {
	if n == 0 {
		return zeroLenSlice(dt)
	}
	switch dt {
	case pcloud.DTFloat32:
		return unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), n), nil
	case pcloud.DTFloat64:
		return unsafe.Slice((*float64)(unsafe.Pointer(&raw[0])), n), nil
	case pcloud.DTInt8:
		return unsafe.Slice((*int8)(unsafe.Pointer(&raw[0])), n), nil
	case pcloud.DTInt16:
		return unsafe.Slice((*int16)(unsafe.Pointer(&raw[0])), n), nil
	case pcloud.DTInt32:
		return unsafe.Slice((*int32)(unsafe.Pointer(&raw[0])), n), nil
	case pcloud.DTInt64:
		return unsafe.Slice((*int64)(unsafe.Pointer(&raw[0])), n), nil
	case pcloud.DTUint8:
		return raw[:n], nil
	default:
		return nil, fmt.Errorf("tensordm: shareTensorData: %w", wcterr.ErrType)
	}
}

func zeroLenSlice(dt pcloud.DataType) (any, error) {
	switch dt {
	case pcloud.DTFloat32:
		return []float32{}, nil
	case pcloud.DTFloat64:
		return []float64{}, nil
	case pcloud.DTInt8:
		return []int8{}, nil
	case pcloud.DTInt16:
		return []int16{}, nil
	case pcloud.DTInt32:
		return []int32{}, nil
	case pcloud.DTInt64:
		return []int64{}, nil
	case pcloud.DTUint8:
		return []uint8{}, nil
	default:
		return nil, fmt.Errorf("tensordm: shareTensorData: %w", wcterr.ErrType)
	}
}
