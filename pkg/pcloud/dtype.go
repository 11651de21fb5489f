package pcloud

import (
	"fmt"
	"reflect"
)

// DataType tags the element type backing an Array, mirroring the
// teacher's tensor DataType enum (pkg/core/math/tensor/types/dtype.go)
// generalized from a float32-only tensor to the handful of element
// types the point-cloud data model needs to carry.
type DataType uint8

const (
	// DTUnknown marks an Array with no assigned element type.
	DTUnknown DataType = iota
	DTFloat32
	DTFloat64
	DTInt8
	DTInt16
	DTInt32
	DTInt64
	DTUint8
)

func (dt DataType) String() string {
	switch dt {
	case DTFloat32:
		return "float32"
	case DTFloat64:
		return "float64"
	case DTInt8:
		return "int8"
	case DTInt16:
		return "int16"
	case DTInt32:
		return "int32"
	case DTInt64:
		return "int64"
	case DTUint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// ElementSize returns the size in bytes of one element of dt.
func (dt DataType) ElementSize() int {
	switch dt {
	case DTFloat32, DTInt32:
		return 4
	case DTFloat64, DTInt64:
		return 8
	case DTInt8, DTUint8:
		return 1
	case DTInt16:
		return 2
	default:
		return 0
	}
}

// dataTypeOf returns the DataType tag for a Go slice value, matching
// the teacher's TypeFromData dispatch in dtype.go.
func dataTypeOf(v any) (DataType, error) {
	switch v.(type) {
	case []float32:
		return DTFloat32, nil
	case []float64:
		return DTFloat64, nil
	case []int8:
		return DTInt8, nil
	case []int16:
		return DTInt16, nil
	case []int32:
		return DTInt32, nil
	case []int64:
		return DTInt64, nil
	case []uint8:
		return DTUint8, nil
	default:
		return DTUnknown, fmt.Errorf("pcloud: unsupported element type %s", reflect.TypeOf(v))
	}
}

// makeSlice allocates a zero-valued slice of n elements of dt, matching
// the teacher's MakeTensorData helper.
func makeSlice(dt DataType, n int) (any, error) {
	switch dt {
	case DTFloat32:
		return make([]float32, n), nil
	case DTFloat64:
		return make([]float64, n), nil
	case DTInt8:
		return make([]int8, n), nil
	case DTInt16:
		return make([]int16, n), nil
	case DTInt32:
		return make([]int32, n), nil
	case DTInt64:
		return make([]int64, n), nil
	case DTUint8:
		return make([]uint8, n), nil
	default:
		return nil, fmt.Errorf("pcloud: cannot allocate unknown data type")
	}
}

// sliceLen returns len() of any of the supported typed slices.
func sliceLen(v any) int {
	switch s := v.(type) {
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case []int8:
		return len(s)
	case []int16:
		return len(s)
	case []int32:
		return len(s)
	case []int64:
		return len(s)
	case []uint8:
		return len(s)
	default:
		return 0
	}
}

// cloneSlice returns a deep copy of any of the supported typed slices.
func cloneSlice(v any) any {
	switch s := v.(type) {
	case []float32:
		out := make([]float32, len(s))
		copy(out, s)
		return out
	case []float64:
		out := make([]float64, len(s))
		copy(out, s)
		return out
	case []int8:
		out := make([]int8, len(s))
		copy(out, s)
		return out
	case []int16:
		out := make([]int16, len(s))
		copy(out, s)
		return out
	case []int32:
		out := make([]int32, len(s))
		copy(out, s)
		return out
	case []int64:
		out := make([]int64, len(s))
		copy(out, s)
		return out
	case []uint8:
		out := make([]uint8, len(s))
		copy(out, s)
		return out
	default:
		return nil
	}
}
