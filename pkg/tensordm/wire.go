package tensordm

import (
	"fmt"

	"github.com/lartpc-toolkit/wctgo/pkg/meta"
	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
	"google.golang.org/protobuf/encoding/protowire"
)

// EncodeTensorSet serializes ts to a flat byte stream using protobuf's
// low-level varint/length-delimited wire primitives (protowire) as a
// framing format, without requiring a .proto schema: every tensor is
// written as name, dtype tag, shape dims, metadata (YAML-encoded) and
// data, each length-prefixed the same way a generated protobuf message
// would length-prefix a bytes field.
func EncodeTensorSet(ts *TensorSet) ([]byte, error) {
	var b []byte
	setMeta, err := ts.Metadata.EncodeYAML()
	if err != nil {
		return nil, fmt.Errorf("tensordm: EncodeTensorSet: %w", err)
	}
	b = appendBytes(b, setMeta)
	b = protowire.AppendVarint(b, uint64(ts.Len()))

	for _, name := range ts.Names() {
		t := ts.Get(name)
		b = appendBytes(b, []byte(name))
		b = protowire.AppendVarint(b, uint64(t.DType))
		b = protowire.AppendVarint(b, uint64(len(t.Shape)))
		for _, d := range t.Shape {
			b = protowire.AppendVarint(b, uint64(d))
		}
		tmeta, err := t.Metadata.EncodeYAML()
		if err != nil {
			return nil, fmt.Errorf("tensordm: EncodeTensorSet: tensor %q: %w", name, err)
		}
		b = appendBytes(b, tmeta)
		b = appendBytes(b, t.Data)
	}
	return b, nil
}

// DecodeTensorSet is the inverse of EncodeTensorSet.
func DecodeTensorSet(data []byte) (*TensorSet, error) {
	ts := NewTensorSet()

	setMeta, rest, err := consumeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("tensordm: DecodeTensorSet: set metadata: %w", err)
	}
	tree, err := decodeMetaYAML(setMeta)
	if err != nil {
		return nil, err
	}
	ts.Metadata = tree

	n, rest, err := consumeVarint(rest)
	if err != nil {
		return nil, fmt.Errorf("tensordm: DecodeTensorSet: tensor count: %w", err)
	}

	for i := uint64(0); i < n; i++ {
		var nameBytes []byte
		nameBytes, rest, err = consumeBytes(rest)
		if err != nil {
			return nil, fmt.Errorf("tensordm: DecodeTensorSet: tensor %d name: %w", i, err)
		}
		name := string(nameBytes)

		var dt uint64
		dt, rest, err = consumeVarint(rest)
		if err != nil {
			return nil, fmt.Errorf("tensordm: DecodeTensorSet: tensor %q dtype: %w", name, err)
		}

		var rank uint64
		rank, rest, err = consumeVarint(rest)
		if err != nil {
			return nil, fmt.Errorf("tensordm: DecodeTensorSet: tensor %q rank: %w", name, err)
		}
		shape := make([]int, rank)
		for d := uint64(0); d < rank; d++ {
			var dim uint64
			dim, rest, err = consumeVarint(rest)
			if err != nil {
				return nil, fmt.Errorf("tensordm: DecodeTensorSet: tensor %q shape: %w", name, err)
			}
			shape[d] = int(dim)
		}

		var tmetaBytes []byte
		tmetaBytes, rest, err = consumeBytes(rest)
		if err != nil {
			return nil, fmt.Errorf("tensordm: DecodeTensorSet: tensor %q metadata: %w", name, err)
		}
		tmeta, err := decodeMetaYAML(tmetaBytes)
		if err != nil {
			return nil, err
		}

		var tdata []byte
		tdata, rest, err = consumeBytes(rest)
		if err != nil {
			return nil, fmt.Errorf("tensordm: DecodeTensorSet: tensor %q data: %w", name, err)
		}

		ts.Put(name, &Tensor{Shape: shape, DType: pcloud.DataType(dt), Data: tdata, Metadata: tmeta})
	}
	return ts, nil
}

func decodeMetaYAML(b []byte) (meta.Tree, error) {
	if len(b) == 0 {
		return meta.New(), nil
	}
	tree, err := meta.DecodeYAML(b)
	if err != nil {
		return nil, fmt.Errorf("tensordm: decode metadata: %w", err)
	}
	return tree, nil
}

func appendBytes(b, v []byte) []byte {
	b = protowire.AppendVarint(b, uint64(len(v)))
	return append(b, v...)
}

func consumeBytes(b []byte) ([]byte, []byte, error) {
	n, rest, err := consumeVarint(b)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(rest)) < n {
		return nil, nil, fmt.Errorf("tensordm: consumeBytes: %w: truncated wire data", wcterr.ErrValue)
	}
	return rest[:n], rest[n:], nil
}

func consumeVarint(b []byte) (uint64, []byte, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, nil, fmt.Errorf("tensordm: consumeVarint: %w: malformed varint", wcterr.ErrValue)
	}
	return v, b[n:], nil
}
