package tensordm

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/lartpc-toolkit/wctgo/pkg/meta"
	"github.com/lartpc-toolkit/wctgo/pkg/pcloud"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// Trace is one channel's digitized waveform starting at sample Tbin,
// grounded on the sparse per-channel trace representation TensorDM.h's
// frame tensor set encodes as a ragged charge array plus channel/tbin
// index arrays.
type Trace struct {
	Channel int
	Tbin    int
	Charge  []float32
}

// RMS returns the trace's root-mean-square charge, computed entirely in
// float32 via chewxy/math32 rather than widening to float64, matching
// the teacher's dsp package convention of keeping per-sample waveform
// math in fp32 throughout.
func (t *Trace) RMS() float32 {
	if len(t.Charge) == 0 {
		return 0
	}
	var sum2 float32
	for _, v := range t.Charge {
		sum2 += v * v
	}
	return math32.Sqrt(sum2 / float32(len(t.Charge)))
}

// Frame bundles the traces of one readout window together with their
// tag set, matching WireCellIface's IFrame as seen from the tensor side:
// a named, tagged collection of Traces plus frame-level metadata.
type Frame struct {
	Ident    int
	Time     float64
	Tags     []string
	Traces   []*Trace
	Metadata meta.Tree
}

// frameDatasetName is the Dataset name FrameToTensorSet stores the
// encoded frame under.
const frameDatasetName = "frame"

// FrameToTensorSet encodes f as a sparse representation: parallel
// "channel" and "tbin" arrays (one entry per trace) plus a single flat
// "charge" array and a "charge_offsets" array giving each trace's
// half-open range into it, matching TensorDM.h's sparse frame tensor
// layout (as opposed to its "unified"/dense alternative, which this
// toolkit does not need since traces here are not assumed
// rectangular).
func FrameToTensorSet(f *Frame) (*TensorSet, error) {
	n := len(f.Traces)
	channel := make([]int32, n)
	tbin := make([]int32, n)
	offsets := make([]int32, n+1)
	var charge []float32
	for i, tr := range f.Traces {
		channel[i] = int32(tr.Channel)
		tbin[i] = int32(tr.Tbin)
		charge = append(charge, tr.Charge...)
		offsets[i+1] = int32(len(charge))
	}

	ds := pcloud.NewDataset()
	chArr, err := pcloud.NewArray(channel, []int{n})
	if err != nil {
		return nil, err
	}
	tbArr, err := pcloud.NewArray(tbin, []int{n})
	if err != nil {
		return nil, err
	}
	offArr, err := pcloud.NewArray(offsets, []int{n + 1})
	if err != nil {
		return nil, err
	}
	if err := ds.Add("channel", chArr); err != nil {
		return nil, err
	}
	if err := ds.Add("tbin", tbArr); err != nil {
		return nil, err
	}
	ds.Metadata.Set("ident", f.Ident)
	ds.Metadata.Set("time", f.Time)
	ds.Metadata.Set("tags", append([]string{}, f.Tags...))

	path := fmt.Sprintf("frames/%d", f.Ident)
	ts, err := DatasetToTensorSet(ds, path)
	if err != nil {
		return nil, fmt.Errorf("tensordm: FrameToTensorSet: %w", err)
	}
	ts.Metadata.Merge(f.Metadata)
	ts.Metadata.Set(datatypeKey, DataTypeFrame)
	ts.Metadata.Set(datapathKey, path)

	chgArr, err := pcloud.NewArray(charge, []int{len(charge)})
	if err != nil {
		return nil, err
	}
	chgTensor, err := ArrayToTensor(chgArr)
	if err != nil {
		return nil, err
	}
	chgTensor.Metadata.Set(datapathKey, "charge")
	ts.Put("charge", chgTensor)

	offTensor, err := ArrayToTensor(offArr)
	if err != nil {
		return nil, err
	}
	offTensor.Metadata.Set(datapathKey, "charge_offsets")
	ts.Put("charge_offsets", offTensor)
	return ts, nil
}

// TensorSetToFrame is the inverse of FrameToTensorSet.
func TensorSetToFrame(ts *TensorSet) (*Frame, error) {
	chgTensor := ts.Get("charge")
	offTensor := ts.Get("charge_offsets")
	if chgTensor == nil || offTensor == nil {
		return nil, fmt.Errorf("tensordm: TensorSetToFrame: %w: missing charge/charge_offsets tensor", wcterr.ErrValue)
	}
	chgArr, err := TensorToArray(chgTensor)
	if err != nil {
		return nil, err
	}
	offArr, err := TensorToArray(offTensor)
	if err != nil {
		return nil, err
	}
	chgFlat, err := chgArr.FlatFloat64()
	if err != nil {
		return nil, err
	}
	offFlat, err := offArr.FlatFloat64()
	if err != nil {
		return nil, err
	}

	inner := NewTensorSet()
	inner.Metadata = ts.Metadata.Clone()
	for _, name := range ts.Names() {
		if name == "charge" || name == "charge_offsets" {
			continue
		}
		inner.Put(name, ts.Get(name))
	}
	ds, err := TensorSetToDataset(inner)
	if err != nil {
		return nil, fmt.Errorf("tensordm: TensorSetToFrame: %w", err)
	}
	chArr := ds.Get("channel")
	tbArr := ds.Get("tbin")
	if chArr == nil || tbArr == nil {
		return nil, fmt.Errorf("tensordm: TensorSetToFrame: %w: missing channel/tbin array", wcterr.ErrValue)
	}
	chFlat, err := chArr.FlatFloat64()
	if err != nil {
		return nil, err
	}
	tbFlat, err := tbArr.FlatFloat64()
	if err != nil {
		return nil, err
	}

	n := len(chFlat)
	traces := make([]*Trace, n)
	for i := 0; i < n; i++ {
		beg, end := int(offFlat[i]), int(offFlat[i+1])
		charge := make([]float32, end-beg)
		for j := beg; j < end; j++ {
			charge[j-beg] = float32(chgFlat[j])
		}
		traces[i] = &Trace{Channel: int(chFlat[i]), Tbin: int(tbFlat[i]), Charge: charge}
	}

	fm := ts.Metadata.Clone()
	delete(fm, datatypeKey)
	delete(fm, datapathKey)
	delete(fm, arraysKey)
	delete(fm, "ident")
	delete(fm, "time")
	delete(fm, "tags")

	f := &Frame{
		Ident:    int(ds.Metadata.GetFloat("ident")),
		Time:     ds.Metadata.GetFloat("time"),
		Traces:   traces,
		Metadata: fm,
	}
	if tags, ok := ds.Metadata["tags"].([]string); ok {
		f.Tags = tags
	}
	return f, nil
}
