// Package graphrt defines the cooperative graph-node contract pipeline
// stages implement, plus one concrete node (FrameSync) built on top of
// it.
//
// Grounded on original_source/aux/inc/WireCellAux/FrameSync.h and the
// teacher's pkg/pipeline step contract (a node declares its input types
// and is repeatedly invoked with queues until it reports it is done),
// generalized from the teacher's single-purpose robot pipeline steps to
// a frame-queue-shaped Node interface.
package graphrt

import (
	"github.com/lartpc-toolkit/wctgo/pkg/tensordm"
)

// FrameQueue is a FIFO of frames, with a nil entry at the front meaning
// "end of stream": every frame behind it has already been seen.
type FrameQueue []*tensordm.Frame

// front returns the first element of q and reports whether q is
// non-empty.
func (q FrameQueue) front() (*tensordm.Frame, bool) {
	if len(q) == 0 {
		return nil, false
	}
	return q[0], true
}

func (q FrameQueue) popFront() FrameQueue {
	if len(q) == 0 {
		return q
	}
	return q[1:]
}

// Queues bundles the input and output frame queues a Node's Call
// exchanges data through, matching the teacher's steps.Input/steps.Output
// pairing but specialized to frames rather than arbitrary messages.
type Queues struct {
	In  []FrameQueue
	Out []FrameQueue
}

// Node is the cooperative pipeline-stage contract: InputTypes declares
// how many input queues Call expects (and, conventionally, what kind of
// payload each carries), and Call is invoked repeatedly by a scheduler,
// doing whatever work it can with what's currently queued and returning
// true once it settles into "waiting for more input" (never an error in
// that state) or false/error on exhaustion or failure.
type Node interface {
	// InputTypes names one entry per input queue Call expects.
	InputTypes() []string
	// Call drains as much of q.In as it currently can, appending
	// results to q.Out, and reports whether it is waiting for more
	// input (true) or has nothing further to contribute.
	Call(q *Queues) (bool, error)
}
