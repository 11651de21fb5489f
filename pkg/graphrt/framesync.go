package graphrt

// FrameSync merges several ident-ordered frame streams into one,
// forwarding at each call the queued frame with the smallest ident once
// every input stream has either produced a frame or reached
// end-of-stream (a nil front entry), and flushing a single EOS once
// every input stream is at EOS.
//
// Grounded on FrameSync.h/.cxx's documented contract ("once all input
// streams have at least one frame, the input frame with the smallest
// ident number is forwarded"); the body below is a fresh implementation
// of that contract rather than a port of FrameSync.cxx's operator(),
// whose loop reads `iqs[0]` instead of `iqs[ind]` on every iteration and
// so never actually inspects any input queue but the first.
type FrameSync struct {
	multiplicity int
}

// NewFrameSync returns a FrameSync expecting multiplicity input streams.
func NewFrameSync(multiplicity int) *FrameSync {
	if multiplicity < 1 {
		multiplicity = 2
	}
	return &FrameSync{multiplicity: multiplicity}
}

func (f *FrameSync) InputTypes() []string {
	out := make([]string, f.multiplicity)
	for i := range out {
		out[i] = "frame"
	}
	return out
}

// Call implements Node. It may append more than one frame to q.Out[0] in
// a single invocation, draining every fully-populated round it can
// before returning.
func (f *FrameSync) Call(q *Queues) (bool, error) {
	if len(q.Out) == 0 {
		q.Out = make([]FrameQueue, 1)
	}
	for {
		progressed, err := f.step(q)
		if err != nil {
			return false, err
		}
		if !progressed {
			return true, nil
		}
	}
}

// step performs one round: it inspects every input queue's front entry
// and either flushes a synchronized EOS, forwards the globally smallest
// ident, or reports that it made no progress (some queue is empty and
// not yet at EOS, so the caller must wait for more input).
func (f *FrameSync) step(q *Queues) (bool, error) {
	nin := len(q.In)
	neos := 0
	haveMin := false
	minIdent := 0
	minIndex := -1

	for ind := 0; ind < nin; ind++ {
		frame, ok := q.In[ind].front()
		if !ok {
			// this stream has nothing queued yet and is not known to
			// be at EOS: not enough data to make progress this round.
			return false, nil
		}
		if frame == nil {
			neos++
			continue
		}
		if !haveMin || frame.Ident < minIdent {
			haveMin = true
			minIdent = frame.Ident
			minIndex = ind
		}
	}

	if neos == nin {
		for i := range q.In {
			q.In[i] = q.In[i].popFront()
		}
		q.Out[0] = append(q.Out[0], nil)
		return true, nil
	}

	if !haveMin {
		// every stream reported EOS-or-empty but none had a live frame;
		// with nin==0 this is the only way to reach here.
		return false, nil
	}

	// Every stream has reported (EOS or a live frame, checked above),
	// and minIndex points at the smallest ident among the live ones.
	q.Out[0] = append(q.Out[0], q.In[minIndex][0])
	q.In[minIndex] = q.In[minIndex].popFront()
	return true, nil
}
