package tensordm

// Option configures TensorToArray's decode behavior, grounded on
// x/marshaller/types/types.go's Option/Options/With... idiom.
type Option interface {
	Apply(*Options)
}

// Options holds TensorToArray's decode configuration.
type Options struct {
	// Share requests a zero-copy decode: the returned Array's storage
	// aliases the Tensor's Data bytes directly (reinterpreted via an
	// unsafe cast) instead of being copied element-by-element into a
	// freshly allocated typed slice. Only valid on a little-endian host,
	// matching the little-endian wire convention ArrayToTensor already
	// assumes.
	Share bool
}

type withShare bool

func (w withShare) Apply(opts *Options) { opts.Share = bool(w) }

// WithShare requests (or, with share=false, explicitly declines) a
// zero-copy TensorToArray decode.
func WithShare(share bool) Option {
	return withShare(share)
}

func resolveOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt.Apply(&o)
	}
	return o
}
