package edurisk

import "time"

type options struct {
	augmentModel   string
	runtimeLibrary string
	augmentor      Augmentor
	concurrency    int
	clock          func() time.Time
	aliases        map[string][]string
}

// Option configures a Client.
type Option func(*options)

// WithAugmentModel enables augmentation from a .onnx or .safetensors file.
// The model is loaded lazily on the first prediction.
func WithAugmentModel(path string) Option {
	return func(o *options) { o.augmentModel = path }
}

// WithRuntimeLibrary sets the ONNX Runtime shared library used by an .onnx
// augment model. Default: libonnxruntime.so next to the model.
func WithRuntimeLibrary(path string) Option {
	return func(o *options) { o.runtimeLibrary = path }
}

// WithAugmentor injects a ready augmentor. It takes precedence over
// WithAugmentModel.
func WithAugmentor(a Augmentor) Option {
	return func(o *options) { o.augmentor = a }
}

// WithConcurrency caps parallel scoring in batch calls. Default: GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// WithClock overrides the time source for assessments, ingestion defaults
// and fee ages.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithHeaderAliases adds accepted header spellings per canonical field,
// e.g. {"student_id": {"learner_no"}}.
func WithHeaderAliases(aliases map[string][]string) Option {
	return func(o *options) { o.aliases = aliases }
}

func defaultOptions() options {
	return options{clock: time.Now}
}
