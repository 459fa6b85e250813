// Package augment provides the optional machine-learned risk estimate that
// the engine blends with the rule-based score.
package augment

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/crimson-sun/edurisk/internal/model"
)

var (
	// ErrUnavailable is returned when no augmentor could be made ready.
	ErrUnavailable = errors.New("augment: augmentor unavailable")
	// ErrOutOfRange is returned when a model output is NaN or outside [0,1].
	ErrOutOfRange = errors.New("augment: prediction out of range")
)

// InputDim is the width of the model input vector.
const InputDim = 7

// Input is the normalized feature vector fed to a model.
type Input [InputDim]float32

// Augmentor produces a risk probability in [0,1] for one input.
type Augmentor interface {
	Predict(Input) (float64, error)
	Close() error
}

// Normalize maps a feature vector onto the unit-scaled model input.
func Normalize(fv model.StudentFeatureVector) Input {
	return Input{
		float32(fv.AttendancePercentage / 100),
		float32(fv.AverageGrade / 100),
		float32(fv.AssignmentSubmissionRate / 100),
		float32(math.Min(fv.NumberOfAttempts/5, 1)),
		statusValue(fv.FeePaymentStatus),
		float32(math.Min(float64(fv.DaysSinceLastPayment)/365, 1)),
		float32(fv.EngagementScore / 100),
	}
}

func statusValue(s model.FeeStatus) float32 {
	switch s {
	case model.FeePaid:
		return 0
	case model.FeeOverdue:
		return 1
	default:
		return 0.5
	}
}

// State reports whether a Capability can serve predictions.
type State int

const (
	StateUnavailable State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "unavailable"
}

// Capability is the engine's handle on an optional augmentor.
type Capability struct {
	once   sync.Once
	loader func() (Augmentor, error)
	aug    Augmentor
}

// Unavailable returns a capability that never initializes anything.
func Unavailable() *Capability {
	c := &Capability{}
	c.once.Do(func() {})
	return c
}

// Ready wraps an already constructed augmentor.
func Ready(a Augmentor) *Capability {
	c := &Capability{aug: a}
	c.once.Do(func() {})
	return c
}

// Lazy defers construction to first use. A loader failure is logged and
// leaves the capability unavailable for good.
func Lazy(loader func() (Augmentor, error)) *Capability {
	return &Capability{loader: loader}
}

func (c *Capability) get() Augmentor {
	c.once.Do(func() {
		a, err := c.loader()
		if err != nil {
			slog.Warn("augmentor unavailable", "error", err)
			return
		}
		c.aug = a
	})
	return c.aug
}

// State forces lazy initialization and reports the outcome.
func (c *Capability) State() State {
	if c == nil || c.get() == nil {
		return StateUnavailable
	}
	return StateReady
}

// Predict runs the augmentor on fv and validates its output.
func (c *Capability) Predict(fv model.StudentFeatureVector) (float64, error) {
	if c == nil {
		return 0, ErrUnavailable
	}
	a := c.get()
	if a == nil {
		return 0, ErrUnavailable
	}
	p, err := a.Predict(Normalize(fv))
	if err != nil {
		return 0, err
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, p)
	}
	return p, nil
}

// Close releases the augmentor if one was constructed. A pending lazy
// loader is never run.
func (c *Capability) Close() error {
	if c == nil {
		return nil
	}
	c.once.Do(func() {})
	if c.aug == nil {
		return nil
	}
	return c.aug.Close()
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	runtimeLib string
}

// WithRuntimeLibrary sets the ONNX Runtime shared library path. By default
// libonnxruntime.so is expected next to the model file.
func WithRuntimeLibrary(path string) Option {
	return func(c *loadConfig) { c.runtimeLib = path }
}

// Load constructs an augmentor from a model file, chosen by extension.
func Load(path string, opts ...Option) (Augmentor, error) {
	var cfg loadConfig
	for _, o := range opts {
		o(&cfg)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".onnx":
		lib := cfg.runtimeLib
		if lib == "" {
			lib = filepath.Join(filepath.Dir(path), "libonnxruntime.so")
		}
		return NewONNX(path, lib)
	case ".safetensors":
		return LoadLinear(path)
	default:
		return nil, fmt.Errorf("augment: unsupported model file %q", path)
	}
}
