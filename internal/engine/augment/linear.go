package augment

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Linear is a logistic layer: sigmoid(w·x + b).
type Linear struct {
	weights Input
	bias    float32
}

// NewLinear builds a Linear from in-code parameters.
func NewLinear(weights Input, bias float32) *Linear {
	return &Linear{weights: weights, bias: bias}
}

// Predict implements Augmentor.
func (l *Linear) Predict(in Input) (float64, error) {
	z := float64(l.bias)
	for i, w := range l.weights {
		z += float64(w) * float64(in[i])
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Close implements Augmentor.
func (l *Linear) Close() error { return nil }

// LoadLinear reads a safetensors file holding "linear.weight" of shape
// [1,7] and optionally "linear.bias" of shape [1], both F32.
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	st, err := parseSafetensors(data)
	if err != nil {
		return nil, err
	}

	w, shape, err := st.tensor("linear.weight")
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 || shape[0] != 1 || shape[1] != InputDim {
		return nil, fmt.Errorf("linear: expected weight shape [1 %d], got %v", InputDim, shape)
	}
	l := &Linear{}
	copy(l.weights[:], w)

	if _, ok := st.header["linear.bias"]; ok {
		b, shape, err := st.tensor("linear.bias")
		if err != nil {
			return nil, err
		}
		if len(b) != 1 {
			return nil, fmt.Errorf("linear: expected bias shape [1], got %v", shape)
		}
		l.bias = b[0]
	}
	return l, nil
}

// safetensors is a parsed file: an 8-byte LE header length, a JSON header,
// then the raw tensor bytes.
type safetensors struct {
	header map[string]json.RawMessage
	body   []byte
}

func parseSafetensors(data []byte) (*safetensors, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("linear: file too small: %d bytes", len(data))
	}
	headerLen := binary.LittleEndian.Uint64(data[:8])
	if uint64(len(data)-8) < headerLen {
		return nil, fmt.Errorf("linear: header length %d exceeds file size", headerLen)
	}
	var header map[string]json.RawMessage
	if err := json.Unmarshal(data[8:8+headerLen], &header); err != nil {
		return nil, fmt.Errorf("linear: failed to parse header: %w", err)
	}
	return &safetensors{header: header, body: data[8+headerLen:]}, nil
}

func (s *safetensors) tensor(name string) ([]float32, []int, error) {
	raw, ok := s.header[name]
	if !ok {
		return nil, nil, fmt.Errorf("linear: tensor %q not found in header", name)
	}
	var meta struct {
		Dtype       string `json:"dtype"`
		Shape       []int  `json:"shape"`
		DataOffsets [2]int `json:"data_offsets"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, nil, fmt.Errorf("linear: tensor %q metadata: %w", name, err)
	}
	if meta.Dtype != "F32" {
		return nil, nil, fmt.Errorf("linear: tensor %q: expected dtype F32, got %s", name, meta.Dtype)
	}

	n := 1
	for _, d := range meta.Shape {
		n *= d
	}
	start, end := meta.DataOffsets[0], meta.DataOffsets[1]
	if start < 0 || end < start || end > len(s.body) {
		return nil, nil, fmt.Errorf("linear: tensor %q range [%d:%d] exceeds data size %d",
			name, start, end, len(s.body))
	}
	if end-start != n*4 {
		return nil, nil, fmt.Errorf("linear: tensor %q data size %d doesn't match shape %v",
			name, end-start, meta.Shape)
	}

	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(s.body[start+i*4:]))
	}
	return out, meta.Shape, nil
}
