package augment

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv is the process-wide ONNX Runtime environment.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNX runs a model with one [1,7] float32 input and one scalar output.
type ONNX struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	outShape   ort.Shape
}

// NewONNX loads modelPath, initializing the runtime from libPath on first use.
func NewONNX(modelPath, libPath string) (*ONNX, error) {
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 input, got %d", len(inputs))
	}
	if dims := inputs[0].Dimensions; len(dims) != 2 || dims[1] != InputDim {
		return nil, fmt.Errorf("onnx: expected input shape [1 %d], got %v", InputDim, dims)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}
	outShape, err := scalarShape(outputs[0].Dimensions)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}
	return &ONNX{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		outShape:   outShape,
	}, nil
}

// scalarShape resolves dynamic dimensions to 1 and requires a single element.
func scalarShape(dims ort.Shape) (ort.Shape, error) {
	shape := make(ort.Shape, len(dims))
	for i, d := range dims {
		if d < 0 {
			d = 1
		}
		shape[i] = d
	}
	if shape.FlattenedSize() != 1 {
		return nil, fmt.Errorf("onnx: expected scalar output, got shape %v", dims)
	}
	return shape, nil
}

// Predict implements Augmentor.
func (o *ONNX) Predict(in Input) (float64, error) {
	tIn, err := ort.NewTensor(ort.NewShape(1, InputDim), in[:])
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	tOut, err := ort.NewEmptyTensor[float32](o.outShape)
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := o.session.Run([]ort.Value{tIn}, []ort.Value{tOut}); err != nil {
		return 0, fmt.Errorf("onnx: inference failed: %w", err)
	}
	return float64(tOut.GetData()[0]), nil
}

// Close implements Augmentor.
func (o *ONNX) Close() error {
	return o.session.Destroy()
}
