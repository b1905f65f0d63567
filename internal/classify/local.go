package classify

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // decoder for captured photos
	_ "image/png"  // decoder for gallery picks
	"log/slog"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/model"
	"github.com/siteseer/siteseer/internal/service"
)

const defaultImageSize = 224

// LocalClassifier runs a pre-loaded ONNX classification model in-process.
// The model's output vector is zipped positionally with the class name list:
// output index i scores class i. That alignment comes from how the model was
// trained and is not verified at runtime.
type LocalClassifier struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	logger       *slog.Logger
	classNames   []string
	imageSize    int
	ready        bool
	mu           sync.Mutex
}

func newLocalClassifier(cfg Config, logger *slog.Logger) (*LocalClassifier, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("%w: local classifier requires a model path", common.ErrMissingConfig)
	}

	imageSize := cfg.ImageSize
	if imageSize <= 0 {
		imageSize = defaultImageSize
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	inputShape := ort.NewShape(1, int64(imageSize), int64(imageSize), 3)
	outputShape := ort.NewShape(1, int64(len(cfg.ClassNames)))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to load model %s: %w", cfg.ModelPath, err)
	}

	logger.Info("model loaded", "path", cfg.ModelPath, "classes", len(cfg.ClassNames))

	return &LocalClassifier{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		classNames:   cfg.ClassNames,
		imageSize:    imageSize,
		logger:       logger,
		ready:        true,
	}, nil
}

// Classify decodes the image bytes, converts them to a [1, H, W, 3] float32
// tensor with the alpha channel dropped, and runs one inference pass.
func (c *LocalClassifier) Classify(ctx context.Context, img service.Image) (model.Confidences, error) {
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: no image bytes for local classification", common.ErrClassify)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", common.ErrClassify, err)
	}

	input := imageToTensor(decoded, c.imageSize)

	// The session owns a single pair of tensors, so inference is serialized.
	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.inputTensor.GetData(), input)

	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: inference failed: %v", common.ErrClassify, err)
	}

	output := c.outputTensor.GetData()

	out := make(model.Confidences, 0, len(c.classNames))
	for i, name := range c.classNames {
		if i >= len(output) {
			break
		}
		out = append(out, model.ClassConfidence{
			ClassName:  name,
			Confidence: float64(output[i]),
		})
	}
	return out, nil
}

// Ready reports whether the model has finished loading.
func (c *LocalClassifier) Ready() bool {
	return c.ready
}

// RequiresUpload is false: the image is scored from its local bytes.
func (c *LocalClassifier) RequiresUpload() bool {
	return false
}

// Close releases the ONNX session and tensors.
func (c *LocalClassifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ready = false
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
	}
	ort.DestroyEnvironment()
}

// imageToTensor resizes the image to size x size and flattens it into
// HWC-ordered float32 values in [0, 1], dropping any alpha channel.
func imageToTensor(img image.Image, size int) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	out := make([]float32, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			out = append(out,
				float32(r)/65535.0,
				float32(g)/65535.0,
				float32(b)/65535.0)
		}
	}
	return out
}
