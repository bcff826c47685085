package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-curator/internal/llm"
)

// fakeVision returns a canned analysis and records the pest name hint it
// was asked about.
type fakeVision struct {
	lastPrompt string
	reply      string
}

func (v *fakeVision) GenerateVision(ctx context.Context, messages []llm.Message, imageB64 string) (llm.Response, error) {
	if len(messages) > 0 {
		v.lastPrompt = messages[len(messages)-1].Content
	}
	return llm.Response{Content: v.reply}, nil
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("fake-jpeg-bytes"))
	}))
}

func TestPestDetectionHighConfidence(t *testing.T) {
	img := imageServer(t)
	defer img.Close()

	classifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"label": "Class_0", "confidences": [{"label": "Class_0", "confidence": 0.92}]}`))
	}))
	defer classifier.Close()

	vision := &fakeVision{reply: "Use neem oil spray."}
	tool := NewPestDetection(classifier.URL, vision)

	out, err := tool.Run(context.Background(), map[string]any{"image_url": img.URL})
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted Class: 1", "Class_0 label is zero-based")
	assert.Contains(t, out, "Confidence: 92.00%")
	assert.Contains(t, out, "Use neem oil spray.")
	assert.Contains(t, vision.lastPrompt, pestClasses[1], "vision prompt must name the classified pest")
}

func TestPestDetectionLowConfidenceFallsBack(t *testing.T) {
	img := imageServer(t)
	defer img.Close()

	classifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"label": "Class_4", "confidences": [{"label": "Class_4", "confidence": 0.31}]}`))
	}))
	defer classifier.Close()

	vision := &fakeVision{reply: "Looks like leaf damage."}
	tool := NewPestDetection(classifier.URL, vision)

	out, err := tool.Run(context.Background(), map[string]any{"image_url": img.URL})
	require.NoError(t, err)
	assert.Contains(t, out, "Looks like leaf damage.")
	assert.NotContains(t, vision.lastPrompt, pestClasses[5], "low confidence must use the open-ended prompt")
}

func TestPestDetectionClassifierDown(t *testing.T) {
	img := imageServer(t)
	defer img.Close()

	vision := &fakeVision{reply: "Open-ended analysis."}
	tool := NewPestDetection("", vision)

	out, err := tool.Run(context.Background(), map[string]any{"image_url": img.URL})
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted Class: unknown")
	assert.Contains(t, out, "Confidence: N/A")
	assert.Contains(t, out, "Open-ended analysis.")
}

func TestPestDetectionBadURL(t *testing.T) {
	tool := NewPestDetection("", &fakeVision{})
	out, err := tool.Run(context.Background(), map[string]any{"image_url": "not-a-url"})
	require.NoError(t, err)
	assert.Contains(t, out, "Failed to download image")
}

func TestPestDetectionMissingImage(t *testing.T) {
	tool := NewPestDetection("", &fakeVision{})
	out, err := tool.Run(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "No image URL provided")
}
