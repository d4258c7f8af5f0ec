package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

const testURL = "https://gen.test/v1/responses"

const okBody = `{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"hello"}]}]}`

func newTestClient(t *testing.T, mt *httpmock.MockTransport, retries int, temp *float64) Client {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	c, err := NewClient(log, Config{
		APIKey:      "secret",
		BaseURL:     "https://gen.test/",
		Model:       "m1",
		MaxRetries:  retries,
		MaxBackoff:  time.Millisecond,
		Temperature: temp,
		HTTPClient:  &http.Client{Transport: mt},
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	log, _ := logger.New("test")
	_, err := NewClient(log, Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerateTextRetriesRetryableStatus(t *testing.T) {
	mt := httpmock.NewMockTransport()
	statuses := []int{503, 429, 200}
	calls := 0
	mt.RegisterResponder("POST", testURL, func(*http.Request) (*http.Response, error) {
		code := statuses[calls]
		calls++
		if code != 200 {
			return httpmock.NewStringResponse(code, "busy"), nil
		}
		return httpmock.NewStringResponse(200, okBody), nil
	})
	c := newTestClient(t, mt, 3, nil)

	out, err := c.GenerateText(context.Background(), "sys", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 3, mt.GetTotalCallCount())
}

func TestGenerateTextDoesNotRetryClientErrors(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder("POST", testURL, httpmock.NewStringResponder(401, "nope"))
	c := newTestClient(t, mt, 3, nil)

	_, err := c.GenerateText(context.Background(), "", "hi")
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 401, he.HTTPStatusCode())
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestGenerateTextDropsRejectedTemperature(t *testing.T) {
	mt := httpmock.NewMockTransport()
	var bodies []map[string]any
	mt.RegisterResponder("POST", testURL, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		var m map[string]any
		_ = json.Unmarshal(raw, &m)
		bodies = append(bodies, m)
		if _, ok := m["temperature"]; ok {
			return httpmock.NewStringResponse(400, `{"error":{"message":"Unsupported parameter: 'temperature' is not supported with this model."}}`), nil
		}
		return httpmock.NewStringResponse(200, okBody), nil
	})
	temp := 0.2
	c := newTestClient(t, mt, 0, &temp)

	out, err := c.GenerateText(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	require.Len(t, bodies, 2)
	_, second := bodies[1]["temperature"]
	assert.False(t, second)
}

func TestGenerateTextWithImagesBuildsContentParts(t *testing.T) {
	mt := httpmock.NewMockTransport()
	var body map[string]any
	mt.RegisterResponder("POST", testURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &body)
		return httpmock.NewStringResponse(200, okBody), nil
	})
	c := newTestClient(t, mt, 0, nil)

	_, err := c.GenerateTextWithImages(context.Background(), "", "look", []ImageInput{{ImageURL: "data:image/png;base64,AAAA", Detail: "high"}, {ImageURL: " "}})
	require.NoError(t, err)

	input := body["input"].([]any)
	require.Len(t, input, 1)
	content := input[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "input_text", content[0].(map[string]any)["type"])
	assert.Equal(t, "input_image", content[1].(map[string]any)["type"])
	assert.Equal(t, "high", content[1].(map[string]any)["detail"])
}

func TestRefusalAndEmptyOutputAreErrors(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder("POST", testURL, httpmock.NewStringResponder(200, `{"output":[],"refusal":"no"}`))
	c := newTestClient(t, mt, 0, nil)
	_, err := c.GenerateText(context.Background(), "", "hi")
	assert.ErrorContains(t, err, "refused")

	mt.Reset()
	mt.RegisterResponder("POST", testURL, httpmock.NewStringResponder(200, `{"output":[]}`))
	_, err = c.GenerateText(context.Background(), "", "hi")
	assert.ErrorContains(t, err, "no output_text")
}
