package inference_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank_reviews/internal/adapters/inference"
	"bank_reviews/internal/domain"
)

func server(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.NotEmpty(t, in["inputs"])
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestClassify_Batched(t *testing.T) {
	ts := server(t, `[[{"label":"NEGATIVE","score":0.02},{"label":"POSITIVE","score":0.98}]]`)
	cl, err := inference.New(ts.URL, "tok", 100)
	require.NoError(t, err)

	p, err := cl.Classify(context.Background(), "great app")
	require.NoError(t, err)
	assert.Equal(t, domain.Positive, p.Label)
	assert.InDelta(t, 0.98, p.Score, 1e-9)
}

func TestClassify_Flat(t *testing.T) {
	ts := server(t, `[{"label":"NEGATIVE","score":0.91}]`)
	cl, err := inference.New(ts.URL, "", 100)
	require.NoError(t, err)

	p, err := cl.Classify(context.Background(), "app crashes")
	require.NoError(t, err)
	assert.Equal(t, domain.Negative, p.Label)
	assert.InDelta(t, -0.91, p.Signed(), 1e-9)
}

func TestClassify_EmptyAndMalformed(t *testing.T) {
	cl, _ := inference.New(server(t, `[[]]`).URL, "", 100)
	_, err := cl.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, inference.ErrEmptyResponse)

	cl, _ = inference.New(server(t, `{"error":"loading"}`).URL, "", 100)
	_, err = cl.Classify(context.Background(), "x")
	assert.Error(t, err)
}
