package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProber(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	ctx := context.Background()
	assert.True(t, NewHTTPProber(ok.URL, time.Second).IsOnline(ctx))
	assert.False(t, NewHTTPProber(broken.URL, time.Second).IsOnline(ctx))

	unreachable := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := unreachable.URL
	unreachable.Close()
	assert.False(t, NewHTTPProber(url, time.Second).IsOnline(ctx))

	assert.False(t, NewHTTPProber("", time.Second).IsOnline(ctx))
}

func TestHTTPProber_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	assert.False(t, NewHTTPProber(slow.URL, 50*time.Millisecond).IsOnline(context.Background()))
}

func TestParseImageDataURL(t *testing.T) {
	img, err := ParseImageDataURL("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, []byte("hello"), img.Data)

	img, err = ParseImageDataURL("data:image/jpg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", img.Format)

	img, err = ParseImageDataURL("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", img.Format)

	_, err = ParseImageDataURL("data:image/png;base64,@@@")
	assert.Error(t, err)
	_, err = ParseImageDataURL("")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5, "..."))
	assert.Equal(t, "ñañ...", Truncate("ñañaña", 3, "..."))
	assert.Equal(t, "abc", Truncate("abc", 0, "..."))
}

func TestRandomChoice(t *testing.T) {
	assert.Equal(t, "", RandomChoice(nil))
	opts := []string{"a", "b", "c"}
	for i := 0; i < 20; i++ {
		assert.Contains(t, opts, RandomChoice(opts))
	}
}

func TestGeminiClient_NotConfigured(t *testing.T) {
	g := NewGeminiClient("  ", "", "")
	assert.False(t, g.Configured())
	assert.Equal(t, "gemini-2.5-flash", g.Model)

	_, err := g.GenerateText(context.Background(), "hola", nil)
	assert.ErrorIs(t, err, ErrModelNotConfigured)
}

func TestGeminiClient_ReusesSDKClient(t *testing.T) {
	g := NewGeminiClient("test-key", "", "")

	first, err := g.sdk()
	require.NoError(t, err)
	second, err := g.sdk()
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, g.Close())
	assert.Nil(t, g.client)
	assert.NoError(t, g.Close())
}
