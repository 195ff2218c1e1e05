package verification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuffer(t *testing.T) {
	src := FromBuffer([]byte("image-bytes"))
	b, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), b)
}

func TestResolveURLFetchesOnce(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("remote-image"))
	}))
	defer srv.Close()

	src := FromURL(srv.URL)
	b, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("remote-image"), b)

	// Second resolve serves the cached buffer.
	_, err = src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestResolveURLNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := FromURL(srv.URL)
	_, err := src.Resolve(context.Background())
	assert.Error(t, err)
}

func TestResolveEmptySource(t *testing.T) {
	var src ImageSource
	_, err := src.Resolve(context.Background())
	assert.Error(t, err)
}
