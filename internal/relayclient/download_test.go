package relayclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDownloaderFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("x-goog-api-key"))
		_, _ = w.Write([]byte("bytes"))
	}))
	defer srv.Close()

	data, err := (&Downloader{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, []byte("bytes"), data)
}

func TestDownloaderNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := (&Downloader{ProviderKey: "k"}).Fetch(context.Background(), srv.URL)
	var retErr *RetrievalError
	require.ErrorAs(t, err, &retErr)
	require.Equal(t, http.StatusForbidden, retErr.StatusCode)

	var genErr *GenerationError
	require.False(t, errors.As(err, &genErr))
}

func TestDownloaderTransportFailure(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("no route to host")
	})}
	_, err := (&Downloader{HTTPClient: hc}).Fetch(context.Background(), "https://provider/video/abc.mp4")
	var retErr *RetrievalError
	require.ErrorAs(t, err, &retErr)
	require.Zero(t, retErr.StatusCode)
	require.Contains(t, err.Error(), "no route to host")
}

func TestDownloaderEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := (&Downloader{}).Fetch(context.Background(), srv.URL)
	var retErr *RetrievalError
	require.ErrorAs(t, err, &retErr)
}

func TestMimeFromPath(t *testing.T) {
	cases := map[string]string{
		"a.png":     "image/png",
		"a.JPG":     "image/jpeg",
		"a.jpeg":    "image/jpeg",
		"dir/a.gif": "image/gif",
		"a.webp":    "image/webp",
		"a.bmp":     "image/jpeg",
		"noext":     "image/jpeg",
	}
	for in, want := range cases {
		require.Equal(t, want, MimeFromPath(in), in)
	}
	require.Equal(t, "jpg", ExtFromMime("image/jpeg"))
	require.Equal(t, "png", ExtFromMime(""))
}
