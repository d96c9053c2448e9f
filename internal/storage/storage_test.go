package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method      string
	path        string
	versionID   string
	contentType string
}

func newFakeS3(t *testing.T, versioned bool) (*S3Store, *[]recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			versionID:   r.URL.Query().Get("versionId"),
			contentType: r.Header.Get("Content-Type"),
		})
		mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"5d41402abc4b2a76b9719d911017c592"`)
			if versioned {
				w.Header().Set("x-amz-version-id", "v-123")
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(server.Close)

	store, err := NewS3Store(Config{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "documents",
		Region:    "us-east-1",
		Versioned: versioned,
	})
	require.NoError(t, err)

	return store, &requests
}

func TestS3Store_UploadReturnsETag(t *testing.T) {
	store, requests := newFakeS3(t, false)

	fileID, err := store.Upload(context.Background(), []byte("%PDF-1.7"), "pensioners/p1/doc.pdf", "application/pdf")

	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", fileID)
	require.NotEmpty(t, *requests)
	last := (*requests)[len(*requests)-1]
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/documents/pensioners/p1/doc.pdf", last.path)
	assert.Equal(t, "application/pdf", last.contentType)
}

func TestS3Store_VersionedUploadAndDelete(t *testing.T) {
	store, requests := newFakeS3(t, true)

	fileID, err := store.Upload(context.Background(), []byte("jpeg"), "pensioners/p1/doc.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "v-123", fileID)

	require.NoError(t, store.Delete(context.Background(), fileID, "pensioners/p1/doc.jpg"))

	last := (*requests)[len(*requests)-1]
	assert.Equal(t, http.MethodDelete, last.method)
	assert.Equal(t, "/documents/pensioners/p1/doc.jpg", last.path)
	assert.Equal(t, "v-123", last.versionID)
}
