package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"0123456789abcdef"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func isolateAWSConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
}

func TestS3Client_UploadAndDelete(t *testing.T) {
	isolateAWSConfig(t)
	srv, requests := newFakeS3(t)

	client, err := NewS3Client(context.Background(), S3Config{
		Region:       "eu-west-1",
		AccessKey:    "test",
		SecretKey:    "test",
		Endpoint:     srv.URL,
		UsePathStyle: true,
	}, zap.NewNop())
	require.NoError(t, err)

	err = client.Upload(context.Background(), "backups", "portal/database_latest.db", strings.NewReader("snapshot-bytes"))
	require.NoError(t, err)

	err = client.Delete(context.Background(), "backups", "portal/database_2024-03-05_10-00-00.db")
	require.NoError(t, err)

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/backups/portal/database_latest.db", got[0].path)
	assert.Contains(t, got[0].body, "snapshot-bytes")
	assert.Equal(t, http.MethodDelete, got[1].method)
	assert.Equal(t, "/backups/portal/database_2024-03-05_10-00-00.db", got[1].path)
}

func TestS3Client_PartialCredentials(t *testing.T) {
	isolateAWSConfig(t)

	_, err := NewS3Client(context.Background(), S3Config{AccessKey: "only-the-key"}, nil)

	assert.Error(t, err)
}
