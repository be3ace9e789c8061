package cmd

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func acquireTestConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{DataDir: t.TempDir(), Quiet: true}
}

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestAcquireDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.txt.gz":
			w.Write(gzipBytes(t, "1 2 3\n"))
		case "/labels.txt":
			w.Write([]byte("1 1 -1\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := acquireTestConfig(t)
	urls := []string{server.URL + "/a.txt.gz", server.URL + "/labels.txt"}

	bases, err := acquireDataset(newHTTPClient(), "testset", urls, cfg, true)
	require.NoError(t, err)

	dir := datasetDir(cfg.DataDir, "testset")
	require.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "labels"),
	}, bases)

	// the gzip archive is extracted and removed, the plain text left alone
	content, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "1 2 3\n", string(content))
	_, err = os.Stat(filepath.Join(dir, "a.txt.gz"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "labels.txt"))
	require.NoError(t, err)
}

func TestAcquireDatasetFetchFailureCleansUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/good.txt" {
			w.Write([]byte("ok\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := acquireTestConfig(t)
	urls := []string{server.URL + "/good.txt", server.URL + "/bad.txt"}

	_, err := acquireDataset(newHTTPClient(), "testset", urls, cfg, true)
	require.Error(t, err)

	// all-or-nothing: the whole dataset directory is gone
	_, statErr := os.Stat(datasetDir(cfg.DataDir, "testset"))
	require.True(t, os.IsNotExist(statErr))
}

func TestAcquireDatasetRetriesCorruptArchiveOnce(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Write([]byte("not gzip data"))
			return
		}
		w.Write(gzipBytes(t, "5 6 7\n"))
	}))
	defer server.Close()

	cfg := acquireTestConfig(t)
	urls := []string{server.URL + "/k.txt.gz"}

	bases, err := acquireDataset(newHTTPClient(), "testset", urls, cfg, true)
	require.NoError(t, err)
	require.Equal(t, 2, requests, "a corrupt archive is downloaded exactly once more")

	content, err := os.ReadFile(bases[0])
	require.NoError(t, err)
	require.Equal(t, "5 6 7\n", string(content))
}

func TestAcquireDatasetSecondExtractionFailureIsFatal(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("never valid gzip"))
	}))
	defer server.Close()

	cfg := acquireTestConfig(t)
	_, err := acquireDataset(newHTTPClient(), "testset", []string{server.URL + "/k.txt.gz"}, cfg, true)
	require.Error(t, err)
	require.Equal(t, 2, requests, "no third attempt after the retry cycle")
}
