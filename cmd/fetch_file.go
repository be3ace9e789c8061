package cmd

import (
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// fetchChunkSize is the read granularity of a download; progress is
// reported after every chunk.
const fetchChunkSize = 8192

func newHTTPClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = log.StandardLogger()
	return client
}

// fetchFile downloads url into destDir, returning the local path. A file
// whose name matches the URL basename counts as a cache hit and is returned
// without any network access. No partially written file survives a failed
// transfer, so a later attempt starts from scratch instead of hitting a
// truncated cache entry.
func fetchFile(client *retryablehttp.Client, url, destDir string, progress io.Writer) (string, error) {
	fileName := path.Base(url)
	fullName := filepath.Join(destDir, fileName)
	if _, err := os.Stat(fullName); err == nil {
		return fullName, nil
	}

	log.WithFields(log.Fields{"url": url}).Info("Downloading data")
	start := time.Now()

	resp, err := client.Get(url)
	if err != nil {
		return "", errors.Wrapf(err, "download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	local, err := os.Create(fullName)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", fullName)
	}

	reporter := newProgressReporter(progress, resp.ContentLength)
	copyErr := copyChunks(local, resp.Body, reporter)
	closeErr := local.Close()

	if copyErr != nil {
		os.Remove(fullName)
		return "", errors.Wrapf(copyErr, "download %s", url)
	}
	if closeErr != nil {
		os.Remove(fullName)
		return "", errors.Wrapf(closeErr, "close %s", fullName)
	}
	reporter.Finish()

	log.WithFields(log.Fields{"duration": time.Since(start)}).Printf("Download complete")
	return fullName, nil
}

func copyChunks(dst io.Writer, src io.Reader, reporter *progressReporter) error {
	buf := make([]byte, fetchChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			reporter.Add(n)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
