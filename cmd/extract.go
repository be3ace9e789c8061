package cmd

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// extractArchive decompresses file into its parent directory. Format dispatch
// is by filename suffix; tarballs additionally sniff the compression from the
// leading magic bytes. Plain .txt files are left untouched; every other
// archive is removed after a successful extraction unless keep is set.
func extractArchive(file string, keep bool) error {
	log.WithFields(log.Fields{"archive": file}).Info("Extracting data")
	dataDir := filepath.Dir(file)

	var err error
	switch {
	case strings.HasSuffix(file, ".zip"):
		err = extractZip(file, dataDir)
	case strings.HasSuffix(file, ".txt"):
		// already plain text
		return nil
	case strings.HasSuffix(file, ".tar"),
		strings.HasSuffix(file, ".tar.gz"),
		strings.HasSuffix(file, ".tgz"),
		strings.HasSuffix(file, ".tar.bz2"):
		err = extractTar(file, dataDir)
	case strings.HasSuffix(file, ".gz"):
		err = extractGzip(file)
	default:
		err = extractTar(file, dataDir)
	}
	if err != nil {
		return errors.Wrapf(err, "extract %s", file)
	}

	if !keep {
		if err := os.Remove(file); err != nil {
			return errors.Wrapf(err, "remove archive %s", file)
		}
	}
	return nil
}

func extractZip(file, dataDir string) error {
	r, err := zip.OpenReader(file)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, entry := range r.File {
		target, err := entryPath(dataDir, entry.Name)
		if err != nil {
			return err
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		src, err := entry.Open()
		if err != nil {
			return err
		}
		err = writeEntry(target, src)
		src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extractGzip decompresses a single-stream gzip file into a sibling file with
// the .gz suffix stripped.
func extractGzip(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()

	return writeEntry(strings.TrimSuffix(file, ".gz"), zr)
}

func extractTar(file, dataDir string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var src io.Reader = br
	if magic, err := br.Peek(3); err == nil {
		switch {
		case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
			zr, err := gzip.NewReader(br)
			if err != nil {
				return err
			}
			defer zr.Close()
			src = zr
		case string(magic) == "BZh":
			src = bzip2.NewReader(br)
		}
	}

	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		target, err := entryPath(dataDir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := writeEntry(target, tr); err != nil {
				return err
			}
		}
	}
}

// entryPath joins an archive member name to the extraction directory,
// rejecting names that would escape it.
func entryPath(dataDir, name string) (string, error) {
	target := filepath.Join(dataDir, filepath.Clean(name))
	if !strings.HasPrefix(target, filepath.Clean(dataDir)+string(os.PathSeparator)) {
		return "", errors.Errorf("illegal archive member path %q", name)
	}
	return target, nil
}

func writeEntry(target string, src io.Reader) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
