package cmd

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultDataDir is the dataset cache root used when no directory is
// configured. It is resolved relative to the working directory by the
// commands, never read ambiently inside the pipeline itself.
const DefaultDataDir = "Data"

type Config struct {
	Mode         string
	DataDir      string
	BaseURL      string
	KeepArchives bool
	Quiet        bool
	Classes      string
	MaxPerClass  int
	ExportFile   string
}

func (c *Config) Validate() error {
	if err := c.validateCommon(); err != nil {
		return err
	}

	// validate specific
	switch c.Mode {
	case "fetch":
		return nil
	case "subset":
		return c.validateSubset()
	default:
		return errors.Errorf("unrecognized mode %q", c.Mode)
	}
}

func (c *Config) validateCommon() error {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}

	if c.BaseURL == "" {
		return errors.Errorf("base URL must be set")
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	return nil
}

func (c Config) validateSubset() error {
	if c.MaxPerClass <= 0 {
		return errors.Errorf("samples per class must be larger than 0")
	}

	if _, _, err := c.ClassPair(); err != nil {
		return err
	}

	return nil
}

// ClassPair parses the configured 1-based class pair, e.g. "5,7".
func (c Config) ClassPair() (int, int, error) {
	parts := strings.Split(c.Classes, ",")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("classes must be two comma-separated class numbers, got %q", c.Classes)
	}

	class1, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errors.Errorf("invalid class number %q", parts[0])
	}
	class2, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errors.Errorf("invalid class number %q", parts[1])
	}

	if class1 < 1 || class2 < 1 {
		return 0, 0, errors.Errorf("class numbering starts at 1, got %d,%d", class1, class2)
	}
	if class1 == class2 {
		return 0, 0, errors.Errorf("classes must differ, got %d,%d", class1, class2)
	}

	return class1, class2, nil
}

func (c Config) progressOut() io.Writer {
	if c.Quiet {
		return io.Discard
	}
	return os.Stderr
}
