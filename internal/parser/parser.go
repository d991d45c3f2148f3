package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/dataset"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
)

// Options tunes how tabular files are read.
type Options struct {
	// Delimiter for CSV. If 0, picked from the extension (',' or '\t').
	Delimiter rune
	// SheetName selects an XLSX sheet by name; takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is a 1-based XLSX sheet position. 0 means the first sheet.
	SheetIndex int
}

// Reader loads one tabular format into a Dataset.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*dataset.Dataset, error)
}

// Writer stores a Dataset in one tabular format.
type Writer interface {
	CanWrite(filename string) bool
	Write(ds *dataset.Dataset, path string) error
}

var (
	readers []Reader
	writers []Writer
)

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	readers = append(readers, r)
}

// RegisterWriter adds a writer implementation to the registry.
func RegisterWriter(w Writer) {
	writers = append(writers, w)
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported tabular format")

// ReadFile selects a reader by file name and loads the dataset.
func ReadFile(path string, opt Options) (*dataset.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	for _, r := range readers {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// WriteFile selects a writer by file name and stores the dataset.
func WriteFile(ds *dataset.Dataset, path string) error {
	for _, w := range writers {
		if w.CanWrite(path) {
			if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			return w.Write(ds, path)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvFormat{})
	Register(xlsxFormat{})
	RegisterWriter(csvFormat{})
	RegisterWriter(xlsxFormat{})
}
