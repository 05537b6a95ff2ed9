package epub

import (
	"fmt"
	"os"
)

// Options configures one EPUB packaging run.
type Options struct {
	BookDir    string
	OutputPath string
	Language   string
	Force      bool
	Assets     []Asset
}

// Package loads a rendered book directory and writes the packaged EPUB to
// opts.OutputPath. It refuses to overwrite an existing output unless
// Force is set.
func Package(opts Options) error {
	if !opts.Force {
		if _, err := os.Stat(opts.OutputPath); err == nil {
			return fmt.Errorf("epub: %s already exists", opts.OutputPath)
		}
	}

	book, chapters, err := LoadBookDir(opts.BookDir, opts.Language)
	if err != nil {
		return err
	}

	builder := NewBuilder(book, chapters, opts.Assets)
	if opts.Force {
		_ = os.Remove(opts.OutputPath)
	}
	return builder.Build(opts.OutputPath)
}
