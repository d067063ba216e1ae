package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pdfcompose "github.com/alnah/go-pdfcompose"
	"github.com/alnah/go-pdfcompose/internal/fileutil"
)

// runCompose composes one document from a blank, URL, file or capture
// source and writes it.
func runCompose(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseComposeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q (use --file, --url or --capture)", ErrUsage, rest[0])
	}

	s, err := newSession(f, env)
	if err != nil {
		return err
	}
	src, err := sourceFromFlags(f.source, s.cfg)
	if err != nil {
		return err
	}
	in := s.input
	in.Source = src

	c, err := pdfcompose.NewComposer(s.opts...)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	start := time.Now()
	res, err := c.Compose(ctx, in)
	if err != nil {
		return err
	}

	path := resolveOutputPath(s.cfg.Output.DefaultDir, res.Filename)
	if err := writePDF(path, res.PDF); err != nil {
		return err
	}

	if f.common.quiet {
		return nil
	}
	if f.common.verbose {
		fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", src.Kind, path, res.Pages, time.Since(start).Round(time.Millisecond))
	} else {
		fmt.Fprintf(env.Stdout, "Created %s\n", path)
	}
	if res.WatermarkSynthesized {
		fmt.Fprintln(env.Stderr, "warning: watermark image unavailable, a text watermark was used")
	}
	return nil
}

// writePDF creates the parent directory and writes data atomically.
func writePDF(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %w", ErrWritePDF, err)
	}
	// #nosec G306 -- PDFs are meant to be readable
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWritePDF, err)
	}
	return nil
}
