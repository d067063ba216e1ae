package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	pdfcompose "github.com/alnah/go-pdfcompose"
)

// composer is the part of pdfcompose.Composer the batch workers use.
type composer interface {
	Compose(ctx context.Context, in pdfcompose.Input) (*pdfcompose.Result, error)
}

// Compile-time interface implementation check.
var _ composer = (*pdfcompose.Composer)(nil)

// Pool abstracts composer pool operations for testability.
type Pool interface {
	Acquire() (composer, error)
	Release(composer)
	Size() int
}

// libraryPool adapts *pdfcompose.Pool to Pool.
type libraryPool struct{ *pdfcompose.Pool }

func (p libraryPool) Acquire() (composer, error) {
	c, err := p.Pool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (p libraryPool) Release(c composer) {
	if pc, ok := c.(*pdfcompose.Composer); ok {
		p.Pool.Release(pc)
	}
}

// FileToCompose is one PDF of a batch.
type FileToCompose struct {
	InputPath string
}

// ComposeResult holds the outcome of a single composition.
type ComposeResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Err        error
	Duration   time.Duration
}

// runBatch rebuilds every PDF named by args, in parallel.
func runBatch(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseBatchFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	s, err := newSession(f, env)
	if err != nil {
		return err
	}

	files, err := discoverFiles(rest)
	if err != nil {
		return err
	}
	if len(files) > 1 && filepath.Ext(s.cfg.Output.DefaultDir) == ".pdf" {
		return fmt.Errorf("%w: --output must be a directory for %d files", ErrUsage, len(files))
	}

	pool := pdfcompose.NewPool(pdfcompose.ResolvePoolSize(s.workers), s.opts...)
	defer func() { _ = pool.Close() }()

	results := composeBatch(ctx, libraryPool{pool}, files, s)
	failed := printResults(results, f.common.quiet, f.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d composition(s) failed", failed)
	}
	return nil
}

// discoverFiles expands args into PDF files. Directories contribute their
// .pdf files, not recursively; files are kept whatever their extension so
// the selection check reports them.
func discoverFiles(args []string) ([]FileToCompose, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	var files []FileToCompose
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, FileToCompose{InputPath: arg})
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				continue
			}
			files = append(files, FileToCompose{InputPath: filepath.Join(arg, e.Name())})
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no PDF files found in %s", ErrNoInput, strings.Join(args, ", "))
	}
	return files, nil
}

// composeBatch processes files concurrently using the composer pool.
func composeBatch(ctx context.Context, pool Pool, files []FileToCompose, s *session) []ComposeResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ComposeResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			c, err := pool.Acquire()
			if err != nil {
				// Composer creation failed, mark this worker's jobs as failed
				for idx := range jobs {
					results[idx] = ComposeResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %w", ErrComposerInit, err),
					}
				}
				return
			}
			defer pool.Release(c)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ComposeResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = composeFile(ctx, c, files[idx], s)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// composeFile rebuilds a single file and writes the result.
func composeFile(ctx context.Context, c composer, f FileToCompose, s *session) ComposeResult {
	start := time.Now()
	result := ComposeResult{InputPath: f.InputPath}
	finish := func(err error) ComposeResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	sel, err := readSelection(f.InputPath)
	if err != nil {
		return finish(err)
	}

	in := s.input
	in.Source = pdfcompose.Source{Kind: pdfcompose.SourceFile, File: sel}
	res, err := c.Compose(ctx, in)
	if err != nil {
		return finish(err)
	}

	// Without an output, documents land next to their source.
	dir := s.cfg.Output.DefaultDir
	if dir == "" {
		dir = filepath.Dir(f.InputPath)
	}
	result.OutputPath = resolveOutputPath(dir, res.Filename)
	result.Pages = res.Pages
	return finish(writePDF(result.OutputPath, res.PDF))
}

// ResultSummary holds the count of succeeded and failed compositions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed compositions.
func countResults(results []ComposeResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs composition results and returns the failure count.
func printResults(results []ComposeResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", r.InputPath, r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
