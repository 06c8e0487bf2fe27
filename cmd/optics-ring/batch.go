package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/goccy/go-yaml"
	ringgen "github.com/max-flug/optics-ring-generator"
	"github.com/max-flug/optics-ring-generator/ring"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Manifest lists rings to generate in one batch.
type Manifest struct {
	OutputDir   string         `yaml:"output_dir"`
	Concurrency int            `yaml:"concurrency"`
	Rings       []ManifestRing `yaml:"rings"`
}

// ManifestRing is one manifest entry.
type ManifestRing struct {
	Type  string  `yaml:"type"`
	Outer float32 `yaml:"outer"`
	Inner float32 `yaml:"inner"`
}

// Parameters validates the entry.
func (s ManifestRing) Parameters() (ring.Parameters, error) {
	v, err := ring.ParseVariant(s.Type)
	if err != nil {
		return ring.Parameters{}, err
	}
	return ring.New(v, s.Outer, s.Inner)
}

// loadManifest decodes and validates a batch manifest.
func loadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest YAML: %w", err)
	}
	if len(m.Rings) == 0 {
		return nil, errors.New("manifest lists no rings")
	}
	if m.Concurrency < 0 {
		return nil, fmt.Errorf("negative concurrency %d", m.Concurrency)
	}
	for i, entry := range m.Rings {
		if _, err := entry.Parameters(); err != nil {
			return nil, fmt.Errorf("ring %d (%s %g/%g): %w", i, entry.Type, entry.Outer, entry.Inner, err)
		}
	}
	return &m, nil
}

// batchResult is the outcome of one manifest entry.
type batchResult struct {
	Ring ManifestRing
	Path string
	Err  error
}

// runBatch generates every ring of m with at most m.Concurrency rings in
// flight. Failed rings do not stop the others; their errors are in the
// results. The returned error is only set if ctx was cancelled.
func runBatch(ctx context.Context, gen *ringgen.Generator, m *Manifest, advisory bool) ([]batchResult, error) {
	limit := m.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]batchResult, len(m.Rings))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, entry := range m.Rings {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i].Ring = entry
			p, err := entry.Parameters()
			if err != nil {
				results[i].Err = err
				return nil
			}
			res, err := gen.Generate(p, ringgen.Options{Dir: m.OutputDir, Advisory: advisory})
			results[i].Path, results[i].Err = res.Path, err
			return nil
		})
	}
	return results, g.Wait()
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		concurrency    int
		skipValidation bool
	)
	cmd := &cobra.Command{
		Use:   "batch <manifest.yaml>",
		Short: "Generate every ring listed in a YAML manifest",
		Example: `  # rings.yaml
  output_dir: rings
  concurrency: 4
  rings:
    - {type: cx, outer: 50, inner: 25}
    - {type: 3p, outer: 40, inner: 20.5}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, fc, err := a.generator()
			if err != nil {
				return err
			}
			fp, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open manifest: %w", err)
			}
			defer func() {
				_ = fp.Close() // Best-effort cleanup
			}()
			m, err := loadManifest(fp)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				m.Concurrency = concurrency
			}
			// --output-dir beats the manifest, which beats the config file.
			if cmd.Flags().Changed("output-dir") || m.OutputDir == "" {
				m.OutputDir = fc.OutputDir
			}
			slog.Debug("running batch", "rings", len(m.Rings), "dir", m.OutputDir, "concurrency", m.Concurrency)
			results, err := runBatch(cmd.Context(), gen, m, skipValidation)
			if err != nil {
				return err
			}
			var failed int
			for _, r := range results {
				if r.Err != nil {
					failed++
					slog.Error("ring failed", "type", r.Ring.Type, "outer", r.Ring.Outer, "inner", r.Ring.Inner, "error", r.Err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), r.Path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d rings failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "rings generated in parallel (default from manifest, else number of CPUs)")
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "write files even if rings break printer limits")
	return cmd
}
