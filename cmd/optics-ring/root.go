package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	ringgen "github.com/max-flug/optics-ring-generator"
	"github.com/max-flug/optics-ring-generator/render"
	"github.com/max-flug/optics-ring-generator/ring"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	thumbWidth  = 640
	thumbHeight = 480
)

// ringOptions are the ring selected on the command line or in the form.
type ringOptions struct {
	RingType       string
	Outer, Inner   float32
	OutputDir      string
	SkipValidation bool
	Info           bool
	UI             bool
	Thumbnail      bool
}

// app holds the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}
	var opts ringOptions
	rootCmd := &cobra.Command{
		Use:   "optics-ring",
		Short: "Generate 3D printable support rings for optics",
		Long: `optics-ring turns a ring type, an outer diameter and an inner diameter
into a watertight binary STL file ready for slicing.

Ring types:
` + variantHelp(),
		Example: `  optics-ring -r cx -o 50 -i 25
  optics-ring -r 3p -o 40 -i 20.5 --output-dir rings --manufacturing-info
  optics-ring --ui`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			setupLogging(a.verbose)
			return readConfigFile(a.v, a.cfgFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.UI || (opts.RingType == "" && opts.Outer == 0 && opts.Inner == 0) {
				if err := runForm(&opts); err != nil {
					return err
				}
			}
			return a.runGenerate(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.optics-ring.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	pf.String("output-dir", "", "directory to write STL files to (default is the working directory)")
	_ = a.v.BindPFlag("output_dir", pf.Lookup("output-dir"))

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.RingType, "ring-type", "r", "", "ring type: cx, cc or 3p")
	flags.Float32VarP(&opts.Outer, "outer-diameter", "o", 0, "outer diameter in mm")
	flags.Float32VarP(&opts.Inner, "inner-diameter", "i", 0, "inner diameter in mm")
	flags.BoolVar(&opts.SkipValidation, "skip-validation", false, "write the file even if the ring breaks printer limits")
	flags.BoolVar(&opts.Info, "manufacturing-info", false, "print a manufacturing summary")
	flags.BoolVar(&opts.UI, "ui", false, "choose the ring in an interactive form")
	flags.BoolVar(&opts.Thumbnail, "thumbnail", false, "render a PNG thumbnail next to the STL file")

	rootCmd.AddCommand(newBatchCmd(a), newVersionCmd())
	return rootCmd
}

func (a *app) generator() (*ringgen.Generator, fileConfig, error) {
	cfg, fc, err := loadConfig(a.v)
	if err != nil {
		return nil, fc, err
	}
	gen, err := ringgen.New(cfg)
	return gen, fc, err
}

func (a *app) runGenerate(cmd *cobra.Command, opts ringOptions) error {
	gen, fc, err := a.generator()
	if err != nil {
		return err
	}
	v, err := ring.ParseVariant(opts.RingType)
	if err != nil {
		return err
	}
	p, err := ring.New(v, opts.Outer, opts.Inner)
	if err != nil {
		return err
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = fc.OutputDir
	}
	slog.Debug("generating ring", "ring", p.String(), "dir", dir, "segments", gen.Config.Profile.SegmentsFor(float64(p.OuterDiameterMM())))
	res, err := gen.Generate(p, ringgen.Options{Dir: dir, Advisory: opts.SkipValidation})
	if err != nil {
		return err
	}
	for _, vi := range res.Violations {
		slog.Warn("printability check failed", "code", vi.Code, "detail", vi.Message)
	}
	slog.Info("ring written", "path", res.Path, "triangles", res.Mesh.Len())
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Path)

	if opts.Info {
		r, err := gen.Report(p)
		if err != nil {
			return err
		}
		r.Filename = res.Path
		if err := render.WriteReport(out, r); err != nil {
			return err
		}
	}
	if opts.Thumbnail {
		png := strings.TrimSuffix(res.Path, ".stl") + ".png"
		if err := render.Thumbnail(res.Path, png, thumbWidth, thumbHeight); err != nil {
			return err
		}
		slog.Info("thumbnail written", "path", png)
	}
	return nil
}

func variantHelp() string {
	var b strings.Builder
	for _, v := range ring.Variants() {
		fmt.Fprintf(&b, "  %-3s %-12s %s\n", strings.ToLower(v.Code()), v.Label(), v.Description())
	}
	return b.String()
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
