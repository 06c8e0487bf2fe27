// Package ringgen generates 3D printable support rings for optical
// elements. A ring is described by three numbers: its shape variant,
// outer diameter and inner diameter. Generation checks the ring can be
// printed, sweeps its cross-section into a closed triangle mesh and
// writes the mesh as a binary STL file.
//
// Rings are immutable and every call builds its own mesh, so rings may
// be generated concurrently. Two calls with identical parameters writing
// to the same directory race for the same file name; the last writer wins.
package ringgen

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/max-flug/optics-ring-generator/helpers/matter"
	"github.com/max-flug/optics-ring-generator/mesh"
	"github.com/max-flug/optics-ring-generator/profile"
	"github.com/max-flug/optics-ring-generator/render"
	"github.com/max-flug/optics-ring-generator/ring"
)

// Config bundles everything a Generator needs besides the ring itself.
type Config struct {
	Profile profile.Config `mapstructure:"profile" yaml:"profile"`
	Limits  matter.Limits  `mapstructure:"limits" yaml:"limits"`
	// Material is used for mass and shrinkage estimates in reports.
	Material matter.Material `mapstructure:"-" yaml:"-"`
	// AtomicWrite writes STL files to a temporary file first and renames
	// it into place once complete.
	AtomicWrite bool `mapstructure:"atomic_write" yaml:"atomic_write"`
}

// DefaultConfig returns the configuration used by the package level functions.
func DefaultConfig() Config {
	return Config{
		Profile:  profile.DefaultConfig(),
		Limits:   matter.DefaultLimits(),
		Material: matter.PLA,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	if c.Material == nil {
		return errors.New("no material")
	}
	return nil
}

// Generation stages reported by GenerateError.
const (
	StageProfile = "profile"
	StageMesh    = "mesh"
	StageCheck   = "check"
)

// GenerateError reports a geometry defect found while generating a ring.
// These are bugs in the generator, never the result of bad input; Params
// holds everything needed to reproduce them.
type GenerateError struct {
	Params ring.Parameters
	Stage  string
	Err    error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("generating %v: %s stage: %v", e.Params, e.Stage, e.Err)
}

func (e *GenerateError) Unwrap() error { return e.Err }

// Report is the manufacturing summary of a ring.
type Report = render.Report

// Generator builds ring meshes and files with a fixed configuration.
type Generator struct {
	Config Config
}

// New returns a Generator after validating cfg.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{Config: cfg}, nil
}

// ValidateForPrinting checks p against the printer limits. It returns
// matter.Violations, or nil if p can be printed.
func (g *Generator) ValidateForPrinting(p ring.Parameters) error {
	return matter.Check(p, g.Config.Limits).Err()
}

// Build returns the cross-section and mesh of p. Errors are *GenerateError.
func (g *Generator) Build(p ring.Parameters) (profile.Section, mesh.Mesh, error) {
	sec, err := profile.Build(p, g.Config.Profile)
	if err != nil {
		return profile.Section{}, mesh.Mesh{}, &GenerateError{Params: p, Stage: StageProfile, Err: err}
	}
	m, err := mesh.Build(sec)
	if err != nil {
		return profile.Section{}, mesh.Mesh{}, &GenerateError{Params: p, Stage: StageMesh, Err: err}
	}
	return sec, m, nil
}

// Options control a single Generate call.
type Options struct {
	// Dir is the output directory. Empty means the working directory.
	Dir string
	// Advisory writes the file even if the ring breaks printer limits.
	// Violations are then returned in Result instead of as an error.
	// Geometry defects and bores below the printable minimum are never
	// advisory; a bore that small collapses the lip geometry.
	Advisory bool
}

// Result of a Generate call.
type Result struct {
	Path       string
	Mesh       mesh.Mesh
	Violations matter.Violations
}

// Generate checks p, builds its mesh, checks the mesh and writes it to
// Options.Dir under p.Filename(). No file is written unless every check
// passes or Options.Advisory is set. A limit broken by both the ring and
// its mesh is reported once.
//
// Errors are matter.Violations for rings that break printer limits,
// *GenerateError for geometry defects and *render.WriteError for I/O failures.
func (g *Generator) Generate(p ring.Parameters, opts Options) (Result, error) {
	vs := matter.Check(p, g.Config.Limits)
	if len(vs) > 0 && (!opts.Advisory || vs.Has(matter.BoreTooSmall)) {
		return Result{Violations: vs}, vs
	}
	_, m, err := g.Build(p)
	if err != nil {
		return Result{Violations: vs}, err
	}
	for _, v := range matter.CheckMesh(m, g.Config.Limits) {
		switch v.Code {
		case matter.NotClosed, matter.DegenerateFaces, matter.NoVolume:
			return Result{Violations: vs}, &GenerateError{Params: p, Stage: StageCheck, Err: matter.Violations{v}}
		}
		if !vs.Has(v.Code) {
			vs = append(vs, v)
		}
	}
	if len(vs) > 0 && !opts.Advisory {
		return Result{Mesh: m, Violations: vs}, vs
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, p.Filename())
	if err := render.CreateSTL(path, header(p), m, g.Config.AtomicWrite); err != nil {
		return Result{Mesh: m, Violations: vs}, err
	}
	return Result{Path: path, Mesh: m, Violations: vs}, nil
}

// GenerateFile writes the STL file of p to dir and returns its path.
func (g *Generator) GenerateFile(p ring.Parameters, dir string) (string, error) {
	res, err := g.Generate(p, Options{Dir: dir})
	return res.Path, err
}

func header(p ring.Parameters) string {
	return fmt.Sprintf("optics-ring %s OD %.2fmm ID %.2fmm", p.Variant().Code(), p.OuterDiameterMM(), p.InnerDiameterMM())
}
