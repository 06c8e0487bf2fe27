package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/max-flug/optics-ring-generator/ring"
)

// runForm asks for the ring interactively, prefilled with opts.
func runForm(opts *ringOptions) error {
	var (
		ringType = strings.ToLower(opts.RingType)
		outer    = formatMM(opts.Outer)
		inner    = formatMM(opts.Inner)
	)
	var options []huh.Option[string]
	for _, v := range ring.Variants() {
		label := fmt.Sprintf("%s (%s)", v.Label(), v.Description())
		options = append(options, huh.NewOption(label, strings.ToLower(v.Code())))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Ring type").
				Options(options...).
				Value(&ringType),
			huh.NewInput().
				Title("Outer diameter (mm)").
				Value(&outer).
				Validate(validateMM),
			huh.NewInput().
				Title("Inner diameter (mm)").
				Value(&inner).
				Validate(validateMM),
			huh.NewInput().
				Title("Output directory").
				Placeholder("current directory").
				Value(&opts.OutputDir),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	o, err := parseMM(outer)
	if err != nil {
		return err
	}
	i, err := parseMM(inner)
	if err != nil {
		return err
	}
	opts.RingType, opts.Outer, opts.Inner = ringType, o, i
	return nil
}

func formatMM(mm float32) string {
	if mm == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(mm), 'g', -1, 32)
}

func parseMM(s string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid diameter %q", s)
	}
	return float32(f), nil
}

func validateMM(s string) error {
	f, err := parseMM(s)
	if err != nil {
		return err
	}
	if !(f > 0) {
		return fmt.Errorf("diameter must be positive")
	}
	return nil
}
