package render

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Report is the manufacturing summary of one generated ring.
type Report struct {
	Code, Label, Description string
	Filename                 string

	OuterDiameterMM, InnerDiameterMM, WallThicknessMM float32
	HeightMM                                          float64
	Segments, Triangles                               int
	VolumeMM3                                         float64

	Material string
	MassG    float64
	// PrintBoreMM is the bore to model so the printed bore shrinks to InnerDiameterMM.
	PrintBoreMM float64
	// ScaleFactor is the uniform model scale compensating shrinkage.
	ScaleFactor float64
	Notes       []string
}

// WriteReport writes a human readable summary of r to w.
func WriteReport(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Ring type:\t%s (%s)\n", r.Label, r.Code)
	fmt.Fprintf(tw, "Description:\t%s\n", r.Description)
	fmt.Fprintf(tw, "Outer diameter:\t%.2f mm\n", r.OuterDiameterMM)
	fmt.Fprintf(tw, "Inner diameter:\t%.2f mm\n", r.InnerDiameterMM)
	fmt.Fprintf(tw, "Wall thickness:\t%.2f mm\n", r.WallThicknessMM)
	fmt.Fprintf(tw, "Height:\t%.2f mm\n", r.HeightMM)
	fmt.Fprintf(tw, "Segments:\t%d\n", r.Segments)
	fmt.Fprintf(tw, "Triangles:\t%d\n", r.Triangles)
	fmt.Fprintf(tw, "Volume:\t%.1f mm³\n", r.VolumeMM3)
	if r.Material != "" {
		fmt.Fprintf(tw, "Mass (%s):\t%.2f g\n", r.Material, r.MassG)
		fmt.Fprintf(tw, "Bore to model (%s):\t%.2f mm\n", r.Material, r.PrintBoreMM)
		fmt.Fprintf(tw, "Model scale (%s):\t%.4f\n", r.Material, r.ScaleFactor)
	}
	if r.Filename != "" {
		fmt.Fprintf(tw, "File:\t%s\n", r.Filename)
	}
	for _, note := range r.Notes {
		fmt.Fprintf(tw, "Note:\t%s\n", note)
	}
	return tw.Flush()
}
