package render

import (
	"fmt"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
)

// Thumbnail renders the STL file at stlPath to a width x height PNG image
// viewed from above the ring at an angle.
func Thumbnail(stlPath, pngPath string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid thumbnail size %dx%d", width, height)
	}
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", stlPath, err)
	}
	const (
		scale = 2  // supersampling
		fovy  = 30 // vertical field of view in degrees
		near  = 1
		far   = 10
	)
	var (
		eye    = fauxgl.V(2, -3, 3)                   // camera position
		center = fauxgl.V(0, 0, 0)                    // view center position
		up     = fauxgl.V(0, 0, 1)                    // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
		color  = fauxgl.HexColor("#468966")           // object color
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, near, far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := resize.Resize(uint(width), uint(height), context.Image(), resize.Bilinear)
	if err := fauxgl.SavePNG(pngPath, image); err != nil {
		return &WriteError{Path: pngPath, Err: err}
	}
	return nil
}
