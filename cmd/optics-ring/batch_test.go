package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ringgen "github.com/max-flug/optics-ring-generator"
	"github.com/max-flug/optics-ring-generator/helpers/matter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestYAML = `
output_dir: %s
concurrency: 2
rings:
  - {type: cx, outer: 50, inner: 25}
  - {type: cc, outer: 30, inner: 20}
  - {type: 3p, outer: 40, inner: 20.5}
  - type: three-point
    outer: 240
    inner: 200
`

func TestLoadManifest(t *testing.T) {
	m, err := loadManifest(strings.NewReader(strings.Replace(manifestYAML, "%s", "rings", 1)))
	require.NoError(t, err)
	assert.Equal(t, "rings", m.OutputDir)
	assert.Equal(t, 2, m.Concurrency)
	require.Len(t, m.Rings, 4)
	assert.Equal(t, ManifestRing{Type: "3p", Outer: 40, Inner: 20.5}, m.Rings[2])

	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"empty", "output_dir: x\n", "no rings"},
		{"bad yaml", "rings: [", "decode"},
		{"bad type", "rings:\n  - {type: 4p, outer: 50, inner: 25}\n", "ring 0"},
		{"thin wall", "rings:\n  - {type: cx, outer: 50, inner: 25}\n  - {type: cc, outer: 27, inner: 26}\n", "ring 1"},
		{"negative concurrency", "concurrency: -1\nrings:\n  - {type: cx, outer: 50, inner: 25}\n", "concurrency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadManifest(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	m, err := loadManifest(strings.NewReader(strings.Replace(manifestYAML, "%s", dir, 1)))
	require.NoError(t, err)
	gen, err := ringgen.New(ringgen.DefaultConfig())
	require.NoError(t, err)

	results, err := runBatch(context.Background(), gen, m, false)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, name := range []string{"CX-25.0.stl", "CC-20.0.stl", "3P-20.5.stl"} {
		require.NoError(t, results[i].Err)
		assert.Equal(t, filepath.Join(dir, name), results[i].Path)
		assert.FileExists(t, results[i].Path)
	}
	assert.ErrorIs(t, results[3].Err, matter.ErrNotPrintable)
	assert.Empty(t, results[3].Path)

	results, err = runBatch(context.Background(), gen, m, true)
	require.NoError(t, err)
	assert.NoError(t, results[3].Err)
	assert.FileExists(t, filepath.Join(dir, "3P-200.0.stl"))
}

func TestRunBatchCancelled(t *testing.T) {
	m := &Manifest{OutputDir: t.TempDir(), Concurrency: 1, Rings: []ManifestRing{{Type: "cx", Outer: 50, Inner: 25}}}
	gen, err := ringgen.New(ringgen.DefaultConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runBatch(ctx, gen, m, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(t.TempDir(), "rings.yaml")
	body := "rings:\n  - {type: cx, outer: 50, inner: 25}\n  - {type: 3p, outer: 40, inner: 20.5}\n"
	require.NoError(t, os.WriteFile(manifest, []byte(body), 0o644))

	out, err := execute(t, "batch", manifest, "--output-dir", dir, "--concurrency", "1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "CX-25.0.stl")+"\n"+filepath.Join(dir, "3P-20.5.stl")+"\n", out)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("rings:\n  - {type: cx, outer: 240, inner: 200}\n"), 0o644))
	_, err = execute(t, "batch", bad, "--output-dir", dir)
	assert.ErrorContains(t, err, "1 of 1 rings failed")

	_, err = execute(t, "batch", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestBatchOutputDirPrecedence(t *testing.T) {
	manifestDir, configDir, flagDir := t.TempDir(), t.TempDir(), t.TempDir()
	manifest := filepath.Join(t.TempDir(), "rings.yaml")
	body := "output_dir: " + manifestDir + "\nrings:\n  - {type: cx, outer: 50, inner: 25}\n"
	require.NoError(t, os.WriteFile(manifest, []byte(body), 0o644))
	cfgPath := filepath.Join(t.TempDir(), "optics-ring.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output_dir: "+configDir+"\n"), 0o644))

	_, err := execute(t, "batch", manifest, "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(manifestDir, "CX-25.0.stl"))
	assert.NoFileExists(t, filepath.Join(configDir, "CX-25.0.stl"))

	_, err = execute(t, "batch", manifest, "--config", cfgPath, "--output-dir", flagDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(flagDir, "CX-25.0.stl"))

	noDir := filepath.Join(t.TempDir(), "nodir.yaml")
	require.NoError(t, os.WriteFile(noDir, []byte("rings:\n  - {type: cc, outer: 30, inner: 20}\n"), 0o644))
	_, err = execute(t, "batch", noDir, "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(configDir, "CC-20.0.stl"))
}
