package render

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/max-flug/optics-ring-generator/mesh"
)

const bufSize = 64 * 1024

// WriteError is returned for any failure to create or write an output
// file. Path is the file the caller asked for.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return "writing " + e.Path + ": " + e.Err.Error() }

func (e *WriteError) Unwrap() error { return e.Err }

// CreateSTL writes m to a binary STL file at path.
//
// Without atomic the file is truncated and written in place; a failed
// write may leave a partial file behind, which is not removed. With atomic
// the mesh is written to a temporary file in the same directory, synced
// and renamed over path, so path either keeps its old contents or holds
// the complete mesh.
func CreateSTL(path, header string, m mesh.Mesh, atomic bool) error {
	var err error
	if atomic {
		err = writeAtomic(path, header, m)
	} else {
		err = writeOverwrite(path, header, m)
	}
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeOverwrite(path, header string, m mesh.Mesh) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	bw := bufio.NewWriterSize(fp, bufSize)
	if _, err := WriteSTL(bw, header, m.Triangles); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return fp.Close()
}

func writeAtomic(path, header string, m mesh.Mesh) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	_ = os.Chmod(tmpPath, 0o644)
	bw := bufio.NewWriterSize(tmp, bufSize)
	if _, err := WriteSTL(bw, header, m.Triangles); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
