// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/user/reelsort/pkg/ports"
)

// Sink saves debug output under a base directory.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame saves a presented frame of file as frames/<file>.png.
func (s *Sink) SaveFrame(file string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame of %s: %w", file, err)
	}
	return s.fs.WriteFile(filepath.Join(dir, frameName(file)), data)
}

// SaveSessionJSON saves the decisions made in this run.
func (s *Sink) SaveSessionJSON(data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, "session.json"), data)
}

func frameName(file string) string {
	name := filepath.Base(file)
	name = strings.NewReplacer(" ", "_", string(filepath.Separator), "_").Replace(name)
	return name + ".png"
}

var _ ports.DebugSink = (*Sink)(nil)
