// Package mediaprobe reads duration and geometry from video files.
//
// ISO-BMFF containers (.mp4, .m4v, .mov) are parsed in-process with mp4ff.
// Everything else, and any ISO-BMFF file whose header yields no duration,
// falls back to ffprobe.
package mediaprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/user/reelsort/pkg/adapters/ffmpegbin"
	"github.com/user/reelsort/pkg/ports"
)

// ErrNoVideoTrack is returned when a file carries no video stream.
var ErrNoVideoTrack = errors.New("mediaprobe: no video track found")

// Options configures the prober.
type Options struct {
	// FFprobePath is an optional custom path to the ffprobe binary.
	FFprobePath string
}

// runFunc executes a command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober implements ports.Prober.
type Prober struct {
	opts Options
	run  runFunc
}

// New creates a new Prober.
func New(opts Options) *Prober {
	return &Prober{
		opts: opts,
		run:  runCommand,
	}
}

// Probe returns metadata for the file at path.
func (p *Prober) Probe(ctx context.Context, path string) (ports.MediaInfo, error) {
	var mp4Err error
	if isISOBMFF(path) {
		info, err := probeMP4File(path)
		if err == nil && info.Duration > 0 {
			return info, nil
		}
		mp4Err = err
	}

	info, err := p.probeFFprobe(ctx, path)
	if err != nil {
		if mp4Err != nil {
			return ports.MediaInfo{}, fmt.Errorf("%w (mp4: %v)", err, mp4Err)
		}
		return ports.MediaInfo{}, err
	}
	return info, nil
}

func isISOBMFF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		return true
	default:
		return false
	}
}

func probeMP4File(path string) (ports.MediaInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeMP4(f)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w\nstderr: %s", filepath.Base(name), err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func (p *Prober) locateFFprobe() (string, error) {
	return ffmpegbin.FindFFprobe(p.opts.FFprobePath)
}

// Ensure Prober implements ports.Prober
var _ ports.Prober = (*Prober)(nil)
