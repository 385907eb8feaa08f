package mediaprobe

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
)

// buildMovieHeader writes an ftyp+moov pair describing a single video track.
func buildMovieHeader(t *testing.T, timescale uint32, duration uint64, width, height int) []byte {
	t.Helper()

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")
	init.Moov.Mvhd.Timescale = timescale
	init.Moov.Mvhd.Duration = duration
	init.Moov.Trak.Tkhd.Width = mp4.Fixed32(width << 16)
	init.Moov.Trak.Tkhd.Height = mp4.Fixed32(height << 16)

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	return buf.Bytes()
}

func TestProbeMP4_DurationAndDimensions(t *testing.T) {
	data := buildMovieHeader(t, 1000, 10000, 1280, 720)

	info, err := ProbeMP4(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ProbeMP4 failed: %v", err)
	}

	if info.Duration != 10.0 {
		t.Errorf("expected duration 10.0, got %v", info.Duration)
	}
	if info.Width != 1280 || info.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", info.Width, info.Height)
	}
	if info.Container != "mp4" {
		t.Errorf("expected container mp4, got %s", info.Container)
	}
}

func TestProbeMP4_InvalidData(t *testing.T) {
	_, err := ProbeMP4(bytes.NewReader([]byte("not an mp4 file")))
	if err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestProber_UsesMP4HeaderWithoutFFprobe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mp4")
	os.WriteFile(path, buildMovieHeader(t, 90000, 450000, 640, 360), 0644)

	p := New(Options{})
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("ffprobe should not run when the mp4 header has a duration")
		return nil, nil
	}

	info, err := p.Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Duration != 5.0 {
		t.Errorf("expected duration 5.0, got %v", info.Duration)
	}
}

func TestProber_FallsBackToFFprobe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mkv")
	os.WriteFile(path, []byte("matroska"), 0644)
	fakeProbe := filepath.Join(dir, "ffprobe")
	os.WriteFile(fakeProbe, []byte("#!/bin/sh\n"), 0755)

	var gotArgs []string
	p := New(Options{FFprobePath: fakeProbe})
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != fakeProbe {
			t.Errorf("expected %s, got %s", fakeProbe, name)
		}
		gotArgs = args
		return []byte(`{
			"streams": [{"codec_name": "vp9", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001"}],
			"format": {"format_name": "matroska,webm", "duration": "12.500000"}
		}`), nil
	}

	info, err := p.Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if gotArgs[len(gotArgs)-1] != path {
		t.Errorf("expected path as last argument, got %v", gotArgs)
	}
	if info.Duration != 12.5 {
		t.Errorf("expected duration 12.5, got %v", info.Duration)
	}
	if info.Codec != "vp9" {
		t.Errorf("expected codec vp9, got %s", info.Codec)
	}
	if info.Container != "matroska" {
		t.Errorf("expected container matroska, got %s", info.Container)
	}
	if math.Abs(info.FrameRate-29.97) > 0.01 {
		t.Errorf("expected ~29.97 fps, got %v", info.FrameRate)
	}
}

func TestProber_FFprobeFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.avi")
	os.WriteFile(path, []byte("junk"), 0644)
	fakeProbe := filepath.Join(dir, "ffprobe")
	os.WriteFile(fakeProbe, []byte("#!/bin/sh\n"), 0755)

	probeErr := errors.New("ffprobe failed: exit status 1")
	p := New(Options{FFprobePath: fakeProbe})
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, probeErr
	}

	_, err := p.Probe(context.Background(), path)
	if !errors.Is(err, probeErr) {
		t.Errorf("expected ffprobe error, got %v", err)
	}
}

func TestParseFFprobe(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		duration float64
		codec    string
	}{
		{
			name:     "stream duration fallback",
			input:    `{"streams":[{"codec_name":"h264","width":320,"height":240,"avg_frame_rate":"25/1","duration":"3.2"}],"format":{"format_name":"avi"}}`,
			duration: 3.2,
			codec:    "h264",
		},
		{
			name:     "unknown duration",
			input:    `{"streams":[{"width":320,"height":240,"avg_frame_rate":"0/0"}],"format":{"format_name":"flv","duration":"N/A"}}`,
			duration: 0,
			codec:    "unknown",
		},
		{
			name:    "no video stream",
			input:   `{"streams":[],"format":{"format_name":"mp3","duration":"60"}}`,
			wantErr: ErrNoVideoTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseFFprobe([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Duration != tt.duration {
				t.Errorf("expected duration %v, got %v", tt.duration, info.Duration)
			}
			if info.Codec != tt.codec {
				t.Errorf("expected codec %s, got %s", tt.codec, info.Codec)
			}
		})
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"30/1", 30},
		{"0/0", 0},
		{"24", 24},
		{"", 0},
		{"abc/1", 0},
	}

	for _, tt := range tests {
		if got := parseRational(tt.input); got != tt.want {
			t.Errorf("parseRational(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
