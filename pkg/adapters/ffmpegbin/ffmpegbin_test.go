package ffmpegbin

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestFindFFmpeg_CustomPath(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "ffmpeg")
	os.WriteFile(custom, []byte("#!/bin/sh\n"), 0755)

	got, err := FindFFmpeg(custom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != custom {
		t.Errorf("expected %s, got %s", custom, got)
	}
}

func TestFindFFmpeg_CustomPathMissing(t *testing.T) {
	_, err := FindFFmpeg(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestFindFFprobe_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	probe := filepath.Join(dir, "ffprobe")
	os.WriteFile(probe, []byte("#!/bin/sh\n"), 0755)
	t.Setenv("FFPROBE_PATH", probe)

	got, err := FindFFprobe("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != probe {
		t.Errorf("expected %s, got %s", probe, got)
	}
}

func TestFindFFmpeg_EnvOverrideMissing(t *testing.T) {
	t.Setenv("FFMPEG_PATH", filepath.Join(t.TempDir(), "nope"))

	_, err := FindFFmpeg("")
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestFindFFmpeg_PATHLookup(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "")
	old := lookPath
	lookPath = func(file string) (string, error) {
		return "/fake/bin/" + file, nil
	}
	defer func() { lookPath = old }()

	got, err := FindFFmpeg("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(got) != "/fake/bin" {
		t.Errorf("expected lookup result, got %s", got)
	}
}

func TestFindFFmpeg_LookupFailureFallsBack(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "")
	old := lookPath
	lookPath = func(file string) (string, error) {
		return "", exec.ErrNotFound
	}
	defer func() { lookPath = old }()

	got, err := FindFFmpeg("")
	if err != nil && !errors.Is(err, ErrFFmpegNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
	if err == nil && got == "" {
		t.Error("expected a path when no error is returned")
	}
}
