package review

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/user/reelsort/pkg/ports"
)

// DefaultExtensions lists the video extensions offered for review.
var DefaultExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm"}

// IsVideo reports whether name has one of exts, ignoring case.
func IsVideo(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// ListVideos returns the video files directly inside dir, sorted by name.
// Hidden files and directories are ignored.
func ListVideos(fsys ports.FileSystem, dir string, exts []string) ([]string, error) {
	entries, err := fsys.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir || strings.HasPrefix(e.Name, ".") {
			continue
		}
		if IsVideo(e.Name, exts) {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// BuildQueue returns the videos in dir that have no recorded decision.
func BuildQueue(fsys ports.FileSystem, dir string, exts []string, store *Store) ([]string, error) {
	names, err := ListVideos(fsys, dir, exts)
	if err != nil {
		return nil, err
	}

	queue := names[:0]
	for _, name := range names {
		if !store.Has(name) {
			queue = append(queue, name)
		}
	}
	return queue, nil
}
