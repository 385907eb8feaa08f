package ports

// DirEntry is a single directory listing entry.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file at path with data.
	// The write goes through a temporary file and a rename so readers never
	// observe a partial file.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// Rename moves src to dst. It fails if dst already exists.
	Rename(src, dst string) error

	// ListDir returns the entries of a directory sorted by name.
	ListDir(path string) ([]DirEntry, error)
}
