package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet maps front-end file ids to paths for diagnostics rendering.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates an empty FileSet. ID 0 is reserved for NoFileID.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase creates a FileSet whose relative paths resolve against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   []File{{ID: NoFileID, Path: "<generated>"}},
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// BaseDir returns the directory used for relative path output.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add registers path and returns its id. Registering the same path twice
// returns the original id.
func (fileSet *FileSet) Add(path string) FileID {
	normalized := filepath.ToSlash(filepath.Clean(path))
	if id, ok := fileSet.index[normalized]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fileSet.files = append(fileSet.files, File{ID: id, Path: normalized})
	fileSet.index[normalized] = id
	return id
}

// Get returns the file for id, or nil when id is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	if fileSet == nil || int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Len reports the number of registered files, excluding the sentinel.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files) - 1
}

// Path renders the path of id according to mode: "absolute", "relative",
// "basename"; anything else returns the path as registered.
func (fileSet *FileSet) Path(id FileID, mode string) string {
	f := fileSet.Get(id)
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
	case "relative":
		if rel, err := filepath.Rel(fileSet.BaseDir(), f.Path); err == nil {
			return filepath.ToSlash(rel)
		}
	case "basename":
		return filepath.Base(f.Path)
	}
	return f.Path
}
