package source

type (
	// FileID uniquely identifies a front-end source file within a FileSet.
	FileID uint32
)

// NoFileID is used by spans that do not point into any source file
// (synthetic symbols, generated code).
const NoFileID FileID = 0

// File captures the metadata the front end reports for one source file.
// Content is never loaded: positions arrive already resolved to line/column.
type File struct {
	ID   FileID
	Path string
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// IsZero reports whether the position was left unset.
func (lc LineCol) IsZero() bool { return lc.Line == 0 }
