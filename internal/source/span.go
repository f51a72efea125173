package source

import (
	"fmt"
)

// Span locates a declaration or marker in the original program.
type Span struct {
	File  FileID
	Start LineCol
	End   LineCol
}

// IsZero reports whether the span carries no location at all.
func (s Span) IsZero() bool {
	return s.File == NoFileID && s.Start.IsZero()
}

// Before orders spans by file, then by start position.
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.Start.Line != other.Start.Line {
		return s.Start.Line < other.Start.Line
	}
	return s.Start.Col < other.Start.Col
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d:%d", s.File, s.Start.Line, s.Start.Col)
}

// Cover extends s so that it also contains other. Spans from different
// files are left untouched.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start.Line < s.Start.Line || (other.Start.Line == s.Start.Line && other.Start.Col < s.Start.Col) {
		s.Start = other.Start
	}
	if other.End.Line > s.End.Line || (other.End.Line == s.End.Line && other.End.Col > s.End.Col) {
		s.End = other.End
	}
	return s
}
