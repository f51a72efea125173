package source

import (
	"testing"
)

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		other    Span
		expected Span
	}{
		{
			name:     "other extends both ends",
			span:     Span{File: 1, Start: LineCol{3, 4}, End: LineCol{3, 10}},
			other:    Span{File: 1, Start: LineCol{2, 1}, End: LineCol{5, 2}},
			expected: Span{File: 1, Start: LineCol{2, 1}, End: LineCol{5, 2}},
		},
		{
			name:     "other inside",
			span:     Span{File: 1, Start: LineCol{1, 1}, End: LineCol{9, 1}},
			other:    Span{File: 1, Start: LineCol{2, 1}, End: LineCol{3, 1}},
			expected: Span{File: 1, Start: LineCol{1, 1}, End: LineCol{9, 1}},
		},
		{
			name:     "different file is ignored",
			span:     Span{File: 1, Start: LineCol{3, 4}, End: LineCol{3, 10}},
			other:    Span{File: 2, Start: LineCol{1, 1}, End: LineCol{9, 9}},
			expected: Span{File: 1, Start: LineCol{3, 4}, End: LineCol{3, 10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Cover(tt.other); got != tt.expected {
				t.Fatalf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanBefore(t *testing.T) {
	a := Span{File: 1, Start: LineCol{2, 5}}
	b := Span{File: 1, Start: LineCol{2, 7}}
	c := Span{File: 2, Start: LineCol{1, 1}}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("expected %v before %v", a, b)
	}
	if !b.Before(c) {
		t.Fatalf("expected file order to dominate")
	}
}

func TestFileSetAddIsIdempotent(t *testing.T) {
	fs := NewFileSetWithBase("/src")
	first := fs.Add("/src/app/Program.cs")
	second := fs.Add("/src/app/../app/Program.cs")
	if first != second {
		t.Fatalf("expected same id, got %d and %d", first, second)
	}
	if first == NoFileID {
		t.Fatalf("expected a non-sentinel id")
	}
	if got := fs.Path(first, "relative"); got != "app/Program.cs" {
		t.Fatalf("relative path = %q", got)
	}
	if got := fs.Path(first, "basename"); got != "Program.cs" {
		t.Fatalf("basename = %q", got)
	}
	if fs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", fs.Len())
	}
}
