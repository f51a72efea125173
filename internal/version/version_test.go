package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestBanner(t *testing.T) {
	prevNoColor := color.NoColor
	color.NoColor = true
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		color.NoColor = prevNoColor
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	cases := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "salt 0.1.0-dev"},
		{"1.2.3", "abc123", "", "salt 1.2.3 (abc123)"},
		{"1.2.3-rc.1", "abc123", "2026-01-15", "salt 1.2.3-rc.1 (abc123) built 2026-01-15"},
		{"nightly", "", "", "salt nightly"},
	}
	for _, tc := range cases {
		Version, GitCommit, BuildDate = tc.version, tc.commit, tc.date
		if got := Banner(); got != tc.want {
			t.Fatalf("Banner() with %q = %q, want %q", tc.version, got, tc.want)
		}
	}
}
