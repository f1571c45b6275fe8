package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	})
	Version, Commit, BuildTime = version, commit, buildTime
}

func TestGetStamped(t *testing.T) {
	stamp(t, "1.2.0", "abc1234", "2026-01-15T10:30:00Z")

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("expected version 1.2.0, got %q", info.Version)
	}
	if info.Commit != "abc1234" {
		t.Errorf("expected stamped commit to win, got %q", info.Commit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
	if info.GoVersion == "" || info.Platform == "" {
		t.Errorf("runtime fields missing: %+v", info)
	}
}

func TestFillFromSettings(t *testing.T) {
	tests := []struct {
		name     string
		info     Info
		settings []debug.BuildSetting
		want     Info
	}{
		{
			name: "fills empty fields",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-02-01T00:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
			want: Info{Commit: "0123456", BuildTime: "2026-02-01T00:00:00Z", Dirty: true},
		},
		{
			name: "keeps stamped values",
			info: Info{Commit: "feedbee", BuildTime: "stamped"},
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-02-01T00:00:00Z"},
			},
			want: Info{Commit: "feedbee", BuildTime: "stamped"},
		},
		{
			name: "no vcs",
			want: Info{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.info
			fillFromSettings(&got, tc.settings)
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestShortAndRelease(t *testing.T) {
	tests := []struct {
		info    Info
		short   string
		release bool
	}{
		{Info{Version: "dev"}, "dev", false},
		{Info{Version: "1.0.0"}, "1.0.0", true},
		{Info{Version: "1.0.0", Commit: "abc1234"}, "1.0.0-abc1234", true},
		{Info{Version: "1.0.0", Commit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty", false},
	}
	for _, tc := range tests {
		if got := tc.info.Short(); got != tc.short {
			t.Errorf("Short() = %q, want %q", got, tc.short)
		}
		if got := tc.info.IsRelease(); got != tc.release {
			t.Errorf("%q IsRelease() = %v, want %v", tc.short, got, tc.release)
		}
	}
}

func TestString(t *testing.T) {
	info := Info{Version: "1.0.0", GoVersion: "go1.26.0", Platform: "linux/amd64", BuildTime: "2026-01-01T00:00:00Z"}
	s := info.String()
	for _, want := range []string{"callbridge 1.0.0", "go1.26.0", "linux/amd64", "built 2026-01-01T00:00:00Z"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
