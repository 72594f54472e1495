package giturl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		want    *URL
		wantErr bool
	}{
		{
			"scp",
			"user@host.xz:path/to/repo.git",
			&URL{Scheme: "scp", User: "user", Host: "host.xz", Path: "path/to", Repo: "repo.git"},
			false,
		},
		{
			"ssh-with-port",
			"ssh://git@host.xz:22/path/to/repo.git",
			&URL{Scheme: "ssh", User: "git", Host: "host.xz:22", Path: "path/to", Repo: "repo.git"},
			false,
		},
		{
			"https",
			"https://host.xz/org/repo.git",
			&URL{Scheme: "https", Host: "host.xz", Path: "org", Repo: "repo.git"},
			false,
		},
		{
			"https-no-suffix",
			"https://host.xz/org/repo",
			&URL{Scheme: "https", Host: "host.xz", Path: "org", Repo: "repo"},
			false,
		},
		{
			"local",
			"file:///tmp/upstream/repo.git",
			&URL{Scheme: "local", Path: "tmp/upstream", Repo: "repo.git"},
			false,
		},
		{"no-scheme", "host.xz/org/repo.git", nil, true},
		{"http-not-supported", "http://host.xz/org/repo.git", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.rawURL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://host.xz/org/repo.git", "repo"},
		{"user@host.xz:path/to/repo", "repo"},
		{"file:///tmp/upstream.git", "upstream"},
		{"not a url at all", "not a url at all"},
	}
	for _, tt := range tests {
		if got := Name(tt.rawURL); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}
