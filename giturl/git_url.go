// Package giturl parses common git remote url syntaxes.
package giturl

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// The repository name can contain
	// ASCII letters, digits, and the characters ., -, and _.

	// user@host.xz:path/to/repo.git
	scpURLRgx = regexp.MustCompile(`^(?P<user>[\w\-\.]+)@(?P<host>([\w\-]+\.?[\w\-]+)+(\:\d+)?):(?P<path>([\w\-\.]+\/)*)(?P<repo>[\w\-\.]+(\.git)?)$`)

	// ssh://user@host.xz[:port]/path/to/repo.git
	sshURLRgx = regexp.MustCompile(`^ssh://(?P<user>[\w\-\.]+)@(?P<host>([\w\-]+\.?[\w\-]+)+(\:\d+)??)/(?P<path>([\w\-\.]+\/)*)(?P<repo>[\w\-\.]+(\.git)?)$`)

	// https://host.xz[:port]/path/to/repo.git
	httpsURLRgx = regexp.MustCompile(`^https://(?P<host>([\w\-]+\.?[\w\-]+)+(\:\d+)?)/(?P<path>([\w\-\.]+\/)*)(?P<repo>[\w\-\.]+(\.git)?)$`)

	// file:///path/to/repo.git
	localURLRgx = regexp.MustCompile(`^file:///(?P<path>([\w\-\.]+\/)*)(?P<repo>[\w\-\.]+(\.git)?)$`)
)

// URL represents a parsed git remote url
type URL struct {
	Scheme string // 'scp', 'ssh', 'https' or 'local'
	User   string // might be empty for https and local urls
	Host   string // host or host:port
	Path   string // path to the repo
	Repo   string // repository name from the path, includes .git
}

// Parse parses a raw url into a URL structure.
// valid git urls are...
//   - user@host.xz:path/to/repo.git
//   - ssh://user@host.xz[:port]/path/to/repo.git
//   - https://host.xz[:port]/path/to/repo.git
//   - file:///path/to/repo.git
func Parse(rawURL string) (*URL, error) {
	rawURL = strings.TrimRight(strings.TrimSpace(rawURL), "/")

	gURL := &URL{}
	var rgx *regexp.Regexp

	switch {
	case scpURLRgx.MatchString(rawURL):
		gURL.Scheme, rgx = "scp", scpURLRgx
	case sshURLRgx.MatchString(rawURL):
		gURL.Scheme, rgx = "ssh", sshURLRgx
	case httpsURLRgx.MatchString(rawURL):
		gURL.Scheme, rgx = "https", httpsURLRgx
	case localURLRgx.MatchString(rawURL):
		gURL.Scheme, rgx = "local", localURLRgx
	default:
		return nil, fmt.Errorf("provided '%s' remote url is invalid", rawURL)
	}

	sections := rgx.FindStringSubmatch(rawURL)
	if i := rgx.SubexpIndex("user"); i != -1 {
		gURL.User = sections[i]
	}
	if i := rgx.SubexpIndex("host"); i != -1 {
		gURL.Host = sections[i]
	}
	gURL.Path = strings.Trim(sections[rgx.SubexpIndex("path")], "/")
	gURL.Repo = sections[rgx.SubexpIndex("repo")]

	if gURL.Repo == "" || gURL.Repo == ".git" {
		return nil, fmt.Errorf("repo name is invalid")
	}

	return gURL, nil
}

// Name returns a short repository name derived from the given remote url
// for use in logs and metric labels. Unparseable urls are returned as is,
// the mirror core itself accepts arbitrary url strings.
func Name(rawURL string) string {
	gURL, err := Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return strings.TrimSuffix(gURL.Repo, ".git")
}
