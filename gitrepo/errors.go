package gitrepo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ramesh-kr/copybara/gitexec"
)

// Sentinel errors marking which checkout step failed. They wrap the
// classified command error, so errors.Is and errors.As both work on the
// returned chain.
var (
	ErrInitFailed     = errors.New("mirror initialization failed")
	ErrFetchFailed    = errors.New("fetch from origin failed")
	ErrCheckoutFailed = errors.New("checkout failed")
)

// StorageError reports a mirror directory that could not be created or
// verified on disk.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cannot create git directory '%s': %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RefNotFoundError reports a ref which could not be resolved in the mirror.
// Hint, when set, carries remediation guidance for the caller.
type RefNotFoundError struct {
	Ref  string
	Hint string
}

func (e *RefNotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("ref '%s' does not exist. %s", e.Ref, e.Hint)
	}
	return fmt.Sprintf("cannot find reference '%s'", e.Ref)
}

// CommandError is the fallback classification for a failed git invocation.
// Stderr is carried verbatim for diagnostics. Err is set only when the
// process could not be spawned at all.
type CommandError struct {
	Executable string
	Args       []string
	Stderr     string
	Err        error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error executing '%s': %v", e.Executable, e.Err)
	}
	return fmt.Sprintf("error on git command '%s %s': %s",
		e.Executable, strings.Join(e.Args, " "), e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Translator classifies failed git invocations into the error taxonomy by
// matching known stderr text. The matched patterns are fields rather than
// literals buried in code since git wording changes across versions.
// A Translator never suppresses a failure, only refines its classification.
type Translator struct {
	// RefNotFound matches checkout failures for a missing ref, the first
	// capture group is the ref name.
	RefNotFound *regexp.Regexp

	// SingleRevision is the stderr substring of a failed
	// `rev-parse --verify` for an unresolvable ref.
	SingleRevision string
}

func NewTranslator() *Translator {
	return &Translator{
		RefNotFound:    regexp.MustCompile(`pathspec '(.+)' did not match any file`),
		SingleRevision: "Needed a single revision",
	}
}

// Translate classifies the outcome of a failed invocation.
// It never returns nil for a failed result.
func (t *Translator) Translate(cmd gitexec.Command, res gitexec.Result) error {
	stderr := strings.TrimSpace(string(res.Stderr))

	if m := t.RefNotFound.FindStringSubmatch(stderr); m != nil {
		return &RefNotFoundError{Ref: m[1]}
	}

	return &CommandError{
		Executable: cmd.Executable,
		Args:       cmd.Args,
		Stderr:     stderr,
	}
}

// TranslateVerify classifies a failed `rev-parse --verify <ref>`. The
// mirror never creates local branches, so a literal branch name fails to
// resolve and needs the origin/ prefix, which the hint spells out.
func (t *Translator) TranslateVerify(ref string, cmd gitexec.Command, res gitexec.Result) error {
	if strings.Contains(string(res.Stderr), t.SingleRevision) {
		return &RefNotFoundError{
			Ref: ref,
			Hint: fmt.Sprintf("If you used a ref like '%s' you should be using 'origin/%s' instead",
				ref, ref),
		}
	}
	return t.Translate(cmd, res)
}
