package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ramesh-kr/copybara/gitexec"
	"github.com/ramesh-kr/copybara/giturl"
	"github.com/ramesh-kr/copybara/internal/escape"
)

const defaultDirMode fs.FileMode = os.FileMode(0755) // 'rwxr-xr-x'

// Config holds the settings shared by every mirror under one storage root.
type Config struct {
	// Remote is the git URL of the repository to mirror
	Remote string

	// StorageRoot is the absolute path to the root dir under which
	// mirror directories are created
	StorageRoot string

	// GitExecutable is the path or name of the git tool, "git" resolved
	// via PATH when empty
	GitExecutable string
}

// Repository manages the local bare mirror of one remote repository.
// The mirror directory is created lazily under the storage root, named by
// the escaped remote URL, and persists across invocations as a cache.
//
// A Repository does not serialise its callers. Concurrent
// CheckoutReference calls against the same remote race on the shared
// mirror directory; use Registry for per-mirror locking.
type Repository struct {
	remote     string           // remote repo url, never mutated
	gitExec    string           // git executable, may rely on PATH
	dir        string           // absolute path to the bare mirror directory
	name       string           // short repo name for logs and metric labels
	executor   gitexec.Executor // capability used to spawn git
	translator *Translator
	log        *slog.Logger
}

// New creates a repository manager for the given remote. The remote is not
// contacted and nothing is created on disk until CheckoutReference is
// called.
func New(conf Config, executor gitexec.Executor, log *slog.Logger) (*Repository, error) {
	if conf.Remote == "" {
		return nil, fmt.Errorf("remote url cannot be empty")
	}
	if !filepath.IsAbs(conf.StorageRoot) {
		return nil, fmt.Errorf("storage root '%s' must be absolute", conf.StorageRoot)
	}

	gitExec := conf.GitExecutable
	if gitExec == "" {
		gitExec = "git"
	}

	if log == nil {
		log = slog.Default()
	}
	if executor == nil {
		executor = gitexec.NewOSExecutor(false, log)
	}

	name := giturl.Name(conf.Remote)

	return &Repository{
		remote:     conf.Remote,
		gitExec:    gitExec,
		dir:        filepath.Join(conf.StorageRoot, escape.Escape(conf.Remote)),
		name:       name,
		executor:   executor,
		translator: NewTranslator(),
		log:        log.With("repo", name),
	}, nil
}

// Remote returns the remote repository url.
func (r *Repository) Remote() string { return r.remote }

// Directory returns the absolute path of the local mirror directory.
func (r *Repository) Directory() string { return r.dir }

// CheckoutReference materialises the contents of ref into workdir:
//  1. create and initialize the bare mirror if needed
//  2. fetch origin (forced, the mirror must never diverge silently)
//  3. verify the ref resolves inside the mirror
//  4. force-checkout the ref into workdir
//
// The workdir is treated as fully disposable, existing contents are
// overwritten or removed without warning. No local branches are ever
// created, remote branches must be named with the origin/ prefix.
//
// Failures are classified per step: StorageError, ErrInitFailed,
// ErrFetchFailed, RefNotFoundError and ErrCheckoutFailed, with
// CommandError as the fallback. No step is retried internally.
func (r *Repository) CheckoutReference(ctx context.Context, ref, workdir string) (err error) {
	start := time.Now()
	defer func() {
		recordCheckout(r.name, err == nil)
		updateCheckoutLatency(r.name, start)
	}()

	if err := r.init(ctx); err != nil {
		return err
	}
	if err := r.fetch(ctx); err != nil {
		return err
	}
	if err := r.verifyRef(ctx, ref); err != nil {
		return err
	}
	return r.checkout(ctx, ref, workdir)
}

// init examines the mirror directory and determines if it is usable. If
// it is missing or fails checks it is (re)initialized as a bare repository
// with a single remote named origin. A failed init leaves the mirror in a
// state the next call detects and repairs, so callers may simply retry.
func (r *Repository) init(ctx context.Context) error {
	_, err := os.Stat(r.dir)
	switch {
	case os.IsNotExist(err):
		// initial checkout
		r.log.Info("mirror directory does not exist, creating it", "path", r.dir)
		if err := os.MkdirAll(r.dir, defaultDirMode); err != nil {
			return &StorageError{Path: r.dir, Err: err}
		}
	case err != nil:
		return &StorageError{Path: r.dir, Err: err}
	default:
		if r.sanityCheckRepo(ctx) {
			r.log.Log(ctx, -8, "existing mirror directory is valid", "path", r.dir)
			return nil
		}
		// Maybe a previous init crashed? Git won't use this dir.
		r.log.Error("mirror directory failed checks, re-creating...", "path", r.dir)
		if err := reCreate(r.dir); err != nil {
			return &StorageError{Path: r.dir, Err: err}
		}
	}

	// git init -q --bare
	if _, err := r.git(ctx, r.dir, "init", "-q", "--bare"); err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	// The "origin" remote has special meaning, like in relative-path
	// submodules.
	// git remote add origin <remote>
	if _, err := r.git(ctx, r.dir, "remote", "add", "origin", r.remote); err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	return nil
}

// sanityCheckRepo tries to make sure the existing mirror directory is a
// usable bare repository with origin pointing at the expected remote.
func (r *Repository) sanityCheckRepo(ctx context.Context) bool {
	// If it is empty, init can reuse it directly.
	if empty, err := dirIsEmpty(r.dir); err != nil {
		r.log.Error("can't list mirror directory", "path", r.dir, "err", err)
		return false
	} else if empty {
		r.log.Info("mirror directory is empty", "path", r.dir)
		return false
	}

	// git rev-parse --is-bare-repository
	if ok, err := r.git(ctx, r.dir, "rev-parse", "--is-bare-repository"); err != nil {
		r.log.Error("unable to verify bare repo", "path", r.dir, "err", err)
		return false
	} else if ok != "true" {
		r.log.Error("mirror is not a bare repository", "path", r.dir)
		return false
	}

	// make sure origin exists with the expected remote URL
	// git config --get remote.origin.url
	if remote, err := r.git(ctx, r.dir, "config", "--get", "remote.origin.url"); err != nil {
		r.log.Error("can't get repo config remote.origin.url", "path", r.dir, "err", err)
		return false
	} else if remote != r.remote {
		r.log.Error("mirror configured with diff remote url", "path", r.dir, "remote.origin.url", remote)
		return false
	}

	return true
}

// fetch updates all remote-tracking refs of the mirror. The fetch is
// forced, the mirror is a cache and must always reflect the remote's
// current state.
func (r *Repository) fetch(ctx context.Context) error {
	// git fetch -f origin
	if _, err := r.git(ctx, r.dir, "fetch", "-f", "origin"); err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return nil
}

// verifyRef checks that ref resolves inside the mirror before checkout.
// This pre-check changes no state, it exists purely so ref typos surface
// as RefNotFoundError with a hint instead of an opaque git error.
func (r *Repository) verifyRef(ctx context.Context, ref string) error {
	cmd := gitexec.Command{
		Executable: r.gitExec,
		Args:       []string{"rev-parse", "--verify", ref},
		Dir:        r.dir,
	}
	res, err := r.executor.Execute(ctx, cmd)
	if err != nil {
		return &CommandError{Executable: r.gitExec, Args: cmd.Args, Err: err}
	}
	if res.Success() {
		return nil
	}
	return r.translator.TranslateVerify(ref, cmd, res)
}

// checkout force-populates workdir with the tree of ref, discarding any
// existing workdir content and index state. Both --git-dir and --work-tree
// are passed explicitly rather than relying on ambient directory state.
func (r *Repository) checkout(ctx context.Context, ref, workdir string) error {
	// git --git-dir=<mirror> --work-tree=<workdir> checkout -f <ref>
	args := []string{"--git-dir=" + r.dir, "--work-tree=" + workdir, "checkout", "-f", ref}
	if _, err := r.git(ctx, workdir, args...); err != nil {
		refErr := &RefNotFoundError{}
		if errors.As(err, &refErr) {
			// ref moved between verify and checkout
			return err
		}
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}
	return nil
}

// git runs the git executable with the given arguments on the given cwd
// and returns trimmed stdout. Every failure passes through the translator
// before being surfaced.
func (r *Repository) git(ctx context.Context, cwd string, args ...string) (string, error) {
	cmd := gitexec.Command{Executable: r.gitExec, Args: args, Dir: cwd}

	res, err := r.executor.Execute(ctx, cmd)
	if err != nil {
		return "", &CommandError{Executable: r.gitExec, Args: args, Err: err}
	}
	if !res.Success() {
		return "", r.translator.Translate(cmd, res)
	}

	return strings.TrimSpace(string(res.Stdout)), nil
}
