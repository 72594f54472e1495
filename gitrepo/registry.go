package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ramesh-kr/copybara/gitexec"
	"github.com/ramesh-kr/copybara/internal/escape"
	"github.com/ramesh-kr/copybara/internal/lock"
)

// RegistryConfig holds the settings shared by every mirror the registry
// creates.
type RegistryConfig struct {
	// StorageRoot is the absolute path under which mirror directories live
	StorageRoot string

	// GitExecutable is the path or name of the git tool, "git" when empty
	GitExecutable string
}

// Registry owns the collection of repository managers keyed by escaped
// remote URL and guards each mirror with its own mutex. Checkouts routed
// through the registry serialise per mirror, calls against different
// remotes proceed independently.
// A Registry is safe for concurrent use by multiple goroutines.
type Registry struct {
	conf     RegistryConfig
	executor gitexec.Executor
	log      *slog.Logger

	lock  lock.RWMutex
	repos map[string]*repoHandle
}

type repoHandle struct {
	lock lock.Mutex
	repo *Repository
}

// NewRegistry creates an empty registry. Mirrors are created lazily on
// first use of their remote url.
func NewRegistry(conf RegistryConfig, executor gitexec.Executor, log *slog.Logger) (*Registry, error) {
	if !filepath.IsAbs(conf.StorageRoot) {
		return nil, fmt.Errorf("storage root '%s' must be absolute", conf.StorageRoot)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Registry{
		conf:     conf,
		executor: executor,
		log:      log,
		repos:    make(map[string]*repoHandle),
	}, nil
}

// Repository returns the repository manager for the given remote url,
// creating it on first use. The same url always yields the same manager
// and hence the same mirror directory.
func (rg *Registry) Repository(remote string) (*Repository, error) {
	h, err := rg.handleFor(remote)
	if err != nil {
		return nil, err
	}
	return h.repo, nil
}

// CheckoutReference checks out ref of the given remote into workdir while
// holding the mirror's lock for the whole init-fetch-verify-checkout
// sequence. The workdir itself must not be shared between concurrent
// calls, checkout is destructive.
func (rg *Registry) CheckoutReference(ctx context.Context, remote, ref, workdir string) error {
	h, err := rg.handleFor(remote)
	if err != nil {
		return err
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	return h.repo.CheckoutReference(ctx, ref, workdir)
}

func (rg *Registry) handleFor(remote string) (*repoHandle, error) {
	key := escape.Escape(remote)

	rg.lock.RLock()
	h, ok := rg.repos[key]
	rg.lock.RUnlock()
	if ok {
		return h, nil
	}

	rg.lock.Lock()
	defer rg.lock.Unlock()

	// another caller may have created it while we waited
	if h, ok := rg.repos[key]; ok {
		return h, nil
	}

	repo, err := New(Config{
		Remote:        remote,
		StorageRoot:   rg.conf.StorageRoot,
		GitExecutable: rg.conf.GitExecutable,
	}, rg.executor, rg.log)
	if err != nil {
		return nil, err
	}

	h = &repoHandle{repo: repo}
	rg.repos[key] = h
	return h, nil
}
