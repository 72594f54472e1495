// Package gitrepo manages local bare mirrors of remote git repositories
// and materialises refs into caller-supplied working directories.
//
// A mirror is created lazily under a configured storage root, in a
// directory named by percent-escaping the remote URL, and persists across
// invocations as a cache. Every checkout fetches origin with --force
// first, so staleness is bounded by one round trip per call and the
// mirror never diverges silently from the remote.
//
// Checkout is destructive by design: the working directory is treated as
// fully disposable and its contents are overwritten or removed without
// warning. The mirror never grows local branches, remote branches must be
// addressed with their origin/ prefix.
//
// A bare Repository does not serialise concurrent callers. Mirror
// directories are shared state keyed by remote URL, so concurrent
// checkouts of the same remote must go through a Registry, which guards
// each mirror with its own lock. Calls against different remotes are
// independent.
//
// All git invocations go through the injected gitexec.Executor, and every
// process failure is classified by a Translator into the typed error
// taxonomy (StorageError, ErrInitFailed, ErrFetchFailed, RefNotFoundError,
// ErrCheckoutFailed, CommandError) before it is surfaced. Nothing is
// retried internally, retries are a caller policy.
package gitrepo
