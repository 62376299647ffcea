package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// State describes what is found at a clone destination
type State int

const (
	// Missing means nothing exists at the path
	Missing State = iota
	// Cloned means the path holds a git repository
	Cloned
	// NotRepository means the path exists but is not a git repository
	NotRepository
)

func (s State) String() string {
	switch s {
	case Missing:
		return "missing"
	case Cloned:
		return "cloned"
	case NotRepository:
		return "not a repository"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Repository is an existing clone opened with go-git
type Repository struct {
	path string
	repo *gogit.Repository
}

// Head describes the checked-out commit
type Head struct {
	Hash   string
	Branch string // empty when detached
}

func (h Head) String() string {
	short := h.Hash
	if len(short) > 7 {
		short = short[:7]
	}
	if h.Branch != "" {
		return fmt.Sprintf("%s @ %s", h.Branch, short)
	}
	return fmt.Sprintf("detached @ %s", short)
}

// Open opens the repository at path
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %q: %w", path, err)
	}
	return &Repository{path: path, repo: repo}, nil
}

// Inspect reports the state of a clone destination. The repository is
// returned only for the Cloned state.
func Inspect(path string) (State, *Repository, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Missing, nil, nil
		}
		return Missing, nil, fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	repo, err := Open(path)
	if err != nil {
		return NotRepository, nil, nil
	}
	return Cloned, repo, nil
}

func (r *Repository) Path() string {
	return r.path
}

// Head returns the checked-out commit; an empty repository has no head
func (r *Repository) Head() (Head, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Head{}, fmt.Errorf("repository has no commits: %s", r.path)
		}
		return Head{}, fmt.Errorf("failed to read HEAD: %w", err)
	}

	head := Head{Hash: ref.Hash().String()}
	if ref.Name().IsBranch() {
		head.Branch = ref.Name().Short()
	}
	return head, nil
}

// RemoteURL returns the first URL of the named remote
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("remote %q not found: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}
	return urls[0], nil
}

// UsesLFS reports whether the working tree tracks files with git-lfs
func (r *Repository) UsesLFS() bool {
	data, err := os.ReadFile(filepath.Join(r.path, ".gitattributes"))
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "filter=lfs")
}

// SameRemote compares two repository URLs ignoring a trailing ".git" and slash
func SameRemote(a, b string) bool {
	return normalizeURL(a) == normalizeURL(b)
}

func normalizeURL(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")
	return strings.ToLower(u)
}
