// Package registry holds the static lists of tracked repositories and
// insider accounts for a dashboard run.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spiffcs/maintainer-dashboard/internal/model"
)

// ErrInvalidRepository is returned for repository names not in owner/name form.
var ErrInvalidRepository = errors.New("invalid repository")

// Registry is immutable once constructed. Accessors return copies.
type Registry struct {
	repos     []string
	insiders  []string
	insiderOf map[string]struct{}
}

// New validates and de-duplicates the given lists, preserving first-seen order.
// Insider logins are matched case-insensitively, as GitHub logins are.
func New(repos, insiders []string) (*Registry, error) {
	r := &Registry{insiderOf: make(map[string]struct{}, len(insiders))}

	seenRepo := make(map[string]struct{}, len(repos))
	for _, repo := range repos {
		repo = strings.TrimSpace(repo)
		if err := validateRepo(repo); err != nil {
			return nil, err
		}
		key := strings.ToLower(repo)
		if _, ok := seenRepo[key]; ok {
			continue
		}
		seenRepo[key] = struct{}{}
		r.repos = append(r.repos, repo)
	}

	for _, login := range insiders {
		login = strings.TrimSpace(login)
		if login == "" {
			continue
		}
		key := strings.ToLower(login)
		if _, ok := r.insiderOf[key]; ok {
			continue
		}
		r.insiderOf[key] = struct{}{}
		r.insiders = append(r.insiders, login)
	}

	return r, nil
}

func validateRepo(repo string) error {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") || strings.ContainsAny(repo, " \t") {
		return fmt.Errorf("%w: %q (expected owner/name)", ErrInvalidRepository, repo)
	}
	return nil
}

// Repos returns the tracked repositories in configuration order.
func (r *Registry) Repos() []string {
	return append([]string(nil), r.repos...)
}

// Insiders returns the insider logins in configuration order.
func (r *Registry) Insiders() []string {
	return append([]string(nil), r.insiders...)
}

// IsInsider reports whether the actor is an insider. A nil actor (deleted
// account) is never an insider.
func (r *Registry) IsInsider(a *model.Actor) bool {
	if a == nil {
		return false
	}
	return r.IsInsiderLogin(a.Login)
}

// IsInsiderLogin reports whether login belongs to the insider set.
func (r *Registry) IsInsiderLogin(login string) bool {
	if login == "" {
		return false
	}
	_, ok := r.insiderOf[strings.ToLower(login)]
	return ok
}
