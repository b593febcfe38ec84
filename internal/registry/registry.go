// Package registry resolves the repository implementations a lifeguard
// process runs against. A persistence plugin declares its implementations
// once at startup; callers resolve them by kind.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kursadbilgin/lifeguard-mongodb/internal/repository"
)

type Kind string

const (
	KindHistory      Kind = "history"
	KindNotification Kind = "notification"
	KindValidation   Kind = "validation"
)

var ErrNotDeclared = errors.New("repository not declared")

// Registry is safe for concurrent use. Declaring a kind twice replaces the
// earlier implementation.
type Registry struct {
	mu           sync.RWMutex
	validation   repository.ValidationRepository
	notification repository.NotificationRepository
	history      repository.HistoryRepository
}

func New() *Registry {
	return &Registry{}
}

func (r *Registry) DeclareValidation(repo repository.ValidationRepository) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validation = repo
}

func (r *Registry) DeclareNotification(repo repository.NotificationRepository) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notification = repo
}

func (r *Registry) DeclareHistory(repo repository.HistoryRepository) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = repo
}

func (r *Registry) Validation() (repository.ValidationRepository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.validation == nil {
		return nil, notDeclared(KindValidation)
	}
	return r.validation, nil
}

func (r *Registry) Notification() (repository.NotificationRepository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.notification == nil {
		return nil, notDeclared(KindNotification)
	}
	return r.notification, nil
}

func (r *Registry) History() (repository.HistoryRepository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.history == nil {
		return nil, notDeclared(KindHistory)
	}
	return r.history, nil
}

// Declared lists the kinds that currently have an implementation, sorted.
func (r *Registry) Declared() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, 3)
	if r.history != nil {
		kinds = append(kinds, KindHistory)
	}
	if r.notification != nil {
		kinds = append(kinds, KindNotification)
	}
	if r.validation != nil {
		kinds = append(kinds, KindValidation)
	}
	return kinds
}

func notDeclared(kind Kind) error {
	return fmt.Errorf("%w: %s", ErrNotDeclared, kind)
}
