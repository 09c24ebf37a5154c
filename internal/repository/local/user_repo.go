package local

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
)

// localUserRepository stores account records in the fixed users file.
type localUserRepository struct {
	store *Store
}

// NewLocalUserRepository returns a UserRepository backed by the store.
func NewLocalUserRepository(store *Store) repository.UserRepository {
	return &localUserRepository{store: store}
}

func (r *localUserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if !user.Guest && (user.Email == "" || user.PasswordHash == "") {
		return "", errors.New("user email and password hash are required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users := map[string]domain.User{}
	if err := r.store.read(usersKey, &users); err != nil {
		return "", err
	}

	if user.Email != "" {
		for _, existing := range users {
			if existing.Email == user.Email {
				return "", errors.New("user with this email already exists")
			}
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	users[user.ID] = *user
	if err := r.store.write(usersKey, users); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (r *localUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := map[string]domain.User{}
	if err := r.store.read(usersKey, &users); err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.Email != "" && user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *localUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := map[string]domain.User{}
	if err := r.store.read(usersKey, &users); err != nil {
		return nil, err
	}
	user, ok := users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}
