package local

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
)

// localProfileRepository stores profiles as a userID-keyed map in the
// fixed profile file.
type localProfileRepository struct {
	store *Store
}

// NewLocalProfileRepository returns a ProfileRepository backed by the store.
func NewLocalProfileRepository(store *Store) repository.ProfileRepository {
	return &localProfileRepository{store: store}
}

func (r *localProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	profiles := map[string]domain.Profile{}
	if err := r.store.read(profileKey, &profiles); err != nil {
		return nil, err
	}
	profile, ok := profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

// Save upserts the profile with the same merge semantics as the remote
// backend: keys present in the incoming record overwrite, keys only in
// the stored record survive. Both sides are flattened to generic maps
// so the merge works per top-level field.
func (r *localProfileRepository) Save(ctx context.Context, userID string, profile *domain.Profile) error {
	if profile == nil {
		return errors.New("profile is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	raw := map[string]json.RawMessage{}
	if err := r.store.read(profileKey, &raw); err != nil {
		return err
	}

	merged := map[string]json.RawMessage{}
	if existing, ok := raw[userID]; ok {
		if err := json.Unmarshal(existing, &merged); err != nil {
			return err
		}
	}

	incoming, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(incoming, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		merged[k] = v
	}

	mergedDoc, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	raw[userID] = mergedDoc

	return r.store.write(profileKey, raw)
}
