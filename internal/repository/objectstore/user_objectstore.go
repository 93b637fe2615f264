package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"userapi/internal/model"
	"userapi/internal/repository"
	"userapi/internal/storage"
)

const contentTypeJSON = "application/json"

// UserObjectStore reads and publishes the user seed as a JSON array stored
// under a single object key.
type UserObjectStore struct {
	store storage.Storage
	key   string
}

// NewUserObjectStore creates a source backed by the object at key.
func NewUserObjectStore(store storage.Storage, key string) *UserObjectStore {
	return &UserObjectStore{store: store, key: key}
}

var _ repository.UserSource = (*UserObjectStore)(nil)

// LoadUsers downloads and decodes the seed document.
func (s *UserObjectStore) LoadUsers(ctx context.Context) ([]model.User, error) {
	rc, _, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	defer rc.Close()

	var users []model.User
	if err := json.NewDecoder(rc).Decode(&users); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return users, nil
}

// Publish uploads users as the seed document, replacing any previous one.
func (s *UserObjectStore) Publish(ctx context.Context, users []model.User) (storage.ObjectInfo, error) {
	b, err := json.Marshal(users)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("encode users: %w", err)
	}

	info, err := s.store.Put(ctx, s.key, bytes.NewReader(b), storage.PutObjectOptions{
		Size:        int64(len(b)),
		ContentType: contentTypeJSON,
		Metadata: map[string]string{
			"user-count": fmt.Sprint(len(users)),
		},
	})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("put %s: %w", s.key, err)
	}
	return info, nil
}
