package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/luis"

	"github.com/redis/go-redis/v9"
)

const appStateKeyPrefix = "luis-provisioner:app:"

// AppStateStore remembers the last application created under a name so a
// later invocation can check status or publish without being given the id.
type AppStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAppStateStore(client *RedisClient, ttl time.Duration) *AppStateStore {
	return &AppStateStore{client: client.Client, ttl: ttl}
}

type appState struct {
	luis.ApplicationInfo
	SavedAt time.Time `json:"savedAt"`
}

func (s *AppStateStore) SaveApplication(ctx context.Context, name string, app luis.ApplicationInfo) error {
	data, err := json.Marshal(appState{ApplicationInfo: app, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal app state: %w", err)
	}
	if err := s.client.Set(ctx, appStateKeyPrefix+name, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save app state: %w", err)
	}
	return nil
}

func (s *AppStateStore) LoadApplication(ctx context.Context, name string) (luis.ApplicationInfo, error) {
	data, err := s.client.Get(ctx, appStateKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return luis.ApplicationInfo{}, apperrors.NewStateNotFoundError(appStateKeyPrefix + name)
	}
	if err != nil {
		return luis.ApplicationInfo{}, fmt.Errorf("failed to load app state: %w", err)
	}

	var state appState
	if err := json.Unmarshal(data, &state); err != nil {
		return luis.ApplicationInfo{}, fmt.Errorf("failed to unmarshal app state: %w", err)
	}
	return state.ApplicationInfo, nil
}
