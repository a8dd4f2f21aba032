package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hongminglow/astra-console/internal/editor"
)

const editPrefix = "edit_session:"

var _ editor.Store = (*EditStore)(nil)

// EditStore keeps the edit session of each admin login.
type EditStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewEditStore constructs an EditStore whose drafts expire after ttl.
func NewEditStore(rdb redis.UniversalClient, ttl time.Duration) *EditStore {
	return &EditStore{rdb: rdb, ttl: ttl}
}

func (s *EditStore) Load(ctx context.Context, key string) (editor.EditSession, error) {
	payload, err := s.rdb.Get(ctx, editPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return editor.EditSession{}, nil
		}
		return editor.EditSession{}, fmt.Errorf("get edit session: %w", err)
	}
	var session editor.EditSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return editor.EditSession{}, fmt.Errorf("decode edit session: %w", err)
	}
	return session, nil
}

func (s *EditStore) Save(ctx context.Context, key string, session editor.EditSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode edit session: %w", err)
	}
	return s.rdb.Set(ctx, editPrefix+key, payload, s.ttl).Err()
}

func (s *EditStore) Clear(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, editPrefix+key).Err()
}
