package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/redis"
)

// Store persists carts between visits. Load returns (nil, nil) when no cart
// exists for the id.
type Store interface {
	Load(ctx context.Context, cartID string) (*Cart, error)
	Save(ctx context.Context, cartID string, cart *Cart) error
	Clear(ctx context.Context, cartID string) error
}

type redisValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

// RedisStore keeps carts in Redis as JSON documents with a sliding TTL.
type RedisStore struct {
	client redisValueStore
	ttl    time.Duration
}

// NewRedisStore builds the production cart store.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Load(ctx context.Context, cartID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(cartID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// Corrupt payloads are treated as absent rather than wedging the buyer.
		return nil, nil
	}
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cartID string, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal cart")
	}
	if err := s.client.Set(ctx, s.client.CartKey(cartID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(cartID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// MemoryStore is an in-process Store used in tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewMemoryStore builds an empty in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

func (s *MemoryStore) Load(_ context.Context, cartID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.carts[cartID]
	if !ok {
		return nil, nil
	}
	clone := *stored
	clone.Lines = append([]Line(nil), stored.Lines...)
	return &clone, nil
}

func (s *MemoryStore) Save(_ context.Context, cartID string, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *cart
	clone.Lines = append([]Line(nil), cart.Lines...)
	s.carts[cartID] = &clone
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

// Len reports how many carts are currently stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}
