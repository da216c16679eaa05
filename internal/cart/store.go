package cart

import (
	"context"
	"time"

	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"github.com/mesaqr/mesaqr-backend/pkg/logger"
	pkgredis "github.com/mesaqr/mesaqr-backend/pkg/redis"
)

// KV is the slice of the redis client the cart store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Store owns the durable, session-scoped cart document.
type Store interface {
	Read(ctx context.Context, sessionID string) Cart
	Write(ctx context.Context, sessionID string, cart Cart) error
	Clear(ctx context.Context, sessionID string) error
}

type redisStore struct {
	kv   KV
	ttl  time.Duration
	logg *logger.Logger
}

// NewStore builds the redis-backed cart store.
func NewStore(kv KV, ttl time.Duration, logg *logger.Logger) Store {
	return &redisStore{kv: kv, ttl: ttl, logg: logg}
}

// Read returns the session's cart. An absent key yields an empty cart. A
// present value that fails validation is erased and an empty cart is returned;
// the persisted payload is never partially trusted. Transport errors also
// degrade to an empty cart so a flaky store can never crash a request.
func (s *redisStore) Read(ctx context.Context, sessionID string) Cart {
	key := s.kv.CartKey(sessionID)

	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNil(err) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.read_failed")
		}
		return Cart{}
	}

	cart, ok := DecodeCart([]byte(raw))
	if !ok {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "cart.discarding_invalid_payload")
		}
		if err := s.kv.Del(ctx, key); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.discard_failed")
		}
		return Cart{}
	}
	return cart
}

// Write validates the cart and refuses to persist an invalid one.
func (s *redisStore) Write(ctx context.Context, sessionID string, cart Cart) error {
	if err := cart.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart")
	}

	payload, err := cart.Encode()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}

	if err := s.kv.Set(ctx, s.kv.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

// Clear erases the persisted cart unconditionally.
func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
