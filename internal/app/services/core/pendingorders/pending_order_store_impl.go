package pendingorders

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

type pendingPublicOrderStore struct {
	RedisRepository contracts.RedisRepository
	TTL             time.Duration
}

var (
	pendingStoreInstance contracts.PendingPublicOrderStore
	oncePendingStore     sync.Once
)

func NewPendingPublicOrderStore(redisRepository contracts.RedisRepository, internalConfig *config.InternalConfig) contracts.PendingPublicOrderStore {
	oncePendingStore.Do(func() {
		pendingStoreInstance = &pendingPublicOrderStore{
			RedisRepository: redisRepository,
			TTL:             time.Duration(internalConfig.Booking.PendingPublicOrderTTLInMinutes) * time.Minute,
		}
	})
	return pendingStoreInstance
}

func (s *pendingPublicOrderStore) Save(ctx context.Context, pending *models.PendingPublicOrder) error {
	return s.RedisRepository.Set(ctx, redisKey(pending.OrderKey), pending, s.TTL)
}

func (s *pendingPublicOrderStore) Find(ctx context.Context, orderKey string) (*models.PendingPublicOrder, error) {
	raw, err := s.RedisRepository.Get(ctx, redisKey(orderKey))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	pending := new(models.PendingPublicOrder)
	if err := json.Unmarshal([]byte(raw), pending); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return pending, nil
}

func (s *pendingPublicOrderStore) Delete(ctx context.Context, orderKey string) error {
	return s.RedisRepository.Delete(ctx, redisKey(orderKey))
}

func redisKey(orderKey string) string {
	return constvars.RedisKeyPendingPublicOrder + orderKey
}
