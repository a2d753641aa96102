package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/inventory"
	"github.com/fekuna/omnipos-workshop-pos/internal/inventory/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/broker"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/cache"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	producerName  = "workshop-pos"
	lockTTL       = 5 * time.Second
	lockAttempts  = 3
	lockRetryWait = 100 * time.Millisecond
)

type Publisher interface {
	Publish(ctx context.Context, key string, env broker.Envelope) error
}

// CatalogNotifier is implemented by the catalog use case.
type CatalogNotifier interface {
	StockChanged(ctx context.Context, productIDs ...string)
}

// StockAdjustedPayload is the body of a StockAdjusted event.
type StockAdjustedPayload struct {
	Product  model.Product           `json:"product"`
	Movement model.InventoryMovement `json:"movement"`
}

type inventoryUseCase struct {
	repo        inventory.Repository
	cache       *cache.RedisClient
	publisher   Publisher
	catalog     CatalogNotifier
	logger      logger.ZapLogger
	now         func() time.Time
}

// NewInventoryUseCase builds the stock adjustment use case. cache, publisher
// and catalog may be nil.
func NewInventoryUseCase(repo inventory.Repository, cache *cache.RedisClient, publisher Publisher, catalog CatalogNotifier, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:        repo,
		cache:       cache,
		publisher:   publisher,
		catalog:     catalog,
		logger:      log,
		now:         time.Now,
	}
}

func (uc *inventoryUseCase) lock(ctx context.Context, productID string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("lock:inventory:%s", productID)
	value := uuid.New().String()
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.cache.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.cache.ReleaseLock(context.Background(), key, value); err != nil {
					uc.logger.Warn("failed to release inventory lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
	return nil, inventory.ErrInventoryBusy
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error) {
	movementType := input.MovementType
	if movementType == "" {
		movementType = model.MovementAdjustment
	}
	switch {
	case input.QuantityChange == 0:
		return nil, inventory.ErrInvalidAdjustment
	case movementType == model.MovementRestock && input.QuantityChange < 0:
		return nil, inventory.ErrInvalidAdjustment
	case movementType != model.MovementAdjustment && movementType != model.MovementRestock:
		return nil, inventory.ErrInvalidAdjustment
	}

	unlock, err := uc.lock(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var refID, refType *string
	if input.ReferenceID != "" {
		id, typ := input.ReferenceID, movementType
		refID, refType = &id, &typ
	}

	var movement model.InventoryMovement
	p, err := uc.repo.AdjustStock(ctx, input.ProductID, func(p model.Product) (model.StockChange, error) {
		if p.Unlimited() {
			return model.StockChange{}, inventory.ErrUnmetered
		}
		after := p.Stock + input.QuantityChange
		if after < 0 {
			return model.StockChange{}, inventory.ErrInsufficientInventory
		}
		movement = model.InventoryMovement{
			ID:             uuid.New().String(),
			ProductID:      p.ID,
			MovementType:   movementType,
			QuantityChange: input.QuantityChange,
			QuantityBefore: p.Stock,
			QuantityAfter:  after,
			ReferenceType:  refType,
			ReferenceID:    refID,
			Notes:          input.Reason,
			CreatedAt:      uc.now(),
		}
		return model.StockChange{ProductID: p.ID, NewStock: after, Movement: movement}, nil
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, inventory.ErrProductNotFound
	}

	uc.logger.Info("stock adjusted",
		zap.String("product_id", p.ID),
		zap.String("movement_type", movementType),
		zap.Int("quantity_change", input.QuantityChange),
		zap.Int("stock", p.Stock),
	)

	if uc.catalog != nil {
		uc.catalog.StockChanged(ctx, p.ID)
	}
	uc.publish(ctx, p, movement)

	return p, nil
}

func (uc *inventoryUseCase) publish(ctx context.Context, p *model.Product, m model.InventoryMovement) {
	if uc.publisher == nil {
		return
	}
	env, err := broker.NewEnvelope(broker.EventStockAdjusted, producerName, m.ID,
		StockAdjustedPayload{Product: *p, Movement: m})
	if err != nil {
		uc.logger.Error("failed to build StockAdjusted event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, p.ID, env); err != nil {
		uc.logger.Warn("failed to publish StockAdjusted event", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}
