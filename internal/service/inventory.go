package service

import (
	"context"
	"fmt"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
	"assetverse/internal/util"

	"go.uber.org/zap"
)

// StockCache is the optional fast-path stock mirror (Redis). A nil cache
// means all operations go straight to the database.
type StockCache interface {
	DecrementStock(ctx context.Context, assetID int64) (bool, error)
	RestockStock(ctx context.Context, assetID int64) error
	SetStock(ctx context.Context, assetID int64, quantity int) error
}

type inventoryStore interface {
	GetAssetByID(ctx context.Context, id int64) (*models.Asset, error)
	ListAssets(ctx context.Context, searchText, productType string) ([]models.Asset, error)
	CreateAsset(ctx context.Context, asset *models.Asset) error
	DeleteAsset(ctx context.Context, id int64) error
	DecrementAssetQuantity(ctx context.Context, id int64) (bool, error)
	IncrementAssetQuantity(ctx context.Context, id int64) (bool, error)
}

// InventoryService owns per-asset stock. The database is the source of
// truth; every mutation is a single conditional update so quantity can
// never be driven negative by concurrent approvals.
type InventoryService struct {
	store  inventoryStore
	cache  StockCache
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service. cache may be nil.
func NewInventoryService(store inventoryStore, cache StockCache) *InventoryService {
	return &InventoryService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Decrement takes one unit of stock for an asset. Returns
// apperr.ErrInsufficientStock when no stock is available and
// apperr.ErrAssetNotFound when the asset does not exist; in both cases
// nothing is mutated.
func (s *InventoryService) Decrement(ctx context.Context, assetID int64) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.Decrement")
	defer span.End()

	start := time.Now()
	defer func() {
		util.InventoryDecrementLatency.Observe(time.Since(start).Seconds())
	}()

	cacheTook := false
	if s.cache != nil {
		ok, err := s.cache.DecrementStock(ctx, assetID)
		switch {
		case err != nil:
			s.logger.Warn("Stock cache decrement failed, using database only",
				zap.Int64("asset_id", assetID),
				zap.Error(err))
		case !ok:
			return fmt.Errorf("asset %d: %w", assetID, apperr.ErrInsufficientStock)
		default:
			cacheTook = true
		}
	}

	updated, err := s.store.DecrementAssetQuantity(ctx, assetID)
	if err != nil {
		if cacheTook {
			s.giveBackCachedUnit(ctx, assetID)
		}
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if !updated {
		if cacheTook {
			s.giveBackCachedUnit(ctx, assetID)
		}
		// Zero rows means the asset is either missing or empty.
		if _, err := s.store.GetAssetByID(ctx, assetID); err != nil {
			return err
		}
		return fmt.Errorf("asset %d: %w", assetID, apperr.ErrInsufficientStock)
	}

	return nil
}

// Restock puts one unit of stock back. There is no upper bound: a returned
// asset always goes back on the shelf.
func (s *InventoryService) Restock(ctx context.Context, assetID int64) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.Restock")
	defer span.End()

	updated, err := s.store.IncrementAssetQuantity(ctx, assetID)
	if err != nil {
		return fmt.Errorf("failed to restock: %w", err)
	}
	if !updated {
		return fmt.Errorf("asset %d: %w", assetID, apperr.ErrAssetNotFound)
	}

	if s.cache != nil {
		if err := s.cache.RestockStock(ctx, assetID); err != nil {
			s.logger.Warn("Stock cache restock failed",
				zap.Int64("asset_id", assetID),
				zap.Error(err))
		}
	}

	return nil
}

func (s *InventoryService) giveBackCachedUnit(ctx context.Context, assetID int64) {
	if err := s.cache.RestockStock(ctx, assetID); err != nil {
		s.logger.Error("Failed to compensate cached stock unit",
			zap.Int64("asset_id", assetID),
			zap.Error(err))
	}
}

// SyncStockToCache mirrors database stock counts into the cache
func (s *InventoryService) SyncStockToCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	assets, err := s.store.ListAssets(ctx, "", "")
	if err != nil {
		return fmt.Errorf("failed to list assets: %w", err)
	}

	for _, asset := range assets {
		if err := s.cache.SetStock(ctx, asset.ID, asset.Quantity); err != nil {
			s.logger.Error("Failed to mirror stock to cache",
				zap.Int64("asset_id", asset.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Stock cache synced", zap.Int("count", len(assets)))
	return nil
}

// GetAsset retrieves a single asset
func (s *InventoryService) GetAsset(ctx context.Context, assetID int64) (*models.Asset, error) {
	return s.store.GetAssetByID(ctx, assetID)
}

// ListAssets retrieves assets with optional search and type filters
func (s *InventoryService) ListAssets(ctx context.Context, searchText, productType string) ([]models.Asset, error) {
	return s.store.ListAssets(ctx, searchText, productType)
}

// AddAsset registers a new asset and seeds its cached stock count
func (s *InventoryService) AddAsset(ctx context.Context, asset *models.Asset) error {
	if asset.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}

	if err := s.store.CreateAsset(ctx, asset); err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetStock(ctx, asset.ID, asset.Quantity); err != nil {
			s.logger.Warn("Failed to seed cached stock",
				zap.Int64("asset_id", asset.ID),
				zap.Error(err))
		}
	}

	return nil
}

// RemoveAsset deletes an asset
func (s *InventoryService) RemoveAsset(ctx context.Context, assetID int64) error {
	return s.store.DeleteAsset(ctx, assetID)
}
