package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

// GetAssetByID retrieves an asset by ID
func (s *Store) GetAssetByID(ctx context.Context, id int64) (*models.Asset, error) {
	var asset models.Asset
	err := s.db.GetContext(ctx, &asset, "SELECT * FROM assets WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("asset %d: %w", id, apperr.ErrAssetNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListAssets retrieves assets, optionally filtered by a name search and
// product type, newest first
func (s *Store) ListAssets(ctx context.Context, searchText, productType string) ([]models.Asset, error) {
	query := "SELECT * FROM assets WHERE 1=1"
	args := []interface{}{}

	if searchText != "" {
		args = append(args, "%"+searchText+"%")
		query += fmt.Sprintf(" AND product_name ILIKE $%d", len(args))
	}
	if productType != "" {
		args = append(args, productType)
		query += fmt.Sprintf(" AND product_type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	assets := []models.Asset{}
	err := s.db.SelectContext(ctx, &assets, query, args...)
	return assets, err
}

// CreateAsset inserts a new asset
func (s *Store) CreateAsset(ctx context.Context, asset *models.Asset) error {
	query := `
		INSERT INTO assets (product_name, product_type, product_url, quantity, company_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, asset, query,
		asset.ProductName, asset.ProductType, asset.ProductURL, asset.Quantity, asset.CompanyName)
}

// DeleteAsset removes an asset
func (s *Store) DeleteAsset(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("asset %d: %w", id, apperr.ErrAssetNotFound)
	}
	return nil
}

// DecrementAssetQuantity atomically takes one unit of stock. The quantity
// guard and the decrement are a single conditional update so two concurrent
// approvals can never both consume the last unit. Returns false when no row
// was updated (asset missing or out of stock).
func (s *Store) DecrementAssetQuantity(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE assets SET quantity = quantity - 1 WHERE id = $1 AND quantity > 0", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// IncrementAssetQuantity puts one unit back into stock. Returns false when
// the asset does not exist.
func (s *Store) IncrementAssetQuantity(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE assets SET quantity = quantity + 1 WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
