package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type inventoryRepository struct {
	BaseRepository
}

func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &inventoryRepository{NewBaseRepository(db)}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (
			id, name, category, current_stock, minimum_stock, unit, unit_cost,
			supplier, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Category, item.CurrentStock, item.MinimumStock,
		item.Unit, item.UnitCost, item.Supplier, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	item.Status = item.StockStatus()
	return nil
}

func (r *inventoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.GetContext(ctx, &item, `SELECT * FROM inventory_items WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("inventory item", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	item.Status = item.StockStatus()
	return &item, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $1, category = $2, current_stock = $3, minimum_stock = $4,
			unit = $5, unit_cost = $6, supplier = $7, updated_at = $8
		WHERE id = $9
	`
	item.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		item.Name, item.Category, item.CurrentStock, item.MinimumStock,
		item.Unit, item.UnitCost, item.Supplier, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("inventory item", nil)
	}
	item.Status = item.StockStatus()
	return nil
}

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("inventory item", nil)
	}
	return nil
}

func (r *inventoryRepository) List(ctx context.Context, filter *model.ListFilter) ([]*model.InventoryItem, error) {
	query := `SELECT * FROM inventory_items WHERE 1=1`
	args := []interface{}{}

	if filter != nil && filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (name ILIKE $%d OR category ILIKE $%d OR supplier ILIKE $%d)", n, n, n)
	}
	query += ` ORDER BY name ASC`

	items := []*model.InventoryItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	for _, item := range items {
		item.Status = item.StockStatus()
	}
	return items, nil
}
