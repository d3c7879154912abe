package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/inventory/dto"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) GetProductStock(ctx context.Context, productID string) (*dto.ProductStock, error) {
	var ps dto.ProductStock
	err := database.Conn(ctx, r.DB).GetContext(ctx, &ps,
		`SELECT id, stock, is_active FROM products WHERE id = ?`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Persistence("select product stock", err)
	}
	return &ps, nil
}

const insertMovementQuery = `
    INSERT INTO stock_movements (
        id, product_id, movement_type, quantity_change, quantity_before, quantity_after,
        reference_type, reference_id, notes, created_by, created_at
    )
    VALUES (
        :id, :product_id, :movement_type, :quantity_change, :quantity_before, :quantity_after,
        :reference_type, :reference_id, :notes, :created_by, :created_at
    )
`

func (r *SQLiteRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, insertMovementQuery, m)
	return apperror.Persistence("log stock movement", err)
}

func (r *SQLiteRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = string(f.MovementType)
	}
	if f.ReferenceType != "" {
		conditions = append(conditions, "reference_type = :reference_type")
		args["reference_type"] = f.ReferenceType
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = f.EndDate.UTC()
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind movement count", err)
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, apperror.Persistence("count movements", err)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC, rowid DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind movement list", err)
	}
	if err := conn.SelectContext(ctx, &items, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, apperror.Persistence("list movements", err)
	}
	return items, count, nil
}

func (r *SQLiteRepository) AdjustStockWithMovement(ctx context.Context, before float64, movement *model.StockMovement) error {
	conn := database.Conn(ctx, r.DB)

	// 1. Update stock, guarded on the value the caller read
	res, err := conn.ExecContext(ctx,
		`UPDATE products SET stock = ?, updated_at = ? WHERE id = ? AND stock = ?`,
		movement.QuantityAfter, movement.CreatedAt, movement.ProductID, before)
	if err != nil {
		return apperror.Persistence("update stock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Persistence("update stock", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", movement.ProductID, apperror.ErrConcurrentUpdate)
	}

	// 2. Log Movement
	if _, err := conn.NamedExecContext(ctx, insertMovementQuery, movement); err != nil {
		return apperror.Persistence("log stock movement", err)
	}
	return nil
}
