package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/sale/dto"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, s *model.Sale) error {
	conn := database.Conn(ctx, r.DB)

	saleQuery := `
        INSERT INTO sales (
            id, user_id, total, payment_method, amount_received, change_given, sale_date,
            status, void_reason, voided_by, voided_at, origin, debt_id, original_amount, discount_amount, external_ref
        )
        VALUES (
            :id, :user_id, :total, :payment_method, :amount_received, :change_given, :sale_date,
            :status, :void_reason, :voided_by, :voided_at, :origin, :debt_id, :original_amount, :discount_amount, :external_ref
        )
    `
	if _, err := conn.NamedExecContext(ctx, saleQuery, s); err != nil {
		if s.DebtID != nil && isUniqueViolation(err) {
			return apperror.Invalid(apperror.ErrAlreadySettled, "debt %s already has a settlement sale", *s.DebtID)
		}
		return apperror.Persistence("insert sale", err)
	}

	itemQuery := `
        INSERT INTO sale_items (
            id, sale_id, product_id, quantity, unit_price, unit_cost_price, subtotal, status, weight_kg
        )
        VALUES (
            :id, :sale_id, :product_id, :quantity, :unit_price, :unit_cost_price, :subtotal, :status, :weight_kg
        )
    `
	for i := range s.Items {
		if _, err := conn.NamedExecContext(ctx, itemQuery, &s.Items[i]); err != nil {
			return apperror.Persistence("insert sale item", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	return r.findOne(ctx, `SELECT * FROM sales WHERE id = ?`, id)
}

func (r *SQLiteRepository) FindByDebtID(ctx context.Context, debtID string) (*model.Sale, error) {
	return r.findOne(ctx, `SELECT * FROM sales WHERE debt_id = ?`, debtID)
}

func (r *SQLiteRepository) FindByExternalRef(ctx context.Context, ref string) (*model.Sale, error) {
	return r.findOne(ctx, `SELECT * FROM sales WHERE external_ref = ?`, ref)
}

func (r *SQLiteRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Sale, error) {
	conn := database.Conn(ctx, r.DB)

	var s model.Sale
	if err := conn.GetContext(ctx, &s, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Persistence("select sale", err)
	}

	if err := conn.SelectContext(ctx, &s.Items,
		`SELECT * FROM sale_items WHERE sale_id = ? ORDER BY rowid`, s.ID); err != nil {
		return nil, apperror.Persistence("select sale items", err)
	}
	return &s, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	var sales []model.Sale
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(f.Status)
	}
	if f.Origin != "" {
		conditions = append(conditions, "origin = :origin")
		args["origin"] = string(f.Origin)
	}
	if f.StartDate != nil {
		conditions = append(conditions, "sale_date >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		conditions = append(conditions, "sale_date < :end_date")
		args["end_date"] = f.EndDate.UTC()
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM sales"+whereClause, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind sale count", err)
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, apperror.Persistence("count sales", err)
	}

	query := "SELECT * FROM sales" + whereClause + " ORDER BY sale_date DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind sale list", err)
	}
	if err := conn.SelectContext(ctx, &sales, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, apperror.Persistence("list sales", err)
	}
	return sales, count, nil
}

func (r *SQLiteRepository) MarkVoided(ctx context.Context, id, reason, userID string, at time.Time) error {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, `
        UPDATE sales
        SET status = ?, void_reason = ?, voided_by = ?, voided_at = ?
        WHERE id = ? AND status != ?`,
		model.SaleVoided, reason, userID, at, id, model.SaleVoided)
	if err != nil {
		return apperror.Persistence("void sale", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.Invalid(apperror.ErrAlreadyVoided, "sale %s", id)
	}
	return nil
}

func (r *SQLiteRepository) MarkItemRemoved(ctx context.Context, saleID, itemID string, newTotal decimal.Decimal) error {
	conn := database.Conn(ctx, r.DB)

	res, err := conn.ExecContext(ctx,
		`UPDATE sale_items SET status = ? WHERE id = ? AND sale_id = ? AND status IS NULL`,
		model.SaleItemRemoved, itemID, saleID)
	if err != nil {
		return apperror.Persistence("remove sale item", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.Validation("sale item %s is not active", itemID)
	}

	if _, err := conn.ExecContext(ctx, `UPDATE sales SET total = ? WHERE id = ?`, newTotal, saleID); err != nil {
		return apperror.Persistence("update sale total", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	conn := database.Conn(ctx, r.DB)

	if _, err := conn.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = ?`, id); err != nil {
		return apperror.Persistence("delete sale items", err)
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM cash_closing_sales WHERE sale_id = ?`, id); err != nil {
		return apperror.Persistence("unlink sale from closing", err)
	}
	res, err := conn.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return apperror.Persistence("delete sale", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("sale", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
