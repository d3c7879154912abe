package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/debt/dto"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, d *model.Debt) error {
	conn := database.Conn(ctx, r.DB)

	debtQuery := `
        INSERT INTO debts (
            id, customer_id, total, original_amount, discount_amount, discount_percent,
            amount_paid, status, note, user_id, version, created_at, updated_at
        )
        VALUES (
            :id, :customer_id, :total, :original_amount, :discount_amount, :discount_percent,
            :amount_paid, :status, :note, :user_id, :version, :created_at, :updated_at
        )
    `
	if _, err := conn.NamedExecContext(ctx, debtQuery, d); err != nil {
		return apperror.Persistence("insert debt", err)
	}

	itemQuery := `
        INSERT INTO debt_items (
            id, debt_id, product_id, quantity, unit_price, unit_cost_price, subtotal, weight_kg
        )
        VALUES (
            :id, :debt_id, :product_id, :quantity, :unit_price, :unit_cost_price, :subtotal, :weight_kg
        )
    `
	for i := range d.Items {
		if _, err := conn.NamedExecContext(ctx, itemQuery, &d.Items[i]); err != nil {
			return apperror.Persistence("insert debt item", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*model.Debt, error) {
	conn := database.Conn(ctx, r.DB)

	var d model.Debt
	if err := conn.GetContext(ctx, &d, `SELECT * FROM debts WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Persistence("select debt", err)
	}

	if err := conn.SelectContext(ctx, &d.Items,
		`SELECT * FROM debt_items WHERE debt_id = ? ORDER BY rowid`, id); err != nil {
		return nil, apperror.Persistence("select debt items", err)
	}

	payments, err := r.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Payments = payments
	return &d, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context, f *dto.DebtFilters) ([]model.Debt, int, error) {
	var debts []model.Debt
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(f.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM debts"+whereClause, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind debt count", err)
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, apperror.Persistence("count debts", err)
	}

	query := "SELECT * FROM debts" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind debt list", err)
	}
	if err := conn.SelectContext(ctx, &debts, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, apperror.Persistence("list debts", err)
	}
	return debts, count, nil
}

func (r *SQLiteRepository) ListPayments(ctx context.Context, debtID string) ([]model.DebtPayment, error) {
	payments := []model.DebtPayment{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &payments,
		`SELECT * FROM debt_payments WHERE debt_id = ? ORDER BY paid_at ASC, rowid ASC`, debtID)
	if err != nil {
		return nil, apperror.Persistence("select debt payments", err)
	}
	return payments, nil
}

func (r *SQLiteRepository) InsertPayment(ctx context.Context, p *model.DebtPayment) error {
	query := `
        INSERT INTO debt_payments (id, debt_id, amount, payment_method, user_id, paid_at)
        VALUES (:id, :debt_id, :amount, :payment_method, :user_id, :paid_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return apperror.Persistence("insert debt payment", err)
}

func (r *SQLiteRepository) UpdatePayment(ctx context.Context, d *model.Debt, expectedVersion int64) error {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, `
        UPDATE debts
        SET amount_paid = ?, status = ?, version = version + 1, updated_at = ?
        WHERE id = ? AND version = ? AND status = ?`,
		d.AmountPaid, d.Status, d.UpdatedAt, d.ID, expectedVersion, model.DebtPending)
	if err != nil {
		return apperror.Persistence("update debt payment", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Persistence("update debt payment", err)
	}
	if n == 0 {
		return fmt.Errorf("debt %s: %w", d.ID, apperror.ErrConcurrentUpdate)
	}
	d.Version = expectedVersion + 1
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	conn := database.Conn(ctx, r.DB)

	if _, err := conn.ExecContext(ctx, `DELETE FROM debt_items WHERE debt_id = ?`, id); err != nil {
		return apperror.Persistence("delete debt items", err)
	}
	if _, err := conn.ExecContext(ctx, `DELETE FROM debt_payments WHERE debt_id = ?`, id); err != nil {
		return apperror.Persistence("delete debt payments", err)
	}
	res, err := conn.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return apperror.Persistence("delete debt", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("debt", id)
	}
	return nil
}
