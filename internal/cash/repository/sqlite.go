package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/cash/dto"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) CreateWithdrawal(ctx context.Context, w *model.CashWithdrawal) error {
	query := `
        INSERT INTO cash_withdrawals (id, user_id, approver_id, amount, reason, origin, status, requested_at, approved_at)
        VALUES (:id, :user_id, :approver_id, :amount, :reason, :origin, :status, :requested_at, :approved_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, w)
	return apperror.Persistence("insert withdrawal", err)
}

func (r *SQLiteRepository) FindWithdrawal(ctx context.Context, id string) (*model.CashWithdrawal, error) {
	var w model.CashWithdrawal
	err := database.Conn(ctx, r.DB).GetContext(ctx, &w, `SELECT * FROM cash_withdrawals WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Persistence("select withdrawal", err)
	}
	return &w, nil
}

func (r *SQLiteRepository) ApproveWithdrawal(ctx context.Context, id, approverID string, at time.Time) error {
	res, err := database.Conn(ctx, r.DB).ExecContext(ctx, `
        UPDATE cash_withdrawals
        SET status = ?, approver_id = ?, approved_at = ?
        WHERE id = ? AND status = ?`,
		model.WithdrawalCompleted, approverID, at, id, model.WithdrawalPending)
	if err != nil {
		return apperror.Persistence("approve withdrawal", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.Invalid(apperror.ErrAlreadyCompleted, "withdrawal %s", id)
	}
	return nil
}

func (r *SQLiteRepository) ListWithdrawals(ctx context.Context, f *dto.WithdrawalFilters) ([]model.CashWithdrawal, int, error) {
	var withdrawals []model.CashWithdrawal
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
		conditions = append(conditions, "requested_at >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		conditions = append(conditions, "requested_at < :end_date")
		args["end_date"] = f.EndDate.UTC()
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM cash_withdrawals"+whereClause, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind withdrawal count", err)
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, apperror.Persistence("count withdrawals", err)
	}

	query := "SELECT * FROM cash_withdrawals" + whereClause + " ORDER BY requested_at DESC" + paginate(f.Page, f.PageSize)
	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind withdrawal list", err)
	}
	if err := conn.SelectContext(ctx, &withdrawals, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, apperror.Persistence("list withdrawals", err)
	}
	return withdrawals, count, nil
}

func (r *SQLiteRepository) UnclosedSales(ctx context.Context) ([]model.Sale, error) {
	sales := []model.Sale{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &sales, `
        SELECT * FROM sales
        WHERE status != ? AND id NOT IN (SELECT sale_id FROM cash_closing_sales)
        ORDER BY sale_date ASC`, model.SaleVoided)
	if err != nil {
		return nil, apperror.Persistence("select unclosed sales", err)
	}
	return sales, nil
}

func (r *SQLiteRepository) UnclosedWithdrawals(ctx context.Context) ([]model.CashWithdrawal, error) {
	withdrawals := []model.CashWithdrawal{}
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &withdrawals, `
        SELECT * FROM cash_withdrawals
        WHERE status = ? AND closing_id IS NULL
        ORDER BY approved_at ASC`, model.WithdrawalCompleted)
	if err != nil {
		return nil, apperror.Persistence("select unclosed withdrawals", err)
	}
	return withdrawals, nil
}

func (r *SQLiteRepository) CreateClosing(ctx context.Context, c *model.CashClosing) error {
	conn := database.Conn(ctx, r.DB)

	headerQuery := `
        INSERT INTO cash_closings (id, user_id, closed_at, system_value, declared_value, difference, withdrawals_value, note)
        VALUES (:id, :user_id, :closed_at, :system_value, :declared_value, :difference, :withdrawals_value, :note)
    `
	if _, err := conn.NamedExecContext(ctx, headerQuery, c); err != nil {
		return apperror.Persistence("insert cash closing", err)
	}

	methodQuery := `
        INSERT INTO cash_closing_methods (closing_id, payment_method, system_value, declared_value, difference)
        VALUES (:closing_id, :payment_method, :system_value, :declared_value, :difference)
    `
	for i := range c.Methods {
		if _, err := conn.NamedExecContext(ctx, methodQuery, &c.Methods[i]); err != nil {
			return apperror.Persistence("insert cash closing method", err)
		}
	}

	for _, saleID := range c.SaleIDs {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO cash_closing_sales (closing_id, sale_id) VALUES (?, ?)`, c.ID, saleID); err != nil {
			return apperror.Persistence("link sale to closing", err)
		}
		if _, err := conn.ExecContext(ctx,
			`UPDATE sales SET status = ? WHERE id = ? AND status = ?`, model.SaleClosed, saleID, model.SaleActive); err != nil {
			return apperror.Persistence("close sale", err)
		}
	}

	for _, withdrawalID := range c.WithdrawalIDs {
		res, err := conn.ExecContext(ctx,
			`UPDATE cash_withdrawals SET closing_id = ? WHERE id = ? AND closing_id IS NULL`, c.ID, withdrawalID)
		if err != nil {
			return apperror.Persistence("link withdrawal to closing", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("withdrawal %s: %w", withdrawalID, apperror.ErrConcurrentUpdate)
		}
	}
	return nil
}

func (r *SQLiteRepository) FindClosing(ctx context.Context, id string) (*model.CashClosing, error) {
	conn := database.Conn(ctx, r.DB)

	var c model.CashClosing
	if err := conn.GetContext(ctx, &c, `SELECT * FROM cash_closings WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Persistence("select cash closing", err)
	}

	if err := conn.SelectContext(ctx, &c.Methods,
		`SELECT * FROM cash_closing_methods WHERE closing_id = ? ORDER BY payment_method`, id); err != nil {
		return nil, apperror.Persistence("select cash closing methods", err)
	}
	if err := conn.SelectContext(ctx, &c.SaleIDs,
		`SELECT sale_id FROM cash_closing_sales WHERE closing_id = ? ORDER BY rowid`, id); err != nil {
		return nil, apperror.Persistence("select cash closing sales", err)
	}
	if err := conn.SelectContext(ctx, &c.WithdrawalIDs,
		`SELECT id FROM cash_withdrawals WHERE closing_id = ? ORDER BY approved_at`, id); err != nil {
		return nil, apperror.Persistence("select cash closing withdrawals", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) ListClosings(ctx context.Context, f *dto.ClosingFilters) ([]model.CashClosing, int, error) {
	var closings []model.CashClosing
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.StartDate != nil {
		conditions = append(conditions, "closed_at >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		conditions = append(conditions, "closed_at < :end_date")
		args["end_date"] = f.EndDate.UTC()
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM cash_closings"+whereClause, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind closing count", err)
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, apperror.Persistence("count closings", err)
	}

	query := "SELECT * FROM cash_closings" + whereClause + " ORDER BY closed_at DESC" + paginate(f.Page, f.PageSize)
	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind closing list", err)
	}
	if err := conn.SelectContext(ctx, &closings, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, apperror.Persistence("list closings", err)
	}
	return closings, count, nil
}

func paginate(page, pageSize int) string {
	if pageSize <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
}
