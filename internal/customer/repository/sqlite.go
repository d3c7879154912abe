package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/customer/dto"
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

func (r *SQLiteRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (id, name, tax_id, phone, email, address, is_special, debt_discount, created_at, updated_at)
        VALUES (:id, :name, :tax_id, :phone, :email, :address, :is_special, :debt_discount, :created_at, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return apperror.Persistence("insert customer", err)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := database.Conn(ctx, r.DB).GetContext(ctx, &c, `SELECT * FROM customers WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Persistence("select customer", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	var customers []model.Customer
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SearchQuery != "" {
		conditions = append(conditions, "(name LIKE :search OR tax_id LIKE :search OR phone LIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.SpecialOnly {
		conditions = append(conditions, "is_special = 1")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM customers"+whereClause, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind customer count", err)
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, apperror.Persistence("count customers", err)
	}

	query := "SELECT * FROM customers" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind customer list", err)
	}
	if err := conn.SelectContext(ctx, &customers, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, apperror.Persistence("list customers", err)
	}
	return customers, count, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET name = :name,
            tax_id = :tax_id,
            phone = :phone,
            email = :email,
            address = :address,
            is_special = :is_special,
            debt_discount = :debt_discount,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	if err != nil {
		return apperror.Persistence("update customer", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("customer", c.ID)
	}
	return nil
}
