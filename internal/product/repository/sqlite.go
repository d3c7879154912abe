package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, code, name, cost_price, sale_price, stock, min_stock,
            is_active, sold_by_weight, unit, created_at, updated_at
        )
        VALUES (
            :id, :code, :name, :cost_price, :sale_price, :stock, :min_stock,
            :is_active, :sold_by_weight, :unit, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return apperror.Persistence("insert product", err)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE id = ? LIMIT 1`, id)
}

func (r *SQLiteRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE code = ? LIMIT 1`, code)
}

func (r *SQLiteRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Product, error) {
	var p model.Product
	err := database.Conn(ctx, r.DB).GetContext(ctx, &p, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Persistence("select product", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name LIKE :search OR code LIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	conn := database.Conn(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind product count", err)
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, apperror.Persistence("count products", err)
	}

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// whitelist
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "code":
			orderBy = "code"
		case "stock":
			orderBy = "stock"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, apperror.Persistence("bind product list", err)
	}
	if err := conn.SelectContext(ctx, &products, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, apperror.Persistence("list products", err)
	}

	return products, count, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET code = :code,
            name = :name,
            cost_price = :cost_price,
            sale_price = :sale_price,
            min_stock = :min_stock,
            is_active = :is_active,
            sold_by_weight = :sold_by_weight,
            unit = :unit,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	if err != nil {
		return apperror.Persistence("update product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("product", p.ID)
	}
	return nil
}

func (r *SQLiteRepository) IsCodeUnique(ctx context.Context, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE code = ?`
	args := []interface{}{code}
	if excludeID != "" {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}

	if err := database.Conn(ctx, r.DB).GetContext(ctx, &count, query, args...); err != nil {
		return false, apperror.Persistence("check product code", err)
	}
	return count == 0, nil
}

func (r *SQLiteRepository) FindLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := database.Conn(ctx, r.DB).SelectContext(ctx, &products,
		`SELECT * FROM products WHERE is_active = 1 AND stock <= min_stock ORDER BY stock ASC, name ASC`)
	if err != nil {
		return nil, apperror.Persistence("list low stock", err)
	}
	return products, nil
}
