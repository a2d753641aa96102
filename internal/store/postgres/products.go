package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/product"
	"github.com/fekuna/omnipos-workshop-pos/internal/product/dto"
)

const insertProduct = `
    INSERT INTO products (` + productColumns + `)
    VALUES (:id, :name, :category, :price, :stock, :description, :created_at, :updated_at)
`

type ProductRepository struct {
	s *Store
}

var _ product.Repository = (*ProductRepository)(nil)

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	_, err := r.s.DB.NamedExecContext(ctx, insertProduct, p)
	return err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.s.DB.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = string(f.Category)
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	whereClause := where(conditions)

	var count int
	if err := getNamed(ctx, r.s.DB, &count, "SELECT count(*) FROM products"+whereClause, args); err != nil {
		return nil, 0, err
	}

	orderBy := "seq"
	switch f.SortBy {
	case "name":
		orderBy = "lower(name)"
	case "price":
		orderBy = "price"
	case "stock":
		orderBy = "stock"
	}
	if f.SortBy != "" && strings.EqualFold(f.SortOrder, "desc") {
		orderBy += " DESC, seq"
	} else if f.SortBy != "" {
		orderBy += " ASC, seq"
	}

	products := []model.Product{}
	query := "SELECT " + productColumns + " FROM products" + whereClause + " ORDER BY " + orderBy + paging(f.Page, f.PageSize)
	if err := selectNamed(ctx, r.s.DB, &products, query, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            category = :category,
            price = :price,
            stock = :stock,
            description = :description,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.s.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.s.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

func (r *ProductRepository) ListLowStock(ctx context.Context, threshold, limit int) ([]model.Product, error) {
	products := []model.Product{}
	query := `SELECT ` + productColumns + ` FROM products
        WHERE category <> $1 AND stock < $2
        ORDER BY stock, seq`
	if limit > 0 {
		query += paging(1, limit)
	}
	err := r.s.DB.SelectContext(ctx, &products, query, string(model.CategoryRepair), threshold)
	return products, err
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.s.DB.GetContext(ctx, &n, `SELECT count(*) FROM products`)
	return n, err
}
