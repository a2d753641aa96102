package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-workshop-pos/internal/customer"
	"github.com/fekuna/omnipos-workshop-pos/internal/customer/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

const insertCustomer = `
    INSERT INTO customers (` + customerColumns + `)
    VALUES (:id, :name, :phone, :vehicles, :created_at, :updated_at)
`

type CustomerRepository struct {
	s *Store
}

var _ customer.Repository = (*CustomerRepository)(nil)

func (s *Store) Customers() *CustomerRepository {
	return &CustomerRepository{s: s}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	_, err := r.s.DB.NamedExecContext(ctx, insertCustomer, c)
	return err
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.s.DB.GetContext(ctx, &c, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR phone LIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	whereClause := where(conditions)

	var count int
	if err := getNamed(ctx, r.s.DB, &count, "SELECT count(*) FROM customers"+whereClause, args); err != nil {
		return nil, 0, err
	}

	customers := []model.Customer{}
	query := "SELECT " + customerColumns + " FROM customers" + whereClause + " ORDER BY seq" + paging(f.Page, f.PageSize)
	if err := selectNamed(ctx, r.s.DB, &customers, query, args); err != nil {
		return nil, 0, err
	}
	return customers, count, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET name = :name,
            phone = :phone,
            vehicles = :vehicles,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.s.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.s.DB.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	return err
}

func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.s.DB.GetContext(ctx, &n, `SELECT count(*) FROM customers`)
	return n, err
}
