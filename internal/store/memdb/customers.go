package memdb

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-workshop-pos/internal/customer"
	"github.com/fekuna/omnipos-workshop-pos/internal/customer/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/store"
	"github.com/hashicorp/go-memdb"
)

type CustomerRepository struct {
	s *Store
}

var _ customer.Repository = (*CustomerRepository)(nil)

func (s *Store) Customers() *CustomerRepository {
	return &CustomerRepository{s: s}
}

func findCustomer(txn *memdb.Txn, id string) (*customerRow, error) {
	obj, err := txn.First(tableCustomers, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find customer %s: %w", id, err)
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*customerRow), nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.s.write(ctx, func(txn *memdb.Txn) error {
		return txn.Insert(tableCustomers, &customerRow{Seq: r.s.nextSeq(), Customer: cloneCustomer(*c)})
	})
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	row, err := findCustomer(txn, id)
	if err != nil || row == nil {
		return nil, err
	}
	c := cloneCustomer(row.Customer)
	return &c, nil
}

func (r *CustomerRepository) all() ([]model.Customer, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	var out []model.Customer
	err := r.s.each(txn, tableCustomers, false, func(obj interface{}) {
		out = append(out, cloneCustomer(obj.(*customerRow).Customer))
	})
	return out, err
}

func (r *CustomerRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	customers, err := r.all()
	if err != nil {
		return nil, 0, err
	}

	matched := make([]model.Customer, 0, len(customers))
	for i := range customers {
		if f.Match(&customers[i]) {
			matched = append(matched, customers[i])
		}
	}
	return store.Page(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	return r.s.write(ctx, func(txn *memdb.Txn) error {
		row, err := findCustomer(txn, c.ID)
		if err != nil || row == nil {
			return err
		}
		return txn.Insert(tableCustomers, &customerRow{Seq: row.Seq, Customer: cloneCustomer(*c)})
	})
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(txn *memdb.Txn) error {
		_, err := txn.DeleteAll(tableCustomers, "id", id)
		return err
	})
}

func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	customers, err := r.all()
	return len(customers), err
}
