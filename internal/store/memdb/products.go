package memdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/product"
	"github.com/fekuna/omnipos-workshop-pos/internal/product/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/store"
	"github.com/hashicorp/go-memdb"
)

type ProductRepository struct {
	s *Store
}

var _ product.Repository = (*ProductRepository)(nil)

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

func findProduct(txn *memdb.Txn, id string) (*productRow, error) {
	obj, err := txn.First(tableProducts, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*productRow), nil
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	return r.s.write(ctx, func(txn *memdb.Txn) error {
		return txn.Insert(tableProducts, &productRow{Seq: r.s.nextSeq(), Product: *p})
	})
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	row, err := findProduct(txn, id)
	if err != nil || row == nil {
		return nil, err
	}
	p := row.Product
	return &p, nil
}

func (r *ProductRepository) all() ([]model.Product, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	var out []model.Product
	err := r.s.each(txn, tableProducts, false, func(obj interface{}) {
		out = append(out, obj.(*productRow).Product)
	})
	return out, err
}

func (r *ProductRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products, err := r.all()
	if err != nil {
		return nil, 0, err
	}

	matched := make([]model.Product, 0, len(products))
	for i := range products {
		if f.Match(&products[i]) {
			matched = append(matched, products[i])
		}
	}
	f.Sort(matched)
	return store.Page(matched, f.Page, f.PageSize), len(matched), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	return r.s.write(ctx, func(txn *memdb.Txn) error {
		row, err := findProduct(txn, p.ID)
		if err != nil || row == nil {
			return err
		}
		return txn.Insert(tableProducts, &productRow{Seq: row.Seq, Product: *p})
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(txn *memdb.Txn) error {
		_, err := txn.DeleteAll(tableProducts, "id", id)
		return err
	})
}

func (r *ProductRepository) ListLowStock(ctx context.Context, threshold, limit int) ([]model.Product, error) {
	products, err := r.all()
	if err != nil {
		return nil, err
	}

	var low []model.Product
	for _, p := range products {
		if !p.Unlimited() && p.Stock < threshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	if limit > 0 && len(low) > limit {
		low = low[:limit]
	}
	return low, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	products, err := r.all()
	return len(products), err
}
