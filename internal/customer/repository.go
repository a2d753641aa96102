package customer

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/customer/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

type Repository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindAll(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	// Update replaces the stored customer, vehicles included. Unknown ids are
	// left alone.
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
