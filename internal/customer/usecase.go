package customer

import (
	"context"

	"github.com/fekuna/omnipos-workshop-pos/internal/customer/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
)

type UseCase interface {
	CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	// Vehicle ops
	AddVehicle(ctx context.Context, input *dto.AddVehicleInput) (*model.Customer, error)
	RemoveVehicle(ctx context.Context, customerID, vehicleID string) (*model.Customer, error)

	CustomerHistory(ctx context.Context, id string, page, pageSize int) ([]model.Transaction, int, error)
}
