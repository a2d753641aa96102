package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/customer"
	"github.com/fekuna/omnipos-workshop-pos/internal/customer/dto"
	ledgerdto "github.com/fekuna/omnipos-workshop-pos/internal/ledger/dto"
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HistoryReader is the part of the ledger a customer's history comes from.
type HistoryReader interface {
	FindAll(ctx context.Context, filters *ledgerdto.TransactionFilters) ([]model.Transaction, int, error)
}

type customerUseCase struct {
	repo    customer.Repository
	history HistoryReader
	logger  logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, history HistoryReader, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:    repo,
		history: history,
		logger:  log,
	}
}

func validateCustomer(name, phone string) error {
	if strings.TrimSpace(name) == "" {
		return customer.ErrNameRequired
	}
	if strings.TrimSpace(phone) == "" {
		return customer.ErrPhoneRequired
	}
	return nil
}

func buildVehicle(in dto.VehicleInput) (model.Vehicle, error) {
	v := model.Vehicle{
		ID:           in.ID,
		Make:         strings.TrimSpace(in.Make),
		Model:        strings.TrimSpace(in.Model),
		Year:         in.Year,
		LicensePlate: strings.ToUpper(strings.TrimSpace(in.LicensePlate)),
	}
	if v.Make == "" || v.Model == "" || v.LicensePlate == "" {
		return model.Vehicle{}, customer.ErrVehicleIncomplete
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return v, nil
}

func buildVehicles(in []dto.VehicleInput) (model.Vehicles, error) {
	out := make(model.Vehicles, 0, len(in))
	for _, vi := range in {
		v, err := buildVehicle(vi)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	if err := validateCustomer(input.Name, input.Phone); err != nil {
		return nil, err
	}
	vehicles, err := buildVehicles(input.Vehicles)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &model.Customer{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Vehicles:  vehicles,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

// UpdateCustomer returns (nil, nil) when id does not exist.
func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	if err := validateCustomer(input.Name, input.Phone); err != nil {
		return nil, err
	}
	vehicles, err := buildVehicles(input.Vehicles)
	if err != nil {
		return nil, err
	}

	c, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		uc.logger.Debug("update of unknown customer ignored", zap.String("customer_id", input.ID))
		return nil, nil
	}

	c.Name = strings.TrimSpace(input.Name)
	c.Phone = strings.TrimSpace(input.Phone)
	c.Vehicles = vehicles
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *customerUseCase) AddVehicle(ctx context.Context, input *dto.AddVehicleInput) (*model.Customer, error) {
	v, err := buildVehicle(input.VehicleInput)
	if err != nil {
		return nil, err
	}

	c, err := uc.repo.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, customer.ErrCustomerNotFound
	}

	c.Vehicles = append(c.Vehicles, v)
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) RemoveVehicle(ctx context.Context, customerID, vehicleID string) (*model.Customer, error) {
	c, err := uc.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, customer.ErrCustomerNotFound
	}

	kept := make(model.Vehicles, 0, len(c.Vehicles))
	for _, v := range c.Vehicles {
		if v.ID != vehicleID {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(c.Vehicles) {
		return nil, customer.ErrVehicleNotFound
	}

	c.Vehicles = kept
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) CustomerHistory(ctx context.Context, id string, page, pageSize int) ([]model.Transaction, int, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if c == nil {
		return nil, 0, customer.ErrCustomerNotFound
	}
	return uc.history.FindAll(ctx, &ledgerdto.TransactionFilters{
		CustomerID: id,
		Page:       page,
		PageSize:   pageSize,
	})
}
