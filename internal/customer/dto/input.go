package dto

type VehicleInput struct {
	ID           string `json:"id,omitempty"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"licensePlate"`
}

type CreateCustomerInput struct {
	Name     string         `json:"name"`
	Phone    string         `json:"phone"`
	Vehicles []VehicleInput `json:"vehicles"`
}

// UpdateCustomerInput replaces the whole record. Vehicles that carry an id
// keep it; the rest get a new one.
type UpdateCustomerInput struct {
	ID       string         `json:"-"`
	Name     string         `json:"name"`
	Phone    string         `json:"phone"`
	Vehicles []VehicleInput `json:"vehicles"`
}

type AddVehicleInput struct {
	CustomerID string `json:"-"`
	VehicleInput
}
