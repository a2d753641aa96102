package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

type Customer struct {
	BaseModel
	Name     string   `db:"name" json:"name"`
	Phone    string   `db:"phone" json:"phone"`
	Vehicles Vehicles `db:"vehicles" json:"vehicles"`
}

type Vehicle struct {
	ID           string `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"licensePlate"`
}

// Vehicles is stored as a JSONB column; vehicles have no lifecycle of their own.
type Vehicles []Vehicle

func (v Vehicles) Value() (driver.Value, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v)
}

func (v *Vehicles) Scan(src interface{}) error {
	return scanJSON(src, v)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	default:
		return errors.New("model: unsupported json column type")
	}
}
