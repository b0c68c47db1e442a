// Package models defines the client-side data model for the bike inventory.
package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/adriancondrea/Bikes-Shop/internal/common"
	"github.com/google/uuid"
)

// Bike is a single managed inventory record. ID is empty until the record has
// been persisted somewhere; once assigned it never changes. IDs minted while
// offline carry the "_" prefix until the server replaces them with canonical
// ones during reconciliation.
type Bike struct {
	Id        string   `json:"_id,omitempty"`
	Name      string   `json:"name"`
	Condition string   `json:"condition"`
	Warranty  bool     `json:"warranty"`
	Price     float64  `json:"price"`
	Latitude  *float64 `json:"lat,omitempty"`
	Longitude *float64 `json:"lng,omitempty"`
}

// localIDPrefix marks identifiers minted on this device before the server
// has assigned a canonical one.
const localIDPrefix = "_"

// NewLocalID returns a fresh locally-minted identifier. The uuid guarantees
// the value is never reused; the prefix keeps it distinguishable from
// server-assigned ids.
func NewLocalID() string {
	return localIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id was minted locally.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

// Validate checks required fields before a save is attempted.
// Errors wrap common.ErrValidation.
func (b *Bike) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("%w: missing name property", common.ErrValidation)
	}
	if b.Condition == "" {
		return fmt.Errorf("%w: missing condition property", common.ErrValidation)
	}
	if math.IsNaN(b.Price) || b.Price < 1 {
		return fmt.Errorf("%w: price property is missing or invalid", common.ErrValidation)
	}
	return nil
}

// FieldsEqual compares the reconcilable fields of two bikes: name, condition,
// warranty and price. Identifier and geolocation are not compared.
func (b Bike) FieldsEqual(other Bike) bool {
	return b.Name == other.Name &&
		b.Condition == other.Condition &&
		b.Warranty == other.Warranty &&
		b.Price == other.Price
}
