package models

import "time"

// AssetStatus is the lifecycle state of an asset.
type AssetStatus string

const (
	StatusActive  AssetStatus = "ACTIVE"
	StatusRepair  AssetStatus = "REPAIR"
	StatusRetired AssetStatus = "RETIRED"
)

// Valid reports whether s is one of the defined statuses.
func (s AssetStatus) Valid() bool {
	switch s {
	case StatusActive, StatusRepair, StatusRetired:
		return true
	}
	return false
}

// Asset is a registered physical asset owned by a committee.
type Asset struct {
	ID int64 `json:"id"`

	// Code is an optional external inventory code, unique when present.
	Code *string `json:"code,omitempty"`

	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Status      AssetStatus `json:"status"`

	RegisteredAt time.Time `json:"registered_at"`

	// Optional catalog references. The registration screen currently
	// stores none of them; they surface in listings and alert counts.
	CategoryID  *int64 `json:"category_id,omitempty"`
	LocationID  *int64 `json:"location_id,omitempty"`
	CustodianID *int64 `json:"custodian_id,omitempty"`

	// CommitteeID is the owning committee, never nil.
	CommitteeID int64 `json:"committee_id"`
}

// AssetRow is the listing projection: an asset with its catalog and
// committee names joined in.
type AssetRow struct {
	ID           int64       `json:"id"`
	Code         *string     `json:"code,omitempty"`
	Name         string      `json:"name"`
	Status       AssetStatus `json:"status"`
	RegisteredAt time.Time   `json:"registered_at"`
	Category     string      `json:"category,omitempty"`
	Location     string      `json:"location,omitempty"`
	Custodian    string      `json:"custodian,omitempty"`
	Committee    string      `json:"committee"`
}

// AssetSummary aggregates the dashboard counts for one viewing scope.
type AssetSummary struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Repair  int64 `json:"repair"`
	Retired int64 `json:"retired"`

	// Alert counts.
	NoCustodian int64 `json:"no_custodian"`
	NoLocation  int64 `json:"no_location"`
	NoCategory  int64 `json:"no_category"`
}
