// Package models defines the AgriTrack resources exchanged with the backend.
// Field names mirror the backend JSON exactly; the backend owns every record,
// the client only holds read-mostly copies per fetch.
package models

// Product statuses reported by the backend.
const (
	StatusAtFarm      = "AT_FARM"
	StatusInTransit   = "IN_TRANSIT"
	StatusAtWarehouse = "AT_WAREHOUSE"
	StatusDelivered   = "DELIVERED"
)

// Product is one tracked agricultural product. TrackingHistory is append-only
// and arrives in chronological order; the client never reorders or mutates it.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	BatchID         string          `json:"batchId"`
	HarvestDate     string          `json:"harvestDate"`
	OriginFarmID    string          `json:"originFarmId"`
	Destination     string          `json:"destination,omitempty"`
	CurrentLocation string          `json:"currentLocation,omitempty"`
	Status          string          `json:"status,omitempty"`
	TrackingHistory []TrackingStage `json:"trackingHistory"`
}

// LastStage returns the most recent tracking stage, or nil when the history
// is empty.
func (p *Product) LastStage() *TrackingStage {
	if len(p.TrackingHistory) == 0 {
		return nil
	}
	return &p.TrackingHistory[len(p.TrackingHistory)-1]
}

// TrackingStage is one immutable checkpoint in a product's journey.
// The timestamp is assigned by the backend and may be absent on records the
// backend has not stamped yet.
type TrackingStage struct {
	Stage     string    `json:"stage"`
	Location  string    `json:"location"`
	Handler   string    `json:"handler"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
}

// StageRequest is the payload for appending a tracking stage. The backend
// assigns the timestamp, so the client never sends one.
type StageRequest struct {
	Stage    string `json:"stage"`
	Location string `json:"location"`
	Handler  string `json:"handler"`
	Notes    string `json:"notes,omitempty"`
}

// ProductPage is one page of the paginated product listing.
type ProductPage struct {
	Products    []Product `json:"products"`
	CurrentPage int       `json:"currentPage"`
	TotalItems  int64     `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
}

// SearchFilter narrows the product search. Empty fields are ignored.
// Name matches case-insensitive substrings; the rest match exactly.
type SearchFilter struct {
	Name         string
	Type         string
	BatchID      string
	OriginFarmID string
}
