package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tree represents a single inventoried tree.
//
// Geom holds the EWKT point derived from Latitude/Longitude (WGS84,
// SRID 4326). It is never edited independently of the coordinates.
type Tree struct {
	ID             uint     `json:"id" gorm:"primaryKey"`
	CustomID       string   `json:"custom_id" gorm:"uniqueIndex;size:50;not null"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Address        string   `json:"address" gorm:"size:255"`
	City           string   `json:"city" gorm:"size:100;not null;index"`
	Species        string   `json:"species" gorm:"size:100;not null"`
	Condition      string   `json:"condition" gorm:"size:50;not null"`
	Comments       string   `json:"comments" gorm:"type:text"`
	Actions        string   `json:"actions" gorm:"type:text"`
	Height         string   `json:"height" gorm:"size:50"` // free-form, size classes like "M" allowed
	TrunkDiameter  *float64 `json:"trunk_diameter_cm" gorm:"column:trunk_diameter_cm"`
	CrownDiameter  *float64 `json:"crown_diameter_m" gorm:"column:crown_diameter_m"`
	Age            string   `json:"age" gorm:"size:50"`
	Location       string   `json:"location" gorm:"size:255"`
	CPC            string   `json:"cpc" gorm:"size:50"`
	NextCheck      *Date    `json:"next_check" gorm:"type:date"`
	Geom           string   `json:"-" gorm:"column:geom"` // geometry(Point,4326) in the migration DDL
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PointEWKT renders coordinates as an EWKT point in the WGS84 frame.
func PointEWKT(lat, lon float64) string {
	return fmt.Sprintf("SRID=4326;POINT(%v %v)", lon, lat)
}

// SetCoordinates assigns the coordinate pair and rederives the geometry.
func (t *Tree) SetCoordinates(lat, lon float64) {
	t.Latitude = lat
	t.Longitude = lon
	t.Geom = PointEWKT(lat, lon)
}

// FlexString accepts either a JSON string or a JSON number and keeps the
// textual form. Field data imported from spreadsheets mixes the two
// (height "12", height "M", age 40, age "Old").
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// CreateTreeRequest is the payload accepted by the create operation.
// Coordinates may be omitted when an address is present; the service then
// geocodes the address.
type CreateTreeRequest struct {
	CustomID      string     `json:"custom_id"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	Species       string     `json:"species"`
	Condition     string     `json:"condition"`
	Comments      string     `json:"comments"`
	Actions       string     `json:"actions"`
	Height        FlexString `json:"height"`
	TrunkDiameter *float64   `json:"trunk_diameter_cm"`
	CrownDiameter *float64   `json:"crown_diameter_m"`
	Age           FlexString `json:"age"`
	Location      string     `json:"location"`
	CPC           string     `json:"cpc"`
	NextCheck     string     `json:"next_check"`
}

// UpdateTreeRequest carries the partial-update field set. Only fields
// present in the request body are applied; identity, coordinates, city and
// species are immutable through this path.
type UpdateTreeRequest struct {
	Condition     *string     `json:"condition"`
	Comments      *string     `json:"comments"`
	Actions       *string     `json:"actions"`
	Height        *FlexString `json:"height"`
	TrunkDiameter *float64    `json:"trunk_diameter_cm"`
	CrownDiameter *float64    `json:"crown_diameter_m"`
	Age           *FlexString `json:"age"`
	Location      *string     `json:"location"`
	CPC           *string     `json:"cpc"`
	NextCheck     *string     `json:"next_check"`
}

// Empty reports whether the request carries no fields at all.
func (r *UpdateTreeRequest) Empty() bool {
	return r.Condition == nil && r.Comments == nil && r.Actions == nil &&
		r.Height == nil && r.TrunkDiameter == nil && r.CrownDiameter == nil &&
		r.Age == nil && r.Location == nil && r.CPC == nil && r.NextCheck == nil
}

// TreeFilter narrows list queries. All filters are optional; city and
// address match as case-insensitive substrings, condition matches exactly.
type TreeFilter struct {
	City      string
	Address   string
	Condition string
}
