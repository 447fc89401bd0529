package types

import (
	"encoding/json"
	"strconv"
)

// Columns is the canonical column order for tabular output files.
// Every persisted dataset carries these columns; extra columns found
// when loading foreign files are appended after them.
var Columns = []string{
	"url",
	"name",
	"operator",
	"address",
	"city",
	"state",
	"country",
	"postal_code",
	"latitude",
	"longitude",
	"power_capacity_mw",
	"building_size_sqft",
	"whitespace_sqft",
	"tier_rating",
	"year_operational",
	"certifications",
	"description",
}

// FacilityRecord is one scraped data center. Numeric fields are pointers
// so "never extracted" is distinguishable from a legitimate zero.
type FacilityRecord struct {
	URL              string
	Name             string
	Operator         string
	Address          string
	City             string
	State            string
	Country          string
	PostalCode       string
	Latitude         *float64
	Longitude        *float64
	PowerCapacityMW  *float64
	BuildingSizeSqft *int
	WhitespaceSqft   *int
	TierRating       string
	YearOperational  *int
	Certifications   []string
	Description      string
}

// NewFacilityRecord creates a record with its identity and the run's
// constant region fields set; everything else starts empty.
func NewFacilityRecord(url, state, country string) *FacilityRecord {
	return &FacilityRecord{
		URL:     url,
		State:   state,
		Country: country,
	}
}

// Row flattens the record into string cells keyed by column name.
// Certifications serialize as a JSON array so the list survives the
// round trip through delimited files.
func (r *FacilityRecord) Row() map[string]string {
	row := map[string]string{
		"url":         r.URL,
		"name":        r.Name,
		"operator":    r.Operator,
		"address":     r.Address,
		"city":        r.City,
		"state":       r.State,
		"country":     r.Country,
		"postal_code": r.PostalCode,
		"tier_rating": r.TierRating,
		"description": r.Description,
	}
	if r.Latitude != nil {
		row["latitude"] = formatFloat(*r.Latitude)
	}
	if r.Longitude != nil {
		row["longitude"] = formatFloat(*r.Longitude)
	}
	if r.PowerCapacityMW != nil {
		row["power_capacity_mw"] = formatFloat(*r.PowerCapacityMW)
	}
	if r.BuildingSizeSqft != nil {
		row["building_size_sqft"] = strconv.Itoa(*r.BuildingSizeSqft)
	}
	if r.WhitespaceSqft != nil {
		row["whitespace_sqft"] = strconv.Itoa(*r.WhitespaceSqft)
	}
	if r.YearOperational != nil {
		row["year_operational"] = strconv.Itoa(*r.YearOperational)
	}
	if len(r.Certifications) > 0 {
		b, err := json.Marshal(r.Certifications)
		if err == nil {
			row["certifications"] = string(b)
		}
	}
	return row
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
