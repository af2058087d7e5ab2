package cdek

import (
	"encoding/json"
	"time"
)

// Wire-format rules for the CDEK API: optional fields are pointers tagged
// omitempty so absent values are dropped rather than sent as null, dates
// travel as YYYY-MM-DD strings, and the legacy v1 calculator requires empty
// lists to be encoded as "" instead of [].

const dateLayout = "2006-01-02"

// Date is a calendar date that marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON encodes the date in the provider's YYYY-MM-DD form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// legacyList encodes an empty list as "" for the v1 calculator endpoint,
// which rejects []. Newer endpoints tolerate either form; the quirk is a
// compatibility requirement of the legacy wire format.
type legacyList[T any] []T

// MarshalJSON applies the empty-list quirk.
func (l legacyList[T]) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return json.Marshal("")
	}
	return json.Marshal([]T(l))
}

// Ptr returns a pointer to v, for populating optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
