// Package memory contains an in-memory Store implementation, used in tests
// and for dry runs without a database.
package memory

import (
	"context"
	"strings"

	"github.com/tournevent/cdek/internal/refdata"
)

// Store keeps all reference data in process memory.
type Store struct {
	countries      []*refdata.Country
	regions        []*refdata.Region
	cities         []*refdata.City
	deliveryPoints []*refdata.DeliveryPoint
	nextID         int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Countries returns all stored countries.
func (s *Store) Countries() []*refdata.Country { return s.countries }

// Regions returns all stored regions.
func (s *Store) Regions() []*refdata.Region { return s.regions }

// Cities returns all stored cities.
func (s *Store) Cities() []*refdata.City { return s.cities }

// DeliveryPoints returns all stored pickup points.
func (s *Store) DeliveryPoints() []*refdata.DeliveryPoint { return s.deliveryPoints }

// GetOrCreateCountry returns the country with the given code, creating it
// on first observation.
func (s *Store) GetOrCreateCountry(ctx context.Context, title, code string) (*refdata.Country, error) {
	for _, c := range s.countries {
		if c.Code == code && c.Title == title {
			return c, nil
		}
	}
	c := &refdata.Country{ID: s.id(), Title: title, Code: code}
	s.countries = append(s.countries, c)
	return c, nil
}

// FindRegion looks up a region by title and owning country code.
func (s *Store) FindRegion(ctx context.Context, title, countryCode string) (*refdata.Region, error) {
	for _, r := range s.regions {
		if r.Title != title {
			continue
		}
		for _, c := range s.countries {
			if c.ID == r.CountryID && c.Code == countryCode {
				return r, nil
			}
		}
	}
	return nil, refdata.ErrNotFound
}

// CreateRegion stores a new region.
func (s *Store) CreateRegion(ctx context.Context, region *refdata.Region) error {
	region.ID = s.id()
	s.regions = append(s.regions, region)
	return nil
}

// SaveRegion persists region changes. Records are held by pointer, so the
// update is already visible; the method exists to satisfy the contract.
func (s *Store) SaveRegion(ctx context.Context, region *refdata.Region) error {
	return nil
}

// FindCityByCode looks up a city by its CDEK code.
func (s *Store) FindCityByCode(ctx context.Context, code string) (*refdata.City, error) {
	for _, c := range s.cities {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return nil, refdata.ErrNotFound
}

// CreateCity stores a new city.
func (s *Store) CreateCity(ctx context.Context, city *refdata.City) error {
	city.ID = s.id()
	s.cities = append(s.cities, city)
	return nil
}

// SaveCity persists city changes.
func (s *Store) SaveCity(ctx context.Context, city *refdata.City) error {
	return nil
}

// FindDeliveryPointByCode looks up a pickup point by its CDEK code.
func (s *Store) FindDeliveryPointByCode(ctx context.Context, code string) (*refdata.DeliveryPoint, error) {
	for _, p := range s.deliveryPoints {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, refdata.ErrNotFound
}

// CreateDeliveryPoint stores a new pickup point.
func (s *Store) CreateDeliveryPoint(ctx context.Context, point *refdata.DeliveryPoint) error {
	point.ID = s.id()
	s.deliveryPoints = append(s.deliveryPoints, point)
	return nil
}

// SaveDeliveryPoint persists pickup point changes.
func (s *Store) SaveDeliveryPoint(ctx context.Context, point *refdata.DeliveryPoint) error {
	return nil
}

// Ensure Store implements the refdata contract.
var _ refdata.Store = (*Store)(nil)
