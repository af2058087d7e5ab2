// Package refdata defines the synchronized CDEK reference-data entities and
// the store contract used to persist them.
package refdata

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Find* methods when no record matches.
var ErrNotFound = errors.New("record not found")

// Country is a delivery country.
type Country struct {
	ID    int64
	Title string
	Code  string // ISO 3166-1 alpha-2, unique
}

// Region is a delivery region. Regions carry no unique provider key in the
// store; the synchronizer matches them by (title, country code).
type Region struct {
	ID              int64
	Title           string
	CountryID       int64
	Code            string // CDEK region code
	KladrRegionCode string
	FiasRegionGUID  string
}

// City is a delivery city, keyed by the CDEK city code.
type City struct {
	ID           int64
	Title        string
	Code         string // CDEK city code, natural key
	RegionID     *int64
	FiasGUID     string
	KladrCode    string
	Longitude    *float64
	Latitude     *float64
	Timezone     string
	PaymentLimit *float64
	PostalCodes  string // semicolon-joined
}

// DeliveryPoint is a CDEK pickup point, keyed by the provider code.
type DeliveryPoint struct {
	ID             int64
	Title          string
	Code           string // natural key
	CityID         *int64
	PostalCode     string
	Address        string
	AddressFull    string
	AddressComment string
	NearestStation string
	Longitude      *float64
	Latitude       *float64
	WorkTime       string
	Email          string
	Phones         string // comma-joined numbers
	Note           string
	Type           string
	OwnerCode      string
	TakeOnly       bool
	IsDressingRoom bool
	HaveCashless   bool
	HaveCash       bool
	AllowedCod     bool
	Site           string
	WeightMin      *float64
	WeightMax      *float64
}

// Store is the persistence contract consumed by the synchronizer. Records
// removed upstream are never deleted locally, so the contract has no delete
// path.
type Store interface {
	// GetOrCreateCountry returns the country with the given code, creating
	// it with the given title on first observation.
	GetOrCreateCountry(ctx context.Context, title, code string) (*Country, error)

	// FindRegion looks up a region by title and owning country code.
	FindRegion(ctx context.Context, title, countryCode string) (*Region, error)
	CreateRegion(ctx context.Context, region *Region) error
	SaveRegion(ctx context.Context, region *Region) error

	// FindCityByCode looks up a city by its CDEK code.
	FindCityByCode(ctx context.Context, code string) (*City, error)
	CreateCity(ctx context.Context, city *City) error
	SaveCity(ctx context.Context, city *City) error

	// FindDeliveryPointByCode looks up a pickup point by its CDEK code.
	FindDeliveryPointByCode(ctx context.Context, code string) (*DeliveryPoint, error)
	CreateDeliveryPoint(ctx context.Context, point *DeliveryPoint) error
	SaveDeliveryPoint(ctx context.Context, point *DeliveryPoint) error
}
