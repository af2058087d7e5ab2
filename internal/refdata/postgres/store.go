package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/tournevent/cdek/internal/refdata"
)

// Store implements refdata.Store using PostgreSQL.
type Store struct{ db *DB }

// NewStore constructs a reference data store.
func NewStore(db *DB) *Store { return &Store{db: db} }

// GetOrCreateCountry returns the country with the given title and code,
// inserting it on first observation.
func (s *Store) GetOrCreateCountry(ctx context.Context, title, code string) (*refdata.Country, error) {
	const sel = `
SELECT id, title, code FROM countries WHERE title=$1 AND code=$2`
	var c refdata.Country
	err := s.db.Pool.QueryRow(ctx, sel, title, code).Scan(&c.ID, &c.Title, &c.Code)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	const ins = `
INSERT INTO countries (title, code) VALUES ($1, $2) RETURNING id`
	c = refdata.Country{Title: title, Code: code}
	if err := s.db.Pool.QueryRow(ctx, ins, title, code).Scan(&c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindRegion selects a region by title and owning country code. The first
// match wins; regions carry no unique provider key.
func (s *Store) FindRegion(ctx context.Context, title, countryCode string) (*refdata.Region, error) {
	const q = `
SELECT r.id, r.title, r.country_id, r.code, r.kladr_region_code, r.fias_region_guid
FROM regions r JOIN countries c ON c.id = r.country_id
WHERE r.title=$1 AND c.code=$2
ORDER BY r.id LIMIT 1`
	var r refdata.Region
	err := s.db.Pool.QueryRow(ctx, q, title, countryCode).
		Scan(&r.ID, &r.Title, &r.CountryID, &r.Code, &r.KladrRegionCode, &r.FiasRegionGUID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, refdata.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRegion inserts a new region row.
func (s *Store) CreateRegion(ctx context.Context, region *refdata.Region) error {
	const q = `
INSERT INTO regions (title, country_id, code, kladr_region_code, fias_region_guid)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return s.db.Pool.QueryRow(ctx, q,
		region.Title, region.CountryID, region.Code, region.KladrRegionCode, region.FiasRegionGUID).
		Scan(&region.ID)
}

// SaveRegion overwrites a region row.
func (s *Store) SaveRegion(ctx context.Context, region *refdata.Region) error {
	const q = `
UPDATE regions
SET title=$2, country_id=$3, code=$4, kladr_region_code=$5, fias_region_guid=$6
WHERE id=$1`
	_, err := s.db.Pool.Exec(ctx, q,
		region.ID, region.Title, region.CountryID, region.Code, region.KladrRegionCode, region.FiasRegionGUID)
	return err
}

// FindCityByCode selects a city by its CDEK code, first match wins.
func (s *Store) FindCityByCode(ctx context.Context, code string) (*refdata.City, error) {
	const q = `
SELECT id, title, code, region_id, fias_guid, kladr_code, longitude, latitude,
       timezone, payment_limit, postal_codes
FROM cities WHERE code=$1 ORDER BY id LIMIT 1`
	var c refdata.City
	err := s.db.Pool.QueryRow(ctx, q, code).
		Scan(&c.ID, &c.Title, &c.Code, &c.RegionID, &c.FiasGUID, &c.KladrCode,
			&c.Longitude, &c.Latitude, &c.Timezone, &c.PaymentLimit, &c.PostalCodes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, refdata.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCity inserts a new city row.
func (s *Store) CreateCity(ctx context.Context, city *refdata.City) error {
	const q = `
INSERT INTO cities (title, code, region_id, fias_guid, kladr_code, longitude, latitude,
                    timezone, payment_limit, postal_codes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return s.db.Pool.QueryRow(ctx, q,
		city.Title, city.Code, city.RegionID, city.FiasGUID, city.KladrCode,
		city.Longitude, city.Latitude, city.Timezone, city.PaymentLimit, city.PostalCodes).
		Scan(&city.ID)
}

// SaveCity overwrites a city row.
func (s *Store) SaveCity(ctx context.Context, city *refdata.City) error {
	const q = `
UPDATE cities
SET title=$2, code=$3, region_id=$4, fias_guid=$5, kladr_code=$6, longitude=$7,
    latitude=$8, timezone=$9, payment_limit=$10, postal_codes=$11
WHERE id=$1`
	_, err := s.db.Pool.Exec(ctx, q,
		city.ID, city.Title, city.Code, city.RegionID, city.FiasGUID, city.KladrCode,
		city.Longitude, city.Latitude, city.Timezone, city.PaymentLimit, city.PostalCodes)
	return err
}

// FindDeliveryPointByCode selects a pickup point by its CDEK code.
func (s *Store) FindDeliveryPointByCode(ctx context.Context, code string) (*refdata.DeliveryPoint, error) {
	const q = `
SELECT id, title, code, city_id, postal_code, address, address_full, address_comment,
       nearest_station, longitude, latitude, work_time, email, phones, note, type,
       owner_code, take_only, is_dressing_room, have_cashless, have_cash, allowed_cod,
       site, weight_min, weight_max
FROM delivery_points WHERE code=$1 ORDER BY id LIMIT 1`
	var p refdata.DeliveryPoint
	err := s.db.Pool.QueryRow(ctx, q, code).
		Scan(&p.ID, &p.Title, &p.Code, &p.CityID, &p.PostalCode, &p.Address, &p.AddressFull,
			&p.AddressComment, &p.NearestStation, &p.Longitude, &p.Latitude, &p.WorkTime,
			&p.Email, &p.Phones, &p.Note, &p.Type, &p.OwnerCode, &p.TakeOnly,
			&p.IsDressingRoom, &p.HaveCashless, &p.HaveCash, &p.AllowedCod,
			&p.Site, &p.WeightMin, &p.WeightMax)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, refdata.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateDeliveryPoint inserts a new pickup point row.
func (s *Store) CreateDeliveryPoint(ctx context.Context, point *refdata.DeliveryPoint) error {
	const q = `
INSERT INTO delivery_points (title, code) VALUES ($1, $2) RETURNING id`
	return s.db.Pool.QueryRow(ctx, q, point.Title, point.Code).Scan(&point.ID)
}

// SaveDeliveryPoint overwrites a pickup point row.
func (s *Store) SaveDeliveryPoint(ctx context.Context, point *refdata.DeliveryPoint) error {
	const q = `
UPDATE delivery_points
SET title=$2, code=$3, city_id=$4, postal_code=$5, address=$6, address_full=$7,
    address_comment=$8, nearest_station=$9, longitude=$10, latitude=$11, work_time=$12,
    email=$13, phones=$14, note=$15, type=$16, owner_code=$17, take_only=$18,
    is_dressing_room=$19, have_cashless=$20, have_cash=$21, allowed_cod=$22,
    site=$23, weight_min=$24, weight_max=$25
WHERE id=$1`
	_, err := s.db.Pool.Exec(ctx, q,
		point.ID, point.Title, point.Code, point.CityID, point.PostalCode, point.Address,
		point.AddressFull, point.AddressComment, point.NearestStation, point.Longitude,
		point.Latitude, point.WorkTime, point.Email, point.Phones, point.Note, point.Type,
		point.OwnerCode, point.TakeOnly, point.IsDressingRoom, point.HaveCashless,
		point.HaveCash, point.AllowedCod, point.Site, point.WeightMin, point.WeightMax)
	return err
}

// Ensure Store implements the refdata contract.
var _ refdata.Store = (*Store)(nil)
