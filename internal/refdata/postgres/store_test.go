package postgres_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/cdek/internal/refdata"
	"github.com/tournevent/cdek/internal/refdata/postgres"
)

func newStore(t *testing.T) (*postgres.Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return postgres.NewStore(&postgres.DB{Pool: mock}), mock
}

func TestGetOrCreateCountry_Existing(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, code FROM countries WHERE title=$1 AND code=$2`)).
		WithArgs("Россия", "RU").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "code"}).
			AddRow(int64(7), "Россия", "RU"))

	country, err := store.GetOrCreateCountry(context.Background(), "Россия", "RU")
	require.NoError(t, err)
	assert.Equal(t, int64(7), country.ID)
	assert.Equal(t, "RU", country.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateCountry_Inserts(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, code FROM countries WHERE title=$1 AND code=$2`)).
		WithArgs("Казахстан", "KZ").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO countries (title, code) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Казахстан", "KZ").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))

	country, err := store.GetOrCreateCountry(context.Background(), "Казахстан", "KZ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), country.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRegion_NotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery("SELECT r.id, r.title, r.country_id").
		WithArgs("Новосибирская область", "RU").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.FindRegion(context.Background(), "Новосибирская область", "RU")
	assert.ErrorIs(t, err, refdata.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRegion_AssignsID(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO regions (title, country_id, code, kladr_region_code, fias_region_guid)`)).
		WithArgs("Новосибирская область", int64(1), "54", "5400000000000", "1ac46b49").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	region := &refdata.Region{
		Title:           "Новосибирская область",
		CountryID:       1,
		Code:            "54",
		KladrRegionCode: "5400000000000",
		FiasRegionGUID:  "1ac46b49",
	}
	require.NoError(t, store.CreateRegion(context.Background(), region))
	assert.Equal(t, int64(11), region.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCityByCode(t *testing.T) {
	store, mock := newStore(t)

	lon, lat := 82.9346, 55.0415
	regionID := int64(11)
	mock.ExpectQuery("SELECT id, title, code, region_id").
		WithArgs("270").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "code", "region_id", "fias_guid", "kladr_code",
			"longitude", "latitude", "timezone", "payment_limit", "postal_codes",
		}).AddRow(int64(3), "Новосибирск", "270", &regionID, "guid", "kladr",
			&lon, &lat, "Asia/Novosibirsk", (*float64)(nil), "630000;630001"))

	city, err := store.FindCityByCode(context.Background(), "270")
	require.NoError(t, err)
	assert.Equal(t, "Новосибирск", city.Title)
	require.NotNil(t, city.RegionID)
	assert.Equal(t, int64(11), *city.RegionID)
	require.NotNil(t, city.Longitude)
	assert.Equal(t, 82.9346, *city.Longitude)
	assert.Nil(t, city.PaymentLimit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCityByCode_NotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery("SELECT id, title, code, region_id").
		WithArgs("999").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.FindCityByCode(context.Background(), "999")
	assert.ErrorIs(t, err, refdata.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCity(t *testing.T) {
	store, mock := newStore(t)

	lon := 82.9346
	city := &refdata.City{
		ID:          3,
		Title:       "Новосибирск",
		Code:        "270",
		Longitude:   &lon,
		Timezone:    "Asia/Novosibirsk",
		PostalCodes: "630000",
	}
	mock.ExpectExec("UPDATE cities").
		WithArgs(city.ID, city.Title, city.Code, city.RegionID, city.FiasGUID,
			city.KladrCode, city.Longitude, city.Latitude, city.Timezone,
			city.PaymentLimit, city.PostalCodes).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.SaveCity(context.Background(), city))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDeliveryPoint_MinimalRow(t *testing.T) {
	store, mock := newStore(t)

	// Creation stores only the identity; the full record lands on save.
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO delivery_points (title, code) VALUES ($1, $2) RETURNING id`)).
		WithArgs("На Красном проспекте", "NSK333").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))

	point := &refdata.DeliveryPoint{Title: "На Красном проспекте", Code: "NSK333"}
	require.NoError(t, store.CreateDeliveryPoint(context.Background(), point))
	assert.Equal(t, int64(21), point.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDeliveryPoint(t *testing.T) {
	store, mock := newStore(t)

	cityID := int64(3)
	point := &refdata.DeliveryPoint{
		ID:       21,
		Title:    "На Красном проспекте",
		Code:     "NSK333",
		CityID:   &cityID,
		Address:  "Красный проспект, 99",
		Phones:   "+73832000000",
		Type:     "PVZ",
		HaveCash: true,
	}
	mock.ExpectExec("UPDATE delivery_points").
		WithArgs(point.ID, point.Title, point.Code, point.CityID, point.PostalCode,
			point.Address, point.AddressFull, point.AddressComment, point.NearestStation,
			point.Longitude, point.Latitude, point.WorkTime, point.Email, point.Phones,
			point.Note, point.Type, point.OwnerCode, point.TakeOnly, point.IsDressingRoom,
			point.HaveCashless, point.HaveCash, point.AllowedCod, point.Site,
			point.WeightMin, point.WeightMax).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.SaveDeliveryPoint(context.Background(), point))
	require.NoError(t, mock.ExpectationsWereMet())
}
