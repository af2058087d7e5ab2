// Package refsync reconciles CDEK reference data into the local store.
//
// Each routine is idempotent and safe to re-run: records are matched by
// their natural key, created on first observation and overwritten in place
// on every later pass. Nothing is ever deleted locally.
package refsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/tournevent/cdek/internal/refdata"
	"github.com/tournevent/cdek/internal/telemetry"
	"github.com/tournevent/cdek/pkg/cdek"
)

const (
	regionPageSize = 100
	cityPageSize   = 1000
)

// Syncer drives the three reference-data sync passes.
type Syncer struct {
	api     cdek.API
	store   refdata.Store
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
}

// New creates a Syncer. A nil tracer disables tracing.
func New(api cdek.API, store refdata.Store, logger *otelzap.Logger, metrics *telemetry.Metrics, tracer trace.Tracer) *Syncer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("refsync")
	}
	return &Syncer{
		api:     api,
		store:   store,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// SyncAll runs the region, city and delivery point passes in that fixed
// order, so that city records can resolve regions and delivery points can
// resolve cities within a single invocation.
func (s *Syncer) SyncAll(ctx context.Context) error {
	if err := s.SyncRegions(ctx); err != nil {
		return err
	}
	if err := s.SyncCities(ctx); err != nil {
		return err
	}
	return s.SyncDeliveryPoints(ctx)
}

// SyncRegions pages through the region listing and upserts regions together
// with their owning countries. Regions are matched by (title, country code):
// the provider's region code is stored but not used as the match key, which
// mirrors the store's lack of a uniqueness guarantee on it.
func (s *Syncer) SyncRegions(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "refsync.regions")
	defer span.End()
	defer s.observe("region")()

	s.logger.Info("Updating regions and countries")
	page := 0
	for {
		items, err := s.api.Regions(ctx, cdek.RegionsFilter{
			Size: cdek.Ptr(regionPageSize),
			Page: cdek.Ptr(page),
		})
		if err != nil {
			return fmt.Errorf("fetching regions page %d: %w", page, err)
		}
		s.logger.Info("Fetched regions page",
			zap.Int("page", page),
			zap.Int("count", len(items)),
		)
		s.metrics.SyncPages.WithLabelValues("region").Inc()

		for _, item := range items {
			if err := s.upsertRegion(ctx, item); err != nil {
				return err
			}
		}

		page++
		if len(items) == 0 {
			return nil
		}
	}
}

func (s *Syncer) upsertRegion(ctx context.Context, item map[string]any) error {
	title := stringField(item, "region")
	countryCode := stringField(item, "country_code")

	region, err := s.store.FindRegion(ctx, title, countryCode)
	switch {
	case errors.Is(err, refdata.ErrNotFound):
		country, err := s.store.GetOrCreateCountry(ctx, stringField(item, "country"), countryCode)
		if err != nil {
			return fmt.Errorf("resolving country %q: %w", countryCode, err)
		}
		region = &refdata.Region{
			Title:           title,
			CountryID:       country.ID,
			KladrRegionCode: stringField(item, "kladr_region_code"),
			FiasRegionGUID:  stringField(item, "fias_region_guid"),
		}
		if err := s.store.CreateRegion(ctx, region); err != nil {
			return fmt.Errorf("creating region %q: %w", title, err)
		}
		s.logger.Info("Created region", zap.String("title", title))
		s.metrics.RecordsCreated.WithLabelValues("region").Inc()
	case err != nil:
		return err
	default:
		s.metrics.RecordsUpdated.WithLabelValues("region").Inc()
	}

	region.Code = stringField(item, "region_code")
	region.KladrRegionCode = stringField(item, "kladr_region_code")
	region.FiasRegionGUID = stringField(item, "fias_region_guid")
	return s.store.SaveRegion(ctx, region)
}

// SyncCities pages through the city listing and upserts cities by their
// provider code. Numeric field parse failures are logged and skipped so a
// single malformed record never aborts the pass.
func (s *Syncer) SyncCities(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "refsync.cities")
	defer span.End()
	defer s.observe("city")()

	s.logger.Info("Updating cities")
	page := 0
	for {
		items, err := s.api.Cities(ctx, cdek.CitiesFilter{
			Size: cdek.Ptr(cityPageSize),
			Page: cdek.Ptr(page),
		})
		if err != nil {
			return fmt.Errorf("fetching cities page %d: %w", page, err)
		}
		s.logger.Info("Fetched cities page",
			zap.Int("page", page),
			zap.Int("count", len(items)),
		)
		s.metrics.SyncPages.WithLabelValues("city").Inc()

		for _, item := range items {
			if err := s.upsertCity(ctx, item); err != nil {
				return err
			}
		}

		page++
		if len(items) == 0 {
			return nil
		}
	}
}

func (s *Syncer) upsertCity(ctx context.Context, item map[string]any) error {
	code := stringField(item, "code")

	city, err := s.store.FindCityByCode(ctx, code)
	switch {
	case errors.Is(err, refdata.ErrNotFound):
		city = &refdata.City{
			Title: stringField(item, "city"),
			Code:  code,
		}
		region, err := s.store.FindRegion(ctx, stringField(item, "region"), stringField(item, "country_code"))
		if err != nil && !errors.Is(err, refdata.ErrNotFound) {
			return err
		}
		if region != nil {
			city.RegionID = &region.ID
		}
		if err := s.store.CreateCity(ctx, city); err != nil {
			return fmt.Errorf("creating city %q: %w", city.Title, err)
		}
		s.logger.Info("Created city", zap.String("title", city.Title), zap.String("code", code))
		s.metrics.RecordsCreated.WithLabelValues("city").Inc()
	case err != nil:
		return err
	default:
		s.metrics.RecordsUpdated.WithLabelValues("city").Inc()
	}

	city.FiasGUID = stringField(item, "fias_guid")
	city.KladrCode = stringField(item, "kladr_code")
	city.PostalCodes = joinStrings(item["postal_codes"], ";")
	if lon, ok := floatField(item, "longitude"); ok {
		city.Longitude = &lon
	} else {
		s.skipField("city", "longitude", item)
	}
	if lat, ok := floatField(item, "latitude"); ok {
		city.Latitude = &lat
	} else {
		s.skipField("city", "latitude", item)
	}
	city.Timezone = stringField(item, "time_zone")
	if limit, ok := floatField(item, "payment_limit"); ok {
		city.PaymentLimit = &limit
	} else {
		s.skipField("city", "payment_limit", item)
	}
	return s.store.SaveCity(ctx, city)
}

// SyncDeliveryPoints fetches the full pickup point set in one call (the
// provider does not paginate this endpoint) and upserts points by code.
func (s *Syncer) SyncDeliveryPoints(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "refsync.deliverypoints")
	defer span.End()
	defer s.observe("deliverypoint")()

	s.logger.Info("Updating delivery points")
	items, err := s.api.DeliveryPoints(ctx, cdek.DeliveryPointsFilter{})
	if err != nil {
		return fmt.Errorf("fetching delivery points: %w", err)
	}
	s.logger.Info("Fetched delivery points", zap.Int("count", len(items)))
	s.metrics.SyncPages.WithLabelValues("deliverypoint").Inc()

	for _, item := range items {
		if err := s.upsertDeliveryPoint(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) upsertDeliveryPoint(ctx context.Context, item map[string]any) error {
	code := stringField(item, "code")

	point, err := s.store.FindDeliveryPointByCode(ctx, code)
	switch {
	case errors.Is(err, refdata.ErrNotFound):
		point = &refdata.DeliveryPoint{
			Title: stringField(item, "name"),
			Code:  code,
		}
		if err := s.store.CreateDeliveryPoint(ctx, point); err != nil {
			return fmt.Errorf("creating delivery point %q: %w", code, err)
		}
		s.logger.Info("Created delivery point", zap.String("title", point.Title), zap.String("code", code))
		s.metrics.RecordsCreated.WithLabelValues("deliverypoint").Inc()
	case err != nil:
		return err
	default:
		s.metrics.RecordsUpdated.WithLabelValues("deliverypoint").Inc()
	}

	location, _ := item["location"].(map[string]any)

	point.CityID = nil
	if cityCode := stringField(location, "city_code"); cityCode != "" {
		city, err := s.store.FindCityByCode(ctx, cityCode)
		if err != nil && !errors.Is(err, refdata.ErrNotFound) {
			return err
		}
		if city != nil {
			point.CityID = &city.ID
		}
	}

	point.PostalCode = stringField(location, "postal_code")
	point.Address = stringField(location, "address")
	point.AddressFull = stringField(location, "address_full")
	point.AddressComment = stringField(item, "address_comment")
	point.NearestStation = stringField(item, "nearest_station")
	if lon, ok := floatField(location, "longitude"); ok {
		point.Longitude = &lon
	} else {
		s.skipField("deliverypoint", "longitude", item)
	}
	if lat, ok := floatField(location, "latitude"); ok {
		point.Latitude = &lat
	} else {
		s.skipField("deliverypoint", "latitude", item)
	}
	point.WorkTime = stringField(item, "work_time")
	point.Email = stringField(item, "email")
	point.Phones = joinPhones(item["phones"])
	point.Note = stringField(item, "note")
	point.Type = stringField(item, "type")
	point.OwnerCode = stringField(item, "owner_code")
	point.TakeOnly = boolField(item, "take_only")
	point.IsDressingRoom = boolField(item, "is_dressing_room")
	point.HaveCashless = boolField(item, "have_cashless")
	point.HaveCash = boolField(item, "have_cash")
	point.AllowedCod = boolField(item, "allowed_cod")
	point.Site = stringField(item, "site")
	return s.store.SaveDeliveryPoint(ctx, point)
}

// skipField records a non-fatal numeric parse failure. The previous stored
// value is left untouched.
func (s *Syncer) skipField(entity, field string, item map[string]any) {
	s.metrics.SkippedFields.WithLabelValues(entity, field).Inc()
	s.logger.Debug("Skipping unparseable field",
		zap.String("entity", entity),
		zap.String("field", field),
		zap.Any("value", item[field]),
	)
}

func (s *Syncer) observe(entity string) func() {
	start := time.Now()
	return func() {
		s.metrics.SyncDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
	}
}
