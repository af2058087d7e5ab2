package cdek

import (
	"context"

	"github.com/google/uuid"
)

// MockAPI is a mock implementation of API for testing.
type MockAPI struct {
	SimulateErrors bool

	OnRegions               func(ctx context.Context, filter RegionsFilter) ([]map[string]any, error)
	OnCities                func(ctx context.Context, filter CitiesFilter) ([]map[string]any, error)
	OnDeliveryPoints        func(ctx context.Context, filter DeliveryPointsFilter) ([]map[string]any, error)
	OnCalculateTariffList   func(ctx context.Context, req *TariffListRequest) (map[string]any, error)
	OnCalculateTariff       func(ctx context.Context, req *TariffRequest) (map[string]any, error)
	OnRegisterOrder         func(ctx context.Context, req *OrderRequest) (string, error)
	OnOrderInfo             func(ctx context.Context, orderUUID string) (map[string]any, error)
	OnDeleteOrder           func(ctx context.Context, orderUUID string) (map[string]any, error)
	OnRequestPrintDocuments func(ctx context.Context, orderUUIDs []string, copyCount int) (string, error)
	OnPrintInfo             func(ctx context.Context, printUUID string) (map[string]any, error)
	OnRequestBarcodes       func(ctx context.Context, orderUUIDs []string, copyCount int, format BarcodeFormat) (string, error)
	OnBarcodeInfo           func(ctx context.Context, barcodeUUID string) (map[string]any, error)
	OnCalculateDeliveryPrice func(ctx context.Context, req *DeliveryRequest) (*DeliveryResponse, error)
}

// NewMockAPI creates a new mock API with default canned behavior.
func NewMockAPI() *MockAPI {
	return &MockAPI{}
}

func (m *MockAPI) err() error {
	return NewError("mock", "simulated API error")
}

// Regions returns one canned region page and an empty second page.
func (m *MockAPI) Regions(ctx context.Context, filter RegionsFilter) ([]map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnRegions != nil {
		return m.OnRegions(ctx, filter)
	}
	if filter.Page != nil && *filter.Page > 0 {
		return nil, nil
	}
	return []map[string]any{
		{
			"country_code":      "RU",
			"country":           "Россия",
			"region":            "Новосибирская область",
			"region_code":       float64(54),
			"kladr_region_code": "5400000000000",
			"fias_region_guid":  "1ac46b49-3209-4814-b7bf-a509ea1aecd9",
		},
		{
			"country_code":      "RU",
			"country":           "Россия",
			"region":            "Москва",
			"region_code":       float64(81),
			"kladr_region_code": "7700000000000",
			"fias_region_guid":  "0c5b2444-70a0-4932-980c-b4dc0d3f02b5",
		},
	}, nil
}

// Cities returns one canned city page and an empty second page.
func (m *MockAPI) Cities(ctx context.Context, filter CitiesFilter) ([]map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnCities != nil {
		return m.OnCities(ctx, filter)
	}
	if filter.Page != nil && *filter.Page > 0 {
		return nil, nil
	}
	return []map[string]any{
		{
			"code":         float64(270),
			"city":         "Новосибирск",
			"country_code": "RU",
			"region":       "Новосибирская область",
			"kladr_code":   "5400000100000",
			"fias_guid":    "8dea00e3-9aab-4d8e-887c-ef2aaa546456",
			"postal_codes": []any{"630000", "630001"},
			"longitude":    82.9346,
			"latitude":     55.0415,
			"time_zone":    "Asia/Novosibirsk",
			"payment_limit": float64(-1),
		},
		{
			"code":         float64(44),
			"city":         "Москва",
			"country_code": "RU",
			"region":       "Москва",
			"longitude":    37.6173,
			"latitude":     55.7558,
			"time_zone":    "Europe/Moscow",
		},
	}, nil
}

// DeliveryPoints returns a canned pickup point set.
func (m *MockAPI) DeliveryPoints(ctx context.Context, filter DeliveryPointsFilter) ([]map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnDeliveryPoints != nil {
		return m.OnDeliveryPoints(ctx, filter)
	}
	return []map[string]any{
		{
			"code": "NSK333",
			"name": "На Красном проспекте",
			"location": map[string]any{
				"city_code":   float64(270),
				"postal_code": "630091",
				"address":     "Красный проспект, 99",
				"address_full": "Россия, Новосибирск, Красный проспект, 99",
				"longitude":   82.9201,
				"latitude":    55.0562,
			},
			"address_comment": "вход со двора",
			"work_time":       "Пн-Пт 10:00-19:00",
			"phones":          []any{map[string]any{"number": "+73832000000"}},
			"email":           "nsk333@cdek.ru",
			"type":            "PVZ",
			"owner_code":      "cdek",
			"have_cashless":   true,
			"have_cash":       true,
			"allowed_cod":     true,
		},
	}, nil
}

// CalculateTariffList returns a canned tariff list.
func (m *MockAPI) CalculateTariffList(ctx context.Context, req *TariffListRequest) (map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnCalculateTariffList != nil {
		return m.OnCalculateTariffList(ctx, req)
	}
	return map[string]any{
		"tariff_codes": []any{
			map[string]any{"tariff_code": float64(136), "delivery_sum": 440.0, "period_min": float64(2), "period_max": float64(4)},
			map[string]any{"tariff_code": float64(137), "delivery_sum": 510.0, "period_min": float64(2), "period_max": float64(4)},
		},
	}, nil
}

// CalculateTariff returns a canned calculation.
func (m *MockAPI) CalculateTariff(ctx context.Context, req *TariffRequest) (map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnCalculateTariff != nil {
		return m.OnCalculateTariff(ctx, req)
	}
	return map[string]any{
		"delivery_sum": 440.0,
		"period_min":   float64(2),
		"period_max":   float64(4),
		"currency":     "RUB",
	}, nil
}

// RegisterOrder returns a generated order UUID.
func (m *MockAPI) RegisterOrder(ctx context.Context, req *OrderRequest) (string, error) {
	if m.SimulateErrors {
		return "", m.err()
	}
	if m.OnRegisterOrder != nil {
		return m.OnRegisterOrder(ctx, req)
	}
	return uuid.New().String(), nil
}

// OrderInfo returns a canned order entity.
func (m *MockAPI) OrderInfo(ctx context.Context, orderUUID string) (map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnOrderInfo != nil {
		return m.OnOrderInfo(ctx, orderUUID)
	}
	return map[string]any{
		"entity": map[string]any{"uuid": orderUUID, "number": "mock-1"},
	}, nil
}

// DeleteOrder acknowledges removal.
func (m *MockAPI) DeleteOrder(ctx context.Context, orderUUID string) (map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnDeleteOrder != nil {
		return m.OnDeleteOrder(ctx, orderUUID)
	}
	return map[string]any{
		"entity": map[string]any{"uuid": orderUUID},
	}, nil
}

// RequestPrintDocuments returns a generated job UUID.
func (m *MockAPI) RequestPrintDocuments(ctx context.Context, orderUUIDs []string, copyCount int) (string, error) {
	if m.SimulateErrors {
		return "", m.err()
	}
	if m.OnRequestPrintDocuments != nil {
		return m.OnRequestPrintDocuments(ctx, orderUUIDs, copyCount)
	}
	return uuid.New().String(), nil
}

// PrintInfo returns a canned ready job.
func (m *MockAPI) PrintInfo(ctx context.Context, printUUID string) (map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnPrintInfo != nil {
		return m.OnPrintInfo(ctx, printUUID)
	}
	return readyJob(printUUID, "https://api.cdek.ru/v2/print/orders/"+printUUID+".pdf"), nil
}

// RequestBarcodes returns a generated job UUID.
func (m *MockAPI) RequestBarcodes(ctx context.Context, orderUUIDs []string, copyCount int, format BarcodeFormat) (string, error) {
	if m.SimulateErrors {
		return "", m.err()
	}
	if m.OnRequestBarcodes != nil {
		return m.OnRequestBarcodes(ctx, orderUUIDs, copyCount, format)
	}
	return uuid.New().String(), nil
}

// BarcodeInfo returns a canned ready job.
func (m *MockAPI) BarcodeInfo(ctx context.Context, barcodeUUID string) (map[string]any, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnBarcodeInfo != nil {
		return m.OnBarcodeInfo(ctx, barcodeUUID)
	}
	return readyJob(barcodeUUID, "https://api.cdek.ru/v2/print/barcodes/"+barcodeUUID+".pdf"), nil
}

// CalculateDeliveryPrice returns a canned legacy price.
func (m *MockAPI) CalculateDeliveryPrice(ctx context.Context, req *DeliveryRequest) (*DeliveryResponse, error) {
	if m.SimulateErrors {
		return nil, m.err()
	}
	if m.OnCalculateDeliveryPrice != nil {
		return m.OnCalculateDeliveryPrice(ctx, req)
	}
	return &DeliveryResponse{
		Price:             440,
		PriceByCurrency:   440,
		Currency:          "RUB",
		DeliveryPeriodMin: 2,
		DeliveryPeriodMax: 4,
	}, nil
}

func readyJob(jobUUID, url string) map[string]any {
	return map[string]any{
		"entity": map[string]any{
			"uuid": jobUUID,
			"url":  url,
			"statuses": []any{
				map[string]any{"code": "ACCEPTED"},
				map[string]any{"code": "PROCESSING"},
				map[string]any{"code": "READY"},
			},
		},
	}
}

// Ensure MockAPI implements the API interface.
var _ API = (*MockAPI)(nil)
