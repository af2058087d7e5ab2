// Package cdek provides integration with the CDEK shipping API.
package cdek

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// API defines the CDEK operations used by the rest of the service.
// This abstraction allows for mock implementations during testing
// and the real HTTP client in production.
type API interface {
	// Regions lists regions with delivery coverage.
	Regions(ctx context.Context, filter RegionsFilter) ([]map[string]any, error)

	// Cities lists cities with delivery coverage.
	Cities(ctx context.Context, filter CitiesFilter) ([]map[string]any, error)

	// DeliveryPoints lists pickup points matching the filter.
	DeliveryPoints(ctx context.Context, filter DeliveryPointsFilter) ([]map[string]any, error)

	// CalculateTariffList calculates delivery cost over all available tariffs.
	CalculateTariffList(ctx context.Context, req *TariffListRequest) (map[string]any, error)

	// CalculateTariff calculates delivery cost for a specific tariff code.
	CalculateTariff(ctx context.Context, req *TariffRequest) (map[string]any, error)

	// RegisterOrder registers an order and returns its provider-assigned UUID.
	RegisterOrder(ctx context.Context, req *OrderRequest) (string, error)

	// OrderInfo fetches order details by UUID.
	OrderInfo(ctx context.Context, orderUUID string) (map[string]any, error)

	// DeleteOrder removes a registered order.
	DeleteOrder(ctx context.Context, orderUUID string) (map[string]any, error)

	// RequestPrintDocuments submits a receipt-printing job for the given orders
	// and returns the job UUID.
	RequestPrintDocuments(ctx context.Context, orderUUIDs []string, copyCount int) (string, error)

	// PrintInfo fetches print job status and metadata.
	PrintInfo(ctx context.Context, printUUID string) (map[string]any, error)

	// RequestBarcodes submits a barcode-generation job for the given orders
	// and returns the job UUID.
	RequestBarcodes(ctx context.Context, orderUUIDs []string, copyCount int, format BarcodeFormat) (string, error)

	// BarcodeInfo fetches barcode job status and metadata.
	BarcodeInfo(ctx context.Context, barcodeUUID string) (map[string]any, error)

	// CalculateDeliveryPrice calculates delivery cost via the legacy v1 API.
	//
	// Deprecated: use CalculateTariff. Kept for accounts still on v1 pricing.
	CalculateDeliveryPrice(ctx context.Context, req *DeliveryRequest) (*DeliveryResponse, error)
}

// TariffListRequest is the calculator request over all available tariffs.
type TariffListRequest struct {
	FromLocation *Location `json:"from_location"`
	ToLocation   *Location `json:"to_location"`
	Packages     []Package `json:"packages"`
}

// TariffRequest is the calculator request for a specific tariff code.
type TariffRequest struct {
	TariffCode   Tariff    `json:"tariff_code"`
	FromLocation *Location `json:"from_location"`
	ToLocation   *Location `json:"to_location"`
	Packages     []Package `json:"packages"`
	Services     []Service `json:"services,omitempty"`
}

// RegionsFilter narrows the region listing. Zero-valued fields are omitted
// from the query string.
type RegionsFilter struct {
	CountryCodes    []string
	RegionCode      *int
	KladrRegionCode string
	FiasRegionGUID  string
	Size            *int
	Page            *int
	Lang            string
}

func (f RegionsFilter) values() url.Values {
	v := url.Values{}
	if len(f.CountryCodes) > 0 {
		v.Set("country_codes", strings.Join(f.CountryCodes, ","))
	}
	if f.RegionCode != nil {
		v.Set("region_code", strconv.Itoa(*f.RegionCode))
	}
	if f.KladrRegionCode != "" {
		v.Set("kladr_region_code", f.KladrRegionCode)
	}
	if f.FiasRegionGUID != "" {
		v.Set("fias_region_guid", f.FiasRegionGUID)
	}
	setPaging(v, f.Size, f.Page)
	if f.Lang != "" {
		v.Set("lang", f.Lang)
	}
	return v
}

// CitiesFilter narrows the city listing.
type CitiesFilter struct {
	CountryCodes    []string
	RegionCode      *int
	KladrRegionCode string
	FiasRegionGUID  string
	KladrCode       string
	FiasGUID        string
	PostalCode      string
	Code            *int
	City            string
	PaymentLimit    *float64
	Size            *int
	Page            *int
	Lang            string
}

func (f CitiesFilter) values() url.Values {
	v := url.Values{}
	if len(f.CountryCodes) > 0 {
		v.Set("country_codes", strings.Join(f.CountryCodes, ","))
	}
	if f.RegionCode != nil {
		v.Set("region_code", strconv.Itoa(*f.RegionCode))
	}
	if f.KladrRegionCode != "" {
		v.Set("kladr_region_code", f.KladrRegionCode)
	}
	if f.FiasRegionGUID != "" {
		v.Set("fias_region_guid", f.FiasRegionGUID)
	}
	if f.KladrCode != "" {
		v.Set("kladr_code", f.KladrCode)
	}
	if f.FiasGUID != "" {
		v.Set("fias_guid", f.FiasGUID)
	}
	if f.PostalCode != "" {
		v.Set("postal_code", f.PostalCode)
	}
	if f.Code != nil {
		v.Set("code", strconv.Itoa(*f.Code))
	}
	if f.City != "" {
		v.Set("city", f.City)
	}
	if f.PaymentLimit != nil {
		v.Set("payment_limit", formatFloat(*f.PaymentLimit))
	}
	setPaging(v, f.Size, f.Page)
	if f.Lang != "" {
		v.Set("lang", f.Lang)
	}
	return v
}

// DeliveryPointsFilter narrows the pickup point listing.
type DeliveryPointsFilter struct {
	PostalCode    string
	CityCode      *int
	Type          DeliveryPointType
	CountryCode   string
	RegionCode    *int
	HaveCashless  *bool
	HaveCash      *bool
	AllowedCod    *bool
	IsDressingRoom *bool
	// WeightMax and WeightMin bound the parcel weight (kg) the point accepts.
	WeightMax *float64
	WeightMin *float64
	Lang      string
	TakeOnly  *bool
}

func (f DeliveryPointsFilter) values() url.Values {
	v := url.Values{}
	if f.PostalCode != "" {
		v.Set("postal_code", f.PostalCode)
	}
	if f.CityCode != nil {
		v.Set("city_code", strconv.Itoa(*f.CityCode))
	}
	if f.Type != "" {
		v.Set("type", string(f.Type))
	}
	if f.CountryCode != "" {
		v.Set("country_code", f.CountryCode)
	}
	if f.RegionCode != nil {
		v.Set("region_code", strconv.Itoa(*f.RegionCode))
	}
	setBool(v, "have_cashless", f.HaveCashless)
	setBool(v, "have_cash", f.HaveCash)
	setBool(v, "allowed_cod", f.AllowedCod)
	setBool(v, "is_dressing_room", f.IsDressingRoom)
	if f.WeightMax != nil {
		v.Set("weight_max", formatFloat(*f.WeightMax))
	}
	if f.WeightMin != nil {
		v.Set("weight_min", formatFloat(*f.WeightMin))
	}
	if f.Lang != "" {
		v.Set("lang", f.Lang)
	}
	setBool(v, "take_only", f.TakeOnly)
	return v
}

func setPaging(v url.Values, size, page *int) {
	if size != nil {
		v.Set("size", strconv.Itoa(*size))
	}
	if page != nil {
		v.Set("page", strconv.Itoa(*page))
	}
}

func setBool(v url.Values, key string, b *bool) {
	if b != nil {
		v.Set(key, strconv.FormatBool(*b))
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
