package cdek

import (
	"context"
	"encoding/json"
	"net/http"
)

// Legacy v1 calculator (calculate_price_by_json.php). Superseded by
// CalculateTariff but still the only pricing path for v1-era contracts.

// Good is one parcel in a legacy price calculation.
type Good struct {
	Weight *float64 `json:"weight,omitempty"` // kg
	Length *int     `json:"length,omitempty"` // cm
	Width  *int     `json:"width,omitempty"`
	Height *int     `json:"height,omitempty"`
	Volume *float64 `json:"volume,omitempty"` // cubic metres, alternative to dimensions
}

// DeliveryService is an add-on service in a legacy price calculation.
type DeliveryService struct {
	ID    int      `json:"id"`
	Param *float64 `json:"param,omitempty"`
}

// DeliveryRequest is the legacy v1 price calculation request. Field names
// follow the v1 wire format (camelCase, unlike v2).
type DeliveryRequest struct {
	Version     string `json:"version,omitempty"`
	AuthLogin   string `json:"authLogin,omitempty"`
	Secure      string `json:"secure,omitempty"`
	DateExecute *Date  `json:"dateExecute,omitempty"`

	SenderCityID         *int   `json:"senderCityId,omitempty"`
	SenderCityPostCode   string `json:"senderCityPostCode,omitempty"`
	ReceiverCityID       *int   `json:"receiverCityId,omitempty"`
	ReceiverCityPostCode string `json:"receiverCityPostCode,omitempty"`

	TariffID *int `json:"tariffId,omitempty"`
	ModeID   *int `json:"modeId,omitempty"`

	// Goods and Services marshal as "" when empty: the v1 endpoint
	// rejects an empty JSON array.
	Goods    legacyList[Good]            `json:"goods"`
	Services legacyList[DeliveryService] `json:"services"`
}

// DeliveryResponse is the parsed result of a legacy price calculation.
type DeliveryResponse struct {
	Price             float64 `json:"price"`
	PriceByCurrency   float64 `json:"priceByCurrency"`
	Currency          string  `json:"currency"`
	TariffID          int     `json:"tariffId"`
	DeliveryPeriodMin int     `json:"deliveryPeriodMin"`
	DeliveryPeriodMax int     `json:"deliveryPeriodMax"`
	DeliveryDateMin   string  `json:"deliveryDateMin"`
	DeliveryDateMax   string  `json:"deliveryDateMax"`
}

// CalculateDeliveryPrice calculates delivery cost via the legacy v1 API.
// When the request carries no credentials the client's configured account
// and secure password are injected.
//
// Deprecated: use CalculateTariff.
func (c *Client) CalculateDeliveryPrice(ctx context.Context, req *DeliveryRequest) (*DeliveryResponse, error) {
	r := *req
	if r.AuthLogin == "" && c.cfg.Account != "" {
		r.AuthLogin = c.cfg.Account
		r.Secure = c.cfg.SecurePassword
	}

	resp, err := c.do(ctx, c.legacyURL, http.MethodPost, "calculator/calculate_price_by_json.php", nil, &r)
	if err != nil {
		return nil, err
	}

	m := asMap(resp)
	result, ok := m["result"]
	if !ok {
		return nil, NewError("invalid response", "invalid delivery response")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, NewError("invalid response", "invalid delivery response").WithCause(err)
	}
	var parsed DeliveryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, NewError("invalid response", "invalid delivery response").WithCause(err)
	}
	return &parsed, nil
}
