package cdek_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/cdek/pkg/cdek"
)

// fakeProvider is a minimal CDEK stand-in. Paths other than the token
// endpoint are served by the configured handler.
type fakeProvider struct {
	srv       *httptest.Server
	authCalls int
	expiresIn int
	handle    http.HandlerFunc
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	f := &fakeProvider{expiresIn: 3600}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			f.authCalls++
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "test-token",
				"expires_in":   f.expiresIn,
			})
			return
		}
		// The legacy calculator authenticates in the body, not the header.
		if r.URL.Path != "/calculator/calculate_price_by_json.php" {
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		}
		if f.handle != nil {
			f.handle(w, r)
			return
		}
		w.Write([]byte("[]"))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func newTestClient(t *testing.T, f *fakeProvider, now func() time.Time) *cdek.Client {
	t.Helper()
	client, err := cdek.NewWithClock(cdek.Config{
		ClientID:      "test-id",
		ClientSecret:  "test-secret",
		BaseURL:       f.srv.URL,
		LegacyBaseURL: f.srv.URL,
	}, nil, now)
	require.NoError(t, err)
	return client
}

func TestClient_MissingCredentials(t *testing.T) {
	_, err := cdek.New(cdek.Config{ClientSecret: "s"}, nil)
	assert.ErrorIs(t, err, cdek.NewError(cdek.CodeNoSettings, ""))

	_, err = cdek.New(cdek.Config{ClientID: "i"}, nil)
	assert.ErrorIs(t, err, cdek.NewError(cdek.CodeNoSettings, ""))
}

func TestClient_TokenReuse(t *testing.T) {
	f := newFakeProvider(t)

	current := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	client := newTestClient(t, f, func() time.Time { return current })

	ctx := context.Background()
	_, err := client.Regions(ctx, cdek.RegionsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.authCalls)

	// One second before expiry the token is still used.
	current = current.Add(3599 * time.Second)
	_, err = client.Regions(ctx, cdek.RegionsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.authCalls)

	// One second past expiry forces re-authentication.
	current = current.Add(2 * time.Second)
	_, err = client.Regions(ctx, cdek.RegionsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.authCalls)
}

func TestClient_AuthWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	client, err := cdek.New(cdek.Config{ClientID: "i", ClientSecret: "s", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	err = client.Authenticate(context.Background())
	assert.ErrorIs(t, err, cdek.NewError("notoken", ""))
}

func TestClient_FilterParams(t *testing.T) {
	f := newFakeProvider(t)
	var got url.Values
	f.handle = func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/deliverypoints", r.URL.Path)
		got = r.URL.Query()
		w.Write([]byte("[]"))
	}
	client := newTestClient(t, f, time.Now)

	_, err := client.DeliveryPoints(context.Background(), cdek.DeliveryPointsFilter{
		CityCode: cdek.Ptr(270),
		Type:     cdek.DeliveryPointAll,
		HaveCash: cdek.Ptr(false),
	})
	require.NoError(t, err)

	// Only the supplied parameters reach the wire.
	assert.Equal(t, url.Values{
		"city_code": {"270"},
		"type":      {"ALL"},
		"have_cash": {"false"},
	}, got)
}

func TestClient_ErrorSurfacing(t *testing.T) {
	f := newFakeProvider(t)
	f.handle = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": [{"code": "400", "message": "bad"}]}`))
	}
	client := newTestClient(t, f, time.Now)
	ctx := context.Background()

	for name, call := range map[string]func() error{
		"cities": func() error {
			_, err := client.Cities(ctx, cdek.CitiesFilter{})
			return err
		},
		"register order": func() error {
			_, err := client.RegisterOrder(ctx, cdek.NewOrderRequest())
			return err
		},
		"tariff": func() error {
			_, err := client.CalculateTariff(ctx, &cdek.TariffRequest{TariffCode: cdek.TariffStockStock})
			return err
		},
	} {
		var apiErr *cdek.Error
		require.ErrorAs(t, call(), &apiErr, name)
		assert.Equal(t, "400", apiErr.Code, name)
		assert.Equal(t, "bad", apiErr.Message, name)
	}
}

func TestClient_InvalidRequestState(t *testing.T) {
	f := newFakeProvider(t)
	f.handle = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"requests": [{"state": "INVALID", "errors": [{"code": "v2_entity_invalid", "message": "tariff not available"}]}]}`))
	}
	client := newTestClient(t, f, time.Now)

	_, err := client.OrderInfo(context.Background(), "abc")
	var apiErr *cdek.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "v2_entity_invalid", apiErr.Code)
}

func TestClient_RegisterOrder(t *testing.T) {
	f := newFakeProvider(t)
	f.handle = func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("Content-Length"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "comment")

		w.Write([]byte(`{"entity": {"uuid": "72753031-0001-0002-0003-000000000000"}}`))
	}
	client := newTestClient(t, f, time.Now)

	id, err := client.RegisterOrder(context.Background(), cdek.NewOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, "72753031-0001-0002-0003-000000000000", id)
}

func TestClient_RegisterOrder_NoUUID(t *testing.T) {
	f := newFakeProvider(t)
	f.handle = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entity": {}}`))
	}
	client := newTestClient(t, f, time.Now)

	_, err := client.RegisterOrder(context.Background(), cdek.NewOrderRequest())
	assert.ErrorIs(t, err, cdek.NewError(cdek.CodeNoUUID, ""))
}

func TestDocumentStatus(t *testing.T) {
	info := map[string]any{
		"entity": map[string]any{
			"statuses": []any{
				map[string]any{"code": "ACCEPTED"},
				map[string]any{"code": "READY"},
			},
		},
	}
	status, err := cdek.DocumentStatus(info)
	require.NoError(t, err)
	assert.Equal(t, cdek.PrintReady, status)

	_, err = cdek.DocumentStatus(map[string]any{})
	assert.ErrorIs(t, err, cdek.NewError(cdek.CodeNoEntity, ""))
}

func TestDocumentURL(t *testing.T) {
	url, ok := cdek.DocumentURL(map[string]any{
		"entity": map[string]any{"url": "https://example.org/doc.pdf"},
	})
	assert.True(t, ok)
	assert.Equal(t, "https://example.org/doc.pdf", url)

	// A missing url is not an error: the job may not be ready yet.
	_, ok = cdek.DocumentURL(map[string]any{"entity": map[string]any{}})
	assert.False(t, ok)
}

func TestClient_LegacyPrice(t *testing.T) {
	f := newFakeProvider(t)
	f.handle = func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/calculator/calculate_price_by_json.php", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "acc-1", body["authLogin"])
		assert.Equal(t, "secret", body["secure"])
		assert.Equal(t, "", body["services"])

		w.Write([]byte(`{"result": {"price": 440.5, "deliveryPeriodMin": 2, "deliveryPeriodMax": 4, "currency": "RUB"}}`))
	}

	client, err := cdek.New(cdek.Config{
		ClientID:       "i",
		ClientSecret:   "s",
		Account:        "acc-1",
		SecurePassword: "secret",
		BaseURL:        f.srv.URL,
		LegacyBaseURL:  f.srv.URL,
	}, nil)
	require.NoError(t, err)

	resp, err := client.CalculateDeliveryPrice(context.Background(), &cdek.DeliveryRequest{
		SenderCityID:   cdek.Ptr(270),
		ReceiverCityID: cdek.Ptr(44),
		Goods:          []cdek.Good{{Weight: cdek.Ptr(1.0)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 440.5, resp.Price)
	assert.Equal(t, 2, resp.DeliveryPeriodMin)
	assert.Equal(t, "RUB", resp.Currency)
}

func TestClient_LegacyPrice_V1Error(t *testing.T) {
	f := newFakeProvider(t)
	f.handle = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": [{"code": "7", "text": "sender city not found"}]}`))
	}
	client := newTestClient(t, f, time.Now)

	_, err := client.CalculateDeliveryPrice(context.Background(), &cdek.DeliveryRequest{})
	var apiErr *cdek.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "7", apiErr.Code)
	assert.Equal(t, "sender city not found", apiErr.Message)
}

func TestClient_TransportNormalized(t *testing.T) {
	client, err := cdek.New(cdek.Config{
		ClientID:     "i",
		ClientSecret: "s",
		// Nothing listens here.
		BaseURL: "http://127.0.0.1:1",
		Timeout: 500 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	_, err = client.Regions(context.Background(), cdek.RegionsFilter{})
	assert.True(t, cdek.IsTransport(err))
}
