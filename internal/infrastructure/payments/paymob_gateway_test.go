package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/infrastructure/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPaymobSecret = "paymob-hmac"

func newTestPaymob(baseURL string) *PaymobGateway {
	return NewPaymobGateway(config.PaymobConfig{
		APIKey:                "api-key",
		IntegrationID:         "111",
		InstaPayIntegrationID: "222",
		IframeID:              "999",
		HMACSecret:            testPaymobSecret,
		BaseURL:               baseURL,
	}, testOptions())
}

func paymobServer(t *testing.T, wantIntegration string) (*httptest.Server, *int32) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"token":"auth-tok"}`))
	})
	mux.HandleFunc("/ecommerce/orders", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "auth-tok", body["auth_token"])
		assert.Equal(t, "inv-1", body["merchant_order_id"])
		assert.Equal(t, float64(13400), body["amount_cents"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":424242,"amount_cents":13400,"currency":"EGP"}`))
	})
	mux.HandleFunc("/acceptance/payment_keys", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, wantIntegration, body["integration_id"])
		assert.Equal(t, float64(424242), body["order_id"])
		billing := body["billing_data"].(map[string]any)
		assert.Equal(t, "EG", billing["country"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"pay-key"}`))
	})
	return httptest.NewServer(mux), &calls
}

func TestPaymobGateway_CreateCardPayment(t *testing.T) {
	srv, _ := paymobServer(t, "111")
	defer srv.Close()

	res, err := newTestPaymob(srv.URL).CreatePayment(context.Background(), entities.PaymentRequest{
		InvoiceID: "inv-1",
		Amount:    decimal.RequireFromString("134"),
		Currency:  "EGP",
		Method:    entities.PaymentMethodCard,
		Customer:  entities.Customer{FirstName: "Mona", Email: "mona@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "424242", res.TransactionRef)
	require.NotNil(t, res.NextAction)
	assert.Equal(t, entities.NextActionIframe, res.NextAction.Type)
	assert.Equal(t, srv.URL+"/acceptance/iframes/999?payment_token=pay-key", res.NextAction.URL)
}

func TestPaymobGateway_CreateInstaPayPayment(t *testing.T) {
	srv, calls := paymobServer(t, "222")
	defer srv.Close()
	g := newTestPaymob(srv.URL)

	_, err := g.CreatePayment(context.Background(), entities.PaymentRequest{
		InvoiceID: "inv-1", Amount: decimal.RequireFromString("134"), Method: entities.PaymentMethodInstaPay,
		Customer: entities.Customer{Phone: "+201012345678"},
	})
	require.NoError(t, err)

	before := atomic.LoadInt32(calls)
	_, err = g.CreatePayment(context.Background(), entities.PaymentRequest{
		InvoiceID: "inv-1", Amount: decimal.RequireFromString("134"), Method: entities.PaymentMethodInstaPay,
		Customer: entities.Customer{Phone: "555-1234"},
	})
	assert.ErrorIs(t, err, entities.ErrPaymentRejected)
	assert.Equal(t, before, atomic.LoadInt32(calls))
}

func TestPaymobGateway_RejectsForeignCurrency(t *testing.T) {
	_, err := newTestPaymob("http://127.0.0.1:1").CreatePayment(context.Background(), entities.PaymentRequest{
		InvoiceID: "inv-1", Amount: decimal.NewFromInt(1), Currency: "USD",
	})
	assert.ErrorIs(t, err, entities.ErrUnsupportedCurrency)
}

func paymobWebhookBody(success, pending bool) []byte {
	body, _ := json.Marshal(map[string]any{
		"type": "TRANSACTION",
		"obj": map[string]any{
			"id":                     192036465,
			"amount_cents":           13400,
			"created_at":             "2024-05-01T10:00:00.000000",
			"currency":               "EGP",
			"error_occured":          false,
			"has_parent_transaction": false,
			"integration_id":         111,
			"is_3d_secure":           true,
			"is_auth":                false,
			"is_capture":             false,
			"is_refunded":            false,
			"is_standalone_payment":  true,
			"is_voided":              false,
			"order":                  map[string]any{"id": 424242},
			"owner":                  302852,
			"pending":                pending,
			"source_data":            map[string]any{"pan": "2346", "sub_type": "MasterCard", "type": "card"},
			"success":                success,
		},
	})
	return body
}

func signPaymob(body []byte) string {
	obj, _ := paymobWebhookObject(body)
	return paymobSignature(flattenPaymob(obj), testPaymobSecret)
}

func TestPaymobGateway_Webhook(t *testing.T) {
	g := newTestPaymob("http://127.0.0.1:1")

	tests := []struct {
		name             string
		success, pending bool
		want             entities.InvoiceStatus
	}{
		{"paid", true, false, entities.InvoiceStatusCompleted},
		{"pending", false, true, entities.InvoiceStatusPending},
		{"declined", false, false, entities.InvoiceStatusFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := paymobWebhookBody(tc.success, tc.pending)
			cb := entities.CallbackRequest{
				Kind:  entities.CallbackWebhook,
				Query: url.Values{"hmac": {signPaymob(body)}},
				Body:  body,
			}
			require.NoError(t, g.VerifyCallback(context.Background(), cb))

			res, err := g.HandleCallback(context.Background(), cb)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Status)
			assert.Equal(t, "424242", res.TransactionRef)
			assert.True(t, decimal.RequireFromString("134").Equal(res.Amount))
		})
	}
}

func TestPaymobGateway_WebhookTampered(t *testing.T) {
	g := newTestPaymob("http://127.0.0.1:1")
	body := paymobWebhookBody(false, false)
	sig := signPaymob(body)
	tampered := []byte(strings.Replace(string(body), `"success":false`, `"success":true`, 1))

	err := g.VerifyCallback(context.Background(), entities.CallbackRequest{
		Kind: entities.CallbackWebhook, Query: url.Values{"hmac": {sig}}, Body: tampered,
	})
	assert.ErrorIs(t, err, entities.ErrInvalidSignature)

	err = g.VerifyCallback(context.Background(), entities.CallbackRequest{Kind: entities.CallbackWebhook, Body: body})
	assert.ErrorIs(t, err, entities.ErrInvalidSignature)
}

func TestPaymobGateway_RedirectQuery(t *testing.T) {
	g := newTestPaymob("http://127.0.0.1:1")
	q := url.Values{
		"amount_cents":           {"13400"},
		"created_at":             {"2024-05-01T10:00:00.000000"},
		"currency":               {"EGP"},
		"error_occured":          {"false"},
		"has_parent_transaction": {"false"},
		"id":                     {"192036465"},
		"integration_id":         {"111"},
		"is_3d_secure":           {"true"},
		"is_auth":                {"false"},
		"is_capture":             {"false"},
		"is_refunded":            {"false"},
		"is_standalone_payment":  {"true"},
		"is_voided":              {"false"},
		"order":                  {"424242"},
		"owner":                  {"302852"},
		"pending":                {"false"},
		"source_data.pan":        {"2346"},
		"source_data.sub_type":   {"MasterCard"},
		"source_data.type":       {"card"},
		"success":                {"true"},
	}
	fields := map[string]string{}
	for _, f := range paymobHMACFields {
		key := f
		if f == "order.id" {
			key = "order"
		}
		fields[f] = q.Get(key)
	}
	q.Set("hmac", paymobSignature(fields, testPaymobSecret))

	cb := entities.CallbackRequest{Kind: entities.CallbackReturn, Query: q}
	require.NoError(t, g.VerifyCallback(context.Background(), cb))
	res, err := g.HandleCallback(context.Background(), cb)
	require.NoError(t, err)
	assert.Equal(t, entities.InvoiceStatusCompleted, res.Status)
	assert.Equal(t, "424242", res.TransactionRef)

	q.Set("success", "false")
	assert.ErrorIs(t, g.VerifyCallback(context.Background(), entities.CallbackRequest{Kind: entities.CallbackReturn, Query: q}), entities.ErrInvalidSignature)
}

func TestPaymobGateway_VerifyPayment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"auth-tok"}`))
	})
	mux.HandleFunc("/ecommerce/orders/424242", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer auth-tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":424242,"amount_cents":13400,"paid_amount_cents":13400,"currency":"EGP"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g := newTestPaymob(srv.URL)
	res, err := g.VerifyPayment(context.Background(), "424242")
	require.NoError(t, err)
	assert.Equal(t, entities.InvoiceStatusCompleted, res.Status)

	_, err = g.VerifyPayment(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, entities.ErrPaymentRejected)
}
