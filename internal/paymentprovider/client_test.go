package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreatePaymentLink(t *testing.T) {
	var gotReq CreateLinkRequest
	var gotAuthUser, gotAuthPass string
	var gotIdempotenceKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payment_links", r.URL.Path)

		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		gotIdempotenceKey = r.Header.Get("Idempotence-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PaymentLink{
			ID:       "plink_001",
			ShortURL: "https://rzp.io/l/abc",
			Status:   StatusCreated,
			Amount:   10000,
			Currency: "INR",
		})
	}))
	defer srv.Close()

	client := NewClient("key_id", "key_secret", srv.URL)

	link, err := client.CreatePaymentLink(context.Background(), 10000, "INR", "AnonChat Premium Upgrade", "alice")
	require.NoError(t, err)

	assert.Equal(t, "plink_001", link.ID)
	assert.Equal(t, "https://rzp.io/l/abc", link.ShortURL)
	assert.Equal(t, StatusCreated, link.Status)

	assert.Equal(t, "key_id", gotAuthUser)
	assert.Equal(t, "key_secret", gotAuthPass)
	assert.NotEmpty(t, gotIdempotenceKey)

	assert.Equal(t, int64(10000), gotReq.Amount)
	assert.Equal(t, "INR", gotReq.Currency)
	assert.Equal(t, "alice", gotReq.Customer.Name)
	assert.False(t, gotReq.Notify.SMS)
	assert.False(t, gotReq.Notify.Email)
}

func TestClient_FetchPaymentLink(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		httpStatus int
		wantErr    bool
	}{
		{name: "paid link", status: StatusPaid, httpStatus: http.StatusOK},
		{name: "created link", status: StatusCreated, httpStatus: http.StatusOK},
		{name: "expired link", status: StatusExpired, httpStatus: http.StatusOK},
		{name: "gateway error", httpStatus: http.StatusBadGateway, wantErr: true},
		{name: "unknown link", httpStatus: http.StatusNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/payment_links/plink_001", r.URL.Path)

				if tt.httpStatus != http.StatusOK {
					w.WriteHeader(tt.httpStatus)
					_, _ = w.Write([]byte(`{"error":{"description":"something went wrong"}}`))
					return
				}
				_ = json.NewEncoder(w).Encode(PaymentLink{
					ID:     "plink_001",
					Status: tt.status,
				})
			}))
			defer srv.Close()

			client := NewClient("key_id", "key_secret", srv.URL)
			link, err := client.FetchPaymentLink(context.Background(), "plink_001")

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, link)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, link.Status)
		})
	}
}

func TestClient_CreatePaymentLink_Unreachable(t *testing.T) {
	// закрытый сервер имитирует недоступный шлюз
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	client := NewClient("key_id", "key_secret", srv.URL)
	_, err := client.CreatePaymentLink(context.Background(), 10000, "INR", "desc", "bob")
	assert.Error(t, err)
}
