package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "secret", pass)

		var req razorpayOrderReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, int64(50000), req.Amount)
		require.Equal(t, "INR", req.Currency)

		w.Write([]byte(`{"id":"order_abc","amount":50000,"currency":"INR","receipt":"` + req.Receipt + `","status":"created"}`))
	}))
	defer srv.Close()

	p := NewRazorpayProvider(srv.URL, "rzp_test_key", "secret")
	order, err := p.CreateOrder(context.Background(), 50000, "INR", "wallet_topup_1")
	require.NoError(t, err)
	require.Equal(t, "order_abc", order.ID)
	require.Equal(t, int64(50000), order.Amount)
	require.Equal(t, "INR", order.Currency)
	require.Equal(t, "wallet_topup_1", order.Receipt)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"description":"amount too small"}}`))
	}))
	defer srv.Close()

	p := NewRazorpayProvider(srv.URL, "rzp_test_key", "secret")
	_, err := p.CreateOrder(context.Background(), 1, "INR", "r1")
	require.Error(t, err)
}

func TestStubProviderEchoesRequest(t *testing.T) {
	p := &StubProvider{}
	order, err := p.CreateOrder(context.Background(), 10000, "INR", "r2")
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.Equal(t, int64(10000), order.Amount)
	require.Equal(t, "r2", order.Receipt)
}
