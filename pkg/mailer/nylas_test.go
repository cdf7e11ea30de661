package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/grants/grant-1/messages/send", r.URL.Path)
		require.Equal(t, "Bearer nyk_key", r.Header.Get("Authorization"))

		var req nylasSendReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.To, 1)
		require.Equal(t, "asha@example.com", req.To[0].Email)
		require.Equal(t, "Verify your email address!", req.Subject)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewNylasMailer(srv.URL, "nyk_key", "grant-1")
	err := m.Send(context.Background(), "Asha", "asha@example.com", "Verify your email address!", "<b>1234</b>")
	require.NoError(t, err)
}

func TestSendFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewNylasMailer(srv.URL, "bad", "grant-1")
	err := m.Send(context.Background(), "Asha", "asha@example.com", "s", "b")
	require.Error(t, err)
}
