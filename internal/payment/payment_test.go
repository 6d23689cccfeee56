package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	header := SignPayload(body, secret, now)
	assert.NoError(t, verifySignature(header, body, secret, now))

	// Same signature a minute later is still inside the tolerance window.
	assert.NoError(t, verifySignature(header, body, secret, now.Add(time.Minute)))

	assert.ErrorIs(t, verifySignature(header, body, "other-secret", now), ErrBadSignature)
	assert.ErrorIs(t, verifySignature(header, []byte(`{}`), secret, now), ErrBadSignature)
	assert.ErrorIs(t, verifySignature("garbage", body, secret, now), ErrBadSignature)
	assert.ErrorIs(t, verifySignature("t=abc,v1=00", body, secret, now), ErrBadSignature)

	// Stale timestamps are rejected even with a valid MAC.
	assert.ErrorIs(t, verifySignature(header, body, secret, now.Add(10*time.Minute)), ErrBadSignature)

	err := verifySignature(header, body, "", now)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadSignature)
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_123"}}}`))
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "cs_123", ev.Data.Object.ID)

	_, err = ParseEvent([]byte(`{`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"data":{}}`))
	assert.Error(t, err)
}

func TestCreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var in CreateSessionInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "EUR", in.Currency)
		require.Len(t, in.Lines, 1)
		assert.Equal(t, int64(2500), in.Lines[0].UnitAmountCents)

		json.NewEncoder(w).Encode(Session{ID: "cs_123", URL: "https://pay.example/cs_123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", "whsec")
	sess, err := client.CreateCheckoutSession(context.Background(), CreateSessionInput{
		Currency:   "EUR",
		Lines:      []SessionLine{{Name: "Vase", UnitAmountCents: 2500, Quantity: 2}},
		SuccessURL: "https://shop.example/ok",
		CancelURL:  "https://shop.example/ko",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_123", sess.ID)
	assert.Equal(t, "https://pay.example/cs_123", sess.URL)
}

func TestCreateCheckoutSessionErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test", "whsec")
	_, err := client.CreateCheckoutSession(context.Background(), CreateSessionInput{Currency: "EUR"})
	assert.Error(t, err)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(Session{})
	}))
	defer empty.Close()

	client = NewClient(empty.URL, "sk_test", "whsec")
	_, err = client.CreateCheckoutSession(context.Background(), CreateSessionInput{Currency: "EUR"})
	assert.Error(t, err)
}
