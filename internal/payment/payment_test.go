package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-engine/internal/biddingerrors"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLinkID_RoundTrip(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1735732800123)
	id := LinkID("5f0c-11aa", at)
	check.Equal(t, "auction_5f0c-11aa_1735732800123", id)

	auctionID, err := AuctionIDFromLinkID(id)
	check.NoError(t, err)
	check.Equal(t, "5f0c-11aa", auctionID)
}

func TestAuctionIDFromLinkID_Malformed(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "order_1_2", "auction_", "auction_abc", "auction_abc_notanumber", "auction__123"} {
		_, err := AuctionIDFromLinkID(id)
		check.Error(t, err)
	}
}

func newTestCashfree(t *testing.T, h http.HandlerFunc) *Cashfree {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCashfree(CashfreeConfig{
		BaseURL:      srv.URL + "/",
		ClientID:     "id",
		ClientSecret: "secret",
		APIVersion:   "2025-01-01",
		ReturnURL:    "https://shop.example.com/auctions",
		Timeout:      2 * time.Second,
	})
}

func TestCashfree_CreateLink(t *testing.T) {
	t.Parallel()

	c := newTestCashfree(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/links", r.URL.Path)
		require.Equal(t, "id", r.Header.Get("x-client-id"))
		require.Equal(t, "secret", r.Header.Get("x-client-secret"))
		require.Equal(t, "2025-01-01", r.Header.Get("x-api-version"))
		require.Equal(t, "auction_a1_1", r.Header.Get("x-idempotency-key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		require.Equal(t, 165.5, body["link_amount"])
		require.Equal(t, "INR", body["link_currency"])
		notes := body["link_notes"].(map[string]any)
		require.Equal(t, "oauth:bob", notes[NotePayer])
		require.Equal(t, "a1", notes[NoteAuction])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"link_id":"auction_a1_1","link_url":"https://pay.example/l/1","link_status":"ACTIVE","link_amount":165.5,"link_currency":"INR","link_notes":{"payer":"oauth:bob","auction_id":"a1"}}`)
	})

	link, err := c.CreateLink(context.Background(), LinkRequest{
		LinkID:       "auction_a1_1",
		AuctionID:    "a1",
		Amount:       decimal.RequireFromString("165.5"),
		Currency:     "INR",
		Purpose:      "Payment for auction: Vase",
		CustomerName: "Bob",
		PayerKey:     "oauth:bob",
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/l/1", link.URL)
	require.Equal(t, StatusActive, link.Status)
	require.True(t, link.Amount.Equal(decimal.RequireFromString("165.50")))
}

func TestCashfree_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not_found", status: http.StatusNotFound, body: `{"message":"link not found"}`, wantErr: biddingerrors.ErrNotFound},
		{name: "server_error", status: http.StatusBadGateway, body: `oops`, wantErr: biddingerrors.ErrPaymentUnavailable},
		{name: "rejected", status: http.StatusBadRequest, body: `{"message":"bad amount"}`, wantErr: biddingerrors.ErrUpstreamUnavailable},
		{name: "garbage_body", status: http.StatusOK, body: `{not json`, wantErr: biddingerrors.ErrPaymentUnavailable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newTestCashfree(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.GetLink(context.Background(), "auction_a1_1")
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewCashfree(CashfreeConfig{BaseURL: srv.URL, Timeout: time.Second})
		_, err := c.GetLink(context.Background(), "x")
		require.ErrorIs(t, err, biddingerrors.ErrUpstreamUnavailable)
	})
}

func TestCashfree_GetLink(t *testing.T) {
	t.Parallel()

	c := newTestCashfree(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/links/auction_a1_1", r.URL.Path)
		_, _ = io.WriteString(w, `{"link_id":"auction_a1_1","link_status":"PAID","link_amount":"200","link_notes":{"payer":"credentials:alice"}}`)
	})

	link, err := c.GetLink(context.Background(), "auction_a1_1")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, link.Status)
	require.True(t, link.Amount.Equal(decimal.NewFromInt(200)))
	require.Equal(t, "credentials:alice", link.Notes[NotePayer])
}
