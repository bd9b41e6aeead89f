package bidding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/notification"
	"auction-engine/internal/payment"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// settledWithGateway returns a fixture whose auction was won by bob at 165.
// The automatic link created at settlement is expected and consumed.
func settledWithGateway(t *testing.T) (*fixture, *payment.MockGateway, model.Auction) {
	t.Helper()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	gw := payment.NewMockGateway(ctrl)
	f := newFixture(t, WithGateway(gw, PaymentOptions{LinkTTL: 24 * time.Hour}))

	a := f.createAuction(t, 100, time.Hour)
	_, err := f.svc.PlaceBid(ctx, a.AuctionID, alice, 150)
	require.NoError(t, err)
	_, err = f.svc.PlaceBid(ctx, a.AuctionID, bob, 165)
	require.NoError(t, err)

	gw.EXPECT().CreateLink(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req payment.LinkRequest) (payment.Link, error) {
			return payment.Link{
				LinkID:   req.LinkID,
				URL:      "https://pay.example.com/" + req.LinkID,
				Status:   payment.StatusActive,
				Amount:   req.Amount,
				Currency: req.Currency,
			}, nil
		})

	closed, err := f.svc.CloseAuction(ctx, a.AuctionID, seller.Identity)
	require.NoError(t, err)
	f.svc.Wait()
	return f, gw, closed
}

func paidLink(a model.Auction, payer model.Identity, amount string) payment.Link {
	return payment.Link{
		LinkID: payment.LinkID(a.AuctionID, t0),
		Status: payment.StatusPaid,
		Amount: decimal.RequireFromString(amount),
		Notes: map[string]string{
			payment.NotePayer:   payer.Key(),
			payment.NoteAuction: a.AuctionID,
		},
	}
}

func TestBiddingService_SettlementSendsPaymentLink(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	gw := payment.NewMockGateway(ctrl)
	f := newFixture(t, WithGateway(gw, PaymentOptions{LinkTTL: time.Hour}))

	a := f.createAuction(t, 100, time.Hour)
	_, err := f.svc.PlaceBid(ctx, a.AuctionID, bob, 120.5)
	require.NoError(t, err)

	gw.EXPECT().CreateLink(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req payment.LinkRequest) (payment.Link, error) {
			require.Equal(t, a.AuctionID, req.AuctionID)
			require.Equal(t, payment.LinkID(a.AuctionID, t0.Add(time.Hour)), req.LinkID)
			require.True(t, req.Amount.Equal(decimal.RequireFromString("120.50")))
			require.Equal(t, "INR", req.Currency)
			require.Equal(t, bob.Key(), req.PayerKey)
			require.Equal(t, "Bob", req.CustomerName)
			require.Equal(t, t0.Add(2*time.Hour), req.ExpiresAt)
			return payment.Link{LinkID: req.LinkID, URL: "https://pay.example.com/x", Status: payment.StatusActive, Amount: req.Amount}, nil
		})

	f.clock.Advance(time.Hour)
	settled, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, settled)
	f.svc.Wait()

	links := f.notices(t, bob.Identity, model.NotificationPayment)
	require.Len(t, links, 1)
	require.Contains(t, links[0].Message, "https://pay.example.com/x")
	require.Contains(t, links[0].Message, "₹120.50")
	require.Contains(t, links[0].Message, `<a href="https://pay.example.com/x">`)
}

func TestBiddingService_PaymentNoticeEscapesTitle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	gw := payment.NewMockGateway(ctrl)
	f := newFixture(t, WithGateway(gw, PaymentOptions{LinkTTL: time.Hour}))

	a, err := f.svc.CreateAuction(ctx, seller, NewAuction{
		Title:         "Lot a<b c",
		Description:   "Angle brackets in the title",
		Images:        []string{"https://media.example.com/lot.jpg"},
		Category:      model.CategoryArt,
		StartingPrice: 10,
		EndTime:       f.clock.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = f.svc.PlaceBid(ctx, a.AuctionID, bob, 20)
	require.NoError(t, err)

	gw.EXPECT().CreateLink(gomock.Any(), gomock.Any()).
		Return(payment.Link{LinkID: "l1", URL: "https://pay.example.com/y?a=1&b=2", Status: payment.StatusActive}, nil)

	_, err = f.svc.CloseAuction(ctx, a.AuctionID, seller.Identity)
	require.NoError(t, err)
	f.svc.Wait()

	links := f.notices(t, bob.Identity, model.NotificationPayment)
	require.Len(t, links, 1)
	require.Contains(t, links[0].Message, `"Lot a&lt;b c"`)
	require.Contains(t, links[0].Message, `href="https://pay.example.com/y?a=1&amp;b=2"`)
	require.Equal(t, `Complete your payment of ₹20 for "Lot a<b c": pay now`, notification.PreviewHTML(links[0].Message))

	// plain notices keep the title as typed
	placed := f.notices(t, bob.Identity, model.NotificationBid)
	require.NotEmpty(t, placed)
	require.Contains(t, placed[len(placed)-1].Message, `"Lot a<b c"`)
}

func TestBiddingService_SettlementSurvivesGatewayFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	gw := payment.NewMockGateway(ctrl)
	f := newFixture(t, WithGateway(gw, PaymentOptions{}))

	a := f.createAuction(t, 100, time.Hour)
	_, err := f.svc.PlaceBid(ctx, a.AuctionID, bob, 120)
	require.NoError(t, err)

	gw.EXPECT().CreateLink(gomock.Any(), gomock.Any()).Return(payment.Link{}, biddingerrors.ErrPaymentUnavailable)

	closed, err := f.svc.CloseAuction(ctx, a.AuctionID, seller.Identity)
	require.NoError(t, err)
	require.True(t, closed.Notified)
	f.svc.Wait()

	require.Len(t, f.notices(t, bob.Identity, model.NotificationWin), 1)
	require.Empty(t, f.notices(t, bob.Identity, model.NotificationPayment))
}

func TestBiddingService_RequestPaymentLink(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("not_configured", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		a := f.createAuction(t, 100, time.Hour)
		_, err := f.svc.RequestPaymentLink(ctx, a.AuctionID, seller.Identity)
		require.ErrorIs(t, err, biddingerrors.ErrPaymentUnavailable)
		requireReason(t, err, "payments are not configured")
	})

	t.Run("open_auction", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		f := newFixture(t, WithGateway(payment.NewMockGateway(ctrl), PaymentOptions{}))
		a := f.createAuction(t, 100, time.Hour)
		_, err := f.svc.RequestPaymentLink(ctx, a.AuctionID, seller.Identity)
		require.ErrorIs(t, err, biddingerrors.ErrNoWinner)
	})

	t.Run("winner_and_seller_only", func(t *testing.T) {
		t.Parallel()

		f, gw, a := settledWithGateway(t)

		_, err := f.svc.RequestPaymentLink(ctx, a.AuctionID, alice.Identity)
		require.ErrorIs(t, err, biddingerrors.ErrForbidden)

		gw.EXPECT().CreateLink(gomock.Any(), gomock.Any()).
			Return(payment.Link{LinkID: "l2", URL: "https://pay.example.com/l2", Status: payment.StatusActive}, nil).Times(2)

		link, err := f.svc.RequestPaymentLink(ctx, a.AuctionID, bob.Identity)
		require.NoError(t, err)
		require.Equal(t, "https://pay.example.com/l2", link.URL)

		_, err = f.svc.RequestPaymentLink(ctx, a.AuctionID, seller.Identity)
		require.NoError(t, err)

		// one link from settlement plus the two requested ones
		require.Len(t, f.notices(t, bob.Identity, model.NotificationPayment), 3)
	})

	t.Run("gateway_error", func(t *testing.T) {
		t.Parallel()

		f, gw, a := settledWithGateway(t)
		gw.EXPECT().CreateLink(gomock.Any(), gomock.Any()).Return(payment.Link{}, biddingerrors.ErrPaymentUnavailable)

		_, err := f.svc.RequestPaymentLink(ctx, a.AuctionID, bob.Identity)
		require.ErrorIs(t, err, biddingerrors.ErrUpstreamUnavailable)
	})

	t.Run("already_paid", func(t *testing.T) {
		t.Parallel()

		f, gw, a := settledWithGateway(t)
		gw.EXPECT().GetLink(gomock.Any(), gomock.Any()).Return(paidLink(a, bob.Identity, "165.00"), nil)
		_, err := f.svc.ConfirmPayment(ctx, payment.LinkID(a.AuctionID, t0))
		require.NoError(t, err)

		_, err = f.svc.RequestPaymentLink(ctx, a.AuctionID, bob.Identity)
		require.ErrorIs(t, err, biddingerrors.ErrAlreadyPaid)
	})
}

func TestBiddingService_ConfirmPaymentIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f, gw, a := settledWithGateway(t)
	linkID := payment.LinkID(a.AuctionID, t0)

	gw.EXPECT().GetLink(gomock.Any(), linkID).Return(paidLink(a, bob.Identity, "165"), nil).Times(1)

	paid, err := f.svc.ConfirmPayment(ctx, linkID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPaid, paid.PaymentStatus)

	again, err := f.svc.ConfirmPayment(ctx, linkID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPaid, again.PaymentStatus)

	var received int
	for _, n := range f.notices(t, bob.Identity, model.NotificationPayment) {
		if strings.Contains(n.Message, "has been received") {
			received++
		}
	}
	require.Equal(t, 1, received)
}

func TestBiddingService_ConfirmPaymentRejects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		link    func(a model.Auction) payment.Link
		gwErr   error
		wantErr error
	}{
		{
			name: "not_paid_yet",
			link: func(a model.Auction) payment.Link {
				l := paidLink(a, bob.Identity, "165")
				l.Status = payment.StatusActive
				return l
			},
			wantErr: biddingerrors.ErrPaymentIncomplete,
		},
		{
			name:    "wrong_payer",
			link:    func(a model.Auction) payment.Link { return paidLink(a, alice.Identity, "165") },
			wantErr: biddingerrors.ErrPaymentMismatch,
		},
		{
			name:    "wrong_amount",
			link:    func(a model.Auction) payment.Link { return paidLink(a, bob.Identity, "150") },
			wantErr: biddingerrors.ErrPaymentMismatch,
		},
		{
			name:    "gateway_down",
			gwErr:   biddingerrors.ErrPaymentUnavailable,
			wantErr: biddingerrors.ErrUpstreamUnavailable,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f, gw, a := settledWithGateway(t)
			var link payment.Link
			if tc.link != nil {
				link = tc.link(a)
			}
			gw.EXPECT().GetLink(gomock.Any(), gomock.Any()).Return(link, tc.gwErr)

			_, err := f.svc.ConfirmPayment(ctx, payment.LinkID(a.AuctionID, t0))
			require.ErrorIs(t, err, tc.wantErr)

			stored, err := f.repo.GetAuction(ctx, a.AuctionID)
			require.NoError(t, err)
			require.Equal(t, model.PaymentActive, stored.PaymentStatus)
		})
	}

	t.Run("malformed_link_id", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.svc.ConfirmPayment(ctx, "not-a-link")
		require.ErrorIs(t, err, biddingerrors.ErrValidation)
	})

	t.Run("unknown_auction", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.svc.ConfirmPayment(ctx, payment.LinkID("missing", t0))
		require.ErrorIs(t, err, biddingerrors.ErrNotFound)
	})

	t.Run("auction_still_open", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		a := f.createAuction(t, 100, time.Hour)
		_, err := f.svc.ConfirmPayment(ctx, payment.LinkID(a.AuctionID, t0))
		require.True(t, errors.Is(err, biddingerrors.ErrNoWinner))
	})
}
