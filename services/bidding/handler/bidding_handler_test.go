package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bidding "auction-engine/internal/biddingService"
	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/payment"
	"auction-engine/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	alice = model.User{Identity: model.Identity{Kind: model.AccountCredentials, ID: "alice"}, Username: "Alice"}
	bob   = model.User{Identity: model.Identity{Kind: model.AccountOAuth, ID: "bob"}, Username: "Bob"}
)

// asUser stands in for the identity middleware
func asUser(user model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		helpers.SetUser(c, user)
		c.Next()
	}
}

type apiResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (int, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:auction_id/bids", asUser(alice), handler.PlaceBidHandler)
	router.POST("/anonymous/:auction_id/bids", handler.PlaceBidHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		path           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			path:        "/auctions/a1/bids",
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "a1", alice, 150.0).
					Return(model.Bid{
						BidID:      uuid.NewString(),
						AuctionID:  "a1",
						Bidder:     alice.Identity,
						BidderName: alice.Username,
						Amount:     150,
						CreatedAt:  now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
			validateData: func(t *testing.T, data map[string]any) {
				_, parseErr := uuid.Parse(data["bid_id"].(string))
				require.NoError(t, parseErr, "BidID should be a valid UUID")
				require.Equal(t, "a1", data["auction_id"])
				require.Equal(t, "credentials:alice", data["bidder_id"])
				require.Equal(t, 150.0, data["amount"])
				require.Equal(t, 150.0, data["current_price"])
			},
		},
		{
			name:           "anonymous_caller",
			path:           "/anonymous/a1/bids",
			requestBody:    helpers.PlaceBidRequest{Amount: 150},
			mockSetup:      func() {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "authentication required",
		},
		{
			name:           "invalid_json",
			path:           "/auctions/a1/bids",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "invalid_amount_zero",
			path:           "/auctions/a1/bids",
			requestBody:    helpers.PlaceBidRequest{Amount: 0},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_amount",
			path:           "/auctions/a1/bids",
			requestBody:    helpers.PlaceBidRequest{Amount: -10},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_bid_too_low_with_reason",
			path:        "/auctions/a2/bids",
			requestBody: helpers.PlaceBidRequest{Amount: 50},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "a2", alice, 50.0).
					Return(model.Bid{}, fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrBidTooLow, "bid must exceed ₹160")))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid must exceed ₹160",
		},
		{
			name:        "service_consecutive_bid",
			path:        "/auctions/a3/bids",
			requestBody: helpers.PlaceBidRequest{Amount: 200},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "a3", alice, 200.0).
					Return(model.Bid{}, biddingerrors.ErrConsecutiveBid)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "you cannot bid twice in a row",
		},
		{
			name:        "service_self_bid",
			path:        "/auctions/a4/bids",
			requestBody: helpers.PlaceBidRequest{Amount: 200},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "a4", alice, 200.0).
					Return(model.Bid{}, biddingerrors.ErrSelfBid)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "you cannot bid on your own auction",
		},
		{
			name:        "service_auction_not_found",
			path:        "/auctions/a5/bids",
			requestBody: helpers.PlaceBidRequest{Amount: 200},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "a5", alice, 200.0).
					Return(model.Bid{}, fmt.Errorf("service: %w", biddingerrors.ErrAuctionNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:        "service_generic_error",
			path:        "/auctions/a6/bids",
			requestBody: helpers.PlaceBidRequest{Amount: 100},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid(gomock.Any(), "a6", alice, 100.0).
					Return(model.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			status, resp := doJSON(t, router, http.MethodPost, tc.path, tc.requestBody)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp.Message, tc.expectedMsg)

			if tc.validateData != nil {
				var data map[string]any
				require.NoError(t, json.Unmarshal(resp.Data, &data))
				tc.validateData(t, data)
			}
		})
	}
}

// Test CreateAuctionHandler
func TestCreateAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions", asUser(alice), handler.CreateAuctionHandler)

	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	valid := helpers.CreateAuctionRequest{
		Title:         "Vase",
		Description:   "Old vase",
		Images:        []string{"https://media.example.com/v.jpg"},
		Category:      "Art",
		StartingPrice: 100,
		EndTime:       end,
	}

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: valid,
			mockSetup: func() {
				mockService.EXPECT().
					CreateAuction(gomock.Any(), alice, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ model.User, in bidding.NewAuction) (model.Auction, error) {
						if in.Title != "Vase" || in.Category != model.CategoryArt || in.StartingPrice != 100 ||
							len(in.Images) != 1 || !in.EndTime.Equal(end) || !in.StartTime.IsZero() {
							return model.Auction{}, fmt.Errorf("unexpected input %+v", in)
						}
						return model.Auction{
						AuctionID:     "a1",
						Title:         "Vase",
						Category:      model.CategoryArt,
						StartingPrice: 100,
						CurrentPrice:  100,
						EndTime:       end,
						Status:        model.StatusActive,
						CreatedBy:     alice.Identity,
					}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction created successfully",
		},
		{
			name: "missing_images",
			requestBody: helpers.CreateAuctionRequest{
				Title: "Vase", Description: "Old vase", Category: "Art", StartingPrice: 100, EndTime: end,
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "service_validation_reason",
			requestBody: helpers.CreateAuctionRequest{
				Title: "Vase", Description: "Old vase", Images: []string{"x"}, Category: "Cars", StartingPrice: 100, EndTime: end,
			},
			mockSetup: func() {
				mockService.EXPECT().
					CreateAuction(gomock.Any(), alice, gomock.Any()).
					Return(model.Auction{}, biddingerrors.WithReason(biddingerrors.ErrInvalidAuction, "category must be one of [Art]"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "category must be one of",
		},
	}

	for _, tc := range tests {
		tc := tc
		// sequential: the success and validation cases expect the same call
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			status, resp := doJSON(t, router, http.MethodPost, "/auctions", tc.requestBody)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp.Message, tc.expectedMsg)

			if status == http.StatusCreated {
				var data helpers.AuctionResponse
				require.NoError(t, json.Unmarshal(resp.Data, &data))
				require.Equal(t, "a1", data.AuctionID)
				require.Equal(t, "credentials:alice", data.CreatedBy)
				require.Empty(t, data.WinnerID)
				require.NotNil(t, data.Bids)
			}
		})
	}
}

// Test GetBidsHandler
func TestGetBidsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:auction_id/bids", handler.GetBidsHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		expectedCount  int
	}{
		{
			name:      "success_multiple_bids",
			auctionID: "a1",
			mockSetup: func() {
				mockService.EXPECT().
					GetBids(gomock.Any(), "a1").
					Return([]model.Bid{
						{BidID: uuid.NewString(), AuctionID: "a1", Bidder: alice.Identity, Amount: 100, CreatedAt: now},
						{BidID: uuid.NewString(), AuctionID: "a1", Bidder: bob.Identity, Amount: 150, CreatedAt: now},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedCount:  2,
		},
		{
			name:      "service_nil_slice",
			auctionID: "a2",
			mockSetup: func() {
				mockService.EXPECT().GetBids(gomock.Any(), "a2").Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedCount:  0,
		},
		{
			name:      "auction_not_found",
			auctionID: "a3",
			mockSetup: func() {
				mockService.EXPECT().GetBids(gomock.Any(), "a3").Return(nil, biddingerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:      "extremely_large_number_of_bids",
			auctionID: "a4",
			mockSetup: func() {
				bids := make([]model.Bid, 1000)
				for i := range bids {
					bids[i] = model.Bid{
						BidID:     uuid.NewString(),
						AuctionID: "a4",
						Bidder:    model.Identity{Kind: model.AccountOAuth, ID: fmt.Sprintf("user%d", i)},
						Amount:    float64(i + 1),
						CreatedAt: now,
					}
				}
				mockService.EXPECT().GetBids(gomock.Any(), "a4").Return(bids, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedCount:  1000,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			status, resp := doJSON(t, router, http.MethodGet, "/auctions/"+tc.auctionID+"/bids", nil)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp.Message, tc.expectedMsg)

			if status == http.StatusOK {
				var data []map[string]any
				require.NoError(t, json.Unmarshal(resp.Data, &data))
				require.NotNil(t, data)
				require.Len(t, data, tc.expectedCount)
			}
		})
	}
}

// Test GetWinningBidHandler
func TestGetWinningBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:auction_id/winning", handler.GetWinningBidHandler)

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:      "success",
			auctionID: "a1",
			mockSetup: func() {
				mockService.EXPECT().GetWinningBid(gomock.Any(), "a1").
					Return(model.Bid{BidID: "b1", AuctionID: "a1", Bidder: bob.Identity, Amount: 165}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "winning bid retrieved successfully",
		},
		{
			name:      "no_bids",
			auctionID: "a2",
			mockSetup: func() {
				mockService.EXPECT().GetWinningBid(gomock.Any(), "a2").Return(model.Bid{}, biddingerrors.ErrNoBids)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "no bids found for auction",
		},
		{
			name:      "generic_error",
			auctionID: "a3",
			mockSetup: func() {
				mockService.EXPECT().GetWinningBid(gomock.Any(), "a3").Return(model.Bid{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			status, resp := doJSON(t, router, http.MethodGet, "/auctions/"+tc.auctionID+"/winning", nil)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp.Message, tc.expectedMsg)
		})
	}
}

// Test CloseAuctionHandler and DeleteAuctionHandler ownership errors
func TestOwnerOnlyHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:auction_id/close", asUser(bob), handler.CloseAuctionHandler)
	router.DELETE("/auctions/:auction_id", asUser(bob), handler.DeleteAuctionHandler)

	winner := alice.Identity
	mockService.EXPECT().CloseAuction(gomock.Any(), "mine", bob.Identity).
		Return(model.Auction{AuctionID: "mine", Status: model.StatusClosed, Notified: true, Winner: &winner}, nil)
	mockService.EXPECT().CloseAuction(gomock.Any(), "theirs", bob.Identity).
		Return(model.Auction{}, fmt.Errorf("service: %w", biddingerrors.ErrNotAuctionOwner))
	mockService.EXPECT().DeleteAuction(gomock.Any(), "closed", bob.Identity).
		Return(fmt.Errorf("service: %w", biddingerrors.ErrAuctionClosed))

	status, resp := doJSON(t, router, http.MethodPost, "/auctions/mine/close", nil)
	require.Equal(t, http.StatusOK, status)
	var data helpers.AuctionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Equal(t, "credentials:alice", data.WinnerID)
	require.Equal(t, "closed", data.Status)

	status, resp = doJSON(t, router, http.MethodPost, "/auctions/theirs/close", nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "only the auction owner can do this", resp.Message)

	status, _ = doJSON(t, router, http.MethodDelete, "/auctions/closed", nil)
	require.Equal(t, http.StatusConflict, status)
}

// Test payment handlers
func TestPaymentHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockBiddingServiceInterface(ctrl)
	handler := NewBiddingHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:auction_id/payment-link", asUser(bob), handler.RequestPaymentLinkHandler)
	router.POST("/payments/confirm", handler.ConfirmPaymentHandler)

	mockService.EXPECT().RequestPaymentLink(gomock.Any(), "a1", bob.Identity).
		Return(payment.Link{LinkID: "auction_a1_1", URL: "https://pay.example.com/1", Status: "ACTIVE", Amount: decimal.NewFromInt(165), Currency: "INR"}, nil)
	mockService.EXPECT().RequestPaymentLink(gomock.Any(), "a2", bob.Identity).
		Return(payment.Link{}, fmt.Errorf("service: %w", biddingerrors.ErrPaymentUnavailable))
	mockService.EXPECT().ConfirmPayment(gomock.Any(), "auction_a1_1").
		Return(model.Auction{AuctionID: "a1", PaymentStatus: model.PaymentPaid}, nil)
	mockService.EXPECT().ConfirmPayment(gomock.Any(), "auction_a3_1").
		Return(model.Auction{}, biddingerrors.WithReason(biddingerrors.ErrPaymentMismatch, "payer does not match the auction winner"))

	status, resp := doJSON(t, router, http.MethodPost, "/auctions/a1/payment-link", nil)
	require.Equal(t, http.StatusCreated, status)
	var link helpers.PaymentLinkResponse
	require.NoError(t, json.Unmarshal(resp.Data, &link))
	require.Equal(t, "165.00", link.Amount)
	require.Equal(t, "https://pay.example.com/1", link.URL)

	status, _ = doJSON(t, router, http.MethodPost, "/auctions/a2/payment-link", nil)
	require.Equal(t, http.StatusBadGateway, status)

	status, resp = doJSON(t, router, http.MethodPost, "/payments/confirm", helpers.ConfirmPaymentRequest{LinkID: "auction_a1_1"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "payment confirmed", resp.Message)

	status, resp = doJSON(t, router, http.MethodPost, "/payments/confirm", helpers.ConfirmPaymentRequest{LinkID: "auction_a3_1"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "payer does not match the auction winner", resp.Message)

	status, _ = doJSON(t, router, http.MethodPost, "/payments/confirm", `{}`)
	require.Equal(t, http.StatusBadRequest, status)
}
