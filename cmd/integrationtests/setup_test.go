package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	bidding "auction-engine/internal/biddingService"
	"auction-engine/internal/clock"
	model "auction-engine/internal/models"
	"auction-engine/internal/notification"
	"auction-engine/internal/ratelimit"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"

	"github.com/gin-gonic/gin"
)

var (
	t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seller = &model.User{Identity: model.Identity{Kind: model.AccountCredentials, ID: "seller"}, Username: "Seller"}
	bob    = &model.User{Identity: model.Identity{Kind: model.AccountOAuth, ID: "bob"}, Username: "Bob"}
	carol  = &model.User{Identity: model.Identity{Kind: model.AccountCredentials, ID: "carol"}, Username: "Carol"}
)

// TestEnv is a router wired to an in-memory store and a manual clock
type TestEnv struct {
	Router  *gin.Engine
	Clock   *clock.Manual
	Service *bidding.BiddingService
}

// SetupTestEnv initializes the full router with in-memory repository for integration testing.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewManual(t0)
	repo := repository.NewMemoryRepo()
	dispatcher := notification.NewDispatcher(repo, notification.LogPublisher{}, notification.WithClock(clk))
	service := bidding.NewBiddingService(repo, repo, dispatcher, bidding.WithClock(clk))
	t.Cleanup(func() {
		service.Wait()
		dispatcher.Wait()
	})

	return &TestEnv{
		Router:  server.SetupRouter(service, dispatcher, ratelimit.Unlimited{}),
		Clock:   clk,
		Service: service,
	}
}

// ExecuteRequestAndParse executes an HTTP request as user (nil for anonymous)
// and parses the response envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, user *model.User, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set(server.HeaderUserKind, string(user.Kind))
		req.Header.Set(server.HeaderUserID, user.ID)
		req.Header.Set(server.HeaderUserName, user.Username)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// CreateTestAuction creates an Art auction owned by seller and returns its id
func CreateTestAuction(t *testing.T, env *TestEnv, title string, price float64, duration time.Duration) string {
	t.Helper()

	resp, w := ExecuteRequestAndParse(t, env.Router, "POST", "/auctions", seller, map[string]any{
		"title":          title,
		"description":    "integration test lot",
		"images":         []string{"https://img.example.com/lot.jpg"},
		"category":       "Art",
		"starting_price": price,
		"end_time":       env.Clock.Now().Add(duration),
	})
	if w.Code != 201 {
		t.Fatalf("create auction: status %d body %s", w.Code, w.Body.String())
	}
	return resp["data"].(map[string]any)["auction_id"].(string)
}

func dataMap(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response data is not an object: %v", resp)
	}
	return data
}

func dataList(t *testing.T, resp map[string]any) []any {
	t.Helper()
	data, ok := resp["data"].([]any)
	if !ok {
		t.Fatalf("response data is not a list: %v", resp)
	}
	return data
}
