package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-engine/internal/ratelimit"
	"auction-engine/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// whoami echoes the caller stored by IdentityMiddleware
func whoami(c *gin.Context) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Key(), "name": user.Username})
}

func TestIdentityMiddleware(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(IdentityMiddleware)
	router.GET("/open", whoami)
	router.GET("/closed", RequireIdentity, whoami)

	tests := []struct {
		name           string
		path           string
		headers        map[string]string
		expectedStatus int
		expectedUser   string
	}{
		{
			name:           "anonymous_open_route",
			path:           "/open",
			expectedStatus: http.StatusOK,
			expectedUser:   "",
		},
		{
			name:           "anonymous_protected_route",
			path:           "/closed",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "credentials_user",
			path:           "/closed",
			headers:        map[string]string{HeaderUserKind: "credentials", HeaderUserID: "u1", HeaderUserName: "Alice"},
			expectedStatus: http.StatusOK,
			expectedUser:   "credentials:u1",
		},
		{
			name:           "oauth_user",
			path:           "/open",
			headers:        map[string]string{HeaderUserKind: "oauth", HeaderUserID: "g-42"},
			expectedStatus: http.StatusOK,
			expectedUser:   "oauth:g-42",
		},
		{
			name:           "unknown_kind",
			path:           "/open",
			headers:        map[string]string{HeaderUserKind: "saml", HeaderUserID: "u1"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "kind_without_id",
			path:           "/open",
			headers:        map[string]string{HeaderUserKind: "oauth"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tc.expectedStatus == http.StatusOK {
				require.Equal(t, tc.expectedUser, resp["user"])
			} else {
				require.NotEmpty(t, resp["error"])
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		headers        map[string]string
		mockSetup      func(l *ratelimit.MockLimiter)
		expectedStatus int
		retryAfter     string
	}{
		{
			name:    "allowed_by_identity",
			headers: map[string]string{HeaderUserKind: "oauth", HeaderUserID: "bob"},
			mockSetup: func(l *ratelimit.MockLimiter) {
				l.EXPECT().Allow(gomock.Any(), "user:oauth:bob").Return(ratelimit.Result{Allowed: true, Remaining: 4}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "anonymous_keyed_by_ip",
			mockSetup: func(l *ratelimit.MockLimiter) {
				l.EXPECT().Allow(gomock.Any(), "ip:192.0.2.1").Return(ratelimit.Result{Allowed: true}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "rejected",
			headers: map[string]string{HeaderUserKind: "oauth", HeaderUserID: "bob"},
			mockSetup: func(l *ratelimit.MockLimiter) {
				l.EXPECT().Allow(gomock.Any(), gomock.Any()).
					Return(ratelimit.Result{Allowed: false, RetryAfter: 1500 * time.Millisecond}, nil)
			},
			expectedStatus: http.StatusTooManyRequests,
			retryAfter:     "2",
		},
		{
			name:    "rejected_sub_second",
			headers: map[string]string{HeaderUserKind: "oauth", HeaderUserID: "bob"},
			mockSetup: func(l *ratelimit.MockLimiter) {
				l.EXPECT().Allow(gomock.Any(), gomock.Any()).
					Return(ratelimit.Result{Allowed: false, RetryAfter: 0}, nil)
			},
			expectedStatus: http.StatusTooManyRequests,
			retryAfter:     "1",
		},
		{
			name: "limiter_down_fails_open",
			mockSetup: func(l *ratelimit.MockLimiter) {
				l.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(ratelimit.Result{}, errors.New("connection refused"))
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			limiter := ratelimit.NewMockLimiter(ctrl)
			tc.mockSetup(limiter)

			router := gin.New()
			router.Use(IdentityMiddleware, RateLimitMiddleware(limiter))
			router.GET("/ping", whoami)

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.retryAfter, w.Header().Get("Retry-After"))
		})
	}
}
