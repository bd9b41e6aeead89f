package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/ratelimit"
	"auction-engine/services/bidding/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// Headers set by the upstream identity provider
const (
	HeaderUserKind = "X-User-Kind"
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if user, ok := helpers.CurrentUser(c); ok {
		fields["user"] = user.Key()
	}
	utils.Info("HTTP Request", fields)
}

// IdentityMiddleware trusts the identity headers forwarded by the identity
// provider. Requests without them continue anonymously; malformed ones are
// rejected.
func IdentityMiddleware(c *gin.Context) {
	kind := strings.TrimSpace(c.GetHeader(HeaderUserKind))
	id := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if kind == "" && id == "" {
		c.Next()
		return
	}

	identity := model.Identity{Kind: model.AccountKind(kind), ID: id}
	if !identity.Kind.Valid() || identity.ID == "" {
		err := fmt.Errorf("identity headers: %w - kind %q id %q", biddingerrors.ErrUnauthorized, kind, id)
		utils.AbortWithError(c, http.StatusUnauthorized, err, "invalid identity")
		return
	}

	helpers.SetUser(c, model.User{Identity: identity, Username: strings.TrimSpace(c.GetHeader(HeaderUserName))})
	c.Next()
}

// RequireIdentity rejects anonymous requests
func RequireIdentity(c *gin.Context) {
	if _, ok := helpers.CurrentUser(c); !ok {
		err := fmt.Errorf("%s %s: %w", c.Request.Method, c.Request.URL.Path, biddingerrors.ErrUnauthorized)
		utils.AbortWithError(c, http.StatusUnauthorized, err, "authentication required")
		return
	}
	c.Next()
}

// RateLimitMiddleware applies limiter per caller identity, or per client IP
// for anonymous requests. Limiter failures let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if user, ok := helpers.CurrentUser(c); ok {
			key = "user:" + user.Key()
		}

		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			utils.Warn("rate limiter unavailable, allowing request", map[string]any{"key": key, "error": err.Error()})
			c.Next()
			return
		}
		if res.Remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}
		if !res.Allowed {
			retry := int(math.Ceil(res.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			utils.AbortWithError(c, http.StatusTooManyRequests,
				fmt.Errorf("rate limit exceeded for %s", key), "too many requests, please slow down")
			return
		}
		c.Next()
	}
}
