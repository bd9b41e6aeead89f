package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"auction-engine/internal/biddingerrors"

	"github.com/shopspring/decimal"
)

// CashfreeConfig holds the payment links API credentials
type CashfreeConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	APIVersion   string
	ReturnURL    string
	Timeout      time.Duration
}

// Cashfree is a Gateway backed by the Cashfree payment links API
type Cashfree struct {
	cfg    CashfreeConfig
	client *http.Client
}

func NewCashfree(cfg CashfreeConfig) *Cashfree {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Cashfree{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type customerDetails struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone"`
}

type linkNotify struct {
	SendEmail bool `json:"send_email"`
	SendSMS   bool `json:"send_sms"`
}

type linkMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
}

type createLinkBody struct {
	LinkID          string            `json:"link_id"`
	LinkAmount      json.Number       `json:"link_amount"`
	LinkCurrency    string            `json:"link_currency"`
	LinkPurpose     string            `json:"link_purpose"`
	CustomerDetails customerDetails   `json:"customer_details"`
	LinkExpiryTime  string            `json:"link_expiry_time,omitempty"`
	LinkNotify      linkNotify        `json:"link_notify"`
	LinkNotes       map[string]string `json:"link_notes"`
	LinkMeta        linkMeta          `json:"link_meta"`
}

type linkResponse struct {
	LinkID       string            `json:"link_id"`
	LinkURL      string            `json:"link_url"`
	LinkStatus   string            `json:"link_status"`
	LinkAmount   decimal.Decimal   `json:"link_amount"`
	LinkCurrency string            `json:"link_currency"`
	LinkNotes    map[string]string `json:"link_notes"`
}

func (r linkResponse) link() Link {
	return Link{
		LinkID:   r.LinkID,
		URL:      r.LinkURL,
		Status:   r.LinkStatus,
		Amount:   r.LinkAmount,
		Currency: r.LinkCurrency,
		Notes:    r.LinkNotes,
	}
}

func (c *Cashfree) CreateLink(ctx context.Context, req LinkRequest) (Link, error) {
	body := createLinkBody{
		LinkID:       req.LinkID,
		LinkAmount:   json.Number(req.Amount.StringFixed(2)),
		LinkCurrency: req.Currency,
		LinkPurpose:  req.Purpose,
		CustomerDetails: customerDetails{
			CustomerName:  req.CustomerName,
			CustomerPhone: "9999999999",
		},
		LinkNotify: linkNotify{SendEmail: true},
		LinkNotes: map[string]string{
			NoteAuction: req.AuctionID,
			NotePayer:   req.PayerKey,
			"category":  req.Category,
		},
		LinkMeta: linkMeta{ReturnURL: c.cfg.ReturnURL},
	}
	if !req.ExpiresAt.IsZero() {
		body.LinkExpiryTime = req.ExpiresAt.Format(time.RFC3339)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Link{}, fmt.Errorf("cashfree: failed to encode link request: %w", err)
	}

	var resp linkResponse
	if err := c.do(ctx, http.MethodPost, "/links", req.LinkID, payload, &resp); err != nil {
		return Link{}, err
	}
	return resp.link(), nil
}

func (c *Cashfree) GetLink(ctx context.Context, linkID string) (Link, error) {
	var resp linkResponse
	if err := c.do(ctx, http.MethodGet, "/links/"+linkID, "", nil, &resp); err != nil {
		return Link{}, err
	}
	return resp.link(), nil
}

func (c *Cashfree) do(ctx context.Context, method, path, idempotencyKey string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("cashfree: failed to build request: %w", err)
	}
	req.Header.Set("x-client-id", c.cfg.ClientID)
	req.Header.Set("x-client-secret", c.cfg.ClientSecret)
	req.Header.Set("x-api-version", c.cfg.APIVersion)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("x-idempotency-key", idempotencyKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cashfree: %s %s: %v: %w", method, path, err, biddingerrors.ErrPaymentUnavailable)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("cashfree: failed to read response: %v: %w", err, biddingerrors.ErrPaymentUnavailable)
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("cashfree: payment link %s: %w", path, biddingerrors.ErrNotFound)
	case res.StatusCode >= 300:
		return fmt.Errorf("cashfree: %s %s returned %d: %s: %w", method, path, res.StatusCode, errorMessage(raw), biddingerrors.ErrPaymentUnavailable)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("cashfree: failed to decode response: %v: %w", err, biddingerrors.ErrPaymentUnavailable)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return strings.TrimSpace(string(raw))
}

