// Package payment talks to the card gateway's confirm API and drives the order
// through confirmation.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/prompt-store/internal/apperr"
)

const (
	confirmPath = "/v1/payments/confirm"

	codeUnreachable = "GATEWAY_UNREACHABLE"
	codeUnreadable  = "GATEWAY_UNREADABLE"
	codeBadResponse = "GATEWAY_BAD_RESPONSE"
)

// Payment is the gateway's payment record. Raw keeps the body as received so it
// can be handed back to clients unchanged.
type Payment struct {
	Raw         json.RawMessage `json:"-"`
	PaymentKey  string          `json:"paymentKey"`
	OrderID     string          `json:"orderId"`
	OrderName   string          `json:"orderName"`
	Status      string          `json:"status"`
	Method      string          `json:"method"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ApprovedAt  string          `json:"approvedAt"`
}

// MarshalJSON returns the gateway's original body.
func (p Payment) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	type plain Payment
	return json.Marshal(plain(p))
}

type confirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type gatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is the gateway adapter. It persists nothing and never retries.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	SecretKey string
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
	}
}

// Confirm asks the gateway to capture an authorised payment.
func (c *Client) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*Payment, error) {
	if c.SecretKey == "" {
		return nil, apperr.Configuration("payment secret key is not configured")
	}

	body, err := json.Marshal(confirmRequest{PaymentKey: paymentKey, OrderID: orderID, Amount: amount})
	if err != nil {
		return nil, apperr.Internal("failed to encode confirm request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+confirmPath, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Internal("failed to build confirm request", err)
	}
	req.SetBasicAuth(c.SecretKey, "")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperr.GatewayRejected(http.StatusBadGateway, codeUnreachable,
			"payment gateway unreachable").WithDetails(err.Error())
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperr.GatewayRejected(http.StatusBadGateway, codeUnreadable,
			"failed to read gateway response")
	}
	log.Printf("[payment] confirm order=%s status=%d", orderID, res.StatusCode)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var ge gatewayError
		_ = json.Unmarshal(raw, &ge)
		if ge.Message == "" {
			ge.Message = "payment confirmation failed"
		}
		e := apperr.GatewayRejected(res.StatusCode, ge.Code, ge.Message)
		if json.Valid(raw) {
			e.WithDetails(json.RawMessage(raw))
		}
		return nil, e
	}

	var p Payment
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperr.GatewayRejected(http.StatusBadGateway, codeBadResponse,
			fmt.Sprintf("unexpected gateway response: %v", err))
	}
	p.Raw = json.RawMessage(raw)
	return &p, nil
}
