package payment

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/prompt-store/internal/apperr"
	"github.com/MikeMC777/prompt-store/internal/order"
)

// AnonymousCustomer is the widget customer key used for guests.
const AnonymousCustomer = "ANONYMOUS"

// Gateway confirms payments. *Client implements it.
type Gateway interface {
	Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*Payment, error)
}

// ConfirmRequest payload sent by the success redirect page.
// swagger:model ConfirmRequest
type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey" example:"tgen_20240501123456abcd"`
	OrderID    string `json:"orderId"    example:"ORDER_3f1c0d6a9b2e4c7f8a5d1e2b3c4d5e6f"`
	Amount     int64  `json:"amount"     example:"3000"`
}

// FailRequest payload sent by the fail redirect page.
// swagger:model FailRequest
type FailRequest struct {
	OrderID string `json:"orderId"`
	Code    string `json:"code"    example:"PAY_PROCESS_CANCELED"`
	Message string `json:"message"`
}

// Session is what the hosted widget needs to open.
type Session struct {
	ClientKey   string `json:"clientKey"`
	CustomerKey string `json:"customerKey"`
	SuccessURL  string `json:"successUrl"`
	FailURL     string `json:"failUrl"`
}

type Options struct {
	ClientKey  string
	SuccessURL string
	FailURL    string
}

type Service struct {
	gateway Gateway
	orders  order.Repository
	opts    Options
}

func NewService(gateway Gateway, orders order.Repository, opts Options) *Service {
	return &Service{gateway: gateway, orders: orders, opts: opts}
}

// Session builds widget parameters for buyerID, or for a guest when it is empty.
func (s *Service) Session(buyerID string) (Session, error) {
	if s.opts.ClientKey == "" {
		return Session{}, apperr.Configuration("payment client key is not configured")
	}
	customer := buyerID
	if customer == "" {
		customer = AnonymousCustomer
	}
	return Session{
		ClientKey:   s.opts.ClientKey,
		CustomerKey: customer,
		SuccessURL:  s.opts.SuccessURL,
		FailURL:     s.opts.FailURL,
	}, nil
}

func (s *Service) loadOwned(ctx context.Context, buyerID, orderID string) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, order.ErrNotFound) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to load order", err)
	}
	if o.BuyerID != buyerID {
		return nil, apperr.NotFound("order not found")
	}
	return o, nil
}

// Confirm captures the payment for a pending order. The amount must equal the
// stored order total; a gateway rejection marks the order FAILED.
func (s *Service) Confirm(ctx context.Context, buyerID string, req ConfirmRequest) (*Payment, error) {
	if buyerID == "" {
		return nil, apperr.Unauthorized("")
	}
	var fields []apperr.FieldError
	if strings.TrimSpace(req.PaymentKey) == "" {
		fields = append(fields, apperr.FieldError{Field: "paymentKey", Message: "required"})
	}
	if strings.TrimSpace(req.OrderID) == "" {
		fields = append(fields, apperr.FieldError{Field: "orderId", Message: "required"})
	}
	if req.Amount <= 0 {
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "must be positive"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("missing required fields", fields...)
	}

	o, err := s.loadOwned(ctx, buyerID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusPendingPayment {
		return nil, apperr.Conflict("ORDER_NOT_PENDING", "order is "+string(o.Status))
	}
	if req.Amount != o.TotalAmount {
		return nil, apperr.Validation("amount does not match order total",
			apperr.FieldError{Field: "amount", Message: "must equal the order total"})
	}

	p, err := s.gateway.Confirm(ctx, req.PaymentKey, o.ID, o.TotalAmount)
	if err != nil {
		if declined(err) {
			if aerr := order.Advance(ctx, s.orders, o, order.StatusFailed, req.PaymentKey); aerr != nil {
				log.Printf("[payment] order=%s mark failed: %v", o.ID, aerr)
			}
		}
		log.Printf("[payment] order=%s buyer=%s confirm rejected: %v", o.ID, buyerID, err)
		return nil, err
	}

	if !p.TotalAmount.Equal(decimal.NewFromInt(o.TotalAmount)) {
		// The order stays PENDING_PAYMENT.
		log.Printf("[payment] order=%s amount mismatch gateway=%s order=%d", o.ID, p.TotalAmount, o.TotalAmount)
		return nil, apperr.GatewayRejected(http.StatusBadGateway, "AMOUNT_MISMATCH", "gateway confirmed a different amount").WithDetails(p)
	}

	if err := order.Advance(ctx, s.orders, o, order.StatusConfirmed, p.PaymentKey); err != nil {
		return nil, apperr.Persistence("failed to update order", err)
	}
	log.Printf("[payment] order=%s buyer=%s confirmed amount=%d", o.ID, buyerID, o.TotalAmount)
	return p, nil
}

// declined reports whether the gateway answered with a refusal, as opposed to
// being unreachable, in which case the capture outcome is unknown.
func declined(err error) bool {
	e, ok := apperr.As(err)
	if !ok || e.Kind != apperr.KindGatewayRejected {
		return false
	}
	switch e.Code {
	case codeUnreachable, codeUnreadable, codeBadResponse:
		return false
	}
	return true
}

// Fail records a cancelled or failed widget flow for a pending order.
func (s *Service) Fail(ctx context.Context, buyerID string, req FailRequest) (*order.Order, error) {
	if buyerID == "" {
		return nil, apperr.Unauthorized("")
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, apperr.Validation("orderId is required",
			apperr.FieldError{Field: "orderId", Message: "required"})
	}
	o, err := s.loadOwned(ctx, buyerID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if o.Status == order.StatusFailed {
		return o, nil
	}
	if err := order.Advance(ctx, s.orders, o, order.StatusFailed, ""); err != nil {
		var te *order.TransitionError
		if errors.As(err, &te) || errors.Is(err, order.ErrStaleStatus) {
			return nil, apperr.Conflict("ORDER_NOT_PENDING", "order can no longer be failed")
		}
		return nil, apperr.Persistence("failed to update order", err)
	}
	log.Printf("[payment] order=%s buyer=%s failed code=%s message=%q", o.ID, buyerID, req.Code, req.Message)
	return o, nil
}
