package order

import "time"

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusConfirmed      Status = "CONFIRMED"
	StatusRecorded       Status = "RECORDED"
	StatusFailed         Status = "FAILED"
)

var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusConfirmed, StatusFailed},
	StatusConfirmed:      {StatusRecorded},
}

// CanTransition reports whether an order may move from one status to another.
// Re-applying the current status is allowed so retried calls stay harmless.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order is the checkout transaction, persisted as PENDING_PAYMENT before the
// payment widget opens. Amounts are in minor currency units.
type Order struct {
	ID          string    `json:"id"`
	BuyerID     string    `json:"buyer_id"`
	Name        string    `json:"order_name"`
	TotalAmount int64     `json:"total_amount"`
	Status      Status    `json:"status"`
	PaymentKey  string    `json:"payment_key,omitempty"`
	Lines       []Line    `json:"lines"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Line snapshots a prompt's title and price at assembly time.
type Line struct {
	PromptID string `json:"prompt_id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
}

// LinePrice returns the captured price for promptID.
func (o *Order) LinePrice(promptID string) (int64, bool) {
	for _, l := range o.Lines {
		if l.PromptID == promptID {
			return l.Price, true
		}
	}
	return 0, false
}

// CheckoutRequest payload of order assembly. An empty list means "use my cart".
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	PromptIDs []string `json:"promptIds" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
}

// CheckoutResponse carries everything the hosted payment widget needs.
// swagger:model CheckoutResponse
type CheckoutResponse struct {
	OrderID     string `json:"orderId"     example:"ORDER_3f1c0d6a9b2e4c7f8a5d1e2b3c4d5e6f"`
	OrderName   string `json:"orderName"   example:"Cinematic portrait pack and 1 others"`
	Amount      int64  `json:"amount"      example:"3000"`
	ClientKey   string `json:"clientKey"`
	CustomerKey string `json:"customerKey"`
	SuccessURL  string `json:"successUrl"`
	FailURL     string `json:"failUrl"`
	Lines       []Line `json:"lines"`
}
