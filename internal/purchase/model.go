// Package purchase records completed payments as per-prompt ownership rows.
package purchase

import (
	"time"

	"github.com/MikeMC777/prompt-store/internal/prompt"
)

// StatusCompleted is the only payment status written by the recorder.
const StatusCompleted = "completed"

// Purchase grants BuyerID permanent access to PromptID.
type Purchase struct {
	ID             string    `json:"id"`
	BuyerID        string    `json:"buyer_id"`
	PromptID       string    `json:"prompt_id"`
	PaymentOrderID string    `json:"payment_order_id"`
	PaymentAmount  int64     `json:"payment_amount"`
	PaymentStatus  string    `json:"payment_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Entry is a purchase joined with the prompt it grants, for history listings.
type Entry struct {
	Purchase
	Prompt *prompt.Summary `json:"prompt"`
}

// SaveRequest payload sent by the success page after confirmation.
// swagger:model SaveRequest
type SaveRequest struct {
	PromptIDs   []string `json:"promptIds"`
	OrderID     string   `json:"orderId"     example:"ORDER_3f1c0d6a9b2e4c7f8a5d1e2b3c4d5e6f"`
	TotalAmount int64    `json:"totalAmount" example:"3000"`
}

// SaveResponse reports how many rows the call inserted.
// swagger:model SaveResponse
type SaveResponse struct {
	Success bool   `json:"success" example:"true"`
	Saved   int    `json:"saved"   example:"2"`
	Message string `json:"message" example:"2 purchases saved"`
}
