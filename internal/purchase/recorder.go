package purchase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/MikeMC777/prompt-store/internal/apperr"
	"github.com/MikeMC777/prompt-store/internal/order"
	"github.com/MikeMC777/prompt-store/internal/prompt"
)

type Catalog interface {
	FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]prompt.Prompt, error)
}

// CartRemover drops recorded prompts from the buyer's server cart.
type CartRemover interface {
	Remove(ctx context.Context, owner, promptID string) error
}

// Recorder turns a confirmed payment into purchase rows.
type Recorder struct {
	repo    Repository
	catalog Catalog
	orders  order.Repository
	cart    CartRemover
}

func NewRecorder(repo Repository, catalog Catalog, orders order.Repository, cart CartRemover) *Recorder {
	return &Recorder{repo: repo, catalog: catalog, orders: orders, cart: cart}
}

// Record writes one purchase per resolvable prompt id and returns how many rows
// were inserted. Ids that do not resolve are skipped; a repeated call with the
// same arguments inserts nothing and returns 0.
//
// orderID must name a stored order that belongs to buyerID and is confirmed.
// Each row takes the price captured on the order line and ids that are not on
// the order are skipped.
func (r *Recorder) Record(ctx context.Context, buyerID string, promptIDs []string, orderID string, totalAmount int64) (int, error) {
	if buyerID == "" {
		return 0, apperr.Unauthorized("")
	}
	ids, orderID, fields := checkRequest(promptIDs, orderID)
	if totalAmount <= 0 {
		fields = append(fields, apperr.FieldError{Field: "totalAmount", Message: "must be positive"})
	}
	if len(fields) > 0 {
		return 0, apperr.Validation("missing required fields", fields...)
	}

	o, err := r.orders.GetByID(ctx, orderID)
	switch {
	case errors.Is(err, order.ErrNotFound):
		return 0, apperr.NotFound("order not found")
	case err != nil:
		return 0, apperr.Persistence("failed to load order", err)
	case o.BuyerID != buyerID:
		return 0, apperr.NotFound("order not found")
	case o.Status != order.StatusConfirmed && o.Status != order.StatusRecorded:
		return 0, apperr.Validation("order is not paid",
			apperr.FieldError{Field: "orderId", Message: "order status is " + string(o.Status)})
	case o.TotalAmount != totalAmount:
		return 0, apperr.Validation("totalAmount does not match order",
			apperr.FieldError{Field: "totalAmount", Message: "must equal the paid amount"})
	}

	found, err := r.catalog.FindByIDs(ctx, ids, false)
	if err != nil {
		return 0, apperr.Persistence("failed to load prompts", err)
	}
	rows := make([]Purchase, 0, len(found))
	for _, p := range found {
		price, ok := o.LinePrice(p.ID)
		if !ok {
			log.Printf("[purchase] order=%s prompt=%s not on order, skipped", orderID, p.ID)
			continue
		}
		rows = append(rows, newRow(buyerID, p.ID, orderID, price))
	}

	inserted, err := r.save(ctx, buyerID, orderID, len(ids), rows)
	if err != nil {
		return 0, err
	}
	if err := order.Advance(ctx, r.orders, o, order.StatusRecorded, ""); err != nil {
		log.Printf("[purchase] order=%s mark recorded: %v", orderID, err)
	}
	return inserted, nil
}

// Grant records prompts at their current catalog price without a paid order.
// It backs the development grant route only; orderID must not name a stored
// order.
func (r *Recorder) Grant(ctx context.Context, buyerID string, promptIDs []string, orderID string) (int, error) {
	if buyerID == "" {
		return 0, apperr.Unauthorized("")
	}
	ids, orderID, fields := checkRequest(promptIDs, orderID)
	if len(fields) > 0 {
		return 0, apperr.Validation("missing required fields", fields...)
	}
	switch _, err := r.orders.GetByID(ctx, orderID); {
	case err == nil:
		return 0, apperr.Conflict("ORDER_EXISTS", "order id belongs to a checkout")
	case !errors.Is(err, order.ErrNotFound):
		return 0, apperr.Persistence("failed to load order", err)
	}

	found, err := r.catalog.FindByIDs(ctx, ids, false)
	if err != nil {
		return 0, apperr.Persistence("failed to load prompts", err)
	}
	rows := make([]Purchase, 0, len(found))
	for _, p := range found {
		rows = append(rows, newRow(buyerID, p.ID, orderID, p.Price))
	}
	return r.save(ctx, buyerID, orderID, len(ids), rows)
}

func checkRequest(promptIDs []string, orderID string) ([]string, string, []apperr.FieldError) {
	var fields []apperr.FieldError
	ids := dedupe(promptIDs)
	if len(ids) == 0 {
		fields = append(fields, apperr.FieldError{Field: "promptIds", Message: "must contain at least one id"})
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		fields = append(fields, apperr.FieldError{Field: "orderId", Message: "required"})
	}
	return ids, orderID, fields
}

func newRow(buyerID, promptID, orderID string, price int64) Purchase {
	return Purchase{
		BuyerID:        buyerID,
		PromptID:       promptID,
		PaymentOrderID: orderID,
		PaymentAmount:  price,
		PaymentStatus:  StatusCompleted,
	}
}

// save inserts rows and drops them from the buyer's server cart.
func (r *Recorder) save(ctx context.Context, buyerID, orderID string, requested int, rows []Purchase) (int, error) {
	if len(rows) == 0 {
		return 0, apperr.NotFound("no prompts found")
	}
	if skipped := requested - len(rows); skipped > 0 {
		log.Printf("[purchase] order=%s buyer=%s %d of %d ids did not resolve", orderID, buyerID, skipped, requested)
	}

	inserted, err := r.repo.Record(ctx, rows)
	if err != nil {
		return 0, apperr.Persistence("failed to save purchases", err)
	}
	if r.cart != nil {
		for _, row := range rows {
			if err := r.cart.Remove(ctx, buyerID, row.PromptID); err != nil {
				log.Printf("[purchase] buyer=%s prompt=%s cart cleanup: %v", buyerID, row.PromptID, err)
			}
		}
	}

	log.Printf("[purchase] order=%s buyer=%s saved=%d", orderID, buyerID, inserted)
	return inserted, nil
}

// SavedMessage is the human-readable summary returned with a record call.
func SavedMessage(n int) string {
	if n == 0 {
		return "purchases already saved"
	}
	return fmt.Sprintf("%d purchases saved", n)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// History lists buyerID's purchases, newest first.
func (r *Recorder) History(ctx context.Context, buyerID string, limit, offset int) ([]Entry, error) {
	if buyerID == "" {
		return nil, apperr.Unauthorized("")
	}
	items, err := r.repo.ListByBuyer(ctx, buyerID, limit, offset)
	if err != nil {
		return nil, apperr.Persistence("failed to load purchases", err)
	}
	return items, nil
}
