package order

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeMC777/prompt-store/internal/apperr"
	"github.com/MikeMC777/prompt-store/internal/prompt"
)

// Catalog resolves prompt ids to their current catalog entries.
type Catalog interface {
	FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]prompt.Prompt, error)
}

// Ownership reports whether a buyer already holds a prompt.
type Ownership interface {
	HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error)
}

// ComputeTotal sums line prices.
func ComputeTotal(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Price
	}
	return total
}

// OrderName builds the label shown by the payment widget.
func OrderName(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}
	first := strings.TrimSpace(lines[0].Title)
	if first == "" {
		first = "prompt"
	}
	if len(lines) == 1 {
		return first
	}
	return fmt.Sprintf("%s and %d others", first, len(lines)-1)
}

// CodeAlreadyPurchased is returned when every selected prompt is already owned.
const CodeAlreadyPurchased = "ALREADY_PURCHASED"

// NewOrderID returns a gateway-traceable identifier built from a random UUID.
func NewOrderID() string {
	return "ORDER_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Assembler turns a list of prompt ids into a persisted pending order.
type Assembler struct {
	catalog Catalog
	repo    Repository
	owners  Ownership
	newID   func() string
}

// NewAssembler builds an Assembler; a nil owners skips the ownership check.
func NewAssembler(catalog Catalog, repo Repository, owners Ownership) *Assembler {
	return &Assembler{catalog: catalog, repo: repo, owners: owners, newID: NewOrderID}
}

// Assemble resolves exactly the given ids against the active catalog, drops the
// ones that no longer resolve or that the buyer already owns and stores the
// order as PENDING_PAYMENT.
func (a *Assembler) Assemble(ctx context.Context, buyerID string, promptIDs []string) (*Order, error) {
	if buyerID == "" {
		return nil, apperr.Unauthorized("")
	}
	ids := dedupe(promptIDs)
	if len(ids) == 0 {
		return nil, apperr.Validation("promptIds is required",
			apperr.FieldError{Field: "promptIds", Message: "must contain at least one id"})
	}

	found, err := a.catalog.FindByIDs(ctx, ids, true)
	if err != nil {
		return nil, apperr.Persistence("failed to load prompts", err)
	}
	byID := make(map[string]prompt.Prompt, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	lines := make([]Line, 0, len(ids))
	owned := 0
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			log.Printf("[order] buyer=%s prompt=%s no longer available, dropped from checkout", buyerID, id)
			continue
		}
		if a.owners != nil {
			has, err := a.owners.HasPurchased(ctx, buyerID, id)
			if err != nil {
				return nil, apperr.Persistence("failed to check purchases", err)
			}
			if has {
				log.Printf("[order] buyer=%s prompt=%s already owned, dropped from checkout", buyerID, id)
				owned++
				continue
			}
		}
		lines = append(lines, Line{PromptID: p.ID, Title: p.Title, Price: p.Price})
	}
	if len(lines) == 0 {
		if owned > 0 {
			return nil, apperr.Conflict(CodeAlreadyPurchased, "the selected prompts are already purchased")
		}
		return nil, apperr.NotFound("none of the selected prompts are available")
	}

	o := &Order{
		ID:          a.newID(),
		BuyerID:     buyerID,
		Name:        OrderName(lines),
		TotalAmount: ComputeTotal(lines),
		Status:      StatusPendingPayment,
		Lines:       lines,
	}
	if err := a.repo.Create(ctx, o); err != nil {
		return nil, apperr.Persistence("failed to create order", err)
	}
	log.Printf("[order] created order=%s buyer=%s lines=%d total=%d", o.ID, buyerID, len(lines), o.TotalAmount)
	return o, nil
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
