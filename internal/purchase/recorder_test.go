package purchase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/MikeMC777/prompt-store/internal/apperr"
	"github.com/MikeMC777/prompt-store/internal/cart"
	"github.com/MikeMC777/prompt-store/internal/order"
	"github.com/MikeMC777/prompt-store/internal/prompt"
)

func init() {
	log.SetOutput(io.Discard)
}

type failingRepo struct{ Repository }

func (failingRepo) Record(ctx context.Context, rows []Purchase) (int, error) {
	return 0, errors.New("disk full")
}

type fixture struct {
	catalog  *prompt.MemRepo
	orders   *order.MemRepo
	repo     *MemRepo
	cart     *cart.MemoryStore
	recorder *Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{catalog: prompt.NewMemRepo(), orders: order.NewMemRepo(), cart: cart.NewMemoryStore()}
	for _, p := range []prompt.Prompt{
		{ID: "p1", Title: "One", Price: 1000, IsActive: true},
		{ID: "p2", Title: "Two", Price: 2000, IsActive: true},
	} {
		p := p
		if err := f.catalog.Create(ctx, &p); err != nil {
			t.Fatalf("seed prompt: %v", err)
		}
	}
	f.repo = NewMemRepo(f.catalog)
	f.recorder = NewRecorder(f.repo, f.catalog, f.orders, f.cart)
	return f
}

func (f *fixture) confirmedOrder(t *testing.T, id, buyer string, lines ...order.Line) *order.Order {
	t.Helper()
	o := &order.Order{ID: id, BuyerID: buyer, Status: order.StatusConfirmed, Lines: lines, TotalAmount: order.ComputeTotal(lines)}
	if err := f.orders.Create(context.Background(), o); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func TestRecord_SavesConfirmedOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmedOrder(t, "ORDER_1", "u1",
		order.Line{PromptID: "p1", Price: 1000}, order.Line{PromptID: "p2", Price: 2000})
	_, _ = f.cart.Add(ctx, "u1", cart.Item{PromptID: "p1"})
	_, _ = f.cart.Add(ctx, "u1", cart.Item{PromptID: "p2"})

	n, err := f.recorder.Record(ctx, "u1", []string{"p1", "p2"}, "ORDER_1", 3000)
	if err != nil || n != 2 {
		t.Fatalf("record: n=%d err=%v", n, err)
	}

	history, _ := f.recorder.History(ctx, "u1", 0, 0)
	if len(history) != 2 {
		t.Fatalf("history=%v", history)
	}
	for _, h := range history {
		if h.PaymentOrderID != "ORDER_1" || h.PaymentStatus != StatusCompleted || h.Prompt == nil {
			t.Fatalf("row=%+v", h)
		}
	}
	o, _ := f.orders.GetByID(ctx, "ORDER_1")
	if o.Status != order.StatusRecorded {
		t.Fatalf("order status=%s", o.Status)
	}
	if items, _ := f.cart.List(ctx, "u1"); len(items) != 0 {
		t.Fatalf("cart not cleared: %v", items)
	}
}

func TestRecord_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmedOrder(t, "ORDER_1", "u1", order.Line{PromptID: "p1", Price: 1000})

	if n, err := f.recorder.Record(ctx, "u1", []string{"p1"}, "ORDER_1", 1000); err != nil || n != 1 {
		t.Fatalf("first: n=%d err=%v", n, err)
	}
	n, err := f.recorder.Record(ctx, "u1", []string{"p1"}, "ORDER_1", 1000)
	if err != nil || n != 0 {
		t.Fatalf("second: n=%d err=%v", n, err)
	}
	history, _ := f.recorder.History(ctx, "u1", 0, 0)
	if len(history) != 1 {
		t.Fatalf("duplicate rows: %d", len(history))
	}
}

func TestRecord_SkipsUnresolvedIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmedOrder(t, "ORDER_1", "u1", order.Line{PromptID: "p1", Price: 1000})

	n, err := f.recorder.Record(ctx, "u1", []string{"p1", "deleted"}, "ORDER_1", 1000)
	if err != nil || n != 1 {
		t.Fatalf("partial: n=%d err=%v", n, err)
	}
	if _, err := f.recorder.Record(ctx, "u1", []string{"gone", "deleted"}, "ORDER_1", 1000); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("nothing resolves: %v", err)
	}
}

func TestRecord_UnknownOrderIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.recorder.Record(ctx, "u1", []string{"p1", "p2"}, "MADE_UP", 1); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if history, _ := f.recorder.History(ctx, "u1", 0, 0); len(history) != 0 {
		t.Fatalf("rows written without an order: %v", history)
	}
}

func TestRecord_UsesCheckoutPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmedOrder(t, "ORDER_1", "u1", order.Line{PromptID: "p1", Price: 800})
	price := int64(5000)
	_, _ = f.catalog.Update(ctx, "p1", prompt.UpdatePromptRequest{Price: &price})

	if _, err := f.recorder.Record(ctx, "u1", []string{"p1", "p2"}, "ORDER_1", 800); err != nil {
		t.Fatalf("record: %v", err)
	}
	history, _ := f.recorder.History(ctx, "u1", 0, 0)
	if len(history) != 1 {
		t.Fatalf("prompt outside the order should be skipped: %v", history)
	}
	if history[0].PaymentAmount != 800 {
		t.Fatalf("amount=%d, want checkout price 800", history[0].PaymentAmount)
	}
}

func TestRecord_DeactivatedPromptStillRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmedOrder(t, "ORDER_1", "u1", order.Line{PromptID: "p2", Price: 2000})
	_, _ = f.catalog.Deactivate(ctx, "p2")

	n, err := f.recorder.Record(ctx, "u1", []string{"p2"}, "ORDER_1", 2000)
	if err != nil || n != 1 {
		t.Fatalf("record: n=%d err=%v", n, err)
	}
}

// ===== Grant =====

func TestGrant_UsesCatalogPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.cart.Add(ctx, "u1", cart.Item{PromptID: "p2"})

	n, err := f.recorder.Grant(ctx, "u1", []string{"p2", "deleted"}, "TEST_ORDER_1")
	if err != nil || n != 1 {
		t.Fatalf("grant: n=%d err=%v", n, err)
	}
	history, _ := f.recorder.History(ctx, "u1", 0, 0)
	if len(history) != 1 || history[0].PaymentAmount != 2000 || history[0].PaymentOrderID != "TEST_ORDER_1" {
		t.Fatalf("history=%+v", history)
	}
	if items, _ := f.cart.List(ctx, "u1"); len(items) != 0 {
		t.Fatalf("cart not cleared: %v", items)
	}
	if n, err := f.recorder.Grant(ctx, "u1", []string{"p2"}, "TEST_ORDER_1"); err != nil || n != 0 {
		t.Fatalf("repeat: n=%d err=%v", n, err)
	}
}

func TestGrant_RefusesCheckoutOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmedOrder(t, "ORDER_1", "u1", order.Line{PromptID: "p1", Price: 1000})

	if _, err := f.recorder.Grant(ctx, "u1", []string{"p1"}, "ORDER_1"); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
	if _, err := f.recorder.Grant(ctx, "", []string{"p1"}, "TEST_ORDER_1"); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Fatalf("anonymous: %v", err)
	}
	if _, err := f.recorder.Grant(ctx, "u1", nil, "TEST_ORDER_1"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("no ids: %v", err)
	}
}

func TestRecord_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.confirmedOrder(t, "ORDER_1", "u1", order.Line{PromptID: "p1", Price: 1000})
	_ = f.orders.Create(ctx, &order.Order{ID: "ORDER_P", BuyerID: "u1", Status: order.StatusPendingPayment, TotalAmount: 1000})

	cases := []struct {
		name  string
		buyer string
		ids   []string
		order string
		total int64
		kind  apperr.Kind
	}{
		{"anonymous", "", []string{"p1"}, "ORDER_1", 1000, apperr.KindUnauthorized},
		{"no ids", "u1", nil, "ORDER_1", 1000, apperr.KindValidation},
		{"no order", "u1", []string{"p1"}, "", 1000, apperr.KindValidation},
		{"zero total", "u1", []string{"p1"}, "ORDER_1", 0, apperr.KindValidation},
		{"foreign order", "u2", []string{"p1"}, "ORDER_1", 1000, apperr.KindNotFound},
		{"unpaid order", "u1", []string{"p1"}, "ORDER_P", 1000, apperr.KindValidation},
		{"wrong total", "u1", []string{"p1"}, "ORDER_1", 999, apperr.KindValidation},
		{"unknown order", "u1", []string{"p1"}, "MADE_UP", 1000, apperr.KindNotFound},
	}
	for _, tc := range cases {
		if _, err := f.recorder.Record(ctx, tc.buyer, tc.ids, tc.order, tc.total); !apperr.IsKind(err, tc.kind) {
			t.Fatalf("%s: want %s, got %v", tc.name, tc.kind, err)
		}
	}

	broken := NewRecorder(failingRepo{f.repo}, f.catalog, f.orders, f.cart)
	if _, err := broken.Record(ctx, "u1", []string{"p1"}, "ORDER_1", 1000); !apperr.IsKind(err, apperr.KindPersistence) {
		t.Fatalf("storage failure: %v", err)
	}
	o, _ := f.orders.GetByID(ctx, "ORDER_1")
	if o.Status != order.StatusConfirmed {
		t.Fatalf("order advanced despite failed insert: %s", o.Status)
	}
}

func TestSavedMessage(t *testing.T) {
	if SavedMessage(2) != "2 purchases saved" || SavedMessage(0) != "purchases already saved" {
		t.Fatalf("unexpected messages")
	}
}
