package profile

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"strconv"
	"testing"
	"time"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/MikeMC777/prompt-store/internal/apperr"
)

func init() {
	log.SetOutput(io.Discard)
}

var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("profile-webhook-test-secret"))

func signed(t *testing.T, payload string) http.Header {
	t.Helper()
	wh, err := svix.NewWebhook(testSecret)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	now := time.Now()
	sig, err := wh.Sign("msg_1", now, []byte(payload))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	h := http.Header{}
	h.Set("svix-id", "msg_1")
	h.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
	h.Set("svix-signature", sig)
	return h
}

const createdPayload = `{"type":"user.created","data":{"id":"user_1",
  "email_addresses":[{"email_address":"kim@example.com"}],
  "first_name":"Min","last_name":"Kim","image_url":"https://img/1.png"}}`

func TestWebhook_CreatedUpdatedDeleted(t *testing.T) {
	repo := NewMemRepo()
	w := NewWebhook(testSecret, repo)
	ctx := context.Background()

	if _, err := w.Handle(ctx, []byte(createdPayload), signed(t, createdPayload)); err != nil {
		t.Fatalf("created: %v", err)
	}
	p, err := repo.GetByClerkID(ctx, "user_1")
	if err != nil || p.Nickname != "Min Kim" || p.Email != "kim@example.com" || p.AvatarURL == nil {
		t.Fatalf("profile=%+v err=%v", p, err)
	}

	updated := `{"type":"user.updated","data":{"id":"user_1","email_addresses":[{"email_address":"new@example.com"}]}}`
	if _, err := w.Handle(ctx, []byte(updated), signed(t, updated)); err != nil {
		t.Fatalf("updated: %v", err)
	}
	p, _ = repo.GetByClerkID(ctx, "user_1")
	if p.Email != "new@example.com" || p.Nickname != "Min Kim" {
		t.Fatalf("update should only touch provided fields: %+v", p)
	}

	deleted := `{"type":"user.deleted","data":{"id":"user_1"}}`
	if _, err := w.Handle(ctx, []byte(deleted), signed(t, deleted)); err != nil {
		t.Fatalf("deleted: %v", err)
	}
	if _, err := repo.GetByClerkID(ctx, "user_1"); err != ErrNotFound {
		t.Fatalf("profile not deleted: %v", err)
	}
}

func TestWebhook_NicknameFallsBackToEmail(t *testing.T) {
	repo := NewMemRepo()
	w := NewWebhook(testSecret, repo)
	payload := `{"type":"user.created","data":{"id":"user_2","email_addresses":[{"email_address":"lee@example.com"}]}}`

	if _, err := w.Handle(context.Background(), []byte(payload), signed(t, payload)); err != nil {
		t.Fatalf("created: %v", err)
	}
	p, _ := repo.GetByClerkID(context.Background(), "user_2")
	if p.Nickname != "lee" || p.AvatarURL != nil {
		t.Fatalf("profile=%+v", p)
	}
}

func TestWebhook_Rejections(t *testing.T) {
	ctx := context.Background()
	w := NewWebhook(testSecret, NewMemRepo())

	if _, err := w.Handle(ctx, []byte(createdPayload), http.Header{}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("missing headers: %v", err)
	}

	h := signed(t, createdPayload)
	tampered := []byte(createdPayload[:len(createdPayload)-2] + ` }}`)
	if _, err := w.Handle(ctx, tampered, h); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("tampered body: %v", err)
	}

	noEmail := `{"type":"user.created","data":{"id":"user_3","email_addresses":[]}}`
	if _, err := w.Handle(ctx, []byte(noEmail), signed(t, noEmail)); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("no email: %v", err)
	}

	noID := `{"type":"user.deleted","data":{"deleted":true}}`
	if _, err := w.Handle(ctx, []byte(noID), signed(t, noID)); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("user event without id: %v", err)
	}

	unconfigured := NewWebhook("", NewMemRepo())
	if _, err := unconfigured.Handle(ctx, []byte(createdPayload), h); !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("no secret: %v", err)
	}
}

func TestWebhook_IgnoresOtherEvents(t *testing.T) {
	payload := `{"type":"session.created","data":{"id":"sess_1"}}`
	typ, err := NewWebhook(testSecret, NewMemRepo()).Handle(context.Background(), []byte(payload), signed(t, payload))
	if err != nil || typ != "session.created" {
		t.Fatalf("type=%q err=%v", typ, err)
	}

	noID := `{"type":"email.created","data":{"to_email_address":"kim@example.com"}}`
	typ, err = NewWebhook(testSecret, NewMemRepo()).Handle(context.Background(), []byte(noID), signed(t, noID))
	if err != nil || typ != "email.created" {
		t.Fatalf("event without a user id: type=%q err=%v", typ, err)
	}
}

func TestService_Update(t *testing.T) {
	repo := NewMemRepo()
	ctx := context.Background()
	_ = repo.Upsert(ctx, &Profile{ID: "1", ClerkID: "user_1", Email: "a@b.c", Nickname: "a"})
	svc := NewService(repo)

	if _, err := svc.Update(ctx, "user_1", UpdateProfileRequest{}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("empty update: %v", err)
	}
	p, err := svc.Update(ctx, "user_1", UpdateProfileRequest{Nickname: " neo "})
	if err != nil || p.Nickname != "neo" || p.Email != "a@b.c" {
		t.Fatalf("update: %+v %v", p, err)
	}
	if _, err := svc.Get(ctx, "ghost"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("missing profile: %v", err)
	}
}
