package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/MikeMC777/prompt-store/internal/apperr"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

var svixHeaders = []string{"svix-id", "svix-timestamp", "svix-signature"}

// Event is the identity provider's webhook envelope.
type Event struct {
	Type string    `json:"type"`
	Data eventUser `json:"data"`
}

type eventUser struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

func (u eventUser) email() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return strings.TrimSpace(u.EmailAddresses[0].EmailAddress)
}

// displayName joins first and last name; empty when there is no first name.
func (u eventUser) displayName() string {
	first := strings.TrimSpace(u.FirstName)
	if first == "" {
		return ""
	}
	if last := strings.TrimSpace(u.LastName); last != "" {
		return first + " " + last
	}
	return first
}

// Webhook verifies signed identity events and applies them to profiles.
type Webhook struct {
	secret string
	repo   Repository
}

func NewWebhook(secret string, repo Repository) *Webhook {
	return &Webhook{secret: secret, repo: repo}
}

// Handle verifies payload against the svix headers and applies the event.
// It returns the event type; unknown types are accepted and ignored.
func (w *Webhook) Handle(ctx context.Context, payload []byte, header http.Header) (string, error) {
	if w.secret == "" {
		return "", apperr.Configuration("webhook secret is not configured")
	}
	for _, h := range svixHeaders {
		if header.Get(h) == "" {
			return "", apperr.Validation("missing svix headers")
		}
	}
	wh, err := svix.NewWebhook(w.secret)
	if err != nil {
		return "", apperr.Configuration("webhook secret is invalid")
	}
	if err := wh.Verify(payload, header); err != nil {
		log.Printf("[webhook] signature rejected id=%s: %v", header.Get("svix-id"), err)
		return "", apperr.Validation("invalid signature")
	}

	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return "", apperr.Validation("invalid event payload")
	}
	switch evt.Type {
	case EventUserCreated, EventUserUpdated, EventUserDeleted:
		if evt.Data.ID == "" {
			return evt.Type, apperr.Validation("event has no user id")
		}
		log.Printf("[webhook] event=%s user=%s", evt.Type, evt.Data.ID)
	default:
		log.Printf("[webhook] ignoring event type %s", evt.Type)
		return evt.Type, nil
	}

	switch evt.Type {
	case EventUserCreated:
		return evt.Type, w.created(ctx, evt.Data)
	case EventUserUpdated:
		return evt.Type, w.updated(ctx, evt.Data)
	case EventUserDeleted:
		if _, err := w.repo.Delete(ctx, evt.Data.ID); err != nil {
			return evt.Type, apperr.Persistence("profile deletion failed", err)
		}
	}
	return evt.Type, nil
}

func (w *Webhook) created(ctx context.Context, u eventUser) error {
	email := u.email()
	if email == "" {
		return apperr.Validation("email not found")
	}
	nickname := u.displayName()
	if nickname == "" {
		nickname = strings.SplitN(email, "@", 2)[0]
	}
	p := &Profile{ID: uuid.NewString(), ClerkID: u.ID, Email: email, Nickname: nickname}
	if u.ImageURL != "" {
		avatar := u.ImageURL
		p.AvatarURL = &avatar
	}
	if err := w.repo.Upsert(ctx, p); err != nil {
		return apperr.Persistence("profile creation failed", err)
	}
	return nil
}

func (w *Webhook) updated(ctx context.Context, u eventUser) error {
	_, err := w.repo.Update(ctx, u.ID, Patch{Email: u.email(), Nickname: u.displayName(), AvatarURL: u.ImageURL})
	if errors.Is(err, ErrNotFound) {
		// created event was missed; build the profile from this one
		return w.created(ctx, u)
	}
	if err != nil {
		return apperr.Persistence("profile update failed", err)
	}
	return nil
}
