package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindsMapToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want int
	}{
		{"unauthorized", Unauthorized(""), http.StatusUnauthorized},
		{"validation", Validation("missing"), http.StatusBadRequest},
		{"not found", NotFound(""), http.StatusNotFound},
		{"conflict", Conflict("ALREADY_IN_CART", "dup"), http.StatusConflict},
		{"configuration", Configuration("no key"), http.StatusInternalServerError},
		{"persistence", Persistence("insert", errors.New("boom")), http.StatusInternalServerError},
		{"gateway keeps status", GatewayRejected(http.StatusForbidden, "REJECT_CARD_COMPANY", "declined"), http.StatusForbidden},
		{"gateway bogus status", GatewayRejected(200, "X", "odd"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.StatusCode != tc.want {
				t.Fatalf("status=%d, want %d", tc.err.StatusCode, tc.want)
			}
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("record purchases: %w", Persistence("insert purchases", cause))

	if !IsKind(wrapped, KindPersistence) {
		t.Fatalf("expected persistence kind in chain")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("cause lost through Unwrap")
	}
	if got := From(errors.New("plain")).Kind; got != KindInternal {
		t.Fatalf("plain error classified as %s", got)
	}
}

func TestResponseCodePrefersGatewayCode(t *testing.T) {
	e := GatewayRejected(http.StatusBadRequest, "ALREADY_PROCESSED_PAYMENT", "already processed")
	if e.ResponseCode() != "ALREADY_PROCESSED_PAYMENT" {
		t.Fatalf("code=%s", e.ResponseCode())
	}
	if NotFound("").ResponseCode() != string(KindNotFound) {
		t.Fatalf("default code should be the kind")
	}
}
