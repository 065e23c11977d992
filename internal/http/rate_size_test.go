package handlers_test

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// burst login attempts return 429
func TestLoginRateLimit(t *testing.T) {
	app := newTestApp(t)

	var codes []int
	logs := captureLogs(t, func() {
		for i := 0; i < 6; i++ {
			code, _ := call(t, app, "POST", "/api/login", "", map[string]string{
				"email": "nobody@swapboard.test", "password": "Wr0ng-pass",
			})
			codes = append(codes, code)
		}
	})
	for i, code := range codes[:5] {
		if code == fiber.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
	}
	if codes[5] != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", codes[5])
	}
	if _, ok := findAction(logs, "rate.login.hit"); !ok {
		t.Fatalf("rate.login.hit not logged")
	}
}

// oversized POST rejected with 413
func TestBodySizeLimit(t *testing.T) {
	app := newTestApp(t)
	tok := login(t, app, "alice")

	oversize := `{"title":"` + strings.Repeat("A", (1<<20)+10) + `"}`
	req := httptest.NewRequest("POST", "/api/ads", bytes.NewReader([]byte(oversize)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	// Fiber returns an error instead of a response when body too large; treat that as pass
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversize, got %d", resp.StatusCode)
	}
}

func TestMalformedBody(t *testing.T) {
	app := newTestApp(t)
	tok := login(t, app, "alice")

	req := httptest.NewRequest("POST", "/api/ads", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", resp.StatusCode)
	}
}
