package handlers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"swapboard/internal/http/handlers"
	"swapboard/internal/metrics"
)

func TestOpsEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.AdMutation("create")
	m.Denied("proposal")

	app := fiber.New()
	handlers.Ops(app, reg)

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil || resp.StatusCode != fiber.StatusOK {
		t.Fatalf("healthz: %v %v", resp, err)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`swapboard_ads_total{op="create"} 1`,
		`swapboard_access_denied_total{resource="proposal"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}
