package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
)

type market struct {
	app                 *fiber.App
	alice, bob, carol   string
	aliceAd, bobAd, cAd string
}

func newMarket(t *testing.T) *market {
	t.Helper()
	app := newTestApp(t)
	m := &market{app: app, alice: login(t, app, "alice"), bob: login(t, app, "bob"), carol: login(t, app, "carol")}
	m.aliceAd = createAd(t, app, m.alice, "Skateboard", "Sports", "used")["id"].(string)
	m.bobAd = createAd(t, app, m.bob, "Headphones", "Audio", "new")["id"].(string)
	m.cAd = createAd(t, app, m.carol, "Board game", "Games", "used")["id"].(string)
	return m
}

func (m *market) propose(t *testing.T, token, sender, receiver string) (int, map[string]any) {
	t.Helper()
	return call(t, m.app, "POST", "/api/proposals", token, map[string]string{
		"ad_sender": sender, "ad_receiver": receiver, "comment": "interested in a swap",
	})
}

func TestProposalCreateForcesPending(t *testing.T) {
	m := newMarket(t)
	code, body := call(t, m.app, "POST", "/api/proposals", m.alice, map[string]string{
		"ad_sender": m.aliceAd, "ad_receiver": m.bobAd, "comment": "swap?", "status": "accepted",
	})
	if code != fiber.StatusCreated {
		t.Fatalf("create: %d %v", code, body)
	}
	if body["status"] != "pending" || body["id"] == "" || body["created_at"] == "" {
		t.Fatalf("unexpected proposal: %v", body)
	}
}

func TestProposalCreateRejections(t *testing.T) {
	m := newMarket(t)

	cases := []struct {
		name     string
		token    string
		sender   string
		receiver string
		want     int
		msg      string
	}{
		{"same ad", m.alice, m.aliceAd, m.aliceAd, fiber.StatusBadRequest, "cannot propose exchange on the same ad"},
		{"foreign sender", m.alice, m.bobAd, m.cAd, fiber.StatusForbidden, "may only propose using own ads"},
		{"missing receiver", m.bob, m.bobAd, m.bobAd + "x", fiber.StatusNotFound, ""},
		{"missing sender", m.alice, "nope", m.bobAd, fiber.StatusNotFound, ""},
	}
	for _, tc := range cases {
		code, body := m.propose(t, tc.token, tc.sender, tc.receiver)
		if code != tc.want {
			t.Fatalf("%s: expected %d, got %d body=%v", tc.name, tc.want, code, body)
		}
		if tc.msg != "" && body["error"] != tc.msg {
			t.Fatalf("%s: message %v", tc.name, body["error"])
		}
	}

	second := createAd(t, m.app, m.alice, "Helmet", "Sports", "new")["id"].(string)
	code, body := m.propose(t, m.alice, m.aliceAd, second)
	if code != fiber.StatusForbidden || body["error"] != "cannot target own ad" {
		t.Fatalf("own receiver: %d %v", code, body)
	}

	code, body = call(t, m.app, "POST", "/api/proposals", m.alice, map[string]string{"ad_sender": m.aliceAd})
	if code != fiber.StatusBadRequest {
		t.Fatalf("missing fields: %d %v", code, body)
	}
	if code, _ = m.propose(t, "", m.aliceAd, m.bobAd); code != fiber.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", code)
	}
}

func TestProposalDuplicatePair(t *testing.T) {
	m := newMarket(t)
	if code, _ := m.propose(t, m.alice, m.aliceAd, m.bobAd); code != fiber.StatusCreated {
		t.Fatalf("first: %d", code)
	}
	code, body := m.propose(t, m.alice, m.aliceAd, m.bobAd)
	if code != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d %v", code, body)
	}
	// the reverse direction is a different pair
	if code, _ = m.propose(t, m.bob, m.bobAd, m.aliceAd); code != fiber.StatusCreated {
		t.Fatalf("reverse pair: expected 201, got %d", code)
	}
}

func TestProposalListScopedToParticipant(t *testing.T) {
	m := newMarket(t)
	m.propose(t, m.alice, m.aliceAd, m.bobAd)
	m.propose(t, m.carol, m.cAd, m.bobAd)

	_, body := call(t, m.app, "GET", "/api/proposals/list", m.bob, nil)
	if body["count"] != float64(2) {
		t.Fatalf("bob should see both: %v", body)
	}
	_, body = call(t, m.app, "GET", "/api/proposals/list", m.alice, nil)
	if rs := results(t, body); len(rs) != 1 || rs[0]["ad_sender"] != m.aliceAd {
		t.Fatalf("alice scope: %v", body)
	}
	_, body = call(t, m.app, "GET", "/api/proposals/list?ad_sender="+m.cAd, m.alice, nil)
	if body["count"] != float64(0) {
		t.Fatalf("alice must not see carol's proposal: %v", body)
	}
	_, body = call(t, m.app, "GET", "/api/proposals/list?ad_sender="+m.cAd+"&status=pending", m.bob, nil)
	if body["count"] != float64(1) {
		t.Fatalf("filtered: %v", body)
	}

	code, _ := call(t, m.app, "GET", "/api/proposals/list?status=maybe", m.bob, nil)
	if code != fiber.StatusBadRequest {
		t.Fatalf("bad status filter: expected 400, got %d", code)
	}
	code, _ = call(t, m.app, "GET", "/api/proposals/list", "", nil)
	if code != fiber.StatusUnauthorized {
		t.Fatalf("anonymous list: expected 401, got %d", code)
	}
}

func TestProposalStatusUpdate(t *testing.T) {
	m := newMarket(t)
	_, p := m.propose(t, m.alice, m.aliceAd, m.bobAd)
	path := "/api/proposals/" + p["id"].(string)

	var code int
	var body map[string]any
	logs := captureLogs(t, func() {
		code, body = call(t, m.app, "PATCH", path, m.alice, map[string]string{"status": "accepted"})
	})
	if code != fiber.StatusForbidden || body["error"] != "only the receiving ad's owner may change status" {
		t.Fatalf("sender update: %d %v", code, body)
	}
	if _, ok := findAction(logs, "access.denied.proposal"); !ok {
		t.Fatalf("access.denied.proposal not logged")
	}

	// permission is decided before the value is checked
	if code, _ = call(t, m.app, "PATCH", path, m.carol, map[string]string{"status": "bogus"}); code != fiber.StatusForbidden {
		t.Fatalf("outsider with bad value: expected 403, got %d", code)
	}
	if code, _ = call(t, m.app, "PATCH", path, m.bob, map[string]string{"status": "bogus"}); code != fiber.StatusBadRequest {
		t.Fatalf("bad value: expected 400, got %d", code)
	}

	code, body = call(t, m.app, "PATCH", path, m.bob, map[string]string{"status": "accepted"})
	if code != fiber.StatusOK || body["status"] != "accepted" {
		t.Fatalf("receiver accept: %d %v", code, body)
	}
	// transitions are unrestricted
	code, body = call(t, m.app, "PUT", path, m.bob, map[string]string{"status": "pending"})
	if code != fiber.StatusOK || body["status"] != "pending" {
		t.Fatalf("back to pending: %d %v", code, body)
	}

	if code, _ = call(t, m.app, "PATCH", "/api/proposals/unknown", m.bob, map[string]string{"status": "rejected"}); code != fiber.StatusNotFound {
		t.Fatalf("unknown proposal: expected 404, got %d", code)
	}
}
