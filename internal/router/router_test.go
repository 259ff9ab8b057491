package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/thali-menu/api/internal/catalog"
	"github.com/thali-menu/api/internal/config"
	"github.com/thali-menu/api/internal/metrics"
	"github.com/thali-menu/api/internal/router"
	"github.com/thali-menu/api/internal/service"
	"github.com/thali-menu/api/internal/ws"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		SessionSecret:  "router-secret",
		SessionTTL:     time.Minute,
		AllowedOrigins: []string{"http://localhost:19006"},
	}
	m := metrics.New()
	hub := ws.NewHub()
	svc := service.NewSessionService(catalog.NewSampleProvider(), hub, m, cfg.SessionSecret, cfg.SessionTTL)
	return router.New(cfg, svc, hub, m)
}

func request(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type openResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

func open(t *testing.T, h http.Handler) openResponse {
	t.Helper()
	rr := request(t, h, "POST", "/sessions", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("open: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp openResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	rr := request(t, setup(t), "GET", "/health", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("got %d %s", rr.Code, rr.Body.String())
	}
}

func TestMetricsExposed(t *testing.T) {
	h := setup(t)
	open(t, h)

	rr := request(t, h, "GET", "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "menu_sessions_opened_total 1") {
		t.Error("expected sessions opened counter in metrics output")
	}
}

func TestSessionRoutesRequireToken(t *testing.T) {
	h := setup(t)
	a := open(t, h)
	b := open(t, h)

	if rr := request(t, h, "GET", "/sessions/"+a.ID+"/menu", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rr.Code)
	}
	if rr := request(t, h, "GET", "/sessions/"+a.ID+"/menu", "garbage"); rr.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", rr.Code)
	}
	if rr := request(t, h, "GET", "/sessions/"+a.ID+"/menu", b.Token); rr.Code != http.StatusForbidden {
		t.Errorf("other session's token: expected 403, got %d", rr.Code)
	}
	if rr := request(t, h, "GET", "/sessions/"+a.ID+"/menu", a.Token); rr.Code != http.StatusOK {
		t.Errorf("own token: expected 200, got %d", rr.Code)
	}
}

func TestPublicCatalogRoutes(t *testing.T) {
	h := setup(t)

	rr := request(t, h, "GET", "/dishes?diet=VEG", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dishes: expected 200, got %d", rr.Code)
	}
	var dishes []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&dishes); err != nil {
		t.Fatal(err)
	}
	for _, d := range dishes {
		if d["dietType"] != "VEG" {
			t.Errorf("non-veg dish in veg filter: %v", d["name"])
		}
	}

	if rr := request(t, h, "GET", "/categories", ""); rr.Code != http.StatusOK {
		t.Errorf("categories: expected 200, got %d", rr.Code)
	}
}

func TestWebSocketRequiresToken(t *testing.T) {
	h := setup(t)
	a := open(t, h)

	if rr := request(t, h, "GET", "/ws/sessions/"+a.ID, ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	b := open(t, h)
	if rr := request(t, h, "GET", "/ws/sessions/"+a.ID+"?token="+b.Token, ""); rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestRefreshedTokenDrivesSession(t *testing.T) {
	h := setup(t)
	a := open(t, h)

	rr := request(t, h, "POST", "/sessions/"+a.ID+"/token", a.Token)
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var refreshed openResponse
	if err := json.NewDecoder(rr.Body).Decode(&refreshed); err != nil {
		t.Fatal(err)
	}
	if refreshed.ID != a.ID || refreshed.Token == "" {
		t.Fatalf("refresh body: %+v", refreshed)
	}
	if rr := request(t, h, "GET", "/sessions/"+a.ID+"/menu", refreshed.Token); rr.Code != http.StatusOK {
		t.Errorf("refreshed token: expected 200, got %d", rr.Code)
	}
	if rr := request(t, h, "POST", "/sessions/"+a.ID+"/token", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("refresh without token: expected 401, got %d", rr.Code)
	}
}
