package net

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	server "turf-war/server"
)

func newTestRouter(t *testing.T) (*gin.Engine, *server.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub, err := server.NewHub(server.DefaultTuning(), nil, nil)
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	return SetupRouter(hub, nil), hub
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("body = %q, want ok", rec.Body.String())
	}
}

func TestJoinAssignsPlayer(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/join", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var join struct {
		ID     string `json:"id"`
		Team   string `json:"team"`
		Cursor int    `json:"cursor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &join); err != nil {
		t.Fatalf("decode join response: %v", err)
	}
	if join.ID == "" {
		t.Fatal("join response missing player id")
	}
	if join.Team != "red" && join.Team != "blue" {
		t.Fatalf("team = %q", join.Team)
	}
	if join.Cursor != server.DefaultTuning().CellsX/2 {
		t.Fatalf("cursor = %d, want midpoint", join.Cursor)
	}
}

func TestJoinRejectsGet(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/join", nil))
	if rec.Code == http.StatusOK {
		t.Fatal("GET /join succeeded, want method mismatch")
	}
}

func TestDiagnosticsListsPlayers(t *testing.T) {
	router, hub := newTestRouter(t)
	join := hub.Join()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/diagnostics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Status  string `json:"status"`
		Players []struct {
			ID string `json:"id"`
		} `json:"players"`
		TickRate int `json:"tickRate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode diagnostics: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("status = %q", payload.Status)
	}
	if payload.TickRate != server.TickRate() {
		t.Fatalf("tickRate = %d, want %d", payload.TickRate, server.TickRate())
	}
	if len(payload.Players) != 1 || payload.Players[0].ID != join.ID {
		t.Fatalf("players = %+v, want [%s]", payload.Players, join.ID)
	}
}

func TestWebsocketRequiresID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
