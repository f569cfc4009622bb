package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"studybuddy/internal/models"
	"studybuddy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=120s", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=120000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			got := h.parseInterval(newGinContext(req))
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func newWSServer(t *testing.T, auth service.Authorization, history service.History) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Authorization: auth, History: history}, nil)
	r.GET("/ws", h.wsConnect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(t *testing.T, srv *httptest.Server, rawQuery string) string {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = rawQuery
	return u.String()
}

func TestWebSocket_HistoryStream_InitialAndPeriodic(t *testing.T) {
	auth := &mockAuthorization{ParseTokenFn: validParseToken("good-token", "alice")}
	history := &mockHistory{
		ListFn: func(ctx context.Context, username string) ([]models.InteractionRecord, error) {
			if username != "alice" {
				t.Errorf("listed for %q, want alice", username)
			}
			return []models.InteractionRecord{
				{ID: "id-1", Kind: models.KindExplanation, Response: "Gravity is ..."},
			}, nil
		},
	}
	srv := newWSServer(t, auth, history)

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL(t, srv, "token=good-token&interval_ms=20"), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	type snapshot struct {
		Count   int                        `json:"count"`
		History []models.InteractionRecord `json:"history"`
	}
	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Initial snapshot arrives without waiting for a tick.
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "history" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var snap snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.Count != 1 || len(snap.History) != 1 || snap.History[0].ID != "id-1" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	// A periodic tick follows.
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "history" {
		t.Fatalf("second envelope type: %q", env.Type)
	}
}

func TestWebSocket_RejectsMissingToken(t *testing.T) {
	srv := newWSServer(t, &mockAuthorization{}, &mockHistory{})

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	_, resp, err := dialer.Dial(wsURL(t, srv, ""), nil)
	if err == nil {
		t.Fatalf("expected dial to fail without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestWebSocket_RejectsInvalidToken(t *testing.T) {
	auth := &mockAuthorization{ParseTokenFn: validParseToken("good-token", "alice")}
	srv := newWSServer(t, auth, &mockHistory{})

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	_, resp, err := dialer.Dial(wsURL(t, srv, "token=bogus"), nil)
	if err == nil {
		t.Fatalf("expected dial to fail with bad token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}
