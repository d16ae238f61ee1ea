package server

import (
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
)

func dialWS(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWS_Recompute(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts.URL)

	err := conn.WriteJSON(wsRequest{Config: testConfig()})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}

	if resp.Error != "" {
		t.Fatalf("Unexpected error: %s", resp.Error)
	}
	if resp.Result == nil {
		t.Fatal("Expected result")
	}
	if resp.Result.Months() != 13 {
		t.Errorf("Expected 13 entries, got %d", resp.Result.Months())
	}
	if resp.Result.LoanBalance[12] != 0 {
		t.Errorf("Expected payoff, got %v", resp.Result.LoanBalance[12])
	}
}

func TestWS_RecomputeStream(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts.URL)

	// Edits stream over one session; each message gets its own projection.
	for _, target := range []float64{100, 150, 200} {
		cfg := testConfig()
		cfg.TargetPayment = target

		if err := conn.WriteJSON(wsRequest{Config: cfg}); err != nil {
			t.Fatalf("write: %v", err)
		}

		var resp wsResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		if resp.Result == nil {
			t.Fatalf("Expected result for target %v, got error %q", target, resp.Error)
		}
	}
}

func TestWS_InvalidConfig(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts.URL)

	err := conn.WriteJSON(wsRequest{Config: domain.Config{LoanAmount: -1, LoanTermMonths: 12}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}

	if resp.Error == "" {
		t.Error("Expected validation error")
	}
	if resp.Result != nil {
		t.Error("Expected no result alongside error")
	}
}

func TestWS_NothingPersisted(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dialWS(t, ts.URL)

	if err := conn.WriteJSON(wsRequest{Config: testConfig()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}

	runs, err := srv.runStore.List(t.Context())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected no persisted runs, got %d", len(runs))
	}
}
