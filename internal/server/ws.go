package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/observability"
	"github.com/cjllanwarne/payoff-calculator/internal/simulation"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = 1 << 20 // 1 MiB per message
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsRequest is one recompute message: a config plus an optional lump sum.
// Nothing is persisted; each message gets a fresh projection back.
type wsRequest struct {
	Config  domain.Config `json:"config"`
	LumpSum float64       `json:"lump_sum"`
}

// wsResponse carries either a result or an error, never both.
type wsResponse struct {
	Result *domain.SimulationResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// handleWS upgrades to a websocket and serves recompute requests until the
// client disconnects. Each inbound config produces one outbound result.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	observability.WSSessionOpened()
	defer observability.WSSessionClosed()

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("websocket read: %v", err)
			}
			return
		}

		resp := s.recompute(req)

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Printf("websocket write: %v", err)
			return
		}
	}
}

// recompute validates and runs one projection without persistence.
func (s *Server) recompute(req wsRequest) wsResponse {
	cfg, err := simulation.NewConfig(req.Config)
	if err != nil {
		return wsResponse{Error: err.Error()}
	}

	result := simulation.Simulate(cfg, req.LumpSum)
	observability.RecordWSRecompute()
	return wsResponse{Result: result}
}
