package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/zdengine/internal/dicestate"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is a client request over the socket.
type WSMessage struct {
	Type    string          `json:"type"` // "action", "winprob" or "ping"
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSResponse is a server reply over the socket.
type WSResponse struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// WSClient is one connected WebSocket session.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

// WebSocket handles /api/ws by upgrading the connection and serving
// state queries until the client goes away.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &WSClient{
		conn:     conn,
		handlers: h,
		sendChan: make(chan WSResponse, 256),
	}

	go client.writePump()
	client.readPump()
}

func (c *WSClient) readPump() {
	defer func() {
		c.conn.Close()
		close(c.sendChan)
	}()

	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case resp, ok := <-c.sendChan:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(resp); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "action":
		c.handleState(msg, true)
	case "winprob":
		c.handleState(msg, false)
	case "ping":
		c.send(WSResponse{Type: "pong", ID: msg.ID})
	default:
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type: " + msg.Type})
	}
}

// handleState answers a state query. WebSocket queries bypass the HTTP
// worker pool: the connection itself is the unit of admission.
func (c *WSClient) handleState(msg WSMessage, wantAction bool) {
	var req StateRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"})
		return
	}
	counts, err := req.Dice.Counts()
	if err != nil {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: err.Error()})
		return
	}
	if req.Player != 0 && req.Player != 1 {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: errInvalidPlayer.Error()})
		return
	}
	if req.Score < 0 || req.Opponent < 0 || req.TurnTotal < 0 {
		c.send(WSResponse{Type: "error", ID: msg.ID, Error: errNegativeScore.Error()})
		return
	}

	s := c.handlers.solver
	ds := s.Universe().Index(dicestate.Encode(counts))
	p := s.WinProb(req.Player, req.Score, req.Opponent, req.TurnTotal, ds)

	if wantAction {
		action := "hold"
		if s.WillRoll(req.Player, req.Score, req.Opponent, req.TurnTotal, counts) {
			action = "roll"
		}
		c.send(WSResponse{Type: "action", ID: msg.ID, Payload: ActionResponse{Action: action, WinProb: p}})
		return
	}
	c.send(WSResponse{Type: "winprob", ID: msg.ID, Payload: WinProbResponse{WinProb: p}})
}

func (c *WSClient) send(resp WSResponse) {
	select {
	case c.sendChan <- resp:
	default:
		log.Printf("websocket send buffer full, dropping %s", resp.Type)
	}
}
