package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"rps_webapp/internal/game"
	"rps_webapp/internal/logger"
	"rps_webapp/internal/session"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 64
)

// Client is one websocket attached to a game session. It is the session's
// Display: controller callbacks become queued JSON messages.
type Client struct {
	Session *session.Session
	Conn    *websocket.Conn
	Send    chan []byte
	Done    chan struct{}

	log       *slog.Logger
	closeOnce sync.Once
}

func NewClient(s *session.Session, conn *websocket.Conn) *Client {
	return &Client{
		Session: s,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		Done:    make(chan struct{}),
		log:     logger.With("component", "ws", "session", s.ID),
	}
}

// Run blocks until the connection drops.
func (c *Client) Run() {
	go c.writePump()

	c.send(Message{Type: MsgReady})
	c.send(Message{Type: MsgState, Payload: c.Session.Snapshot()})

	c.Session.Attach(c)
	c.log.Info("client attached")

	c.readPump()
}

func (c *Client) readPump() {
	defer c.disconnect()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read error", "error", err)
			}
			return
		}
		c.HandleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.Done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("write error", "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) disconnect() {
	c.closeOnce.Do(func() {
		c.Session.Detach(c)
		close(c.Done)
		c.log.Info("client detached")
	})
}

// HandleMessage applies one inbound message to the session.
func (c *Client) HandleMessage(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("malformed message")
		return
	}

	switch msg.Type {
	case MsgPlay:
		move, err := game.ParseMove(msg.Value)
		if err != nil {
			c.sendError(game.ErrInvalidMove.Error())
			return
		}
		ok, err := c.Session.Play(move)
		if errors.Is(err, game.ErrInvalidMove) {
			c.sendError(err.Error())
			return
		}
		if !ok {
			// round already running, same as a double click
			c.log.Debug("play ignored", "move", move)
		}

	case MsgReset:
		c.Session.Reset()

	case MsgState:
		c.send(Message{Type: MsgState, Payload: c.Session.Snapshot()})

	case MsgPing:
		c.send(Message{Type: MsgPong})

	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

func (c *Client) sendError(text string) {
	c.send(Message{Type: MsgError, Payload: ErrorPayload{Message: text}})
}

// send never blocks; it runs under the controller lock.
func (c *Client) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal error", "error", err, "type", msg.Type)
		return
	}

	select {
	case <-c.Done:
	case c.Send <- data:
	default:
		c.log.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}

// round.Display

func (c *Client) OnRoundStart(player game.Move) {
	c.send(Message{Type: MsgRoundStart, Payload: movePayload(player)})
}

func (c *Client) OnOpponentThinking() {
	c.send(Message{Type: MsgThinking, Payload: ThinkingPayload{Message: game.ThinkingMessage}})
}

func (c *Client) OnResult(outcome game.Outcome, player, opponent game.Move, board game.ScoreBoard) {
	c.send(Message{Type: MsgResult, Payload: ResultPayload{
		Outcome:  outcome,
		Message:  outcome.Message(),
		Player:   movePayload(player),
		Opponent: movePayload(opponent),
		Board:    board,
	}})
}

func (c *Client) OnInputReleased() {
	c.send(Message{Type: MsgInputReleased})
}

func (c *Client) OnReset(board game.ScoreBoard, history game.HistoryLog) {
	c.send(Message{Type: MsgResetDone, Payload: ResetPayload{
		Board:   board,
		History: historyItems(history),
		Message: game.PromptMessage,
	}})
}

func (c *Client) OnHistoryUpdated(history game.HistoryLog) {
	c.send(Message{Type: MsgHistory, Payload: HistoryPayload{Entries: historyItems(history)}})
}
