package ws

const (
	// client - server
	MsgPlay  = "play"
	MsgReset = "reset"
	MsgState = "state"
	MsgPing  = "ping"

	// server - client
	MsgReady         = "ready"
	MsgRoundStart    = "round_start"
	MsgThinking      = "thinking"
	MsgResult        = "result"
	MsgHistory       = "history"
	MsgInputReleased = "input_released"
	MsgResetDone     = "reset"
	MsgPong          = "pong"
	MsgError         = "error"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// inbound is what the browser sends: {"type":"play","value":"rock"}
type inbound struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}
