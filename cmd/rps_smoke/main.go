package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Plays a few rounds against a running server over the websocket API.
func main() {
	addr := flag.String("addr", "", "server host:port (default 127.0.0.1:$APP_PORT)")
	rounds := flag.Int("rounds", 3, "rounds to play")
	move := flag.String("move", "rock", "move to play every round")
	flag.Parse()

	if *addr == "" {
		port := os.Getenv("APP_PORT")
		if port == "" {
			port = "8080"
		}
		// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
		*addr = "127.0.0.1:" + port
	}

	res, err := http.Post("http://"+*addr+"/api/session", "application/json", nil)
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	var sess struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	err = json.NewDecoder(res.Body).Decode(&sess)
	res.Body.Close()
	if err != nil || sess.Token == "" {
		log.Fatalf("create session: status=%d err=%v", res.StatusCode, err)
	}
	log.Printf("session %s", sess.SessionID)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=%s", *addr, sess.Token), nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor := func(want string, timeout time.Duration) map[string]any {
		deadline := time.Now().Add(timeout)
		for {
			conn.SetReadDeadline(deadline)
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Fatalf("waiting for %s: %v", want, err)
			}
			var obj map[string]any
			_ = json.Unmarshal(msg, &obj)
			if t, _ := obj["type"].(string); t == want {
				return obj
			}
		}
	}

	waitFor("state", 2*time.Second)

	for i := 0; i < *rounds; i++ {
		play := fmt.Sprintf(`{"type":"play","value":%q}`, *move)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(play)); err != nil {
			log.Fatalf("write: %v", err)
		}

		result := waitFor("result", 10*time.Second)
		payload, _ := result["payload"].(map[string]any)
		log.Printf("round %d: %v board=%v", i+1, payload["message"], payload["board"])

		waitFor("input_released", 10*time.Second)
	}

	log.Println("smoke test finished")
}
