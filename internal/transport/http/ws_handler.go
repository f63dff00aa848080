package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"mathchallenger/internal/app"
	"mathchallenger/internal/domain"
)

// WSHandler streams live leaderboard snapshots to connected clients.
type WSHandler struct {
	quizzes  *app.QuizService
	board    *app.Broadcaster
	upgrader websocket.Upgrader
}

func NewWSHandler(quizzes *app.QuizService, board *app.Broadcaster) *WSHandler {
	return &WSHandler{
		quizzes: quizzes,
		board:   board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string             `json:"type"`
	Payload domain.Leaderboard `json:"payload"`
}

// ServeWS upgrades the request and pushes the current board followed by
// every refresh until the client disconnects. The stream is read-only;
// inbound frames are drained solely to detect the close.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	board, err := h.quizzes.TopScores(r.Context())
	if err != nil {
		log.Printf("ws initial snapshot failed: %v", err)
		return
	}

	updates, cancel := h.board.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: board}); err != nil {
		return
	}

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: update}); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
