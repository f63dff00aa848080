package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketLeaderboardStream(t *testing.T) {
	server := newTestServer(t)

	teacherToken := register(t, server, "teacher1", "teacher")
	studentToken := register(t, server, "student1", "student")
	addQuestion(t, server, teacherToken, "What is 2 + 2?", [4]string{"3", "4", "5", "6"}, "4")

	u := "ws" + server.URL[len("http"):] + "/ws/leaderboard"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial snapshot is empty.
	var initial struct {
		Type    string `json:"type"`
		Payload struct {
			Entries []struct {
				Username string `json:"username"`
				Score    int    `json:"score"`
			} `json:"entries"`
		} `json:"payload"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if initial.Type != "leaderboard" || len(initial.Payload.Entries) != 0 {
		t.Fatalf("expected empty initial board, got %+v", initial)
	}

	// A graded attempt pushes a refreshed board.
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/quiz/start", studentToken, map[string]string{"difficulty": "beginner"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start quiz: status %d body %s", resp.StatusCode, body)
	}
	var attempt struct {
		AttemptID string `json:"attemptId"`
	}
	if err := json.Unmarshal(body, &attempt); err != nil {
		t.Fatalf("decode attempt: %v", err)
	}
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/quiz/submit", studentToken, map[string]any{
		"attemptId": attempt.AttemptID,
		"answers":   map[string]string{"What is 2 + 2?": "4"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit quiz: status %d", resp.StatusCode)
	}

	var update struct {
		Type    string `json:"type"`
		Payload struct {
			Entries []struct {
				Username string `json:"username"`
				Score    int    `json:"score"`
			} `json:"entries"`
		} `json:"payload"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if len(update.Payload.Entries) != 1 || update.Payload.Entries[0].Score != 10 || update.Payload.Entries[0].Username != "student1" {
		t.Fatalf("expected refreshed board, got %+v", update.Payload.Entries)
	}
}
