package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"mathchallenger/internal/app"
	"mathchallenger/internal/domain"
)

// API wires the quiz use cases into a JSON HTTP surface.
type API struct {
	users     *app.UserService
	questions *app.QuestionService
	quizzes   *app.QuizService
	ws        *WSHandler
}

func NewAPI(users *app.UserService, questions *app.QuestionService, quizzes *app.QuizService, board *app.Broadcaster) *API {
	return &API{
		users:     users,
		questions: questions,
		quizzes:   quizzes,
		ws:        NewWSHandler(quizzes, board),
	}
}

// Router builds the full route table.
func (a *API) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/register", a.handleRegister)
	mux.HandleFunc("POST /api/login", a.handleLogin)
	mux.HandleFunc("POST /api/logout", a.handleLogout)

	mux.HandleFunc("POST /api/questions", a.withUser(a.handleAddQuestion))
	mux.HandleFunc("GET /api/questions", a.withUser(a.handleListQuestions))
	mux.HandleFunc("DELETE /api/questions", a.withUser(a.handleDeleteQuestions))

	mux.HandleFunc("POST /api/quiz/start", a.withUser(a.handleStartQuiz))
	mux.HandleFunc("POST /api/quiz/submit", a.withUser(a.handleSubmitQuiz))

	mux.HandleFunc("GET /api/leaderboard", a.handleLeaderboard)
	mux.HandleFunc("GET /api/participants", a.withUser(a.handleParticipants))

	mux.HandleFunc("GET /ws/leaderboard", a.ws.ServeWS)
	return mux
}

// withUser resolves the bearer token and hands the user to the handler, so
// role checks inside the services always see an explicit actor.
func (a *API) withUser(next func(http.ResponseWriter, *http.Request, domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := a.users.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "session expired, please log in again")
			return
		}
		next(w, r, user)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, messages ...string) {
	writeJSON(w, status, map[string]any{"errors": messages})
}

// writeDomainError maps service errors onto HTTP statuses. Validation
// failures surface every collected message.
func writeDomainError(w http.ResponseWriter, err error) {
	var validation domain.ValidationErrors
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation...)
	case errors.Is(err, domain.ErrRoleForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoQuestions), errors.Is(err, domain.ErrAttemptNotFound), errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownDifficulty), errors.Is(err, domain.ErrUnknownRole):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
