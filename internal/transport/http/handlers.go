package http

import (
	"net/http"

	"mathchallenger/internal/domain"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !readJSON(w, r, &req) {
		return
	}
	user, err := a.users.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Registration logs the user straight in.
	token, user, err := a.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, Username: user.Username, Role: string(user.Role)})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !readJSON(w, r, &req) {
		return
	}
	token, user, err := a.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Username: user.Username, Role: string(user.Role)})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := a.users.Logout(r.Context(), token); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type addQuestionRequest struct {
	Text       string    `json:"text"`
	Options    [4]string `json:"options"`
	Answer     string    `json:"answer"`
	Difficulty string    `json:"difficulty"`
}

func (a *API) handleAddQuestion(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req addQuestionRequest
	if !readJSON(w, r, &req) {
		return
	}
	question, err := a.questions.AddQuestion(r.Context(), user, domain.QuestionInput{
		Text:       req.Text,
		Options:    req.Options,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (a *API) handleListQuestions(w http.ResponseWriter, r *http.Request, user domain.User) {
	difficulty, err := domain.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	questions, err := a.questions.QuestionsByDifficulty(r.Context(), user, difficulty)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (a *API) handleDeleteQuestions(w http.ResponseWriter, r *http.Request, user domain.User) {
	difficulty, err := domain.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	deleted, err := a.questions.DeleteByDifficulty(r.Context(), user, difficulty)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

type startQuizRequest struct {
	Difficulty string `json:"difficulty"`
}

// questionView hides the correct answer from the quiz payload.
type questionView struct {
	Text    string    `json:"text"`
	Options [4]string `json:"options"`
}

type attemptResponse struct {
	AttemptID  string         `json:"attemptId"`
	Difficulty string         `json:"difficulty"`
	Questions  []questionView `json:"questions"`
}

func (a *API) handleStartQuiz(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req startQuizRequest
	if !readJSON(w, r, &req) {
		return
	}
	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	attempt, err := a.quizzes.StartQuiz(r.Context(), user, difficulty)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]questionView, 0, len(attempt.Questions))
	for _, q := range attempt.Questions {
		views = append(views, questionView{Text: q.Text, Options: q.Options})
	}
	writeJSON(w, http.StatusOK, attemptResponse{
		AttemptID:  attempt.ID,
		Difficulty: string(attempt.Difficulty),
		Questions:  views,
	})
}

type submitQuizRequest struct {
	AttemptID string            `json:"attemptId"`
	Answers   map[string]string `json:"answers"`
}

func (a *API) handleSubmitQuiz(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req submitQuizRequest
	if !readJSON(w, r, &req) {
		return
	}
	result, err := a.quizzes.SubmitQuiz(r.Context(), user, req.AttemptID, req.Answers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := a.quizzes.TopScores(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (a *API) handleParticipants(w http.ResponseWriter, r *http.Request, _ domain.User) {
	participants, err := a.quizzes.Participants(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"participants": participants})
}
