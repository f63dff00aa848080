package domain

import "time"

// Role gates access to quiz features. It is fixed at registration.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole validates a raw role string from a registration form.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleTeacher, RoleStudent:
		return Role(raw), nil
	}
	return "", ErrUnknownRole
}

// User is an authenticated account plus its profile role.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Question is an immutable MCQ with exactly four options, one of which
// equals the correct answer.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Options    [4]string  `json:"options"`
	Answer     string     `json:"answer,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
}

// QuestionInput is the authoring payload before validation.
type QuestionInput struct {
	Text       string
	Options    [4]string
	Answer     string
	Difficulty string
}

// Attempt is a presented-but-not-yet-graded quiz run. Grading consumes it.
type Attempt struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	StartedAt  time.Time  `json:"startedAt"`
}

// Result summarizes one graded attempt.
type Result struct {
	Score   int `json:"score"`
	Percent int `json:"percent"`
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
	Total   int `json:"total"`
}

// ScoreEntry is one appended leaderboard record.
type ScoreEntry struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"userId"`
	Username   string     `json:"username"`
	Score      int        `json:"score"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Leaderboard is a score-descending snapshot of every recorded attempt.
type Leaderboard struct {
	Entries   []ScoreEntry `json:"entries"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Statistic is the per (user, difficulty) decaying average. Each update
// halves the weight of all prior history; this matches the historical
// scoring contract and is not a true running mean.
type Statistic struct {
	UserID     string     `json:"userId"`
	Username   string     `json:"username"`
	Difficulty Difficulty `json:"difficulty"`
	Average    int        `json:"average"`
	Entries    int        `json:"entries"`
}
