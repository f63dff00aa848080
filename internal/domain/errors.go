package domain

import (
	"errors"
	"strings"
)

var (
	// ErrRoleForbidden is returned when a user's role does not permit an operation.
	ErrRoleForbidden = errors.New("role does not permit this operation")
	// ErrNoQuestions is returned when a quiz is started for a difficulty with no questions.
	ErrNoQuestions = errors.New("no questions for this difficulty")
	// ErrAttemptNotFound is returned when a submission references an unknown or already graded attempt.
	ErrAttemptNotFound = errors.New("quiz attempt not found")
	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registration reuses an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrStatisticNotFound is a lookup miss; callers recover by creating a fresh record.
	ErrStatisticNotFound = errors.New("statistic not found")
	// ErrSessionExpired is returned when an auth token is unknown or past its TTL.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnknownDifficulty indicates a difficulty outside the four fixed buckets.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrUnknownRole indicates a role outside teacher/student.
	ErrUnknownRole = errors.New("unknown role")
)

// ValidationErrors collects every human-readable failure of a single input
// so the caller sees all problems at once instead of the first one.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

// OrNil returns the list as an error only when something was collected.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
