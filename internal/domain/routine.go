package domain

import "strings"

// Routine is a training plan authored by a coach. Immutable from the
// student's perspective. Names are not guaranteed unique by the backend.
type Routine struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Objective   string     `json:"objective"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Frequency   string     `json:"frequency"`
	Exercises   []Exercise `json:"exercises"`
}

// Exercise belongs exclusively to its parent routine.
type Exercise struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Sets         int    `json:"sets"`
	Repetitions  int    `json:"repetitions"`
	Instructions string `json:"instructions,omitempty"`
}

// CreateRoutineInput is the payload for creating a routine with its nested
// exercises.
type CreateRoutineInput struct {
	Name        string     `json:"name"`
	Objective   string     `json:"objective"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Frequency   string     `json:"frequency"`
	Exercises   []Exercise `json:"exercises"`
}

// Validate applies the primitive field checks done before submission.
func (in CreateRoutineInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if len(in.Exercises) == 0 {
		return &ValidationError{Field: "exercises", Reason: "must not be empty"}
	}
	for _, exercise := range in.Exercises {
		if strings.TrimSpace(exercise.Name) == "" {
			return &ValidationError{Field: "exercises.name", Reason: "is required"}
		}
		if exercise.Sets <= 0 {
			return &ValidationError{Field: "exercises.sets", Reason: "must be > 0"}
		}
		if exercise.Repetitions <= 0 {
			return &ValidationError{Field: "exercises.repetitions", Reason: "must be > 0"}
		}
	}
	return nil
}

// LoginResult is the response shape of the login exchange.
type LoginResult struct {
	Authenticated bool      `json:"authenticated"`
	Token         string    `json:"token"`
	User          LoginUser `json:"user"`
	Message       string    `json:"message,omitempty"`
}

// LoginUser carries the identity echoed back by the auth service.
type LoginUser struct {
	UserID string `json:"userId"`
}
