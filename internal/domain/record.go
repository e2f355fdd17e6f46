// Package domain defines the shared types exchanged with the coaching backend.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies the kind of authenticated user.
type Role string

const (
	RoleStudent Role = "student"
	RoleCoach   Role = "coach"
)

// Measurement keys the client knows how to label. Unknown keys coming back
// from the server are displayed verbatim, never synthesized locally.
const (
	MeasurementChest = "chest"
	MeasurementWaist = "waist"
	MeasurementHips  = "hips"
	MeasurementArms  = "arms"
	MeasurementLegs  = "legs"
)

var measurementLabels = map[string]string{
	MeasurementChest: "Chest",
	MeasurementWaist: "Waist",
	MeasurementHips:  "Hips",
	MeasurementArms:  "Arms",
	MeasurementLegs:  "Legs",
}

// MeasurementLabel returns the display label for a measurement key, or the
// key itself when it is outside the known vocabulary.
func MeasurementLabel(key string) string {
	if label, ok := measurementLabels[key]; ok {
		return label
	}
	return key
}

// PhysicalRecord is a body-measurement submission. The observations and
// activeRoutine fields are coach-owned and mutated only through the partial
// update operation. ActiveRoutine holds a routine *name*, not an id.
type PhysicalRecord struct {
	ID               string             `json:"id"`
	UserName         string             `json:"userName"`
	UserID           string             `json:"userId,omitempty"`
	Role             Role               `json:"role,omitempty"`
	RegistrationDate time.Time          `json:"registrationDate"`
	Weight           float64            `json:"weight"`
	BodyMeasurements map[string]float64 `json:"bodyMeasurements"`
	PhysicalGoal     string             `json:"physicalGoal"`
	Observations     string             `json:"observations,omitempty"`
	ActiveRoutine    string             `json:"activeRoutine,omitempty"`
}

// CreateRecordInput is the payload for creating a physical record.
type CreateRecordInput struct {
	UserName         string             `json:"userName"`
	Weight           float64            `json:"weight"`
	BodyMeasurements map[string]float64 `json:"bodyMeasurements"`
	PhysicalGoal     string             `json:"physicalGoal"`
}

// Validate checks the payload before any network call is made.
func (in CreateRecordInput) Validate() error {
	if strings.TrimSpace(in.UserName) == "" {
		return &ValidationError{Field: "userName", Reason: "is required"}
	}
	if in.Weight <= 0 {
		return &ValidationError{Field: "weight", Reason: "must be > 0"}
	}
	for key, value := range in.BodyMeasurements {
		if value <= 0 {
			return &ValidationError{Field: "bodyMeasurements." + key, Reason: "must be > 0"}
		}
	}
	if strings.TrimSpace(in.PhysicalGoal) == "" {
		return &ValidationError{Field: "physicalGoal", Reason: "is required"}
	}
	return nil
}

// RecordUpdate is the partial update a coach may apply to a record. The
// backend contract restricts it to exactly these two fields.
type RecordUpdate struct {
	Observations  string `json:"observations"`
	ActiveRoutine string `json:"activeRoutine"`
}

// ValidationError reports a client-side precondition failure. It blocks
// submission locally; nothing reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}
