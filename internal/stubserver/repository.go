package stubserver

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"example.com/fitcoach/internal/domain"
)

// user is a seeded stub account.
type user struct {
	ID           string
	Role         domain.Role
	PasswordHash []byte
}

// Repository stores users, records and routines in memory for local
// development and tests.
type Repository struct {
	mu       sync.RWMutex
	users    map[string]user
	records  []domain.PhysicalRecord
	routines []domain.Routine
}

// NewRepository constructs a repository populated with seed accounts and a
// couple of routines.
func NewRepository() *Repository {
	repo := &Repository{users: make(map[string]user)}
	repo.seed()
	return repo
}

func (r *Repository) seed() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range []struct {
		id       string
		role     domain.Role
		password string
	}{
		{"student1", domain.RoleStudent, "student1-pass"},
		{"coach1", domain.RoleCoach, "coach1-pass"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			continue
		}
		r.users[account.id] = user{ID: account.id, Role: account.role, PasswordHash: hash}
	}

	r.routines = []domain.Routine{
		{
			ID:          uuid.NewString(),
			Name:        "Strength A",
			Objective:   "build strength",
			Description: "Compound lifts three times a week.",
			Duration:    "8 weeks",
			Frequency:   "3x/week",
			Exercises: []domain.Exercise{
				{Name: "Squat", Description: "Back squat", Sets: 5, Repetitions: 5, Instructions: "Rest 3 minutes between sets."},
				{Name: "Bench Press", Description: "Flat barbell bench", Sets: 5, Repetitions: 5},
			},
		},
		{
			ID:          uuid.NewString(),
			Name:        "Cardio Base",
			Objective:   "aerobic base",
			Description: "Steady-state sessions.",
			Duration:    "4 weeks",
			Frequency:   "4x/week",
			Exercises: []domain.Exercise{
				{Name: "Zone 2 Run", Description: "Easy pace run", Sets: 1, Repetitions: 1, Instructions: "45 minutes, conversational pace."},
			},
		},
	}
}

// Authenticate verifies a userId/password pair against the seeded accounts.
func (r *Repository) Authenticate(userID, password string) (user, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.users[userID]
	if !ok {
		return user{}, false
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return user{}, false
	}
	return account, true
}

// CreateRecord stores a new record, assigning id and registration date
// server-side.
func (r *Repository) CreateRecord(input domain.CreateRecordInput) domain.PhysicalRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := domain.PhysicalRecord{
		ID:               uuid.NewString(),
		UserName:         input.UserName,
		RegistrationDate: time.Now().UTC(),
		Weight:           input.Weight,
		BodyMeasurements: input.BodyMeasurements,
		PhysicalGoal:     input.PhysicalGoal,
	}
	r.records = append(r.records, record)
	return record
}

// ListRecords returns every stored record.
func (r *Repository) ListRecords() []domain.PhysicalRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PhysicalRecord, len(r.records))
	copy(out, r.records)
	return out
}

// ListUserRecords returns the records submitted under one user name.
func (r *Repository) ListUserRecords(userName string) []domain.PhysicalRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PhysicalRecord, 0)
	for _, record := range r.records {
		if strings.EqualFold(record.UserName, userName) {
			out = append(out, record)
		}
	}
	return out
}

// UpdateRecord applies the coach-owned partial update. It returns false when
// the id is unknown.
func (r *Repository) UpdateRecord(id string, update domain.RecordUpdate) (domain.PhysicalRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i].Observations = update.Observations
			r.records[i].ActiveRoutine = update.ActiveRoutine
			return r.records[i], true
		}
	}
	return domain.PhysicalRecord{}, false
}

// ListRoutines returns every stored routine in insertion order.
func (r *Repository) ListRoutines() []domain.Routine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Routine, len(r.routines))
	copy(out, r.routines)
	return out
}

// GetRoutine returns a routine by id.
func (r *Repository) GetRoutine(id string) (domain.Routine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, routine := range r.routines {
		if routine.ID == id {
			return routine, true
		}
	}
	return domain.Routine{}, false
}

// CreateRoutine stores a new routine with a generated id.
func (r *Repository) CreateRoutine(input domain.CreateRoutineInput) domain.Routine {
	r.mu.Lock()
	defer r.mu.Unlock()

	routine := domain.Routine{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Objective:   input.Objective,
		Description: input.Description,
		Duration:    input.Duration,
		Frequency:   input.Frequency,
		Exercises:   input.Exercises,
	}
	r.routines = append(r.routines, routine)
	return routine
}
