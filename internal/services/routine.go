package services

import (
	"context"
	"net/url"

	"example.com/fitcoach/internal/api"
	"example.com/fitcoach/internal/domain"
)

// RoutineService maps the tracking-service routine endpoints.
type RoutineService struct {
	client *api.Client
}

// NewRoutineService constructs a RoutineService.
func NewRoutineService(client *api.Client) *RoutineService {
	return &RoutineService{client: client}
}

// ListRoutines fetches the full routine collection.
func (s *RoutineService) ListRoutines(ctx context.Context) ([]domain.Routine, error) {
	var routines []domain.Routine
	err := s.client.Get(ctx, "/tracking-service/routines", &routines)
	return routines, err
}

// GetRoutine fetches one routine with its exercises.
func (s *RoutineService) GetRoutine(ctx context.Context, id string) (domain.Routine, error) {
	var routine domain.Routine
	err := s.client.Get(ctx, "/tracking-service/routines/"+url.PathEscape(id), &routine)
	return routine, err
}

// CreateRoutine submits a new routine with nested exercises.
func (s *RoutineService) CreateRoutine(ctx context.Context, input domain.CreateRoutineInput) (domain.Routine, error) {
	if err := input.Validate(); err != nil {
		return domain.Routine{}, err
	}
	var routine domain.Routine
	err := s.client.Post(ctx, "/tracking-service/routines", input, &routine)
	return routine, err
}
