package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitcoach/internal/api"
	"example.com/fitcoach/internal/domain"
	"example.com/fitcoach/internal/services"
	"example.com/fitcoach/internal/session"
	"example.com/fitcoach/internal/stubserver"
)

type clientEnv struct {
	store    *session.Store
	guard    *session.Guard
	auth     *services.AuthService
	tracking *services.TrackingService
	routines *services.RoutineService
}

func newClientEnv(t *testing.T) *clientEnv {
	t.Helper()

	handler := stubserver.NewHandler(stubserver.NewRepository(), stubserver.AuthConfig{
		Secret: "integration-secret",
		Issuer: "fitcoach.test",
		TTL:    time.Hour,
	})
	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)

	store, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := api.NewClient(server.URL, 5*time.Second, store)
	return &clientEnv{
		store:    store,
		guard:    session.NewGuard(store),
		auth:     services.NewAuthService(client),
		tracking: services.NewTrackingService(client),
		routines: services.NewRoutineService(client),
	}
}

func (e *clientEnv) login(t *testing.T, userID, password string, role domain.Role) {
	t.Helper()
	result, err := e.auth.Login(context.Background(), userID, password)
	require.NoError(t, err)
	require.True(t, result.Authenticated)
	require.NoError(t, e.store.Save(context.Background(), session.Session{
		LoggedIn: true,
		Token:    result.Token,
		UserID:   result.User.UserID,
		Role:     role,
	}))
}

func TestUnauthenticatedCreateSurfacesTransportError(t *testing.T) {
	env := newClientEnv(t)

	// No prior login: the call goes out unauthenticated and the backend
	// answers 401.
	_, err := env.tracking.CreateRecord(context.Background(), domain.CreateRecordInput{
		UserName:         "student1",
		Weight:           70,
		BodyMeasurements: map[string]float64{"chest": 95},
		PhysicalGoal:     "lose fat",
	})
	te, ok := api.AsTransportError(err)
	require.True(t, ok, "expected TransportError, got %v", err)
	require.Equal(t, http.StatusUnauthorized, te.Status)

	// The record list is unchanged.
	env.login(t, "coach1", "coach1-pass", domain.RoleCoach)
	records, err := env.tracking.ListRecords(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestGuardDeniesUntilLoginPersists(t *testing.T) {
	env := newClientEnv(t)

	_, err := env.guard.Require(context.Background())
	require.ErrorIs(t, err, session.ErrNotAuthenticated)

	env.login(t, "student1", "student1-pass", domain.RoleStudent)

	sess, err := env.guard.Require(context.Background())
	require.NoError(t, err)
	require.Equal(t, "student1", sess.UserID)

	require.NoError(t, env.store.Clear(context.Background()))
	_, err = env.guard.Require(context.Background())
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestCoachEditFlowAgainstStub(t *testing.T) {
	env := newClientEnv(t)

	env.login(t, "student1", "student1-pass", domain.RoleStudent)
	created, err := env.tracking.CreateRecord(context.Background(), domain.CreateRecordInput{
		UserName:         "student1",
		Weight:           70,
		BodyMeasurements: map[string]float64{"chest": 95, "waist": 80},
		PhysicalGoal:     "lose fat",
	})
	require.NoError(t, err)

	env.login(t, "coach1", "coach1-pass", domain.RoleCoach)

	ctrl := NewRecordsController(env.tracking, env.routines)
	ctrl.DismissDelay = time.Hour
	defer ctrl.Close()

	require.NoError(t, ctrl.Load(context.Background()))
	require.Equal(t, PhaseReady, ctrl.Phase())
	require.Len(t, ctrl.Records(), 1)
	require.Len(t, ctrl.Routines(), 2)

	require.NoError(t, ctrl.BeginEdit(created.ID))
	ctrl.SetObservations("good baseline")
	ctrl.SetActiveRoutine("Strength A")
	require.NoError(t, ctrl.CommitEdit(context.Background()))

	records := ctrl.Records()
	require.Equal(t, "good baseline", records[0].Observations)
	require.Equal(t, "Strength A", records[0].ActiveRoutine)

	// The student sees the annotation on the next fetch.
	env.login(t, "student1", "student1-pass", domain.RoleStudent)
	mine, err := env.tracking.ListUserRecords(context.Background(), "student1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "good baseline", mine[0].Observations)

	// And the assigned routine resolves by name to full detail.
	routine, err := ctrl.ResolveRoutine(context.Background(), mine[0].ActiveRoutine)
	require.NoError(t, err)
	require.Equal(t, "Strength A", routine.Name)
	require.NotEmpty(t, routine.Exercises)
}

func TestResolveUnknownRoutineAgainstStub(t *testing.T) {
	env := newClientEnv(t)
	env.login(t, "coach1", "coach1-pass", domain.RoleCoach)

	ctrl := NewRecordsController(env.tracking, env.routines)
	defer ctrl.Close()

	_, err := ctrl.ResolveRoutine(context.Background(), "Nonexistent Plan")
	require.ErrorIs(t, err, ErrRoutineNotFound)
}
