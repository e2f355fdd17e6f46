package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitcoach/internal/api"
	"example.com/fitcoach/internal/domain"
)

type fakeTracking struct {
	mu        sync.Mutex
	records   []domain.PhysicalRecord
	listErr   error
	updateErr error
	updates   []domain.RecordUpdate
	updateIDs []string
	block     chan struct{} // when set, UpdateRecord waits before returning
}

func (f *fakeTracking) ListRecords(ctx context.Context) ([]domain.PhysicalRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.PhysicalRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeTracking) UpdateRecord(ctx context.Context, id string, update domain.RecordUpdate) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateIDs = append(f.updateIDs, id)
	f.updates = append(f.updates, update)
	return f.updateErr
}

type fakeRoutines struct {
	routines    []domain.Routine
	details     map[string]domain.Routine
	listErr     error
	detailCalls int
}

func (f *fakeRoutines) ListRoutines(ctx context.Context) ([]domain.Routine, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Routine, len(f.routines))
	copy(out, f.routines)
	return out, nil
}

func (f *fakeRoutines) GetRoutine(ctx context.Context, id string) (domain.Routine, error) {
	f.detailCalls++
	routine, ok := f.details[id]
	if !ok {
		return domain.Routine{}, &api.TransportError{Status: 404, Message: "routine not found"}
	}
	return routine, nil
}

func seedRecords() []domain.PhysicalRecord {
	return []domain.PhysicalRecord{
		{
			ID:               "rec-1",
			UserName:         "student1",
			RegistrationDate: time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC),
			Weight:           70,
			BodyMeasurements: map[string]float64{"chest": 95, "waist": 80},
			PhysicalGoal:     "lose fat",
		},
		{
			ID:           "rec-2",
			UserName:     "student2",
			Weight:       82,
			PhysicalGoal: "gain muscle",
			Observations: "keep going",
		},
	}
}

func newReadyController(t *testing.T, tracking *fakeTracking, routines *fakeRoutines) *RecordsController {
	t.Helper()
	ctrl := NewRecordsController(tracking, routines)
	require.NoError(t, ctrl.Load(context.Background()))
	require.Equal(t, PhaseReady, ctrl.Phase())
	return ctrl
}

func TestLoadReachesReadyWhenBothFetchesSucceed(t *testing.T) {
	tracking := &fakeTracking{records: seedRecords()}
	routines := &fakeRoutines{routines: []domain.Routine{{ID: "rt-1", Name: "Strength A"}}}

	ctrl := newReadyController(t, tracking, routines)

	require.Len(t, ctrl.Records(), 2)
	require.Len(t, ctrl.Routines(), 1)
	require.Empty(t, ctrl.LoadError())
}

func TestLoadFailsWhenRoutinesFetchFails(t *testing.T) {
	tracking := &fakeTracking{records: seedRecords()}
	routines := &fakeRoutines{listErr: &api.TransportError{Status: 500, Message: "routines unavailable"}}

	ctrl := NewRecordsController(tracking, routines)
	err := ctrl.Load(context.Background())

	require.Error(t, err)
	require.Equal(t, PhaseFailed, ctrl.Phase())
	require.Equal(t, "routines unavailable", ctrl.LoadError())
	// Both-or-neither: the successful records fetch must not be rendered.
	require.Empty(t, ctrl.Records())
	require.Empty(t, ctrl.Routines())
}

func TestLoadFailsWhenRecordsFetchFails(t *testing.T) {
	tracking := &fakeTracking{listErr: &api.TransportError{Message: "connection refused"}}
	routines := &fakeRoutines{routines: []domain.Routine{{ID: "rt-1", Name: "Strength A"}}}

	ctrl := NewRecordsController(tracking, routines)
	require.Error(t, ctrl.Load(context.Background()))
	require.Equal(t, PhaseFailed, ctrl.Phase())
	require.Empty(t, ctrl.Routines())
}

func TestCommitEditAppliesOnlyMutableFieldsOfTargetRecord(t *testing.T) {
	tracking := &fakeTracking{records: seedRecords()}
	routines := &fakeRoutines{routines: []domain.Routine{{ID: "rt-1", Name: "Strength A"}}}
	ctrl := newReadyController(t, tracking, routines)
	ctrl.DismissDelay = time.Hour // keep the surface open for inspection

	before := ctrl.Records()

	require.NoError(t, ctrl.BeginEdit("rec-1"))
	ctrl.SetObservations("watch your form")
	ctrl.SetActiveRoutine("Strength A")
	require.NoError(t, ctrl.CommitEdit(context.Background()))

	require.Equal(t, []string{"rec-1"}, tracking.updateIDs)
	require.Equal(t, domain.RecordUpdate{Observations: "watch your form", ActiveRoutine: "Strength A"}, tracking.updates[0])

	after := ctrl.Records()
	require.Equal(t, "watch your form", after[0].Observations)
	require.Equal(t, "Strength A", after[0].ActiveRoutine)

	// Every other field of rec-1 and every other record is untouched.
	changed := after[0]
	changed.Observations = before[0].Observations
	changed.ActiveRoutine = before[0].ActiveRoutine
	require.Equal(t, before[0], changed)
	require.Equal(t, before[1], after[1])

	edit := ctrl.EditState()
	require.NotNil(t, edit)
	require.Equal(t, EditApplied, edit.Status)
}

func TestFailedCommitLeavesCollectionUntouchedAndSurfaceOpen(t *testing.T) {
	tracking := &fakeTracking{
		records:   seedRecords(),
		updateErr: &api.TransportError{Status: 500, Message: "update rejected"},
	}
	routines := &fakeRoutines{}
	ctrl := newReadyController(t, tracking, routines)

	before := ctrl.Records()

	require.NoError(t, ctrl.BeginEdit("rec-2"))
	ctrl.SetObservations("new note")
	err := ctrl.CommitEdit(context.Background())
	require.Error(t, err)

	require.Equal(t, before, ctrl.Records())

	edit := ctrl.EditState()
	require.NotNil(t, edit)
	require.Equal(t, EditFailed, edit.Status)
	require.Equal(t, "update rejected", edit.Err)
	// Buffered values survive so the user can retry.
	require.Equal(t, "new note", edit.Observations)
}

func TestConfirmedEditAutoDismisses(t *testing.T) {
	tracking := &fakeTracking{records: seedRecords()}
	ctrl := newReadyController(t, tracking, &fakeRoutines{})
	ctrl.DismissDelay = 10 * time.Millisecond

	require.NoError(t, ctrl.BeginEdit("rec-1"))
	require.NoError(t, ctrl.CommitEdit(context.Background()))
	require.NotNil(t, ctrl.EditState())

	require.Eventually(t, func() bool {
		return ctrl.EditState() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestCommitFinishingAfterCloseIsDropped(t *testing.T) {
	tracking := &fakeTracking{records: seedRecords(), block: make(chan struct{})}
	ctrl := newReadyController(t, tracking, &fakeRoutines{})

	require.NoError(t, ctrl.BeginEdit("rec-1"))
	ctrl.SetObservations("late note")

	done := make(chan error, 1)
	go func() {
		done <- ctrl.CommitEdit(context.Background())
	}()

	// Navigate away while the update is in flight.
	time.Sleep(10 * time.Millisecond)
	ctrl.Close()
	close(tracking.block)

	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, "", ctrl.Records()[0].Observations)
}

func TestResolveRoutineReturnsDetailOnUniqueMatch(t *testing.T) {
	detail := domain.Routine{
		ID:   "rt-1",
		Name: "Strength A",
		Exercises: []domain.Exercise{
			{Name: "Squat", Sets: 5, Repetitions: 5},
		},
	}
	routines := &fakeRoutines{
		routines: []domain.Routine{{ID: "rt-1", Name: "Strength A"}},
		details:  map[string]domain.Routine{"rt-1": detail},
	}
	ctrl := NewRecordsController(&fakeTracking{}, routines)

	got, err := ctrl.ResolveRoutine(context.Background(), "Strength A")
	require.NoError(t, err)
	require.Equal(t, detail, got)
	require.Equal(t, 1, routines.detailCalls)
}

func TestResolveRoutineMissNeverCallsDetailEndpoint(t *testing.T) {
	routines := &fakeRoutines{
		routines: []domain.Routine{{ID: "rt-1", Name: "Strength A"}},
	}
	ctrl := NewRecordsController(&fakeTracking{}, routines)

	_, err := ctrl.ResolveRoutine(context.Background(), "Hypertrophy C")
	require.ErrorIs(t, err, ErrRoutineNotFound)
	require.Zero(t, routines.detailCalls)
}

func TestResolveRoutineDuplicateNamesFirstInServerOrderWins(t *testing.T) {
	routines := &fakeRoutines{
		routines: []domain.Routine{
			{ID: "rt-a", Name: "Cardio"},
			{ID: "rt-b", Name: "Cardio"},
		},
		details: map[string]domain.Routine{
			"rt-a": {ID: "rt-a", Name: "Cardio"},
			"rt-b": {ID: "rt-b", Name: "Cardio"},
		},
	}
	ctrl := NewRecordsController(&fakeTracking{}, routines)

	got, err := ctrl.ResolveRoutine(context.Background(), "Cardio")
	require.NoError(t, err)
	require.Equal(t, "rt-a", got.ID)
}

func TestResolveRoutinePropagatesListFailure(t *testing.T) {
	routines := &fakeRoutines{listErr: errors.New("network down")}
	ctrl := NewRecordsController(&fakeTracking{}, routines)

	_, err := ctrl.ResolveRoutine(context.Background(), "Cardio")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRoutineNotFound)
}

func TestBeginEditRequiresReadyPhaseAndKnownRecord(t *testing.T) {
	ctrl := NewRecordsController(&fakeTracking{}, &fakeRoutines{})
	require.ErrorIs(t, ctrl.BeginEdit("rec-1"), ErrNotReady)

	tracking := &fakeTracking{records: seedRecords()}
	ready := newReadyController(t, tracking, &fakeRoutines{})
	require.ErrorIs(t, ready.BeginEdit("missing"), ErrRecordNotFound)
}

func TestCommitWithoutEditReturnsErrNoEdit(t *testing.T) {
	tracking := &fakeTracking{records: seedRecords()}
	ctrl := newReadyController(t, tracking, &fakeRoutines{})
	require.ErrorIs(t, ctrl.CommitEdit(context.Background()), ErrNoEdit)
}
