// Package controller orchestrates the record/routine synchronization flow:
// the joined initial fetch, the coach edit workflow, and routine resolution
// by name.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"example.com/fitcoach/internal/api"
	"example.com/fitcoach/internal/domain"
)

// Phase is the controller's lifecycle state.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// EditStatus tracks the commit state machine of the edit surface.
type EditStatus string

const (
	EditIdle       EditStatus = "idle"
	EditSubmitting EditStatus = "submitting"
	EditApplied    EditStatus = "applied"
	EditFailed     EditStatus = "failed"
)

var (
	// ErrRoutineNotFound is the dedicated resolution-miss outcome, distinct
	// from any transport failure.
	ErrRoutineNotFound = errors.New("routine not found")
	// ErrNotReady is returned when an operation needs the Ready phase.
	ErrNotReady = errors.New("records not loaded")
	// ErrRecordNotFound is returned when an edit targets an unknown record id.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNoEdit is returned when a commit runs without an open edit surface.
	ErrNoEdit = errors.New("no edit in progress")
	// ErrEditPending is returned when a commit is already in flight.
	ErrEditPending = errors.New("edit commit already submitting")
)

// TrackingAPI is the slice of the tracking service the controller drives.
type TrackingAPI interface {
	ListRecords(ctx context.Context) ([]domain.PhysicalRecord, error)
	UpdateRecord(ctx context.Context, id string, update domain.RecordUpdate) error
}

// RoutineAPI is the slice of the routine service the controller drives.
type RoutineAPI interface {
	ListRoutines(ctx context.Context) ([]domain.Routine, error)
	GetRoutine(ctx context.Context, id string) (domain.Routine, error)
}

// Edit is the buffered edit surface for exactly one record's mutable fields.
// Nothing in it touches the displayed collection until the server confirms.
type Edit struct {
	RecordID      string
	Observations  string
	ActiveRoutine string
	Status        EditStatus
	Err           string
}

// DefaultDismissDelay is how long a confirmed edit surface stays visible
// before auto-dismissing.
const DefaultDismissDelay = 2 * time.Second

// RecordsController coordinates the two initial fetches, the
// confirm-then-apply edit workflow, and name-based routine resolution.
// It is safe for concurrent use; the dismiss timer fires on its own
// goroutine.
type RecordsController struct {
	tracking TrackingAPI
	routines RoutineAPI

	// DismissDelay overrides DefaultDismissDelay when > 0. Tests set it low.
	DismissDelay time.Duration

	mu          sync.Mutex
	generation  int
	closed      bool
	phase       Phase
	loadErr     string
	records     []domain.PhysicalRecord
	routineList []domain.Routine
	edit        *Edit
}

// NewRecordsController constructs a controller over the two services.
func NewRecordsController(tracking TrackingAPI, routines RoutineAPI) *RecordsController {
	return &RecordsController{
		tracking: tracking,
		routines: routines,
		phase:    PhaseLoading,
	}
}

// Load issues the records fetch and the routines fetch concurrently and
// joins them. The controller reaches Ready only when both succeed; any
// failure lands in Failed with no partial state. A Load finishing after
// Close, or superseded by a newer Load, is dropped.
func (c *RecordsController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return context.Canceled
	}
	c.generation++
	gen := c.generation
	c.phase = PhaseLoading
	c.loadErr = ""
	c.mu.Unlock()

	var (
		wg          sync.WaitGroup
		records     []domain.PhysicalRecord
		routineList []domain.Routine
		recordsErr  error
		routinesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		records, recordsErr = c.tracking.ListRecords(ctx)
	}()
	go func() {
		defer wg.Done()
		routineList, routinesErr = c.routines.ListRoutines(ctx)
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return context.Canceled
	}
	if err := firstError(recordsErr, routinesErr); err != nil {
		c.phase = PhaseFailed
		c.loadErr = userMessage(err)
		c.records = nil
		c.routineList = nil
		return err
	}
	c.phase = PhaseReady
	c.records = records
	c.routineList = routineList
	return nil
}

// Phase returns the current lifecycle phase.
func (c *RecordsController) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// LoadError returns the user-facing message of a failed load.
func (c *RecordsController) LoadError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Records returns a copy of the displayed collection.
func (c *RecordsController) Records() []domain.PhysicalRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.PhysicalRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Routines returns a copy of the routine collection loaded at mount.
func (c *RecordsController) Routines() []domain.Routine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Routine, len(c.routineList))
	copy(out, c.routineList)
	return out
}

// EditState returns a snapshot of the open edit surface, or nil.
func (c *RecordsController) EditState() *Edit {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return nil
	}
	snapshot := *c.edit
	return &snapshot
}

// BeginEdit opens the edit surface for one record, buffering its two mutable
// fields.
func (c *RecordsController) BeginEdit(recordID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseReady {
		return ErrNotReady
	}
	for _, record := range c.records {
		if record.ID == recordID {
			c.edit = &Edit{
				RecordID:      recordID,
				Observations:  record.Observations,
				ActiveRoutine: record.ActiveRoutine,
				Status:        EditIdle,
			}
			return nil
		}
	}
	return ErrRecordNotFound
}

// SetObservations updates the buffered observations value.
func (c *RecordsController) SetObservations(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit != nil && c.edit.Status != EditSubmitting {
		c.edit.Observations = value
	}
}

// SetActiveRoutine updates the buffered routine assignment.
func (c *RecordsController) SetActiveRoutine(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit != nil && c.edit.Status != EditSubmitting {
		c.edit.ActiveRoutine = value
	}
}

// CommitEdit sends the buffered fields to the server and, only on
// confirmation, replaces the matched record's two mutable fields in the
// collection. On failure the surface stays open with the error and the
// collection is untouched. A confirmed surface auto-dismisses after the
// dismiss delay.
func (c *RecordsController) CommitEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.edit == nil {
		c.mu.Unlock()
		return ErrNoEdit
	}
	if c.edit.Status == EditSubmitting {
		c.mu.Unlock()
		return ErrEditPending
	}
	c.edit.Status = EditSubmitting
	c.edit.Err = ""
	gen := c.generation
	recordID := c.edit.RecordID
	update := domain.RecordUpdate{
		Observations:  c.edit.Observations,
		ActiveRoutine: c.edit.ActiveRoutine,
	}
	c.mu.Unlock()

	err := c.tracking.UpdateRecord(ctx, recordID, update)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation || c.edit == nil || c.edit.RecordID != recordID {
		// The view went away while the request was in flight; drop the result.
		return context.Canceled
	}
	if err != nil {
		c.edit.Status = EditFailed
		c.edit.Err = userMessage(err)
		return err
	}
	for i := range c.records {
		if c.records[i].ID == recordID {
			c.records[i].Observations = update.Observations
			c.records[i].ActiveRoutine = update.ActiveRoutine
			break
		}
	}
	c.edit.Status = EditApplied
	c.scheduleDismiss(gen, recordID)
	return nil
}

func (c *RecordsController) scheduleDismiss(gen int, recordID string) {
	delay := c.DismissDelay
	if delay <= 0 {
		delay = DefaultDismissDelay
	}
	time.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.generation {
			return
		}
		if c.edit != nil && c.edit.RecordID == recordID && c.edit.Status == EditApplied {
			c.edit = nil
		}
	})
}

// CloseEdit dismisses the edit surface without committing.
func (c *RecordsController) CloseEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = nil
}

// ResolveRoutine looks up a routine by its human-readable name: fetch the
// collection, take the first entry whose name matches in server order, then
// fetch that entry's full detail. Duplicate names are not detected; first
// match wins. A miss returns ErrRoutineNotFound without touching the detail
// endpoint.
func (c *RecordsController) ResolveRoutine(ctx context.Context, name string) (domain.Routine, error) {
	routineList, err := c.routines.ListRoutines(ctx)
	if err != nil {
		return domain.Routine{}, err
	}
	for _, candidate := range routineList {
		if candidate.Name == name {
			return c.routines.GetRoutine(ctx, candidate.ID)
		}
	}
	return domain.Routine{}, ErrRoutineNotFound
}

// Close marks the controller unmounted. In-flight loads and commits finishing
// afterwards are dropped instead of applied.
func (c *RecordsController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// userMessage converts an error into user-facing text: transport failures
// show their normalized message, anything else falls back to the error text
// or a generic line.
func userMessage(err error) string {
	if te, ok := api.AsTransportError(err); ok {
		if te.Message != "" {
			return te.Message
		}
		return "the server could not be reached"
	}
	if err == nil || err.Error() == "" {
		return "something went wrong, try again"
	}
	return err.Error()
}
