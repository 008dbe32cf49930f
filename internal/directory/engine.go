package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/userdir/directory-service/internal/domain"
	"github.com/userdir/directory-service/internal/events"
	"github.com/userdir/directory-service/internal/validation"
)

// State is the phase of the mutation currently being processed.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateCommitting State = "committing"
	StateRefreshing State = "refreshing"
)

// View is what the presentation layer renders.
type View struct {
	Items      []domain.UserRecord `json:"items"`
	TotalPages int                 `json:"totalPages"`
	Page       int                 `json:"page"`
	Total      int                 `json:"total"`
	SearchTerm string              `json:"searchTerm"`
	RoleFilter domain.RoleFilter   `json:"roleFilter"`
}

// EngineDependencies bundles what the engine needs to run.
type EngineDependencies struct {
	Storage        Storage
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	PageSize       int
	PersistTimeout time.Duration
}

// Engine owns the record store and the current view state for one session.
// Intents are processed one at a time.
type Engine struct {
	mu         sync.Mutex
	store      *Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	pageSize   int

	searchTerm string
	roleFilter domain.RoleFilter
	page       int
	view       View
	staged     *string

	stateMu sync.RWMutex
	state   State

	// issued is guarded by mu; delivered by deliverMu.
	issued      uint64
	deliverMu   sync.Mutex
	deliverCond *sync.Cond
	delivered   uint64
}

// NewEngine loads the persisted records and computes the initial view.
func NewEngine(ctx context.Context, deps EngineDependencies) (*Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	store, err := NewStore(ctx, deps.Storage, deps.PersistTimeout)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		pageSize:   pageSize,
		roleFilter: domain.RoleFilterAll,
		page:       1,
		state:      StateIdle,
	}
	e.deliverCond = sync.NewCond(&e.deliverMu)
	e.refresh()
	logger.Info("directory loaded", zap.Int("records", store.Len()))
	return e, nil
}

// Subscribe registers fn to receive the new view after every mutation or
// filter change. Views are delivered in the order the changes were applied.
// fn may read from the engine but must not submit intents.
func (e *Engine) Subscribe(fn func(context.Context, View)) {
	e.dispatcher.Subscribe(events.EventViewChanged, func(ctx context.Context, event events.Event) error {
		if view, ok := event.Payload.(View); ok {
			fn(ctx, view)
		}
		return nil
	})
}

// State reports the phase of the intent in progress.
func (e *Engine) State() State {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state
}

// View returns the current view.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// Get returns the record stored under email, for prefilling an edit form.
func (e *Engine) Get(email string) (domain.UserRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.store.Get(email)
	if !ok {
		return domain.UserRecord{}, ErrNotFound
	}
	return rec, nil
}

// List returns every record in insertion order.
func (e *Engine) List() []domain.UserRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.List()
}

// SuggestEmails returns stored emails matching input for search completion.
func (e *Engine) SuggestEmails(input string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SuggestEmails(e.store.List(), input)
}

// SubmitCreate validates in and appends the resulting record. Validation
// failures are returned as validation.FieldErrors.
func (e *Engine) SubmitCreate(ctx context.Context, in validation.Input) (domain.UserRecord, error) {
	var rec domain.UserRecord
	err := e.apply(ctx, func() ([]events.Event, error) {
		var err error
		rec, err = e.mutate(ctx, "create", nil, in, func(rec domain.UserRecord) error {
			return e.store.Create(ctx, rec)
		})
		if err != nil {
			return nil, err
		}
		return []events.Event{
			events.NewEvent(events.EventRecordCreated, rec.Email, events.RecordCreatedPayload{Record: rec}),
			e.viewEvent(),
		}, nil
	})
	if err != nil {
		return domain.UserRecord{}, err
	}
	return rec, nil
}

// SubmitEdit validates in against the record currently stored under
// originalEmail and replaces it in place. A staged delete of the record
// follows it to its new email.
func (e *Engine) SubmitEdit(ctx context.Context, originalEmail string, in validation.Input) (domain.UserRecord, error) {
	var rec domain.UserRecord
	err := e.apply(ctx, func() ([]events.Event, error) {
		editing, ok := e.store.Get(originalEmail)
		if !ok {
			e.logger.Error("edit of unknown record", zap.String("email", originalEmail))
			return nil, ErrNotFound
		}
		var err error
		rec, err = e.mutate(ctx, "update", &editing, in, func(rec domain.UserRecord) error {
			return e.store.Update(ctx, originalEmail, rec)
		})
		if err != nil {
			return nil, err
		}
		if e.staged != nil && *e.staged == originalEmail {
			email := rec.Email
			e.staged = &email
		}
		return []events.Event{
			events.NewEvent(events.EventRecordUpdated, rec.Email, events.RecordUpdatedPayload{
				OriginalEmail: originalEmail,
				Record:        rec,
			}),
			e.viewEvent(),
		}, nil
	})
	if err != nil {
		return domain.UserRecord{}, err
	}
	return rec, nil
}

// RequestDelete stages email for deletion without touching the store.
func (e *Engine) RequestDelete(email string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.store.Get(email); !ok {
		return ErrNotFound
	}
	e.staged = &email
	return nil
}

// StagedDelete returns the email awaiting confirmation, if any.
func (e *Engine) StagedDelete() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.staged == nil {
		return "", false
	}
	return *e.staged, true
}

// CancelDelete discards the staged delete.
func (e *Engine) CancelDelete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.staged = nil
}

// ConfirmDelete removes the staged record. On a persistence failure the
// target stays staged so the confirmation can be retried. A target that is
// already gone clears the stage without announcing a deletion.
func (e *Engine) ConfirmDelete(ctx context.Context) error {
	return e.apply(ctx, func() ([]events.Event, error) {
		if e.staged == nil {
			return nil, ErrNoStagedDelete
		}
		email := *e.staged

		e.setState(StateCommitting)
		removed, err := e.store.Delete(ctx, email)
		if err != nil {
			e.setState(StateIdle)
			e.logFailure("delete", email, err)
			return nil, err
		}
		e.staged = nil
		if !removed {
			e.setState(StateIdle)
			e.logger.Warn("staged record no longer present", zap.String("email", email))
			return nil, nil
		}
		e.setState(StateRefreshing)
		e.refresh()
		e.setState(StateIdle)
		return []events.Event{
			events.NewEvent(events.EventRecordDeleted, email, events.RecordDeletedPayload{Email: email}),
			e.viewEvent(),
		}, nil
	})
}

// SetSearchTerm changes the email search and returns to page 1.
func (e *Engine) SetSearchTerm(ctx context.Context, term string) View {
	var view View
	_ = e.apply(ctx, func() ([]events.Event, error) {
		e.searchTerm = term
		e.page = 1
		e.refresh()
		view = e.view
		return []events.Event{e.viewEvent()}, nil
	})
	return view
}

// SetRoleFilter changes the role filter and returns to page 1.
func (e *Engine) SetRoleFilter(ctx context.Context, filter domain.RoleFilter) (View, error) {
	if !filter.Valid() {
		return View{}, ErrInvalidRoleFilter
	}
	var view View
	err := e.apply(ctx, func() ([]events.Event, error) {
		e.roleFilter = filter
		e.page = 1
		e.refresh()
		view = e.view
		return []events.Event{e.viewEvent()}, nil
	})
	return view, err
}

// SetPage selects a page. Pages past the end yield an empty item list.
func (e *Engine) SetPage(ctx context.Context, page int) (View, error) {
	if page < 1 {
		return View{}, ErrInvalidPage
	}
	var view View
	err := e.apply(ctx, func() ([]events.Event, error) {
		e.page = page
		e.refresh()
		view = e.view
		return []events.Event{e.viewEvent()}, nil
	})
	return view, err
}

// apply runs fn under e.mu and then hands the events it returns to the
// dispatcher. Each change takes a ticket while still holding e.mu, and
// deliveries run in ticket order so observers see changes in commit order.
func (e *Engine) apply(ctx context.Context, fn func() ([]events.Event, error)) error {
	evs, ticket, err := e.locked(fn)
	if len(evs) > 0 {
		e.deliver(ctx, ticket, evs)
	}
	return err
}

func (e *Engine) locked(fn func() ([]events.Event, error)) ([]events.Event, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	evs, err := fn()
	if len(evs) == 0 {
		return nil, 0, err
	}
	e.issued++
	return evs, e.issued, err
}

func (e *Engine) deliver(ctx context.Context, ticket uint64, evs []events.Event) {
	e.deliverMu.Lock()
	for e.delivered+1 != ticket {
		e.deliverCond.Wait()
	}
	e.deliverMu.Unlock()

	defer func() {
		e.deliverMu.Lock()
		e.delivered = ticket
		e.deliverCond.Broadcast()
		e.deliverMu.Unlock()
	}()
	for _, ev := range evs {
		e.publish(ctx, ev)
	}
}

// mutate runs the validate, commit and refresh phases. Callers hold e.mu.
func (e *Engine) mutate(ctx context.Context, op string, editing *domain.UserRecord, in validation.Input, commit func(domain.UserRecord) error) (domain.UserRecord, error) {
	e.setState(StateValidating)
	rec, fieldErrs := validation.Validate(in, e.store.List(), editing)
	if fieldErrs != nil {
		e.setState(StateIdle)
		e.logger.Debug("validation failed", zap.String("op", op), zap.Any("fields", map[string]string(fieldErrs)))
		return domain.UserRecord{}, fieldErrs
	}

	e.setState(StateCommitting)
	if err := commit(rec); err != nil {
		e.setState(StateIdle)
		e.logFailure(op, rec.Email, err)
		return domain.UserRecord{}, err
	}

	e.setState(StateRefreshing)
	e.refresh()
	e.setState(StateIdle)
	return rec, nil
}

func (e *Engine) refresh() {
	res := Query(e.store.List(), e.searchTerm, e.roleFilter, e.page, e.pageSize)
	e.view = View{
		Items:      res.Items,
		TotalPages: res.TotalPages,
		Page:       e.page,
		Total:      res.Total,
		SearchTerm: e.searchTerm,
		RoleFilter: e.roleFilter,
	}
}

func (e *Engine) setState(s State) {
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
}

func (e *Engine) logFailure(op, email string, err error) {
	fields := []zap.Field{zap.String("op", op), zap.String("email", email), zap.Error(err)}
	switch {
	case errors.Is(err, ErrPersistence):
		e.logger.Warn("persistence failed; mutation rolled back", fields...)
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrNotFound):
		e.logger.Error("store invariant violated", fields...)
	default:
		e.logger.Error("mutation failed", fields...)
	}
}

// viewEvent snapshots the current view. Callers hold e.mu.
func (e *Engine) viewEvent() events.Event {
	return events.NewEvent(events.EventViewChanged, "", e.view)
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if err := e.dispatcher.Publish(ctx, event); err != nil {
		e.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
