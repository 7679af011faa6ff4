// Package console holds the interactive controllers behind the record forms
// and lists: mode handling, submission, search sequencing and the delete
// confirmation flow. They are presentation-agnostic; staffctl drives them
// from a terminal.
package console

import (
	"context"
	"errors"
	"sync"

	"staff-console-go/internal/domain/validation"
	"staff-console-go/internal/notify"
	"staff-console-go/pkg/logger"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Messages are the notifications shown after a submit.
type Messages struct {
	Created      string
	CreateFailed string
	Updated      string
	UpdateFailed string
}

// FormBinding adapts one entity's form F and record R to the controller.
type FormBinding[F, R any] struct {
	Entity   string
	ListPath string
	Messages Messages

	Blank      func() F
	FromRecord func(R) F
	Validate   func(F) validation.Errors
	RecordID   func(R) int64

	Get    func(ctx context.Context, id int64) (R, error)
	Create func(ctx context.Context, form F) (R, error)
	Update func(ctx context.Context, id int64, form F) (R, error)

	// IsNotFound reports whether a Get error means the record is gone.
	IsNotFound func(error) bool

	// AvatarField, AvatarURL and WithAvatar connect an AvatarSlot; all are
	// nil/empty for entities without an avatar.
	AvatarField string
	AvatarURL   func(F) string
	WithAvatar  func(F, string) F
}

// Invalidator drops cached result sets after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Router receives the navigation the controllers trigger.
type Router interface {
	Go(path string)
}

type RouterFunc func(path string)

func (f RouterFunc) Go(path string) {
	f(path)
}

type FormDeps struct {
	Cache  Invalidator
	Notify notify.Sink
	Router Router
	Log    logger.Logger
	Avatar *AvatarSlot
}

type FormController[F, R any] struct {
	binding FormBinding[F, R]
	deps    FormDeps

	mu         sync.Mutex
	id         *int64
	token      uint64
	form       F
	errs       validation.Errors
	submitting bool
}

func NewFormController[F, R any](binding FormBinding[F, R], deps FormDeps) *FormController[F, R] {
	if deps.Notify == nil {
		deps.Notify = notify.Nop()
	}
	if deps.Router == nil {
		deps.Router = RouterFunc(func(string) {})
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &FormController[F, R]{
		binding: binding,
		deps:    deps,
		form:    binding.Blank(),
	}
}

func (c *FormController[F, R]) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == nil {
		return ModeCreate
	}
	return ModeEdit
}

func (c *FormController[F, R]) ID() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == nil {
		return 0, false
	}
	return *c.id, true
}

// Navigate points the form at a new route: nil for create, an id for edit.
// Anything still loading for the previous route is no longer relevant.
func (c *FormController[F, R]) Navigate(id *int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigateLocked(id)
}

func (c *FormController[F, R]) navigateLocked(id *int64) {
	if id != nil {
		copied := *id
		id = &copied
	}
	c.id = id
	c.token++
	c.form = c.binding.Blank()
	c.errs = nil
	if c.deps.Avatar != nil {
		c.deps.Avatar.reset()
	}
}

// Load fetches the record in edit mode and replaces the form values with it,
// including any edits made while the fetch was running.
func (c *FormController[F, R]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.id == nil {
		c.mu.Unlock()
		return nil
	}
	id, token := *c.id, c.token
	c.mu.Unlock()

	record, err := c.binding.Get(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		return ErrStaleResult
	}
	if err != nil {
		if c.binding.IsNotFound != nil && c.binding.IsNotFound(err) {
			return errors.Join(ErrNotFound, err)
		}
		c.deps.Log.InternalError("console.form.load: fetch failed", err, "entity", c.binding.Entity, "id", id)
		return err
	}

	c.form = c.binding.FromRecord(record)
	c.errs = nil
	if c.deps.Avatar != nil && c.binding.AvatarURL != nil {
		c.deps.Avatar.seed(c.binding.AvatarURL(c.form))
	}
	return nil
}

func (c *FormController[F, R]) Form() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Edit applies fn to the current form values.
func (c *FormController[F, R]) Edit(fn func(*F)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.form)
}

// Errors returns the field errors from the last submit plus any avatar
// upload error.
func (c *FormController[F, R]) Errors() validation.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := validation.Errors{}
	for field, msg := range c.errs {
		errs[field] = msg
	}
	if c.deps.Avatar != nil && c.binding.AvatarField != "" {
		errs.Check(c.binding.AvatarField, c.deps.Avatar.FieldError())
	}
	return errs
}

func (c *FormController[F, R]) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Submit validates locally, then creates or updates depending on the mode.
// Invalid forms never reach the backend; their errors are returned as
// validation.Errors and kept for Errors.
func (c *FormController[F, R]) Submit(ctx context.Context) (R, error) {
	var zero R

	c.mu.Lock()
	if c.submitting || (c.deps.Avatar != nil && c.deps.Avatar.Uploading()) {
		c.mu.Unlock()
		return zero, ErrBusy
	}

	form := c.form
	if c.deps.Avatar != nil && c.binding.WithAvatar != nil {
		form = c.binding.WithAvatar(form, c.deps.Avatar.URL())
	}
	if errs := c.binding.Validate(form); len(errs) > 0 {
		c.errs = errs
		c.mu.Unlock()
		return zero, errs
	}

	c.errs = nil
	c.submitting = true
	token := c.token
	var id *int64
	if c.id != nil {
		copied := *c.id
		id = &copied
	}
	c.mu.Unlock()

	var (
		record R
		err    error
	)
	if id == nil {
		record, err = c.binding.Create(ctx, form)
	} else {
		record, err = c.binding.Update(ctx, *id, form)
	}

	c.mu.Lock()
	c.submitting = false
	current := token == c.token
	var fieldErrs validation.Errors
	if err != nil && current && errors.As(err, &fieldErrs) {
		c.errs = fieldErrs
	}
	if err == nil && current {
		c.navigateLocked(nil)
	}
	c.mu.Unlock()

	action, okMsg, failMsg := notify.ActionCreated, c.binding.Messages.Created, c.binding.Messages.CreateFailed
	if id != nil {
		action, okMsg, failMsg = notify.ActionUpdated, c.binding.Messages.Updated, c.binding.Messages.UpdateFailed
	}

	if err != nil {
		c.deps.Log.BusinessError("console.form.submit: "+action+" failed", err, "entity", c.binding.Entity)
		c.deps.Notify.Notify(ctx, notify.Event{Kind: notify.KindError, Entity: c.binding.Entity, Action: action, Message: failMsg})
		return zero, err
	}

	if c.deps.Cache != nil {
		if err := c.deps.Cache.Invalidate(ctx); err != nil {
			c.deps.Log.InternalError("console.form.submit: invalidate failed", err, "entity", c.binding.Entity)
		}
	}

	var recordID int64
	if c.binding.RecordID != nil {
		recordID = c.binding.RecordID(record)
	}
	c.deps.Notify.Notify(ctx, notify.Event{Kind: notify.KindSuccess, Entity: c.binding.Entity, Action: action, ID: recordID, Message: okMsg})
	if current {
		c.deps.Router.Go(c.binding.ListPath)
	}
	return record, nil
}
