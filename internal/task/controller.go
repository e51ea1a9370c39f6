package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tasklist/internal/logging"
	"tasklist/internal/storage"
)

// Store is the key-value slot the controller persists to.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Option func(*Controller)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller is the single owner of the task collection, the active filter
// and the edit cursor. It is not safe for concurrent use; callers drive it
// from one event loop.
//
// Mutating methods return an error only when writing the slot fails. The
// in-memory change is kept in that case.
type Controller struct {
	store Store
	key   string
	now   func() time.Time
	log   zerolog.Logger

	tasks     []Task
	filter    Filter
	editing   int64
	isEditing bool
	lastID    int64
	loadErr   error
}

func NewController(store Store, key string, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		key:    key,
		now:    time.Now,
		log:    logging.Component("controller"),
		filter: FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize loads the persisted collection and resets filter and edit cursor.
// A missing or malformed slot yields an empty collection. A failed read also
// starts empty but is returned, and the controller refuses to write until a
// later Initialize succeeds so the unread slot is never overwritten.
func (c *Controller) Initialize(ctx context.Context) error {
	tasks, err := c.load(ctx)
	c.tasks = tasks
	c.loadErr = err
	c.filter = FilterAll
	c.isEditing = false
	c.editing = 0

	c.lastID = 0
	for _, t := range c.tasks {
		c.lastID = max(c.lastID, t.ID)
	}
	if err != nil {
		return err
	}
	c.log.Debug().Int("tasks", len(c.tasks)).Msg("initialized")
	return nil
}

func (c *Controller) load(ctx context.Context) ([]Task, error) {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.log.Debug().Str("key", c.key).Msg("no saved tasks")
			return []Task{}, nil
		}
		c.log.Error().Err(err).Str("key", c.key).Msg("failed to read saved tasks")
		return []Task{}, fmt.Errorf("load tasks: %w", err)
	}

	tasks, dropped, err := Decode(data)
	if err != nil {
		c.log.Warn().Err(err).Str("key", c.key).Msg("saved tasks are malformed, starting empty")
		return []Task{}, nil
	}
	if dropped > 0 {
		c.log.Warn().Int("dropped", dropped).Msg("skipped invalid saved tasks")
	}
	return tasks, nil
}

// AddTask appends a new task. Blank text is ignored and reported as added=false.
func (c *Controller) AddTask(ctx context.Context, text string, priority Priority) (Task, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false, nil
	}
	if _, err := ParsePriority(string(priority)); err != nil {
		priority = PriorityMedium
	}

	now := c.now()
	t := Task{
		ID:        c.nextID(now),
		Text:      text,
		Completed: false,
		Priority:  priority,
		CreatedAt: formatCreatedAt(now),
	}
	c.tasks = append(c.tasks, t)
	c.log.Debug().Int64("id", t.ID).Str("priority", string(priority)).Msg("task added")
	return t, true, c.persist(ctx)
}

// nextID keeps ids millisecond-shaped but strictly increasing, so two tasks
// created within the same tick (or after a clock step back) never collide.
func (c *Controller) nextID(now time.Time) int64 {
	id := max(now.UnixMilli(), c.lastID+1)
	c.lastID = id
	return id
}

func (c *Controller) DeleteTask(ctx context.Context, id int64) error {
	i := c.index(id)
	if i < 0 {
		return nil
	}
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	if c.isEditing && c.editing == id {
		c.isEditing = false
	}
	c.log.Debug().Int64("id", id).Msg("task deleted")
	return c.persist(ctx)
}

func (c *Controller) ToggleComplete(ctx context.Context, id int64) error {
	i := c.index(id)
	if i < 0 {
		return nil
	}
	c.tasks[i].Completed = !c.tasks[i].Completed
	return c.persist(ctx)
}

// StartEdit marks id as the task being edited. Any previous edit is abandoned.
func (c *Controller) StartEdit(id int64) {
	c.editing = id
	c.isEditing = true
}

// SaveEdit replaces the task's text when newText is not blank. The edit
// cursor is cleared either way.
func (c *Controller) SaveEdit(ctx context.Context, id int64, newText string) error {
	c.CancelEdit()

	newText = strings.TrimSpace(newText)
	i := c.index(id)
	if i < 0 || newText == "" {
		return nil
	}
	c.tasks[i].Text = newText
	return c.persist(ctx)
}

func (c *Controller) CancelEdit() {
	c.editing = 0
	c.isEditing = false
}

// ClearCompleted removes every completed task, keeping the order of the rest,
// and always writes the slot.
func (c *Controller) ClearCompleted(ctx context.Context) error {
	kept := c.tasks[:0]
	removed := 0
	for _, t := range c.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	c.tasks = kept
	if c.isEditing && c.index(c.editing) < 0 {
		c.isEditing = false
	}
	c.log.Debug().Int("removed", removed).Msg("cleared completed tasks")
	return c.persist(ctx)
}

func (c *Controller) SetFilter(f Filter) {
	c.filter = ParseFilter(string(f))
}

func (c *Controller) Filter() Filter { return c.filter }

// Editing returns the id under edit, if any.
func (c *Controller) Editing() (int64, bool) {
	return c.editing, c.isEditing
}

// Tasks returns a copy of the full collection in insertion order.
func (c *Controller) Tasks() []Task {
	return append([]Task(nil), c.tasks...)
}

func (c *Controller) Find(id int64) (Task, bool) {
	i := c.index(id)
	if i < 0 {
		return Task{}, false
	}
	return c.tasks[i], true
}

// VisibleTasks returns the tasks matching the current filter in collection order.
func (c *Controller) VisibleTasks() []Task {
	return Visible(c.tasks, c.filter)
}

// Visible filters tasks without modifying them.
func Visible(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Controller) Stats() Stats {
	return Count(c.tasks)
}

// Count tallies tasks by completion.
func Count(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	return s
}

func (c *Controller) index(id int64) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) persist(ctx context.Context) error {
	if c.loadErr != nil {
		return fmt.Errorf("save tasks: %w", c.loadErr)
	}
	data, err := Encode(c.tasks)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		c.log.Error().Err(err).Str("key", c.key).Msg("failed to save tasks")
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
