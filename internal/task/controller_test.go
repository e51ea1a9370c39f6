package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/storage"
)

const testKey = "todos"

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func newTestController(t *testing.T, store Store) (*Controller, *fixedClock) {
	t.Helper()
	clock := &fixedClock{t: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)}
	c := NewController(store, testKey, WithClock(clock.Now), WithLogger(zerolog.Nop()))
	require.NoError(t, c.Initialize(context.Background()))
	return c, clock
}

func addTask(t *testing.T, c *Controller, text string, p Priority) Task {
	t.Helper()
	task, ok, err := c.AddTask(context.Background(), text, p)
	require.NoError(t, err)
	require.True(t, ok)
	return task
}

func TestController_AddBlankIsNoop(t *testing.T) {
	store := storage.NewMemoryStore()
	c, _ := newTestController(t, store)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, ok, err := c.AddTask(context.Background(), text, PriorityHigh)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	assert.Empty(t, c.Tasks())
	has, err := store.Has(context.Background(), testKey)
	require.NoError(t, err)
	assert.False(t, has, "blank add must not write the slot")
}

func TestController_AddTask(t *testing.T) {
	c, clock := newTestController(t, storage.NewMemoryStore())

	got := addTask(t, c, "  Buy milk ", PriorityHigh)

	tasks := c.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, got, tasks[0])
	assert.Equal(t, "Buy milk", got.Text)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.False(t, got.Completed)
	assert.Equal(t, clock.t.UnixMilli(), got.ID)
	assert.Equal(t, "2025-03-01T09:30:00.000Z", got.CreatedAt)
	assert.Equal(t, Stats{Total: 1, Active: 1, Completed: 0}, c.Stats())
}

func TestController_AddTaskUnknownPriorityFallsBackToMedium(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemoryStore())

	got := addTask(t, c, "water plants", Priority("urgent"))
	assert.Equal(t, PriorityMedium, got.Priority)
}

func TestController_IDsStrictlyIncrease(t *testing.T) {
	c, clock := newTestController(t, storage.NewMemoryStore())

	a := addTask(t, c, "a", PriorityLow)
	b := addTask(t, c, "b", PriorityLow) // same tick
	clock.t = clock.t.Add(-time.Hour)    // clock stepped back
	d := addTask(t, c, "d", PriorityLow)
	clock.t = clock.t.Add(2 * time.Hour)
	e := addTask(t, c, "e", PriorityLow)

	assert.Less(t, a.ID, b.ID)
	assert.Less(t, b.ID, d.ID)
	assert.Less(t, d.ID, e.ID)
	assert.Equal(t, clock.t.UnixMilli(), e.ID)
}

func TestController_IDsExceedLoadedIDs(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), testKey,
		[]byte(`[{"id":9999999999999,"text":"future","completed":false,"priority":"low","createdAt":"2286-11-20T17:46:39.999Z"}]`)))

	c, _ := newTestController(t, store)
	got := addTask(t, c, "now", PriorityLow)
	assert.Equal(t, int64(9999999999999+1), got.ID)
}

func TestController_ToggleTwiceRestores(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemoryStore())
	orig := addTask(t, c, "walk dog", PriorityMedium)
	ctx := context.Background()

	require.NoError(t, c.ToggleComplete(ctx, orig.ID))
	toggled, ok := c.Find(orig.ID)
	require.True(t, ok)
	assert.True(t, toggled.Completed)
	assert.Equal(t, Stats{Total: 1, Active: 0, Completed: 1}, c.Stats())

	require.NoError(t, c.ToggleComplete(ctx, orig.ID))
	back, _ := c.Find(orig.ID)
	assert.Equal(t, orig, back)
}

func TestController_UnknownIDIsNoop(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemoryStore())
	addTask(t, c, "one", PriorityLow)
	addTask(t, c, "two", PriorityHigh)
	before := c.Tasks()
	ctx := context.Background()

	require.NoError(t, c.DeleteTask(ctx, 42))
	require.NoError(t, c.ToggleComplete(ctx, 42))
	require.NoError(t, c.SaveEdit(ctx, 42, "changed"))

	assert.Equal(t, before, c.Tasks())
}

func TestController_DeleteTask(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemoryStore())
	a := addTask(t, c, "a", PriorityLow)
	b := addTask(t, c, "b", PriorityLow)
	d := addTask(t, c, "c", PriorityLow)

	c.StartEdit(b.ID)
	require.NoError(t, c.DeleteTask(context.Background(), b.ID))

	assert.Equal(t, []Task{a, d}, c.Tasks())
	_, editing := c.Editing()
	assert.False(t, editing, "deleting the edited task clears the edit cursor")
}

func TestController_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("save trims and replaces text", func(t *testing.T) {
		c, _ := newTestController(t, storage.NewMemoryStore())
		task := addTask(t, c, "draft", PriorityLow)

		c.StartEdit(task.ID)
		id, editing := c.Editing()
		require.True(t, editing)
		assert.Equal(t, task.ID, id)

		require.NoError(t, c.SaveEdit(ctx, task.ID, "  final  "))
		got, _ := c.Find(task.ID)
		assert.Equal(t, "final", got.Text)
		_, editing = c.Editing()
		assert.False(t, editing)
	})

	t.Run("blank save discards the edit", func(t *testing.T) {
		c, _ := newTestController(t, storage.NewMemoryStore())
		task := addTask(t, c, "keep me", PriorityLow)

		c.StartEdit(task.ID)
		require.NoError(t, c.SaveEdit(ctx, task.ID, "   "))

		got, _ := c.Find(task.ID)
		assert.Equal(t, "keep me", got.Text)
		_, editing := c.Editing()
		assert.False(t, editing)
	})

	t.Run("cancel leaves data untouched", func(t *testing.T) {
		c, _ := newTestController(t, storage.NewMemoryStore())
		task := addTask(t, c, "unchanged", PriorityLow)
		before := c.Tasks()

		c.StartEdit(task.ID)
		c.CancelEdit()

		assert.Equal(t, before, c.Tasks())
		_, editing := c.Editing()
		assert.False(t, editing)
	})
}

func TestController_ClearCompleted(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemoryStore())
	ctx := context.Background()

	a := addTask(t, c, "a", PriorityLow)
	b := addTask(t, c, "b", PriorityLow)
	d := addTask(t, c, "c", PriorityLow)
	e := addTask(t, c, "d", PriorityLow)
	require.NoError(t, c.ToggleComplete(ctx, a.ID))
	require.NoError(t, c.ToggleComplete(ctx, d.ID))

	require.NoError(t, c.ClearCompleted(ctx))

	assert.Equal(t, []Task{b, e}, c.Tasks())
	assert.Equal(t, Stats{Total: 2, Active: 2}, c.Stats())
}

func TestController_VisibleTasks(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemoryStore())
	ctx := context.Background()

	a := addTask(t, c, "a", PriorityLow)
	b := addTask(t, c, "b", PriorityHigh)
	d := addTask(t, c, "c", PriorityMedium)
	require.NoError(t, c.ToggleComplete(ctx, b.ID))
	b, _ = c.Find(b.ID)

	tests := []struct {
		filter Filter
		want   []Task
	}{
		{FilterAll, []Task{a, b, d}},
		{FilterActive, []Task{a, d}},
		{FilterCompleted, []Task{b}},
		{Filter("bogus"), []Task{a, b, d}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			c.SetFilter(tt.filter)
			assert.Equal(t, tt.want, c.VisibleTasks())
		})
	}

	// Filtering never changes the collection or the stats.
	assert.Len(t, c.Tasks(), 3)
	assert.Equal(t, Stats{Total: 3, Active: 2, Completed: 1}, c.Stats())
}

func TestController_RoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	c, clock := newTestController(t, store)
	ctx := context.Background()

	addTask(t, c, "first", PriorityHigh)
	clock.t = clock.t.Add(1500 * time.Millisecond)
	second := addTask(t, c, "<b>second</b>", PriorityLow)
	addTask(t, c, "third", PriorityMedium)
	require.NoError(t, c.ToggleComplete(ctx, second.ID))

	reloaded, _ := newTestController(t, store)
	assert.Equal(t, c.Tasks(), reloaded.Tasks())
}

func TestController_InitializeRecoversFromBadData(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"not json", "not json", 0},
		{"object instead of array", `{"id":1}`, 0},
		{"null", "null", 0},
		{"drops blank and duplicate", `[
			{"id":1,"text":"ok","completed":false,"priority":"high","createdAt":"x"},
			{"id":2,"text":"   ","completed":false,"priority":"low","createdAt":"x"},
			{"id":1,"text":"dup","completed":true,"priority":"low","createdAt":"x"}
		]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(context.Background(), testKey, []byte(tt.data)))

			c, _ := newTestController(t, store)
			assert.Len(t, c.Tasks(), tt.want)
			assert.Equal(t, FilterAll, c.Filter())
		})
	}
}

type failingStore struct {
	getErr error
	setErr error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.setErr }

func TestController_StoreFailures(t *testing.T) {
	boom := errors.New("disk full")

	t.Run("write failure keeps memory state", func(t *testing.T) {
		c, _ := newTestController(t, failingStore{getErr: storage.ErrNotFound, setErr: boom})

		_, ok, err := c.AddTask(context.Background(), "still added", PriorityLow)
		assert.True(t, ok)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, c.Tasks(), 1, "in-memory state survives a failed save")
	})

	t.Run("read failure is returned and blocks writes", func(t *testing.T) {
		store := &countingStore{MemoryStore: storage.NewMemoryStore(), getErr: boom}
		require.NoError(t, store.MemoryStore.Set(context.Background(), testKey, []byte(`[{"id":1,"text":"saved","completed":false,"priority":"low","createdAt":"x"}]`)))

		c := NewController(store, testKey, WithLogger(zerolog.Nop()))
		err := c.Initialize(context.Background())
		require.ErrorIs(t, err, boom)
		assert.Empty(t, c.Tasks())

		_, ok, err := c.AddTask(context.Background(), "new", PriorityLow)
		assert.True(t, ok)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, c.ClearCompleted(context.Background()), boom)
		assert.Equal(t, 0, store.sets, "unread slot is never overwritten")

		store.getErr = nil
		require.NoError(t, c.Initialize(context.Background()))
		require.Len(t, c.Tasks(), 1)
		assert.Equal(t, "saved", c.Tasks()[0].Text)
		_, _, err = c.AddTask(context.Background(), "after reload", PriorityLow)
		require.NoError(t, err)
		assert.Equal(t, 1, store.sets)
	})
}

func TestController_PersistsEveryMutation(t *testing.T) {
	store := storage.NewMemoryStore()
	c, _ := newTestController(t, store)
	ctx := context.Background()

	stored := func() []Task {
		data, err := store.Get(ctx, testKey)
		require.NoError(t, err)
		tasks, _, err := Decode(data)
		require.NoError(t, err)
		return tasks
	}

	a := addTask(t, c, "a", PriorityLow)
	assert.Equal(t, c.Tasks(), stored())

	require.NoError(t, c.ToggleComplete(ctx, a.ID))
	assert.Equal(t, c.Tasks(), stored())

	require.NoError(t, c.SaveEdit(ctx, a.ID, "renamed"))
	assert.Equal(t, c.Tasks(), stored())

	require.NoError(t, c.ClearCompleted(ctx))
	assert.Empty(t, stored())
}

type countingStore struct {
	*storage.MemoryStore
	getErr error
	sets   int
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte) error {
	s.sets++
	return s.MemoryStore.Set(ctx, key, value)
}

func TestController_NoopsDoNotWrite(t *testing.T) {
	store := &countingStore{MemoryStore: storage.NewMemoryStore()}
	c, _ := newTestController(t, store)
	ctx := context.Background()

	a := addTask(t, c, "a", PriorityLow)
	require.Equal(t, 1, store.sets)

	_, ok, err := c.AddTask(ctx, "  ", PriorityLow)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.SaveEdit(ctx, a.ID, ""))
	require.NoError(t, c.ToggleComplete(ctx, a.ID+100))
	require.NoError(t, c.DeleteTask(ctx, a.ID+100))
	c.SetFilter(FilterCompleted)

	assert.Equal(t, 1, store.sets)
}

func TestController_ClearCompletedAlwaysWrites(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, testKey, []byte("not json")))

	c, _ := newTestController(t, store)
	require.NoError(t, c.ClearCompleted(ctx))

	data, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data), "a malformed slot is replaced even when nothing was cleared")
}
