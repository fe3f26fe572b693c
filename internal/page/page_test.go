package page

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shohag/countboard/internal/models"
)

// fakeBackend keeps state in memory and counts calls. Setting fail makes every call
// return that error; setting gate blocks counter mutations until the channel is closed.
type fakeBackend struct {
	mu       sync.Mutex
	counter  int64
	messages []models.Message
	nextID   int64
	fail     error
	gate     chan struct{}
	entered  chan struct{}
	calls    map[string]int
	created  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	f.calls[name]++
	err := f.fail
	f.mu.Unlock()
	return err
}

func (f *fakeBackend) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) wait() {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeBackend) add(name string, delta int64, reset bool) (*models.CounterResponse, error) {
	if err := f.record(name); err != nil {
		return nil, err
	}
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if reset {
		f.counter = 0
	}
	f.counter += delta
	return &models.CounterResponse{Value: f.counter}, nil
}

func (f *fakeBackend) GetCounter(ctx context.Context) (*models.CounterResponse, error) {
	return f.add("get", 0, false)
}

func (f *fakeBackend) IncrementCounter(ctx context.Context) (*models.CounterResponse, error) {
	return f.add("increment", 1, false)
}

func (f *fakeBackend) DecrementCounter(ctx context.Context) (*models.CounterResponse, error) {
	return f.add("decrement", -1, false)
}

func (f *fakeBackend) ResetCounter(ctx context.Context) (*models.CounterResponse, error) {
	return f.add("reset", 0, true)
}

func (f *fakeBackend) GetMessages(ctx context.Context) (*models.MessagesResponse, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.MessagesResponse{Messages: append([]models.Message{}, f.messages...)}, nil
}

func (f *fakeBackend) CreateMessage(ctx context.Context, content string) (*models.Message, error) {
	if err := f.record("create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg := models.Message{ID: f.nextID, Content: content}
	f.messages = append(f.messages, msg)
	f.created = append(f.created, content)
	return &msg, nil
}

func (f *fakeBackend) DeleteAllMessages(ctx context.Context) (*models.DeleteResponse, error) {
	if err := f.record("clear"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = nil
	return &models.DeleteResponse{Message: "all messages deleted"}, nil
}

func (f *fakeBackend) DeleteMessage(ctx context.Context, id int64) (*models.DeleteResponse, error) {
	if err := f.record("delete"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.messages {
		if m.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return &models.DeleteResponse{Message: "message deleted", Deleted: &m}, nil
		}
	}
	return nil, errors.New("not found")
}

func newTestPage(t *testing.T, backend *fakeBackend) *Page {
	t.Helper()
	p := New(backend, zerolog.Nop())
	require.NoError(t, p.Load(context.Background()))
	return p
}

func TestInitialView(t *testing.T) {
	b := newFakeBackend()
	p := newTestPage(t, b)

	v := p.View()
	assert.Equal(t, int64(0), v.Counter)
	assert.True(t, v.Empty())
	assert.Empty(t, v.Error)
	assert.Equal(t, 1, b.callCount("get"))
	assert.Equal(t, 1, b.callCount("list"))
}

func TestCounterActions(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	b.counter = 5
	p := newTestPage(t, b)
	assert.Equal(t, int64(5), p.View().Counter)

	require.NoError(t, p.Increment(ctx))
	assert.Equal(t, int64(6), p.View().Counter)

	require.NoError(t, p.Decrement(ctx))
	require.NoError(t, p.Decrement(ctx))
	assert.Equal(t, int64(4), p.View().Counter)

	require.NoError(t, p.Reset(ctx))
	assert.Equal(t, int64(0), p.View().Counter)
}

func TestCounterShowsReturnedValue(t *testing.T) {
	b := newFakeBackend()
	p := newTestPage(t, b)

	// Another writer moved the counter; the page shows what the call returned.
	b.mu.Lock()
	b.counter = 41
	b.mu.Unlock()

	require.NoError(t, p.Increment(context.Background()))
	assert.Equal(t, int64(42), p.View().Counter)
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	p := newTestPage(t, b)

	require.NoError(t, p.Submit(ctx, "  hello world "))
	v := p.View()
	assert.Equal(t, []string{"  hello world "}, b.created)
	assert.Empty(t, v.Draft)
	require.Len(t, v.Messages, 1)
	assert.False(t, v.Empty())
	assert.Equal(t, 2, b.callCount("list"))
}

func TestSubmitIgnoresBlankText(t *testing.T) {
	b := newFakeBackend()
	p := newTestPage(t, b)

	for _, text := range []string{"", "   ", "\t\n"} {
		require.NoError(t, p.Submit(context.Background(), text))
	}
	assert.Equal(t, 0, b.callCount("create"))
	assert.True(t, p.View().Empty())
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	p := newTestPage(t, b)

	require.NoError(t, p.Submit(ctx, "one"))
	require.NoError(t, p.Submit(ctx, "two"))
	assert.Len(t, p.View().Messages, 2)

	require.NoError(t, p.DeleteAll(ctx))
	assert.True(t, p.View().Empty())
	assert.Equal(t, 1, b.callCount("clear"))
}

func TestDeleteOne(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	p := newTestPage(t, b)

	require.NoError(t, p.Submit(ctx, "keep"))
	require.NoError(t, p.Submit(ctx, "drop"))

	require.NoError(t, p.Delete(ctx, 2))
	v := p.View()
	require.Len(t, v.Messages, 1)
	assert.Equal(t, "keep", v.Messages[0].Content)
}

func TestFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	b.counter = 3
	p := newTestPage(t, b)
	require.NoError(t, p.Submit(ctx, "existing"))

	b.fail = errors.New("connection refused")

	assert.Error(t, p.Increment(ctx))
	v := p.View()
	assert.Equal(t, int64(3), v.Counter)
	assert.Contains(t, v.Error, "connection refused")

	assert.Error(t, p.Submit(ctx, "draft text"))
	v = p.View()
	assert.Equal(t, "draft text", v.Draft)
	assert.Len(t, v.Messages, 1)

	assert.Error(t, p.DeleteAll(ctx))
	assert.Len(t, p.View().Messages, 1)

	b.fail = nil
	require.NoError(t, p.Increment(ctx))
	v = p.View()
	assert.Equal(t, int64(4), v.Counter)
	assert.Empty(t, v.Error)
}

func TestLoadFailure(t *testing.T) {
	b := newFakeBackend()
	b.fail = errors.New("API Error: 500 Internal Server Error")
	p := New(b, zerolog.Nop())

	assert.Error(t, p.Load(context.Background()))
	v := p.View()
	assert.Equal(t, int64(0), v.Counter)
	assert.True(t, v.Empty())
	assert.Equal(t, "Error: API Error: 500 Internal Server Error", v.Error)
}

func TestControlDisabledWhilePending(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	p := newTestPage(t, b)

	b.gate = make(chan struct{})
	b.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- p.Increment(ctx) }()
	<-b.entered

	v := p.View()
	assert.True(t, v.Disabled(ControlIncrement))
	assert.False(t, v.Disabled(ControlDecrement))
	assert.ErrorIs(t, p.Increment(ctx), ErrBusy)
	assert.Equal(t, 1, b.callCount("increment"))
	assert.Contains(t, p.View().Error, "increment is still in progress")

	close(b.gate)
	require.NoError(t, <-done)

	v = p.View()
	assert.False(t, v.Disabled(ControlIncrement))
	assert.Equal(t, int64(1), v.Counter)
	assert.Empty(t, v.Error)
}

func TestControlReenabledAfterFailure(t *testing.T) {
	b := newFakeBackend()
	p := newTestPage(t, b)
	b.fail = errors.New("boom")

	assert.Error(t, p.Reset(context.Background()))
	assert.False(t, p.View().Disabled(ControlReset))
}

func TestLoadRefreshesState(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	p := newTestPage(t, b)

	// Changes made behind the page's back show up on the next load.
	b.mu.Lock()
	b.counter = 9
	b.messages = []models.Message{{ID: 1, Content: "from elsewhere"}}
	b.mu.Unlock()

	require.NoError(t, p.Load(ctx))
	v := p.View()
	assert.Equal(t, int64(9), v.Counter)
	require.Len(t, v.Messages, 1)
	assert.Equal(t, "from elsewhere", v.Messages[0].Content)

	b.fail = errors.New("connection refused")
	assert.Error(t, p.Load(ctx))
	v = p.View()
	assert.Equal(t, int64(9), v.Counter)
	assert.Len(t, v.Messages, 1)
	assert.Contains(t, v.Error, "connection refused")

	b.fail = nil
	require.NoError(t, p.Load(ctx))
	assert.Empty(t, p.View().Error)
	assert.Equal(t, 4, b.callCount("get"))
}

func TestLoadKeepsActionError(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	p := newTestPage(t, b)

	b.fail = errors.New("boom")
	assert.Error(t, p.Decrement(ctx))
	b.fail = nil

	// The render after a failed action still shows why it failed.
	require.NoError(t, p.Load(ctx))
	assert.Equal(t, "Error: boom", p.View().Error)
}
