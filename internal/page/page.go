// Package page holds the state behind the countboard page: the counter, the message
// list, the draft input, the error banner and which controls are waiting on a call.
package page

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shohag/countboard/internal/models"
)

type Control string

const (
	ControlIncrement Control = "increment"
	ControlDecrement Control = "decrement"
	ControlReset     Control = "reset"
	ControlSubmit    Control = "submit"
	ControlClear     Control = "clear"
	ControlDelete    Control = "delete"

	controlLoad Control = "load"
)

// ErrBusy is returned when a control is triggered while its previous call is still outstanding.
var ErrBusy = errors.New("control is busy")

const errorPrefix = "Error: "

type Page struct {
	backend Backend
	log     zerolog.Logger

	mu       sync.Mutex
	counter  int64
	messages []models.Message
	draft    string
	errText  string
	pending  map[Control]bool

	// loadErr marks errText as set by a failed Load, the only banner a later Load may clear.
	loadErr bool
}

func New(backend Backend, log zerolog.Logger) *Page {
	return &Page{
		backend: backend,
		log:     log,
		pending: make(map[Control]bool),
	}
}

// View is a snapshot of the page for rendering.
type View struct {
	Counter  int64
	Messages []models.Message
	Draft    string
	Error    string
	disabled map[Control]bool
}

func (v View) Empty() bool {
	return len(v.Messages) == 0
}

func (v View) Disabled(c Control) bool {
	return v.disabled[c]
}

func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	disabled := make(map[Control]bool, len(p.pending))
	for c, busy := range p.pending {
		disabled[c] = busy
	}
	return View{
		Counter:  p.counter,
		Messages: append([]models.Message(nil), p.messages...),
		Draft:    p.draft,
		Error:    p.errText,
		disabled: disabled,
	}
}

// begin marks c pending. The backend call runs without p.mu held so other controls stay usable.
// A rejected trigger is put on the banner so the click is not lost silently.
func (p *Page) begin(c Control) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending[c] {
		p.errText = errorPrefix + string(c) + " is still in progress, try again"
		p.loadErr = false
		return ErrBusy
	}
	p.pending[c] = true
	return nil
}

func (p *Page) end(c Control) {
	p.mu.Lock()
	p.pending[c] = false
	p.mu.Unlock()
}

func (p *Page) fail(c Control, err error) error {
	p.log.Error().Err(err).Str("control", string(c)).Msg("page action failed")
	p.mu.Lock()
	p.errText = errorPrefix + err.Error()
	p.loadErr = c == controlLoad
	p.mu.Unlock()
	return err
}

// Load fetches the counter and the message list. It runs on every render; on failure the
// previous values stay in place.
func (p *Page) Load(ctx context.Context) error {
	counter, err := p.backend.GetCounter(ctx)
	if err != nil {
		return p.fail(controlLoad, err)
	}
	list, err := p.backend.GetMessages(ctx)
	if err != nil {
		p.mu.Lock()
		p.counter = counter.Value
		p.mu.Unlock()
		return p.fail(controlLoad, err)
	}

	p.mu.Lock()
	p.counter = counter.Value
	p.messages = list.Messages
	if p.loadErr {
		p.errText = ""
		p.loadErr = false
	}
	p.mu.Unlock()
	return nil
}

func (p *Page) updateCounter(ctx context.Context, c Control, call func(context.Context) (*models.CounterResponse, error)) error {
	if err := p.begin(c); err != nil {
		return err
	}
	defer p.end(c)

	resp, err := call(ctx)
	if err != nil {
		return p.fail(c, err)
	}

	p.mu.Lock()
	p.counter = resp.Value
	p.errText = ""
	p.loadErr = false
	p.mu.Unlock()
	return nil
}

func (p *Page) Increment(ctx context.Context) error {
	return p.updateCounter(ctx, ControlIncrement, p.backend.IncrementCounter)
}

func (p *Page) Decrement(ctx context.Context) error {
	return p.updateCounter(ctx, ControlDecrement, p.backend.DecrementCounter)
}

func (p *Page) Reset(ctx context.Context) error {
	return p.updateCounter(ctx, ControlReset, p.backend.ResetCounter)
}

// Submit creates a message from text. Whitespace-only text is ignored without a call.
func (p *Page) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := p.begin(ControlSubmit); err != nil {
		return err
	}
	defer p.end(ControlSubmit)

	p.mu.Lock()
	p.draft = text
	p.mu.Unlock()

	if _, err := p.backend.CreateMessage(ctx, text); err != nil {
		return p.fail(ControlSubmit, err)
	}

	p.mu.Lock()
	p.draft = ""
	p.errText = ""
	p.loadErr = false
	p.mu.Unlock()

	return p.reloadMessages(ctx, ControlSubmit)
}

func (p *Page) DeleteAll(ctx context.Context) error {
	if err := p.begin(ControlClear); err != nil {
		return err
	}
	defer p.end(ControlClear)

	if _, err := p.backend.DeleteAllMessages(ctx); err != nil {
		return p.fail(ControlClear, err)
	}

	p.mu.Lock()
	p.messages = nil
	p.errText = ""
	p.loadErr = false
	p.mu.Unlock()

	return p.reloadMessages(ctx, ControlClear)
}

func (p *Page) Delete(ctx context.Context, id int64) error {
	if err := p.begin(ControlDelete); err != nil {
		return err
	}
	defer p.end(ControlDelete)

	if _, err := p.backend.DeleteMessage(ctx, id); err != nil {
		return p.fail(ControlDelete, err)
	}

	p.mu.Lock()
	p.errText = ""
	p.loadErr = false
	p.mu.Unlock()

	return p.reloadMessages(ctx, ControlDelete)
}

func (p *Page) reloadMessages(ctx context.Context, c Control) error {
	list, err := p.backend.GetMessages(ctx)
	if err != nil {
		return p.fail(c, err)
	}
	p.mu.Lock()
	p.messages = list.Messages
	p.mu.Unlock()
	return nil
}
