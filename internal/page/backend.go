package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/shohag/countboard/internal/models"
	"github.com/shohag/countboard/internal/storage"
)

// Backend is what the page talks to. *client.Client satisfies it for remote mode.
type Backend interface {
	GetCounter(ctx context.Context) (*models.CounterResponse, error)
	IncrementCounter(ctx context.Context) (*models.CounterResponse, error)
	DecrementCounter(ctx context.Context) (*models.CounterResponse, error)
	ResetCounter(ctx context.Context) (*models.CounterResponse, error)
	GetMessages(ctx context.Context) (*models.MessagesResponse, error)
	CreateMessage(ctx context.Context, content string) (*models.Message, error)
	DeleteAllMessages(ctx context.Context) (*models.DeleteResponse, error)
	DeleteMessage(ctx context.Context, id int64) (*models.DeleteResponse, error)
}

// StoreBackend serves the page straight from a store, without an HTTP hop.
type StoreBackend struct {
	store storage.Storage
}

func NewStoreBackend(store storage.Storage) *StoreBackend {
	return &StoreBackend{store: store}
}

func counterResponse(value int64, err error) (*models.CounterResponse, error) {
	if err != nil {
		return nil, err
	}
	return &models.CounterResponse{Value: value}, nil
}

func (b *StoreBackend) GetCounter(ctx context.Context) (*models.CounterResponse, error) {
	return counterResponse(b.store.GetCounter(ctx))
}

func (b *StoreBackend) IncrementCounter(ctx context.Context) (*models.CounterResponse, error) {
	return counterResponse(b.store.AddCounter(ctx, 1))
}

func (b *StoreBackend) DecrementCounter(ctx context.Context) (*models.CounterResponse, error) {
	return counterResponse(b.store.AddCounter(ctx, -1))
}

func (b *StoreBackend) ResetCounter(ctx context.Context) (*models.CounterResponse, error) {
	return counterResponse(b.store.ResetCounter(ctx))
}

func (b *StoreBackend) GetMessages(ctx context.Context) (*models.MessagesResponse, error) {
	msgs, err := b.store.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return &models.MessagesResponse{Messages: msgs}, nil
}

func (b *StoreBackend) CreateMessage(ctx context.Context, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	msg := &models.Message{Content: content}
	if err := b.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (b *StoreBackend) DeleteAllMessages(ctx context.Context) (*models.DeleteResponse, error) {
	if _, err := b.store.DeleteAllMessages(ctx); err != nil {
		return nil, err
	}
	return &models.DeleteResponse{Message: "all messages deleted"}, nil
}

func (b *StoreBackend) DeleteMessage(ctx context.Context, id int64) (*models.DeleteResponse, error) {
	msg, err := b.store.DeleteMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("message %d not found", id)
	}
	return &models.DeleteResponse{Message: "message deleted", Deleted: msg}, nil
}
