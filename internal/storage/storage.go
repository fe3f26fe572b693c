package storage

import (
	"context"

	"github.com/shohag/countboard/internal/models"
)

type Storage interface {
	// Counter
	GetCounter(ctx context.Context) (int64, error)
	SetCounter(ctx context.Context, value int64) (int64, error)
	AddCounter(ctx context.Context, delta int64) (int64, error)
	ResetCounter(ctx context.Context) (int64, error)

	// Messages
	ListMessages(ctx context.Context) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id int64) (*models.Message, error)
	DeleteMessage(ctx context.Context, id int64) (*models.Message, error)
	DeleteAllMessages(ctx context.Context) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
