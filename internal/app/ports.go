package app

import (
	"context"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

type DashboardUseCase interface {
	Load(ctx context.Context) (*Dashboard, error)
}

type SubmitLogUseCase interface {
	Submit(ctx context.Context, entry domain.NewLogEntry) (*domain.LogEntry, error)
}
