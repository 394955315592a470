package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"nitter_collector/internal/domain"
)

type Fetcher interface {
	Fetch(ctx context.Context, mirror string, item domain.WorkItem, since time.Time) ([]domain.Tweet, error)
	FetchWithFallback(ctx context.Context, item domain.WorkItem, ordering []string, since time.Time) (domain.FetchResult, error)
}

type Forwarder interface {
	Forward(ctx context.Context, tweets []domain.Tweet) (*domain.IngestResult, error)
}

type Pacer interface {
	Wait(ctx context.Context) error
}
