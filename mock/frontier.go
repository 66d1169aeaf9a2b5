package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.FrontierStore = (*FrontierStore)(nil)

// FrontierStore is a mock implementation of sitecrawl.FrontierStore.
type FrontierStore struct {
	EnsureProjectFn   func(ctx context.Context) error
	EnsureDataFilesFn func(ctx context.Context, seedURL string) error
	LoadFn            func(ctx context.Context) (*sitecrawl.Frontier, error)
	SaveFn            func(ctx context.Context, f *sitecrawl.Frontier) error
}

func (s *FrontierStore) EnsureProject(ctx context.Context) error {
	return s.EnsureProjectFn(ctx)
}

func (s *FrontierStore) EnsureDataFiles(ctx context.Context, seedURL string) error {
	return s.EnsureDataFilesFn(ctx, seedURL)
}

func (s *FrontierStore) Load(ctx context.Context) (*sitecrawl.Frontier, error) {
	return s.LoadFn(ctx)
}

func (s *FrontierStore) Save(ctx context.Context, f *sitecrawl.Frontier) error {
	return s.SaveFn(ctx, f)
}
