package services

import (
	"context"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/models"
	"resumebuilder/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// AggregateBuilder assembles the full view of a resume from its header and
// five child collections.
type AggregateBuilder struct {
	repo repositories.ResumeRepository
}

// NewAggregateBuilder creates a new AggregateBuilder.
func NewAggregateBuilder(repo repositories.ResumeRepository) *AggregateBuilder {
	return &AggregateBuilder{repo: repo}
}

// Build loads the header, fetches every collection concurrently and merges
// them in fixed order. If the resume is deleted while the collections are
// being read the result is a NotFoundError, never a partial aggregate.
func (b *AggregateBuilder) Build(ctx context.Context, id string) (*models.Aggregate, error) {
	header, err := b.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get resume", err)
	}

	results := make([]models.Children, len(models.Collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range models.Collections {
		g.Go(func() error {
			children, err := b.repo.GetChildren(gctx, id, kind)
			if err != nil {
				return apperr.Storage("get "+string(kind), err)
			}
			results[i] = children
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, err := b.repo.GetByID(ctx, id); err != nil {
		return nil, apperr.Storage("get resume", err)
	}

	agg := models.NewAggregate(header)
	for i, kind := range models.Collections {
		agg.Merge(kind, results[i])
	}
	return agg, nil
}
