package providers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"course-synergy/internal/domain"
)

// RecordLoader reads the course schedule of one training provider.
type RecordLoader interface {
	Name() string
	LoadCourses(ctx context.Context) ([]domain.Course, error)
}

// LoadPair runs both loaders concurrently. Either failure cancels the other.
func LoadPair(ctx context.Context, a, b RecordLoader) (coursesA, coursesB []domain.Course, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := a.LoadCourses(ctx)
		if err != nil {
			return fmt.Errorf("providers: load %s: %w", a.Name(), err)
		}
		coursesA = out
		return nil
	})
	g.Go(func() error {
		out, err := b.LoadCourses(ctx)
		if err != nil {
			return fmt.Errorf("providers: load %s: %w", b.Name(), err)
		}
		coursesB = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return coursesA, coursesB, nil
}
