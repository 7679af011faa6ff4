package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type Summary struct {
	Employees int64
	Teams     int64
}

type Service struct {
	employees Counter
	teams     Counter
}

func NewService(employees, teams Counter) *Service {
	return &Service{employees: employees, teams: teams}
}

// Summary fetches both counts concurrently. The first failure cancels the
// other request.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var summary Summary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.employees.Count(ctx)
		if err != nil {
			return fmt.Errorf("dashboard: employees: %w", err)
		}
		summary.Employees = count
		return nil
	})
	g.Go(func() error {
		count, err := s.teams.Count(ctx)
		if err != nil {
			return fmt.Errorf("dashboard: teams: %w", err)
		}
		summary.Teams = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}
