package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
)

type Service struct {
	repo  Repository
	clock clockwork.Clock
}

func NewService(repo Repository, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{repo: repo, clock: clock}
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("employees: list: %w", err)
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("employees: get %d: %w", id, err)
	}
	return employee, nil
}

// Search matches query case-insensitively against the name parts, email,
// job position and phone. A blank query lists everything.
func (s *Service) Search(ctx context.Context, query string) ([]Employee, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	items, err := s.repo.Search(ctx, strings.ToLower(query))
	if err != nil {
		return nil, fmt.Errorf("employees: search: %w", err)
	}
	return items, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("employees: count: %w", err)
	}
	return count, nil
}

// Options lists employees by full name for the team members picker.
func (s *Service) Options(ctx context.Context) ([]Option, error) {
	items, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("employees: options: %w", err)
	}

	options := make([]Option, 0, len(items))
	for _, item := range items {
		options = append(options, Option{ID: item.ID, FullName: item.FullName()})
	}
	return options, nil
}

func (s *Service) Create(ctx context.Context, form Form) (*Employee, error) {
	if errs := form.Validate(s.clock.Now()); len(errs) > 0 {
		return nil, errs
	}

	employee := form.toEmployee()
	if err := s.repo.Create(ctx, &employee); err != nil {
		return nil, fmt.Errorf("employees: create: %w", err)
	}
	return s.GetByID(ctx, employee.ID)
}

func (s *Service) Update(ctx context.Context, id int64, form Form) (*Employee, error) {
	if errs := form.Validate(s.clock.Now()); len(errs) > 0 {
		return nil, errs
	}

	employee := form.toEmployee()
	employee.ID = id

	updated, err := s.repo.Update(ctx, &employee)
	if err != nil {
		return nil, fmt.Errorf("employees: update %d: %w", id, err)
	}
	if !updated {
		return nil, fmt.Errorf("employees: update %d: %w", id, ErrEmployeeNotFound)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the employee. Deleting an employee that no longer exists
// succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("employees: delete %d: %w", id, err)
	}
	return nil
}
