package employees

import "context"

type Repository interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	Search(ctx context.Context, query string) ([]Employee, error)
	Count(ctx context.Context) (int64, error)
	ListNames(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, employee *Employee) error
	Update(ctx context.Context, employee *Employee) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
