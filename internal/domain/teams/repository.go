package teams

import "context"

type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (*Team, error)
	Search(ctx context.Context, query string) ([]Team, error)
	ListByMaxHours(ctx context.Context, maxHours int) ([]Team, error)
	ListByName(ctx context.Context, name string) ([]Team, error)
	Count(ctx context.Context) (int64, error)
	ListSummaries(ctx context.Context) ([]Summary, error)
	Create(ctx context.Context, team *Team) error
	Update(ctx context.Context, team *Team) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
