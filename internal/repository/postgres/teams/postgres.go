package teams

import (
	"context"
	"errors"

	"gorm.io/gorm"
	teamsdomain "staff-console-go/internal/domain/teams"
	"staff-console-go/internal/repository/postgres/pgutil"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]teamsdomain.Team, error) {
	var items []teamsdomain.Team
	if err := r.db.WithContext(ctx).Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*teamsdomain.Team, error) {
	var team teamsdomain.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamsdomain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *PostgresRepository) Search(ctx context.Context, query string) ([]teamsdomain.Team, error) {
	var items []teamsdomain.Team
	if err := r.db.WithContext(ctx).
		Where("team_name ILIKE ?", pgutil.LikePattern(query)).
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListByMaxHours(ctx context.Context, maxHours int) ([]teamsdomain.Team, error) {
	var items []teamsdomain.Team
	if err := r.db.WithContext(ctx).
		Where("billable_hours <= ?", maxHours).
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListByName(ctx context.Context, name string) ([]teamsdomain.Team, error) {
	var items []teamsdomain.Team
	if err := r.db.WithContext(ctx).
		Where("team_name = ?", name).
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&teamsdomain.Team{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresRepository) ListSummaries(ctx context.Context) ([]teamsdomain.Summary, error) {
	var items []teamsdomain.Summary
	if err := r.db.WithContext(ctx).
		Select("id", "team_name").
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Create(ctx context.Context, team *teamsdomain.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *PostgresRepository) Update(ctx context.Context, team *teamsdomain.Team) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&teamsdomain.Team{}).
		Where("id = ?", team.ID).
		Updates(map[string]interface{}{
			"team_name":      team.TeamName,
			"team_password":  team.TeamPassword,
			"password_hash":  team.PasswordHash,
			"team_members":   team.TeamMembers,
			"billable_hours": team.BillableHours,
			"qr_code":        team.QRCode,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&teamsdomain.Team{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}
