package employees

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	employeesdomain "staff-console-go/internal/domain/employees"
	"staff-console-go/internal/repository/postgres/pgutil"
)

const teamConstraint = "employees_team_fkey"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) withTeam(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Team", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "team_name")
		})
}

func (r *PostgresRepository) List(ctx context.Context) ([]employeesdomain.Employee, error) {
	var items []employeesdomain.Employee
	if err := r.withTeam(ctx).Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*employeesdomain.Employee, error) {
	var employee employeesdomain.Employee
	if err := r.withTeam(ctx).Where("id = ?", id).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeesdomain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *PostgresRepository) Search(ctx context.Context, query string) ([]employeesdomain.Employee, error) {
	pattern := pgutil.LikePattern(query)

	var items []employeesdomain.Employee
	if err := r.withTeam(ctx).
		Where(`first_name ILIKE @q OR middle_name ILIKE @q OR last_name ILIKE @q
			OR email ILIKE @q OR job_position ILIKE @q OR phone ILIKE @q`,
			map[string]interface{}{"q": pattern}).
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&employeesdomain.Employee{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresRepository) ListNames(ctx context.Context) ([]employeesdomain.Employee, error) {
	var items []employeesdomain.Employee
	if err := r.db.WithContext(ctx).
		Select("id", "first_name", "middle_name", "last_name").
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Create(ctx context.Context, employee *employeesdomain.Employee) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(employee).Error
	return mapWriteError(err)
}

func (r *PostgresRepository) Update(ctx context.Context, employee *employeesdomain.Employee) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&employeesdomain.Employee{}).
		Where("id = ?", employee.ID).
		Updates(map[string]interface{}{
			"first_name":     employee.FirstName,
			"middle_name":    employee.MiddleName,
			"last_name":      employee.LastName,
			"dob":            employee.DOB,
			"gender":         employee.Gender,
			"address":        employee.Address,
			"phone":          employee.Phone,
			"email":          employee.Email,
			"job_position":   employee.JobPosition,
			"team":           employee.TeamID,
			"start_at":       employee.StartAt,
			"ends_in":        employee.EndsIn,
			"billable_hours": employee.BillableHours,
			"avatar":         employee.Avatar,
		})
	if result.Error != nil {
		return false, mapWriteError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&employeesdomain.Employee{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if pgutil.IsForeignKeyViolation(err, teamConstraint) {
		return employeesdomain.ErrTeamNotFound
	}
	return err
}
