package timetable

import (
	"context"

	"github.com/moscovig/hthCourseReg/internal/model/timetable"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, userID uint) ([]timetable.TimeTable, error)
	FindByID(ctx context.Context, id uint) (*timetable.TimeTable, error)
	Create(ctx context.Context, tt *timetable.TimeTable) error
	Update(ctx context.Context, tt *timetable.TimeTable) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// List all entries, or only the user's when userID is not zero
func (r *GormRepository) List(ctx context.Context, userID uint) ([]timetable.TimeTable, error) {
	query := r.db.WithContext(ctx)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var list []timetable.TimeTable
	err := query.Order("user_id ASC, week_day ASC, day_slot ASC").Find(&list).Error
	return list, err
}

func (r *GormRepository) FindByID(ctx context.Context, id uint) (*timetable.TimeTable, error) {
	var tt timetable.TimeTable
	if err := r.db.WithContext(ctx).First(&tt, id).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *GormRepository) Create(ctx context.Context, tt *timetable.TimeTable) error {
	return r.db.WithContext(ctx).Omit("User").Create(tt).Error
}

func (r *GormRepository) Update(ctx context.Context, tt *timetable.TimeTable) error {
	return r.db.WithContext(ctx).
		Model(tt).
		Select("user_id", "class_name", "week_day", "day_slot", "is_mandatory").
		Updates(tt).Error
}

func (r *GormRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&timetable.TimeTable{}, id)
	return result.RowsAffected, result.Error
}
