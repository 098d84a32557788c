package course

import (
	"context"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/enrollment"
	"github.com/moscovig/hthCourseReg/internal/model/timetable"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]course.Course, error)
	FindByID(ctx context.Context, id uint) (*course.Course, error)
	Create(ctx context.Context, c *course.Course) error
	Update(ctx context.Context, c *course.Course) error
	Delete(ctx context.Context, id uint) (int64, error)
	// ListNotEnrolled courses the user holds no enrollment for
	ListNotEnrolled(ctx context.Context, userID uint) ([]course.Course, error)
	// ListEnrolled courses the user holds an enrollment for
	ListEnrolled(ctx context.Context, userID uint) ([]course.Course, error)
	ListTimeTable(ctx context.Context, userID uint) ([]timetable.TimeTable, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Preload("Teacher")
}

func (r *GormRepository) List(ctx context.Context) ([]course.Course, error) {
	var list []course.Course
	err := r.withDetails(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *GormRepository) FindByID(ctx context.Context, id uint) (*course.Course, error) {
	var c course.Course
	if err := r.withDetails(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) Create(ctx context.Context, c *course.Course) error {
	return r.db.WithContext(ctx).Omit("Category", "Teacher").Create(c).Error
}

// Update writes every column, including zero values
func (r *GormRepository) Update(ctx context.Context, c *course.Course) error {
	return r.db.WithContext(ctx).
		Model(c).
		Select("*").
		Omit("id", "Category", "Teacher").
		Updates(c).Error
}

func (r *GormRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&course.Course{}, id)
	return result.RowsAffected, result.Error
}

func (r *GormRepository) ListNotEnrolled(ctx context.Context, userID uint) ([]course.Course, error) {
	enrolled := r.db.Model(&enrollment.Enrollment{}).Select("course_id").Where("user_id = ?", userID)

	var list []course.Course
	err := r.withDetails(ctx).
		Where("id NOT IN (?)", enrolled).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *GormRepository) ListEnrolled(ctx context.Context, userID uint) ([]course.Course, error) {
	var list []course.Course
	err := r.withDetails(ctx).
		Joins("JOIN courseuser ON courseuser.course_id = course.id").
		Where("courseuser.user_id = ?", userID).
		Order("course.name ASC").
		Find(&list).Error
	return list, err
}

func (r *GormRepository) ListTimeTable(ctx context.Context, userID uint) ([]timetable.TimeTable, error) {
	var list []timetable.TimeTable
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_day ASC, day_slot ASC").
		Find(&list).Error
	return list, err
}
