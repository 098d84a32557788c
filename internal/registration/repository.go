package registration

import (
	"context"
	"time"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/enrollment"
	"github.com/moscovig/hthCourseReg/internal/model/syslog"
	"github.com/moscovig/hthCourseReg/internal/model/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository storage used by the registration service.
// Lookups return gorm.ErrRecordNotFound when the row is missing.
type Repository interface {
	// Transaction runs fn against a repository bound to one transaction;
	// an error from fn rolls the whole transaction back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	LockCourse(ctx context.Context, courseID uint) (*course.Course, error)
	// FindCourseDetail loads the course with its category and teacher
	FindCourseDetail(ctx context.Context, courseID uint) (*course.Course, error)
	FindUser(ctx context.Context, userID uint) (*user.User, error)
	Find(ctx context.Context, userID, courseID uint) (*enrollment.Enrollment, error)
	Create(ctx context.Context, e *enrollment.Enrollment) error
	UpdateStatus(ctx context.Context, userID, courseID uint, status enrollment.Status) error
	Delete(ctx context.Context, userID, courseID uint) (int64, error)
	DeleteOpenBefore(ctx context.Context, before time.Time) (int64, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	CountByCourses(ctx context.Context, courseIDs []uint) (map[uint]int64, error)
	ListByUser(ctx context.Context, userID uint) ([]enrollment.Enrollment, error)
	ListAll(ctx context.Context) ([]enrollment.Enrollment, error)
	AppendSysLog(ctx context.Context, msg string, ts time.Time) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

// LockCourse loads the course row with SELECT ... FOR UPDATE so concurrent
// registrations for the same course serialize on it
func (r *GormRepository) LockCourse(ctx context.Context, courseID uint) (*course.Course, error) {
	var c course.Course
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, courseID).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) FindCourseDetail(ctx context.Context, courseID uint) (*course.Course, error) {
	var c course.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Teacher").
		First(&c, courseID).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) FindUser(ctx context.Context, userID uint) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) Find(ctx context.Context, userID, courseID uint) (*enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *GormRepository) UpdateStatus(ctx context.Context, userID, courseID uint, status enrollment.Status) error {
	return r.db.WithContext(ctx).
		Model(&enrollment.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("status", status).Error
}

func (r *GormRepository) Delete(ctx context.Context, userID, courseID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&enrollment.Enrollment{})
	return result.RowsAffected, result.Error
}

// DeleteOpenBefore removes open enrollments created strictly before the given time
func (r *GormRepository) DeleteOpenBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enrollment.StatusOpen, before).
		Delete(&enrollment.Enrollment{})
	return result.RowsAffected, result.Error
}

func (r *GormRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&enrollment.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

type courseCount struct {
	CourseID uint  `gorm:"column:course_id"`
	Total    int64 `gorm:"column:total"`
}

func (r *GormRepository) CountByCourses(ctx context.Context, courseIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []courseCount
	err := r.db.WithContext(ctx).
		Model(&enrollment.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.CourseID] = row.Total
	}
	return counts, nil
}

func (r *GormRepository) ListByUser(ctx context.Context, userID uint) ([]enrollment.Enrollment, error) {
	var list []enrollment.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *GormRepository) ListAll(ctx context.Context) ([]enrollment.Enrollment, error) {
	var list []enrollment.Enrollment
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *GormRepository) AppendSysLog(ctx context.Context, msg string, ts time.Time) error {
	return r.db.WithContext(ctx).Create(&syslog.SysLog{Msg: msg, Ts: ts}).Error
}
