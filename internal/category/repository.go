package category

import (
	"context"

	"github.com/moscovig/hthCourseReg/internal/model/course"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]course.Category, error)
	FindByID(ctx context.Context, id uint) (*course.Category, error)
	Create(ctx context.Context, c *course.Category) error
	Update(ctx context.Context, c *course.Category) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) List(ctx context.Context) ([]course.Category, error) {
	var list []course.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *GormRepository) FindByID(ctx context.Context, id uint) (*course.Category, error) {
	var c course.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) Create(ctx context.Context, c *course.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormRepository) Update(ctx context.Context, c *course.Category) error {
	return r.db.WithContext(ctx).Model(c).Select("name", "is_mandatory").Updates(c).Error
}

func (r *GormRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&course.Category{}, id)
	return result.RowsAffected, result.Error
}
