package syslog

import (
	"context"

	syslogModel "github.com/moscovig/hthCourseReg/internal/model/syslog"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]syslogModel.SysLog, int64, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// List newest first, with the total row count
func (r *GormRepository) List(ctx context.Context, limit, offset int) ([]syslogModel.SysLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&syslogModel.SysLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []syslogModel.SysLog
	err := r.db.WithContext(ctx).
		Order("ts DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, total, err
}
