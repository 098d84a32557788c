package model

import (
	"gorm.io/gorm"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/enrollment"
	"github.com/moscovig/hthCourseReg/internal/model/syslog"
	"github.com/moscovig/hthCourseReg/internal/model/timetable"
	"github.com/moscovig/hthCourseReg/internal/model/user"
)

// InitTable creates or updates every table; safe to run on each start
func InitTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&user.Role{},
		&user.RoleUser{},
		&course.Category{},
		&course.Course{},
		&enrollment.Enrollment{},
		&timetable.TimeTable{},
		&syslog.SysLog{},
	)
}
