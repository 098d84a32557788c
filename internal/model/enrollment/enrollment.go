package enrollment

import (
	"time"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/user"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusConfirmed Status = "confirmed"
)

// Enrollment a student's registration to a course (table "courseuser")
type Enrollment struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CourseID  uint      `gorm:"primaryKey" json:"course_id"`
	Status    Status    `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	User   *user.User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course *course.Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Enrollment) TableName() string {
	return "courseuser"
}
