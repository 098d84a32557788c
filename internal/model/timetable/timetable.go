package timetable

import "github.com/moscovig/hthCourseReg/internal/model/user"

// TimeTable one entry of a user's weekly schedule
type TimeTable struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	ClassName   string `gorm:"not null" json:"class_name"`
	WeekDay     string `gorm:"type:varchar(120);not null;index" json:"week_day"`
	DaySlot     *int   `gorm:"index" json:"day_slot"`
	IsMandatory bool   `json:"is_mandatory"`

	User *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TimeTable) TableName() string {
	return "timetable"
}
