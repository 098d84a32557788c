package course

import "github.com/moscovig/hthCourseReg/internal/model/user"

// Course an elective offered by a teacher
type Course struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:varchar(255);not null" json:"description"`

	WeekDay string `gorm:"type:varchar(120);not null" json:"week_day"`
	Hours   *int   `json:"hours"`
	DaySlot *int   `json:"day_slot"`

	Capacity    *int `gorm:"check:capacity >= 0" json:"capacity"` // nil means the default capacity
	MinCapacity *int `json:"min_capacity"`

	SchoolYear     string `gorm:"type:varchar(120)" json:"school_year"`
	IsSemesterised *bool  `gorm:"default:true" json:"is_semesterised"`
	Semester       string `gorm:"type:varchar(20)" json:"semester"`

	Gender       string `gorm:"type:varchar(30)" json:"gender"`
	Grade        string `gorm:"type:varchar(30)" json:"grade"`
	IsForDiploma *bool  `gorm:"default:true" json:"is_for_diploma"`

	CategoryID uint      `gorm:"column:cat_id;not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	TeacherID uint       `gorm:"not null;index" json:"teacher_id"`
	Teacher   *user.User `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// Category groups courses; mandatory categories must be taken
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	IsMandatory bool   `gorm:"default:false" json:"is_mandatory"`
}

func (Course) TableName() string {
	return "course"
}

func (Category) TableName() string {
	return "category"
}
