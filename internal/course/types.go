package course

import (
	"github.com/moscovig/hthCourseReg/internal/registration"
)

// CourseRequest create/update body; PUT replaces every editable field
type CourseRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Description    string `json:"description" binding:"required,max=255"`
	WeekDay        string `json:"week_day" binding:"required,max=120"`
	Hours          *int   `json:"hours" binding:"omitempty,min=0"`
	DaySlot        *int   `json:"day_slot" binding:"omitempty,min=0"`
	Capacity       *int   `json:"capacity" binding:"omitempty,min=0"`
	MinCapacity    *int   `json:"min_capacity" binding:"omitempty,min=0"`
	SchoolYear     string `json:"school_year" binding:"max=120"`
	IsSemesterised *bool  `json:"is_semesterised"`
	Semester       string `json:"semester" binding:"max=20"`
	Gender         string `json:"gender" binding:"max=30"`
	Grade          string `json:"grade" binding:"max=30"`
	IsForDiploma   *bool  `json:"is_for_diploma"`
	CategoryID     uint   `json:"category_id" binding:"required"`
	TeacherID      uint   `json:"teacher_id" binding:"required"`
}

// CourseView course row with the derived display columns
type CourseView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	CategoryID   uint   `json:"category_id"`
	Teacher      string `json:"teacher"`
	TeacherID    uint   `json:"teacher_id"`
	WeekDay      string `json:"week_day"`
	DaySlot      *int   `json:"day_slot"`
	DaySlotLabel string `json:"day_slot_label"`
	Hours        *int   `json:"hours"`
	Capacity     *int   `json:"capacity"`
	MinCapacity  *int   `json:"min_capacity"`
	Occupied     int64  `json:"occupied"`
	Remaining    int64  `json:"remaining"`
	SchoolYear   string `json:"school_year"`
	Semester     string `json:"semester"`
	Gender       string `json:"gender"`
	Grade        string `json:"grade"`
}

// TimeTableEntry one line of the student's weekly schedule
type TimeTableEntry struct {
	ClassName string `json:"class_name"`
	WeekDay   string `json:"week_day"`
	DaySlot   string `json:"day_slot"`
}

// AvailableResponse courses a student has not registered for yet, next to
// their timetable so clashes are visible
type AvailableResponse struct {
	Courses   []CourseView     `json:"courses"`
	TimeTable []TimeTableEntry `json:"time_table"`
}

// MyCourseView a course the student holds, with its enrollment state
type MyCourseView struct {
	CourseView
	Enrollment registration.EnrollmentView `json:"enrollment"`
}
