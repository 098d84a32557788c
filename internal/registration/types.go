package registration

import (
	"time"

	"github.com/moscovig/hthCourseReg/internal/model/enrollment"
)

// OpenRequest open a registration for the current student
type OpenRequest struct {
	CourseID uint `json:"course_id" binding:"required" example:"3"`
}

// EnrollmentView enrollment plus the derived time left before it expires.
// Time left is only meaningful for open enrollments.
type EnrollmentView struct {
	UserID          uint              `json:"user_id"`
	CourseID        uint              `json:"course_id"`
	Status          enrollment.Status `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	TimeLeftSeconds int64             `json:"time_left_seconds"`
	TimeLeft        string            `json:"time_left"`
}

// Seats occupancy of one course
type Seats struct {
	Occupied  int64 `json:"occupied"`
	Remaining int64 `json:"remaining"`
}

// CourseSummary course fields shown on the registration summary page
type CourseSummary struct {
	ID          uint
	Name        string
	Description string
	Grade       string
	WeekDay     string
	Capacity    *int
	Hours       *int
	SchoolYear  string
	Category    string
	Teacher     string
	DaySlot     string
	CurrentOcc  int64
	PlacesLeft  int64
}

// Summary data for the registration summary page
type Summary struct {
	Course    CourseSummary
	UserID    uint
	Email     string
	FirstName string
	LastName  string
	Dir       string
}
