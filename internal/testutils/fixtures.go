package testutils

import (
	"fmt"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/timetable"
	"github.com/moscovig/hthCourseReg/internal/model/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTestUser creates an active user with a unique email
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	uniqueID := uuid.New().String()

	testUser := &user.User{
		Active:    true,
		Email:     fmt.Sprintf("test_%s@example.com", uniqueID),
		Password:  "x",
		FirstName: "Test",
		LastName:  uniqueID[:8],
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}
	return testUser
}

type UserOption func(*user.User)

func WithEmail(email string) UserOption {
	return func(u *user.User) {
		u.Email = email
	}
}

func WithName(first, last string) UserOption {
	return func(u *user.User) {
		u.FirstName = first
		u.LastName = last
	}
}

// CreateTestCategory creates a category with a unique name
func CreateTestCategory(db *gorm.DB) *course.Category {
	cat := &course.Category{Name: "test_category_" + uuid.New().String()}
	if err := db.Create(cat).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test category: %v", err))
	}
	return cat
}

// CreateTestCourse creates a course taught by teacherID; a category is
// created unless one is given
func CreateTestCourse(db *gorm.DB, teacherID uint, opts ...CourseOption) *course.Course {
	testCourse := &course.Course{
		Name:        "test_course_" + uuid.New().String(),
		Description: "Test course description",
		WeekDay:     "Sunday",
		TeacherID:   teacherID,
	}

	for _, opt := range opts {
		opt(testCourse)
	}

	if testCourse.CategoryID == 0 {
		testCourse.CategoryID = CreateTestCategory(db).ID
	}

	if err := db.Create(testCourse).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test course: %v", err))
	}
	return testCourse
}

type CourseOption func(*course.Course)

func WithCapacity(capacity int) CourseOption {
	return func(c *course.Course) {
		c.Capacity = &capacity
	}
}

func WithDaySlot(slot int) CourseOption {
	return func(c *course.Course) {
		c.DaySlot = &slot
	}
}

func WithCategory(categoryID uint) CourseOption {
	return func(c *course.Course) {
		c.CategoryID = categoryID
	}
}

// CreateTestTimeTable adds a timetable entry for the user
func CreateTestTimeTable(db *gorm.DB, userID uint, weekDay string, slot int) *timetable.TimeTable {
	tt := &timetable.TimeTable{
		UserID:    userID,
		ClassName: "class_" + uuid.New().String()[:8],
		WeekDay:   weekDay,
		DaySlot:   &slot,
	}
	if err := db.Create(tt).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test timetable: %v", err))
	}
	return tt
}
