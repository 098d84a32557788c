package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/pkg"
	"github.com/moscovig/hthCourseReg/internal/registration"
	"github.com/moscovig/hthCourseReg/packages/response"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("course not found")
	ErrDuplicateName = errors.New("course name already exists")
	ErrBadReference  = errors.New("category or teacher does not exist")
)

// Enrollments the registration queries the course views are derived from
type Enrollments interface {
	SeatsFor(ctx context.Context, courses []course.Course) (map[uint]registration.Seats, error)
	ListUserEnrollments(ctx context.Context, userID uint) (map[uint]registration.EnrollmentView, error)
}

type Service struct {
	repo        Repository
	enrollments Enrollments
}

func NewService(repo Repository, enrollments Enrollments) *Service {
	return &Service{repo: repo, enrollments: enrollments}
}

// List every course with its seat counts
func (s *Service) List(ctx context.Context) ([]CourseView, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return s.views(ctx, list)
}

func (s *Service) Get(ctx context.Context, id uint) (*CourseView, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	views, err := s.views(ctx, []course.Course{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) Create(ctx context.Context, req CourseRequest) (*CourseView, error) {
	c := &course.Course{}
	apply(c, req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, mapError(err)
	}
	return s.Get(ctx, c.ID)
}

func (s *Service) Update(ctx context.Context, id uint, req CourseRequest) (*CourseView, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	apply(c, req)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, mapError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes the course; its enrollments go with it
func (s *Service) Delete(ctx context.Context, id uint) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}

// Available courses the student has not registered for, plus their timetable
func (s *Service) Available(ctx context.Context, userID uint) (*AvailableResponse, error) {
	list, err := s.repo.ListNotEnrolled(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list available courses: %w", err)
	}
	views, err := s.views(ctx, list)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListTimeTable(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	tt := make([]TimeTableEntry, 0, len(entries))
	for _, e := range entries {
		tt = append(tt, TimeTableEntry{
			ClassName: e.ClassName,
			WeekDay:   e.WeekDay,
			DaySlot:   pkg.DaySlotLabel(e.DaySlot),
		})
	}

	return &AvailableResponse{Courses: views, TimeTable: tt}, nil
}

// Mine courses the student holds, each with its enrollment state and time left
func (s *Service) Mine(ctx context.Context, userID uint) ([]MyCourseView, error) {
	list, err := s.repo.ListEnrolled(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	views, err := s.views(ctx, list)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.ListUserEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}

	mine := make([]MyCourseView, 0, len(views))
	for _, v := range views {
		mine = append(mine, MyCourseView{CourseView: v, Enrollment: enrollments[v.ID]})
	}
	return mine, nil
}

func (s *Service) views(ctx context.Context, list []course.Course) ([]CourseView, error) {
	seats, err := s.enrollments.SeatsFor(ctx, list)
	if err != nil {
		return nil, err
	}

	views := make([]CourseView, 0, len(list))
	for _, c := range list {
		v := CourseView{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			CategoryID:   c.CategoryID,
			TeacherID:    c.TeacherID,
			WeekDay:      c.WeekDay,
			DaySlot:      c.DaySlot,
			DaySlotLabel: pkg.DaySlotLabel(c.DaySlot),
			Hours:        c.Hours,
			Capacity:     c.Capacity,
			MinCapacity:  c.MinCapacity,
			Occupied:     seats[c.ID].Occupied,
			Remaining:    seats[c.ID].Remaining,
			SchoolYear:   c.SchoolYear,
			Semester:     c.Semester,
			Gender:       c.Gender,
			Grade:        c.Grade,
		}
		if c.Category != nil {
			v.Category = c.Category.Name
		}
		if c.Teacher != nil {
			v.Teacher = c.Teacher.FullName()
		}
		views = append(views, v)
	}
	return views, nil
}

func apply(c *course.Course, req CourseRequest) {
	c.Name = req.Name
	c.Description = req.Description
	c.WeekDay = req.WeekDay
	c.Hours = req.Hours
	c.DaySlot = req.DaySlot
	c.Capacity = req.Capacity
	c.MinCapacity = req.MinCapacity
	c.SchoolYear = req.SchoolYear
	if req.IsSemesterised != nil {
		c.IsSemesterised = req.IsSemesterised
	}
	c.Semester = req.Semester
	c.Gender = req.Gender
	c.Grade = req.Grade
	if req.IsForDiploma != nil {
		c.IsForDiploma = req.IsForDiploma
	}
	c.CategoryID = req.CategoryID
	c.TeacherID = req.TeacherID
	c.Category = nil
	c.Teacher = nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage(ErrNotFound.Error()),
			response.WithError(ErrNotFound),
		)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return response.NewBusinessError(
			response.WithErrorCode(response.Conflict),
			response.WithErrorMessage(ErrDuplicateName.Error()),
			response.WithError(ErrDuplicateName),
		)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage(ErrBadReference.Error()),
			response.WithError(ErrBadReference),
		)
	}
	return err
}
