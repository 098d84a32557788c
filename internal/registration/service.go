package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/enrollment"
	"github.com/moscovig/hthCourseReg/internal/pkg"
	"github.com/moscovig/hthCourseReg/packages/response"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrAlreadyEnrolled     = errors.New("already enrolled in course")
	ErrCourseFull          = errors.New("course is full")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrEnrollmentConfirmed = errors.New("enrollment already confirmed")
	ErrUserNotFound        = errors.New("user not found")
)

// Options registration timing and capacity
type Options struct {
	// Hold how long an open enrollment reserves its seat
	Hold time.Duration
	// SweepGrace extra time past Hold before the sweep removes an open enrollment
	SweepGrace time.Duration
	// DefaultCapacity used when a course has no capacity (nil or 0)
	DefaultCapacity int
	// Now clock; defaults to time.Now in UTC
	Now func() time.Time
}

type Service struct {
	repo Repository
	opts Options
	log  *zap.Logger
}

func NewService(repo Repository, opts Options, log *zap.Logger) *Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, opts: opts, log: log}
}

// RemainingSeats capacity minus current enrollments. A nil or zero capacity
// counts as defaultCapacity. The result is not clamped and goes negative
// when a course is over-subscribed.
func RemainingSeats(capacity *int, defaultCapacity int, enrolled int64) int64 {
	limit := defaultCapacity
	if capacity != nil && *capacity != 0 {
		limit = *capacity
	}
	return int64(limit) - enrolled
}

// TimeLeft how long an enrollment created at createdAt still holds its seat,
// never below zero
func TimeLeft(createdAt, now time.Time, hold time.Duration) time.Duration {
	left := hold - now.Sub(createdAt)
	if left < 0 {
		return 0
	}
	return left
}

func (s *Service) now() time.Time {
	return s.opts.Now()
}

// TimeLeft for an enrollment created at createdAt, measured against the service clock
func (s *Service) TimeLeft(createdAt time.Time) time.Duration {
	return TimeLeft(createdAt, s.now(), s.opts.Hold)
}

// OpenEnrollment reserves a seat for the user. The course row is locked for
// the duration of the check so two concurrent requests cannot both take the
// last seat.
func (s *Service) OpenEnrollment(ctx context.Context, userID, courseID uint) (*enrollment.Enrollment, error) {
	var created *enrollment.Enrollment

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		c, err := tx.LockCourse(ctx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("lock course %d: %w", courseID, err)
		}

		if _, err := tx.Find(ctx, userID, courseID); err == nil {
			return ErrAlreadyEnrolled
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find enrollment: %w", err)
		}

		enrolled, err := tx.CountByCourse(ctx, courseID)
		if err != nil {
			return fmt.Errorf("count enrollments: %w", err)
		}
		if RemainingSeats(c.Capacity, s.opts.DefaultCapacity, enrolled) <= 0 {
			return ErrCourseFull
		}

		e := &enrollment.Enrollment{
			UserID:    userID,
			CourseID:  courseID,
			Status:    enrollment.StatusOpen,
			CreatedAt: s.now(),
		}
		if err := tx.Create(ctx, e); err != nil {
			// the caller's account was deleted after the token was issued
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrUserNotFound
			}
			return fmt.Errorf("create enrollment: %w", err)
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, toBusinessError(err)
	}

	s.log.Info("enrollment opened",
		zap.Uint("user_id", userID),
		zap.Uint("course_id", courseID),
	)
	return created, nil
}

// ConfirmEnrollment moves an open enrollment to confirmed; confirmed
// enrollments are never swept. Confirming twice is a no-op.
func (s *Service) ConfirmEnrollment(ctx context.Context, userID, courseID uint) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		e, err := tx.Find(ctx, userID, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return fmt.Errorf("find enrollment: %w", err)
		}
		if e.Status == enrollment.StatusConfirmed {
			return nil
		}
		return tx.UpdateStatus(ctx, userID, courseID, enrollment.StatusConfirmed)
	})
	if err != nil {
		return toBusinessError(err)
	}

	s.log.Info("enrollment confirmed",
		zap.Uint("user_id", userID),
		zap.Uint("course_id", courseID),
	)
	return nil
}

// CancelEnrollment lets a student drop their own open enrollment.
// Confirmed enrollments can only be removed by staff.
func (s *Service) CancelEnrollment(ctx context.Context, userID, courseID uint) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		e, err := tx.Find(ctx, userID, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return fmt.Errorf("find enrollment: %w", err)
		}
		if e.Status == enrollment.StatusConfirmed {
			return ErrEnrollmentConfirmed
		}
		_, err = tx.Delete(ctx, userID, courseID)
		return err
	})
	if err != nil {
		return toBusinessError(err)
	}
	return nil
}

// RemoveEnrollment deletes an enrollment regardless of its status
func (s *Service) RemoveEnrollment(ctx context.Context, userID, courseID uint) error {
	n, err := s.repo.Delete(ctx, userID, courseID)
	if err != nil {
		return toBusinessError(fmt.Errorf("delete enrollment: %w", err))
	}
	if n == 0 {
		return toBusinessError(ErrEnrollmentNotFound)
	}
	return nil
}

// Sweep deletes open enrollments older than Hold+SweepGrace and records the
// count in the system log, both in one transaction. Nothing is logged when
// nothing expired.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	now := s.now()
	limit := now.Add(-(s.opts.Hold + s.opts.SweepGrace))

	var deleted int64
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		n, err := tx.DeleteOpenBefore(ctx, limit)
		if err != nil {
			return fmt.Errorf("delete expired enrollments: %w", err)
		}
		deleted = n
		if n == 0 {
			return nil
		}
		msg := fmt.Sprintf("delete expire task response: %d", n)
		if err := tx.AppendSysLog(ctx, msg, now); err != nil {
			return fmt.Errorf("append sys log: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.log.Info("expired enrollments removed", zap.Int64("count", deleted))
	}
	return deleted, nil
}

// CourseRemainingSeats occupancy of a single course
func (s *Service) CourseRemainingSeats(ctx context.Context, c *course.Course) (Seats, error) {
	enrolled, err := s.repo.CountByCourse(ctx, c.ID)
	if err != nil {
		return Seats{}, fmt.Errorf("count enrollments: %w", err)
	}
	return Seats{
		Occupied:  enrolled,
		Remaining: RemainingSeats(c.Capacity, s.opts.DefaultCapacity, enrolled),
	}, nil
}

// SeatsFor occupancy of each course, keyed by course id
func (s *Service) SeatsFor(ctx context.Context, courses []course.Course) (map[uint]Seats, error) {
	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}

	counts, err := s.repo.CountByCourses(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}

	seats := make(map[uint]Seats, len(courses))
	for _, c := range courses {
		enrolled := counts[c.ID]
		seats[c.ID] = Seats{
			Occupied:  enrolled,
			Remaining: RemainingSeats(c.Capacity, s.opts.DefaultCapacity, enrolled),
		}
	}
	return seats, nil
}

// ListUserEnrollments the user's enrollments keyed by course id
func (s *Service) ListUserEnrollments(ctx context.Context, userID uint) (map[uint]EnrollmentView, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	views := make(map[uint]EnrollmentView, len(list))
	for _, e := range list {
		views[e.CourseID] = s.view(e)
	}
	return views, nil
}

// ListEnrollments every enrollment, newest first
func (s *Service) ListEnrollments(ctx context.Context) ([]EnrollmentView, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	views := make([]EnrollmentView, 0, len(list))
	for _, e := range list {
		views = append(views, s.view(e))
	}
	return views, nil
}

// Summary builds the registration summary of a course for the given user
func (s *Service) Summary(ctx context.Context, userID, courseID uint) (*Summary, error) {
	c, err := s.repo.FindCourseDetail(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, toBusinessError(ErrCourseNotFound)
		}
		return nil, fmt.Errorf("find course %d: %w", courseID, err)
	}

	u, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, toBusinessError(ErrUserNotFound)
		}
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}

	seats, err := s.CourseRemainingSeats(ctx, c)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Course: CourseSummary{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Grade:       c.Grade,
			WeekDay:     c.WeekDay,
			Capacity:    c.Capacity,
			Hours:       c.Hours,
			SchoolYear:  c.SchoolYear,
			DaySlot:     pkg.DaySlotLabel(c.DaySlot),
			CurrentOcc:  seats.Occupied,
			PlacesLeft:  seats.Remaining,
		},
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Dir:       "ltr",
	}
	if c.Category != nil {
		summary.Course.Category = c.Category.Name
	}
	if c.Teacher != nil {
		summary.Course.Teacher = c.Teacher.FullName()
	}
	return summary, nil
}

func (s *Service) view(e enrollment.Enrollment) EnrollmentView {
	v := EnrollmentView{
		UserID:    e.UserID,
		CourseID:  e.CourseID,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
	if e.Status == enrollment.StatusOpen {
		left := s.TimeLeft(e.CreatedAt)
		v.TimeLeftSeconds = int64(left / time.Second)
		v.TimeLeft = pkg.FormatTimeLeft(left)
	}
	return v
}

func toBusinessError(err error) error {
	var code response.ResponseCode
	switch {
	case errors.Is(err, ErrCourseNotFound), errors.Is(err, ErrEnrollmentNotFound), errors.Is(err, ErrUserNotFound):
		code = response.NotFound
	case errors.Is(err, ErrAlreadyEnrolled), errors.Is(err, ErrEnrollmentConfirmed):
		code = response.Conflict
	case errors.Is(err, ErrCourseFull):
		code = response.CourseFull
	default:
		return err
	}
	return response.NewBusinessError(
		response.WithErrorCode(code),
		response.WithErrorMessage(err.Error()),
		response.WithError(err),
	)
}
