package registration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/enrollment"
	"github.com/moscovig/hthCourseReg/internal/model/syslog"
	"github.com/moscovig/hthCourseReg/internal/model/user"
	"github.com/moscovig/hthCourseReg/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRepository_OpenAndSweep(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()

	teacher := testutils.CreateTestUser(db)
	student1 := testutils.CreateTestUser(db)
	student2 := testutils.CreateTestUser(db)
	student3 := testutils.CreateTestUser(db)
	c := testutils.CreateTestCourse(db, teacher.ID, testutils.WithCapacity(2))

	now := time.Now().UTC().Truncate(time.Microsecond)
	svc := NewService(NewRepository(db), Options{
		Hold:            600 * time.Second,
		SweepGrace:      10 * time.Second,
		DefaultCapacity: 100,
		Now:             func() time.Time { return now },
	}, nil)

	_, err := svc.OpenEnrollment(ctx, student1.ID, c.ID)
	require.NoError(t, err)
	_, err = svc.OpenEnrollment(ctx, student2.ID, c.ID)
	require.NoError(t, err)
	_, err = svc.OpenEnrollment(ctx, student3.ID, c.ID)
	assert.ErrorIs(t, err, ErrCourseFull)

	seats, err := svc.CourseRemainingSeats(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, Seats{Occupied: 2, Remaining: 0}, seats)

	require.NoError(t, svc.ConfirmEnrollment(ctx, student2.ID, c.ID))

	now = now.Add(611 * time.Second)
	n, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var remaining []enrollment.Enrollment
	require.NoError(t, db.Where("course_id = ?", c.ID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, student2.ID, remaining[0].UserID)

	var logs []syslog.SysLog
	require.NoError(t, db.Where("msg = ?", "delete expire task response: 1").Find(&logs).Error)
	assert.NotEmpty(t, logs)
}

func TestGormRepository_CountByCourses(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	teacher := testutils.CreateTestUser(db)
	student := testutils.CreateTestUser(db)
	c1 := testutils.CreateTestCourse(db, teacher.ID)
	c2 := testutils.CreateTestCourse(db, teacher.ID)

	require.NoError(t, repo.Create(ctx, &enrollment.Enrollment{
		UserID:    student.ID,
		CourseID:  c1.ID,
		Status:    enrollment.StatusOpen,
		CreatedAt: time.Now().UTC(),
	}))

	counts, err := repo.CountByCourses(ctx, []uint{c1.ID, c2.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[c1.ID])
	assert.Equal(t, int64(0), counts[c2.ID])

	detail, err := repo.FindCourseDetail(ctx, c1.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Teacher)
	assert.Equal(t, teacher.Email, detail.Teacher.Email)
	require.NotNil(t, detail.Category)
}

// Every request runs in its own transaction on its own connection, so the
// row lock on the course is the only thing keeping the count honest.
func TestOpenEnrollment_ConcurrentRequestsRespectCapacity(t *testing.T) {
	db := testutils.OpenTestDB(t)
	ctx := context.Background()
	const capacity, students = 3, 12

	teacher := testutils.CreateTestUser(db)
	c := testutils.CreateTestCourse(db, teacher.ID, testutils.WithCapacity(capacity))
	ids := make([]uint, students)
	for i := range ids {
		ids[i] = testutils.CreateTestUser(db).ID
	}
	t.Cleanup(func() {
		db.Where("course_id = ?", c.ID).Delete(&enrollment.Enrollment{})
		db.Delete(&course.Course{}, c.ID)
		db.Delete(&course.Category{}, c.CategoryID)
		db.Delete(&user.User{}, append(ids, teacher.ID))
	})

	svc := NewService(NewRepository(db), Options{Hold: 10 * time.Minute, DefaultCapacity: 100}, nil)

	errs := make([]error, students)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = svc.OpenEnrollment(ctx, id, c.ID)
		}()
	}
	close(start)
	wg.Wait()

	var opened, full int
	for _, err := range errs {
		switch {
		case err == nil:
			opened++
		case errors.Is(err, ErrCourseFull):
			full++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, capacity, opened)
	assert.Equal(t, students-capacity, full)

	n, err := NewRepository(db).CountByCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, capacity, n)
}
