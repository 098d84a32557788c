package timetable

import (
	"context"
	"errors"
	"fmt"

	"github.com/moscovig/hthCourseReg/internal/model/timetable"
	"github.com/moscovig/hthCourseReg/internal/pkg"
	"github.com/moscovig/hthCourseReg/packages/response"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("timetable entry not found")
	ErrUnknownUser = errors.New("user does not exist")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID uint) ([]TimeTableView, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	views := make([]TimeTableView, 0, len(list))
	for _, tt := range list {
		views = append(views, toView(tt))
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*TimeTableView, error) {
	tt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	v := toView(*tt)
	return &v, nil
}

func (s *Service) Create(ctx context.Context, req TimeTableRequest) (*TimeTableView, error) {
	tt := &timetable.TimeTable{}
	apply(tt, req)
	if err := s.repo.Create(ctx, tt); err != nil {
		return nil, mapError(err)
	}
	v := toView(*tt)
	return &v, nil
}

func (s *Service) Update(ctx context.Context, id uint, req TimeTableRequest) (*TimeTableView, error) {
	tt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	apply(tt, req)
	if err := s.repo.Update(ctx, tt); err != nil {
		return nil, mapError(err)
	}
	v := toView(*tt)
	return &v, nil
}

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

func apply(tt *timetable.TimeTable, req TimeTableRequest) {
	tt.UserID = req.UserID
	tt.ClassName = req.ClassName
	tt.WeekDay = req.WeekDay
	tt.DaySlot = req.DaySlot
	tt.IsMandatory = req.IsMandatory
}

func toView(tt timetable.TimeTable) TimeTableView {
	return TimeTableView{
		ID:           tt.ID,
		UserID:       tt.UserID,
		ClassName:    tt.ClassName,
		WeekDay:      tt.WeekDay,
		DaySlot:      tt.DaySlot,
		DaySlotLabel: pkg.DaySlotLabel(tt.DaySlot),
		IsMandatory:  tt.IsMandatory,
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage(ErrNotFound.Error()),
			response.WithError(ErrNotFound),
		)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage(ErrUnknownUser.Error()),
			response.WithError(ErrUnknownUser),
		)
	}
	return err
}
