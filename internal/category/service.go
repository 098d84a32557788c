package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/packages/response"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already exists")
	ErrInUse         = errors.New("category still has courses")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]course.Category, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*course.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, req CategoryRequest) (*course.Category, error) {
	c := &course.Category{Name: req.Name, IsMandatory: req.IsMandatory}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id uint, req CategoryRequest) (*course.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	c.Name = req.Name
	c.IsMandatory = req.IsMandatory
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// Delete fails while courses still reference the category
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

func mapError(err error) error {
	var (
		code     response.ResponseCode
		sentinel error
	)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		code, sentinel = response.NotFound, ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		code, sentinel = response.Conflict, ErrDuplicateName
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		code, sentinel = response.Conflict, ErrInUse
	default:
		return err
	}
	return response.NewBusinessError(
		response.WithErrorCode(code),
		response.WithErrorMessage(sentinel.Error()),
		response.WithError(sentinel),
	)
}
