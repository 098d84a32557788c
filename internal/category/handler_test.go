package category

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows      map[uint]course.Category
	nextID    uint
	deleteErr error
}

func (f *fakeRepo) List(context.Context) ([]course.Category, error) {
	var list []course.Category
	for id := uint(1); id < f.nextID; id++ {
		if c, ok := f.rows[id]; ok {
			list = append(list, c)
		}
	}
	return list, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uint) (*course.Category, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeRepo) Create(_ context.Context, c *course.Category) error {
	for _, row := range f.rows {
		if row.Name == c.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = f.nextID
	f.nextID++
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeRepo) Update(_ context.Context, c *course.Category) error {
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uint) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func setup() (*fakeRepo, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	repo := &fakeRepo{rows: map[uint]course.Category{}, nextID: 1}
	r := gin.New()
	RegisterRoutes(&r.RouterGroup, NewHandler(NewService(repo)))
	return repo, r
}

func call(r *gin.Engine, method, path, body string) response.Response {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return res
}

func TestRoutes_RequirePermission(t *testing.T) {
	_, r := setup()
	res := call(r, http.MethodGet, "/categories", "")
	assert.Equal(t, response.Forbidden, res.Code)
}

func TestService_CRUD(t *testing.T) {
	repo := &fakeRepo{rows: map[uint]course.Category{}, nextID: 1}
	svc := NewService(repo)
	ctx := context.Background()

	cat, err := svc.Create(ctx, CategoryRequest{Name: "Sport", IsMandatory: true})
	require.NoError(t, err)
	assert.Equal(t, uint(1), cat.ID)

	_, err = svc.Create(ctx, CategoryRequest{Name: "Sport"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	cat, err = svc.Update(ctx, 1, CategoryRequest{Name: "Sports"})
	require.NoError(t, err)
	assert.False(t, cat.IsMandatory)

	repo.deleteErr = gorm.ErrForeignKeyViolated
	assert.ErrorIs(t, svc.Delete(ctx, 1), ErrInUse)

	repo.deleteErr = nil
	require.NoError(t, svc.Delete(ctx, 1))
	assert.ErrorIs(t, svc.Delete(ctx, 1), ErrNotFound)

	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
