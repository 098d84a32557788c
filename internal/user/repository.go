package user

import (
	"context"

	"github.com/moscovig/hthCourseReg/internal/model/course"
	"github.com/moscovig/hthCourseReg/internal/model/enrollment"
	"github.com/moscovig/hthCourseReg/internal/model/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	List(ctx context.Context) ([]user.User, error)
	FindByID(ctx context.Context, id uint) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]user.User, error)
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uint) (int64, error)

	// EnsureRole returns the named role, creating it when missing
	EnsureRole(ctx context.Context, name string, isAdmin bool) (*user.Role, error)
	ListRoles(ctx context.Context, userIDs []uint) (map[uint][]user.Role, error)
	// AddRole is a no-op when the user already holds the role
	AddRole(ctx context.Context, userID, roleID uint) error
	ClearRoles(ctx context.Context, userID uint) error

	CoursesTaught(ctx context.Context, userIDs []uint) (map[uint][]CourseRef, error)
	CoursesAttended(ctx context.Context, userIDs []uint) (map[uint][]CourseRef, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) List(ctx context.Context) ([]user.User, error) {
	var list []user.User
	err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *GormRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) FindByEmails(ctx context.Context, emails []string) ([]user.User, error) {
	var list []user.User
	if len(emails) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("email IN ?", emails).Find(&list).Error
	return list, err
}

func (r *GormRepository) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *GormRepository) Update(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).
		Model(u).
		Select("email", "password", "first_name", "last_name", "active", "is_reg_completed").
		Updates(u).Error
}

func (r *GormRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&user.User{}, id)
	return result.RowsAffected, result.Error
}

func (r *GormRepository) EnsureRole(ctx context.Context, name string, isAdmin bool) (*user.Role, error) {
	role := user.Role{Name: name}
	err := r.db.WithContext(ctx).
		Where(user.Role{Name: name}).
		Attrs(user.Role{IsAdmin: isAdmin}).
		FirstOrCreate(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

type userRole struct {
	UserID uint
	user.Role
}

func (r *GormRepository) ListRoles(ctx context.Context, userIDs []uint) (map[uint][]user.Role, error) {
	roles := make(map[uint][]user.Role, len(userIDs))
	if len(userIDs) == 0 {
		return roles, nil
	}

	var rows []userRole
	err := r.db.WithContext(ctx).
		Table("roleuser").
		Select("roleuser.user_id, role.id, role.name, role.is_admin").
		Joins("JOIN role ON role.id = roleuser.role_id").
		Where("roleuser.user_id IN ?", userIDs).
		Order("role.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		roles[row.UserID] = append(roles[row.UserID], row.Role)
	}
	return roles, nil
}

func (r *GormRepository) AddRole(ctx context.Context, userID, roleID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user.RoleUser{UserID: userID, RoleID: roleID}).Error
}

func (r *GormRepository) ClearRoles(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&user.RoleUser{}).Error
}

type courseOwner struct {
	OwnerID uint
	ID      uint
	Name    string
}

func groupCourses(rows []courseOwner) map[uint][]CourseRef {
	refs := make(map[uint][]CourseRef)
	for _, row := range rows {
		refs[row.OwnerID] = append(refs[row.OwnerID], CourseRef{ID: row.ID, Name: row.Name})
	}
	return refs
}

func (r *GormRepository) CoursesTaught(ctx context.Context, userIDs []uint) (map[uint][]CourseRef, error) {
	if len(userIDs) == 0 {
		return map[uint][]CourseRef{}, nil
	}
	var rows []courseOwner
	err := r.db.WithContext(ctx).
		Model(&course.Course{}).
		Select("teacher_id AS owner_id, id, name").
		Where("teacher_id IN ?", userIDs).
		Order("name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupCourses(rows), nil
}

func (r *GormRepository) CoursesAttended(ctx context.Context, userIDs []uint) (map[uint][]CourseRef, error) {
	if len(userIDs) == 0 {
		return map[uint][]CourseRef{}, nil
	}
	var rows []courseOwner
	err := r.db.WithContext(ctx).
		Model(&enrollment.Enrollment{}).
		Select("courseuser.user_id AS owner_id, course.id, course.name").
		Joins("JOIN course ON course.id = courseuser.course_id").
		Where("courseuser.user_id IN ?", userIDs).
		Order("course.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupCourses(rows), nil
}
