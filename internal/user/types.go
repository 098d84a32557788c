package user

// CreateUserRequest staff-created account
type CreateUserRequest struct {
	Email     string   `json:"email" binding:"required,email,max=120"`
	Password  string   `json:"password" binding:"required,min=8,max=72"`
	FirstName string   `json:"first_name" binding:"required,max=255"`
	LastName  string   `json:"last_name" binding:"required,max=255"`
	Active    *bool    `json:"active"`
	Roles     []string `json:"roles" binding:"omitempty,dive,oneof=admin teacher student"`
}

// UpdateUserRequest an empty password keeps the current one
type UpdateUserRequest struct {
	Email          string `json:"email" binding:"required,email,max=120"`
	Password       string `json:"password" binding:"omitempty,min=8,max=72"`
	FirstName      string `json:"first_name" binding:"required,max=255"`
	LastName       string `json:"last_name" binding:"required,max=255"`
	Active         bool   `json:"active"`
	IsRegCompleted bool   `json:"is_reg_completed"`
}

type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required,dive,oneof=admin teacher student"`
}

// CourseRef short course reference in user listings
type CourseRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserView user with roles and the courses they teach / attend
type UserView struct {
	ID             uint        `json:"id"`
	Email          string      `json:"email"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Active         bool        `json:"active"`
	IsRegCompleted bool        `json:"is_reg_completed"`
	Roles          []string    `json:"roles"`
	Teaching       []CourseRef `json:"teaching"`
	Attending      []CourseRef `json:"attending"`
}
