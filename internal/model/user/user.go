package user

// User account (table "user")
type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Active         bool   `json:"active"`
	Email          string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Password       string `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	FirstName      string `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName       string `gorm:"type:varchar(255);not null" json:"last_name"`
	IsRegCompleted bool   `json:"is_reg_completed"`
}

// Role role row; IsAdmin grants every permission regardless of name
type Role struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	IsAdmin bool   `gorm:"default:false" json:"is_admin"`
}

// RoleUser user <-> role join row
type RoleUser struct {
	UserID uint `gorm:"primaryKey" json:"user_id"`
	RoleID uint `gorm:"primaryKey" json:"role_id"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (User) TableName() string {
	return "user"
}

func (Role) TableName() string {
	return "role"
}

func (RoleUser) TableName() string {
	return "roleuser"
}
