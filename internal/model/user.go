package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == Student || r == Teacher || r == Admin
}

type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;not null;default:'student'" json:"role"`
	Disabled bool     `json:"disabled"`
}

func (User) TableName() string {
	return "users"
}
