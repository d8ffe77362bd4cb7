package model

// UserRole 来自 JWT claims，学习者身份本身不落库
type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

func (r UserRole) CanAuthor() bool {
	return r == Teacher || r == Admin
}
