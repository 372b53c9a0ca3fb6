package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
)

type User struct {
	gorm.Model
	Name      string     `gorm:"default:''" json:"name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Role      string     `gorm:"default:'STUDENT'" json:"role"`
	Password  string     `gorm:"not null" json:"password,omitempty"`
	LastLogin *time.Time `json:"lastLogin"`
}
