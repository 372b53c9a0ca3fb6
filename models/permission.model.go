package models

import (
	"gorm.io/gorm"
)

const (
	PermissionViewCourse     = "view-course"
	PermissionPurchaseCourse = "purchase-course"
	PermissionTrackProgress  = "track-progress"
	PermissionCreateCourse   = "create-course"
	PermissionManageCourse   = "manage-course"
	PermissionViewAnalytics  = "view-analytics"
)

type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index"`
	User       User   `gorm:"foreignKey:UserID"`
	Role       string
	Permission string `gorm:"type:varchar(255)"` // e.g., "manage-course"
}
