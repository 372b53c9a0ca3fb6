package models

import "gorm.io/gorm"

// Course is owned by the teacher who created it (UserID).
type Course struct {
	gorm.Model
	UserID      uint         `json:"userId" gorm:"index;not null"`
	Title       string       `json:"title" gorm:"type:text;not null"`
	Description *string      `json:"description" gorm:"type:text"`
	ImageURL    *string      `json:"imageUrl" gorm:"type:text"`
	Price       *float64     `json:"price"`
	IsPublished bool         `json:"isPublished" gorm:"default:false"`
	CategoryID  *uint        `json:"categoryId" gorm:"index"`
	Category    *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Chapters    []Chapter    `json:"chapters,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Purchases   []Purchase   `json:"purchases,omitempty"`
}

type Category struct {
	gorm.Model
	Name    string   `json:"name" gorm:"uniqueIndex;not null"`
	Courses []Course `json:"courses,omitempty"`
}

type Attachment struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	URL      string `json:"url" gorm:"type:text;not null"`
	CourseID uint   `json:"courseId" gorm:"index;not null"`
}
