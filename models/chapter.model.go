package models

import "gorm.io/gorm"

type Chapter struct {
	gorm.Model
	Title        string         `json:"title" gorm:"not null"`
	Description  *string        `json:"description" gorm:"type:text"`
	VideoURL     *string        `json:"videoUrl" gorm:"type:text"`
	Position     int            `json:"position"`
	IsPublished  bool           `json:"isPublished" gorm:"default:false"`
	IsFree       bool           `json:"isFree" gorm:"default:false"`
	CourseID     uint           `json:"courseId" gorm:"index;not null"`
	MuxData      *MuxData       `json:"muxData,omitempty"`
	UserProgress []UserProgress `json:"userProgress,omitempty"`
}

// MuxData links a chapter to its Mux asset. One per chapter.
type MuxData struct {
	gorm.Model
	AssetID    string  `json:"assetId" gorm:"not null"`
	PlaybackID *string `json:"playbackId"`
	ChapterID  uint    `json:"chapterId" gorm:"uniqueIndex;not null"`
}

type UserProgress struct {
	gorm.Model
	UserID      uint `json:"userId" gorm:"uniqueIndex:idx_user_chapter;not null"`
	ChapterID   uint `json:"chapterId" gorm:"uniqueIndex:idx_user_chapter;index;not null"`
	IsCompleted bool `json:"isCompleted" gorm:"default:false"`
}
