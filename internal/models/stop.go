package models

import "time"

// Stop is an itinerary item on the group's map.
type Stop struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	GroupID     uint       `gorm:"not null;index" json:"group_id"`
	Group       *Group     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	CreatorID   uint       `gorm:"not null" json:"creator_id"`
	Creator     *User      `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Title       string     `gorm:"size:120;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Files       []StopFile `gorm:"foreignKey:StopID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Stop) TableName() string {
	return "stops"
}

// StopFile is metadata for a file attached to a stop. The bytes themselves
// live in external storage; this core only tracks the reference.
type StopFile struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	StopID   uint   `gorm:"not null;index" json:"stop_id"`
	FileName string `gorm:"size:255;not null" json:"file_name"`
	FilePath string `gorm:"size:512;not null" json:"file_path"`
	FileType string `gorm:"size:100" json:"file_type"`
	FileSize int64  `json:"file_size"`
}

// TableName specifies the table name for GORM.
func (StopFile) TableName() string {
	return "stop_files"
}
