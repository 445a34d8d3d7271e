package history

import (
	"time"

	"github.com/genricoloni/weatherdesk/internal/domain"
)

// Change is one row of the wallpaper history
type Change struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
	City        string    `gorm:"not null" json:"city"`
	Condition   string    `gorm:"not null" json:"condition"`
	Environment string    `gorm:"not null;index" json:"environment"`
	SourcePath  string    `json:"source_path"`
	AppliedPath string    `json:"applied_path"`
	Success     bool      `gorm:"not null;default:false" json:"success"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the table name stable if the struct is renamed
func (Change) TableName() string {
	return "wallpaper_changes"
}

func fromDomain(c domain.WallpaperChange) *Change {
	row := &Change{
		Timestamp:   c.Timestamp,
		City:        c.City,
		Condition:   c.Condition,
		Environment: c.Environment.String(),
		SourcePath:  c.SourcePath,
		AppliedPath: c.AppliedPath,
		Success:     c.Err == nil,
	}
	if c.Err != nil {
		row.Error = c.Err.Error()
	}
	return row
}
