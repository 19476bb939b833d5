package models

import "time"

// InitiativeStatus is the traffic-light state of an initiative.
type InitiativeStatus string

const (
	StatusRed    InitiativeStatus = "RED"
	StatusYellow InitiativeStatus = "YELLOW"
	StatusGreen  InitiativeStatus = "GREEN"
)

// DefaultAuthor fills author name and role when the client leaves them empty.
const DefaultAuthor = "Citizen"

func (s InitiativeStatus) Valid() bool {
	switch s {
	case StatusRed, StatusYellow, StatusGreen:
		return true
	}
	return false
}

// InitiativeModel is a geolocated civic proposal.
type InitiativeModel struct {
	Base
	Title       string           `gorm:"type:text;not null"`
	Description string           `gorm:"type:text;not null"`
	Status      InitiativeStatus `gorm:"type:varchar(16);not null;default:'RED';index"`
	Category    string           `gorm:"type:text;not null;index"`
	Address     string           `gorm:"type:text;not null"`
	Geometry    Point            `gorm:"column:geometry;not null;index:idx_initiatives_geometry,type:gist"`
	AuthorID    string           `gorm:"type:text;not null"`
	AuthorName  string           `gorm:"type:text;not null"`
	AuthorRole  string           `gorm:"type:text;not null"`

	Media []MediaModel `gorm:"foreignKey:InitiativeID;constraint:OnDelete:CASCADE"`
}

func (InitiativeModel) TableName() string { return "initiatives" }

// MediaModel is an image or video attached to exactly one initiative.
// Rows are only created with their parent and only removed by cascade.
type MediaModel struct {
	ID           int64     `gorm:"primaryKey"`
	InitiativeID int64     `gorm:"not null;index"`
	URL          string    `gorm:"column:url;type:text;not null"`
	MediaType    string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (MediaModel) TableName() string { return "initiative_media" }
