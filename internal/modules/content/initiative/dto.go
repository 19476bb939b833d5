package initiative

import (
	"errors"
	"strings"
	"time"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/models"
)

var (
	ErrNotFound   = errors.New("initiative not found")
	ErrValidation = errors.New("validation failed")
)

const invalidStatusMessage = "Status must be RED, YELLOW, or GREEN"

// InitiativeDTO is the request body of create and update. Media is only
// honoured on create.
type InitiativeDTO struct {
	Title       string     `json:"title"       binding:"required"`
	Description string     `json:"description"`
	Status      *string    `json:"status"`
	Category    string     `json:"category"`
	Lat         *float64   `json:"lat"         binding:"required,gte=-90,lte=90"`
	Lon         *float64   `json:"lon"         binding:"required,gte=-180,lte=180"`
	AuthorID    string     `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	AuthorRole  string     `json:"author_role"`
	Media       []MediaDTO `json:"media"       binding:"omitempty,dive"`
}

type MediaDTO struct {
	URL       string `json:"url"        binding:"required"`
	MediaType string `json:"media_type" binding:"required"`
}

// ToInput applies the request defaults: RED for a missing status and the
// generic author label for an empty name or role.
func (d *InitiativeDTO) ToInput() Input {
	in := Input{
		Title:       d.Title,
		Description: d.Description,
		Status:      models.StatusRed,
		Category:    d.Category,
		AuthorID:    d.AuthorID,
		AuthorName:  orDefault(d.AuthorName, models.DefaultAuthor),
		AuthorRole:  orDefault(d.AuthorRole, models.DefaultAuthor),
	}
	if d.Status != nil {
		in.Status = models.InitiativeStatus(*d.Status)
	}
	if d.Lat != nil {
		in.Lat = *d.Lat
	}
	if d.Lon != nil {
		in.Lon = *d.Lon
	}
	if len(d.Media) > 0 {
		in.Media = make([]MediaInput, 0, len(d.Media))
		for _, m := range d.Media {
			in.Media = append(in.Media, MediaInput{URL: m.URL, MediaType: m.MediaType})
		}
	}
	return in
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Input is a validated-shape write request handed to the repository.
type Input struct {
	Title       string
	Description string
	Status      models.InitiativeStatus
	Category    string
	Lat         float64
	Lon         float64
	AuthorID    string
	AuthorName  string
	AuthorRole  string
	Media       []MediaInput
}

type MediaInput struct {
	URL       string
	MediaType string
}

// Filter narrows list and geojson reads. Empty fields match everything.
type Filter struct {
	Status   string
	Category string
}

type Initiative struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Category    string    `json:"category"`
	Address     string    `json:"address"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	AuthorRole  string    `json:"author_role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Media       []Media   `json:"media"`
}

type Media struct {
	URL       string    `json:"url"`
	MediaType string    `json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
}

// initiativeRow is the projection read back from the store with the point
// split into ST_Y/ST_X columns.
type initiativeRow struct {
	ID          int64
	Title       string
	Description string
	Status      string
	Category    string
	Address     string
	Lat         float64
	Lon         float64
	AuthorID    string
	AuthorName  string
	AuthorRole  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *initiativeRow) toInitiative() Initiative {
	return Initiative{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Category:    r.Category,
		Address:     r.Address,
		Lat:         r.Lat,
		Lon:         r.Lon,
		AuthorID:    r.AuthorID,
		AuthorName:  r.AuthorName,
		AuthorRole:  r.AuthorRole,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Media:       []Media{},
	}
}
