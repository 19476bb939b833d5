package initiative

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/config"
	"gorm.io/gorm"
)

// StreetResolver turns a coordinate into a street name. ok is false when no
// street is known for the point.
type StreetResolver interface {
	ResolveStreetName(ctx context.Context, lat, lon float64) (name string, ok bool, err error)
}

// PostGISStreetResolver calls the database-side lookup function.
type PostGISStreetResolver struct {
	db       *gorm.DB
	function string
	unknown  string
}

// NewPostGISStreetResolver expects cfg.Function to be a validated SQL identifier.
func NewPostGISStreetResolver(db *gorm.DB, cfg config.GeocodingConfig) *PostGISStreetResolver {
	return &PostGISStreetResolver{db: db, function: cfg.Function, unknown: cfg.UnknownStreet}
}

func (r *PostGISStreetResolver) ResolveStreetName(ctx context.Context, lat, lon float64) (string, bool, error) {
	var name sql.NullString
	query := fmt.Sprintf("SELECT %s(?, ?)", r.function)
	if err := r.db.WithContext(ctx).Raw(query, lat, lon).Scan(&name).Error; err != nil {
		return "", false, fmt.Errorf("resolve street name: %w", err)
	}
	return r.interpret(name)
}

func (r *PostGISStreetResolver) interpret(name sql.NullString) (string, bool, error) {
	if !name.Valid {
		return "", false, nil
	}
	street := strings.TrimSpace(name.String)
	if street == "" || street == r.unknown {
		return "", false, nil
	}
	return street, true, nil
}
