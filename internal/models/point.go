package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// SRID is the spatial reference of every stored point (WGS84 lon/lat).
const SRID = 4326

// Point is a WGS84 coordinate. It is written to PostGIS as
// ST_SetSRID(ST_MakePoint(lon, lat), 4326); reads go through ST_X/ST_Y.
type Point struct {
	Lat float64
	Lon float64
}

func (Point) GormDataType() string {
	return fmt.Sprintf("geometry(Point,%d)", SRID)
}

func (Point) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return fmt.Sprintf("geometry(Point,%d)", SRID)
}

// GormValue keeps the lon-first argument order that ST_MakePoint expects.
func (p Point) GormValue(_ context.Context, _ *gorm.DB) clause.Expr {
	return clause.Expr{
		SQL:  fmt.Sprintf("ST_SetSRID(ST_MakePoint(?, ?), %d)", SRID),
		Vars: []interface{}{p.Lon, p.Lat},
	}
}

// Valid reports whether the coordinate lies within WGS84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
