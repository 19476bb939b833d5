package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitiativeStatusValid(t *testing.T) {
	for _, s := range []InitiativeStatus{StatusRed, StatusYellow, StatusGreen} {
		assert.True(t, s.Valid(), s)
	}
	for _, s := range []InitiativeStatus{"", "red", "BLUE", "GREEN "} {
		assert.False(t, s.Valid(), s)
	}
}

func TestPointGormValueIsLonFirst(t *testing.T) {
	expr := Point{Lat: 47.21, Lon: 38.94}.GormValue(context.Background(), nil)

	assert.Equal(t, "ST_SetSRID(ST_MakePoint(?, ?), 4326)", expr.SQL)
	assert.Equal(t, []interface{}{38.94, 47.21}, expr.Vars)
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: 47.21, Lon: 38.94}.Valid())
	assert.True(t, Point{Lat: -90, Lon: 180}.Valid())
	assert.False(t, Point{Lat: 90.5, Lon: 0}.Valid())
	assert.False(t, Point{Lat: 0, Lon: -181}.Valid())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "initiatives", InitiativeModel{}.TableName())
	assert.Equal(t, "initiative_media", MediaModel{}.TableName())
	assert.Equal(t, "geometry(Point,4326)", Point{}.GormDataType())
}
