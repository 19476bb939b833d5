package database

import (
	"fmt"
	"strings"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/config"
)

// streetSearchRadiusMeters bounds how far get_street_name looks for a street.
const streetSearchRadiusMeters = 200

// streetLookupStatements returns the DDL for the streets table and, if the
// configured function is missing, a nearest-street implementation over it.
// An existing function (e.g. one backed by imported OSM data) is left alone.
func streetLookupStatements(geo config.GeocodingConfig) []string {
	fn := geo.Function
	unknown := sqlLiteral(geo.UnknownStreet)

	createFn := fmt.Sprintf(`CREATE FUNCTION %s(lat double precision, lon double precision)
RETURNS text LANGUAGE sql STABLE AS $body$
	SELECT COALESCE((
		SELECT s.name FROM streets s
		WHERE ST_DWithin(
			s.geometry::geography,
			ST_SetSRID(ST_MakePoint(lon, lat), 4326)::geography,
			%d)
		ORDER BY s.geometry <-> ST_SetSRID(ST_MakePoint(lon, lat), 4326)
		LIMIT 1
	), %s)
$body$`, fn, streetSearchRadiusMeters, unknown)

	return []string{
		`CREATE TABLE IF NOT EXISTS streets (
	id serial PRIMARY KEY,
	name text NOT NULL,
	geometry geometry(Geometry, 4326) NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_streets_geometry ON streets USING gist (geometry)`,
		fmt.Sprintf(`DO $do$
BEGIN
	IF to_regprocedure(%s) IS NULL THEN
		EXECUTE %s;
	END IF;
END
$do$`, sqlLiteral(fn+"(double precision, double precision)"), sqlLiteral(createFn)),
	}
}

func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
