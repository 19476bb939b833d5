package initiative

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// toFeatureCollection renders rows as map points. Properties are limited to
// what the map layer needs; the id is carried as a string.
func toFeatureCollection(rows []initiativeRow) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range rows {
		r := &rows[i]
		f := geojson.NewFeature(orb.Point{r.Lon, r.Lat})
		f.Properties["id"] = strconv.FormatInt(r.ID, 10)
		f.Properties["title"] = r.Title
		f.Properties["status"] = r.Status
		f.Properties["category"] = r.Category
		f.Properties["address"] = r.Address
		fc.Append(f)
	}
	return fc
}
