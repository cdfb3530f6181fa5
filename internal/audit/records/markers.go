package records

// Record markers as stored in the results tables.
const (
	worldMarker    = "WR"
	nationalMarker = "NR"
)

// continentMarkers maps continent IDs to their record marker.
var continentMarkers = map[string]string{
	"_Africa":        "AfR",
	"_Asia":          "AsR",
	"_Europe":        "ER",
	"_North America": "NAR",
	"_Oceania":       "OcR",
	"_South America": "SAR",
}

// roundRanks makes the different round type IDs comparable: a cutoff
// round ranks like its plain counterpart, finals rank last.
var roundRanks = map[string]int{
	"0": 0, "h": 0,
	"1": 1, "d": 1,
	"2": 2, "e": 2,
	"3": 3, "b": 3, "g": 3,
	"c": 4, "f": 4,
}
