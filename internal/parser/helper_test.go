package parser

import "github.com/asg0451/1brc/internal/stationmap"

func newTestMap() stationmap.Map {
	return stationmap.NewHashMap(64)
}
