// Package fixture provides the 20-station dataset used across tests.
//
// Stations have ids 1..20, distinct "Available Bikes" values 0..21 and a
// status of OPEN, CLOSED or MAINTENANCE. Eleven stations have more than
// ten bikes available.
package fixture

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/stationview/internal/domain/dataset"
)

//go:embed stations.json
var stationsJSON []byte

// StationsJSON returns the raw upstream payload.
func StationsJSON() []byte {
	return append([]byte(nil), stationsJSON...)
}

// Stations decodes the embedded payload into raw records.
func Stations() ([]dataset.Raw, error) {
	var raws []dataset.Raw
	if err := json.Unmarshal(stationsJSON, &raws); err != nil {
		return nil, fmt.Errorf("parse stations.json: %w", err)
	}
	return raws, nil
}
