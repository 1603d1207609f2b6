package feed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rustyeddy/tracker/position"
)

// LoadSnapshot reads a broker position snapshot from a JSON file: an array
// of raw positions exactly as the position feed would deliver them.
func LoadSnapshot(path string) ([]position.RawPosition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var raws []position.RawPosition
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return raws, nil
}
