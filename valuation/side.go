package valuation

import (
	"encoding/json"
	"fmt"
	"strings"
)

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the side spellings broker feeds actually use.
func (s *Side) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch strings.ToLower(raw) {
	case "long", "buy":
		*s = Long
	case "short", "sell":
		*s = Short
	default:
		return fmt.Errorf("unknown side %q", raw)
	}
	return nil
}
