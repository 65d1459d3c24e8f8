package recommendation

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindLineup    Kind = "lineup"
	KindTransfers Kind = "transfers"
)

// Recommendation is a persisted optimizer result. Payload is the JSON
// encoding of the lineup selection or transfer plan.
type Recommendation struct {
	ID        string
	ManagerID int64
	Gameweek  int
	Kind      Kind
	Payload   []byte
	CreatedAt time.Time
}

func (r Recommendation) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recommendation id is required")
	}
	if r.Gameweek <= 0 {
		return fmt.Errorf("gameweek is required")
	}
	switch r.Kind {
	case KindLineup, KindTransfers:
	default:
		return fmt.Errorf("invalid recommendation kind: %s", r.Kind)
	}
	if len(r.Payload) == 0 {
		return fmt.Errorf("recommendation payload is required")
	}

	return nil
}
