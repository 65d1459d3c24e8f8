package fantasy

import "fmt"

// SalePrice returns what a manager receives for selling playerID at
// currentValue. The most recent purchase of the player sets the purchase
// price; without one the player sells at current value. A rise is shared
// half-and-half, rounded down; a fall sells at current value.
func SalePrice(playerID int64, history []Purchase, currentValue int64) int64 {
	purchasePrice := currentValue
	found := false
	var latest Purchase
	for _, item := range history {
		if item.PlayerInID != playerID {
			continue
		}
		if !found || item.Time.After(latest.Time) {
			latest = item
			found = true
		}
	}
	if found {
		purchasePrice = latest.PlayerInCost
	}

	diff := currentValue - purchasePrice
	if diff <= 0 {
		return currentValue
	}
	return purchasePrice + diff/2
}

// SalePrices computes SalePrice for every id. valuations maps player id to
// current market value.
func SalePrices(playerIDs []int64, history []Purchase, valuations map[int64]int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(playerIDs))
	for _, id := range playerIDs {
		value, ok := valuations[id]
		if !ok {
			return nil, fmt.Errorf("%w: player_id=%d", ErrPlayerLookupFailure, id)
		}
		out[id] = SalePrice(id, history, value)
	}
	return out, nil
}
