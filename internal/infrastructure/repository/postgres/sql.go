package postgres

import (
	"database/sql"
	"errors"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
)

// maxRowsPerInsert keeps multi-row inserts well under the 65535 bind
// parameter limit of the postgres protocol.
const maxRowsPerInsert = 500

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	return strings.Contains(text, "23505") || strings.Contains(strings.ToLower(text), "duplicate key value")
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = maxRowsPerInsert
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

func encodeCategoryMap(values map[scoring.Category]float64) (string, error) {
	raw := make(map[string]float64, len(values))
	for c, v := range values {
		raw[string(c)] = v
	}
	return sonic.MarshalString(raw)
}

// decodeCategoryMap skips categories this build does not know about.
func decodeCategoryMap(raw string) map[scoring.Category]float64 {
	out := make(map[scoring.Category]float64)
	if strings.TrimSpace(raw) == "" {
		return out
	}
	var decoded map[string]float64
	if err := sonic.UnmarshalString(raw, &decoded); err != nil {
		return out
	}
	for key, v := range decoded {
		c, err := scoring.ParseCategory(key)
		if err != nil {
			continue
		}
		out[c] = v
	}
	return out
}

func nullInt64ToPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func ptrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
