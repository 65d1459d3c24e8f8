package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/recommendation"
	idgen "github.com/riskibarqy/fpl-optimizer/internal/platform/id"
)

type recommendationWriter struct {
	repo  recommendation.Repository
	idGen idgen.Generator
}

// save encodes payload as JSON and stores it. A nil repository disables
// persistence and returns an empty id.
func (w recommendationWriter) save(ctx context.Context, managerID int64, gw int, kind recommendation.Kind, payload any, createdAt time.Time) (string, error) {
	if w.repo == nil || managerID <= 0 {
		return "", nil
	}

	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s recommendation: %w", kind, err)
	}
	recID, err := w.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate recommendation id: %w", err)
	}

	item := recommendation.Recommendation{
		ID:        recID,
		ManagerID: managerID,
		Gameweek:  gw,
		Kind:      kind,
		Payload:   raw,
		CreatedAt: createdAt.UTC(),
	}
	if err := item.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := w.repo.Create(ctx, item); err != nil {
		return "", fmt.Errorf("create recommendation: %w", err)
	}
	return recID, nil
}
