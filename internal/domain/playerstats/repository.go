package playerstats

import "context"

type Repository interface {
	ListByPlayers(ctx context.Context, playerIDs []int64) ([]StatLine, error)
	ReplaceForPlayer(ctx context.Context, playerID int64, lines []StatLine) error
}
