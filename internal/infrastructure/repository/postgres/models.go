package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	ShortName string    `db:"short_name"`
	Strength  int       `db:"strength"`
	UpdatedAt time.Time `db:"updated_at"`
}

type playerTableModel struct {
	ID        int64     `db:"id"`
	TeamID    int64     `db:"team_id"`
	Name      string    `db:"name"`
	WebName   string    `db:"web_name"`
	Position  string    `db:"position"`
	Price     int64     `db:"price"`
	Status    string    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}

type gameweekTableModel struct {
	ID         int       `db:"id"`
	Name       string    `db:"name"`
	DeadlineAt time.Time `db:"deadline_at"`
	Finished   bool      `db:"finished"`
	IsCurrent  bool      `db:"is_current"`
	IsNext     bool      `db:"is_next"`
}

type fixtureTableModel struct {
	ID             int64         `db:"id"`
	Gameweek       int           `db:"gameweek"`
	HomeTeamID     int64         `db:"home_team_id"`
	AwayTeamID     int64         `db:"away_team_id"`
	KickoffAt      *time.Time    `db:"kickoff_at"`
	HomeDifficulty int           `db:"home_difficulty"`
	AwayDifficulty int           `db:"away_difficulty"`
	HomeScore      sql.NullInt64 `db:"home_score"`
	AwayScore      sql.NullInt64 `db:"away_score"`
	Finished       bool          `db:"finished"`
}

type playerFixtureStatTableModel struct {
	PlayerID        int64 `db:"player_id"`
	FixtureID       int64 `db:"fixture_id"`
	Gameweek        int   `db:"gameweek"`
	OpponentTeamID  int64 `db:"opponent_team_id"`
	WasHome         bool  `db:"was_home"`
	Minutes         int   `db:"minutes"`
	GoalsScored     int   `db:"goals_scored"`
	Assists         int   `db:"assists"`
	CleanSheets     int   `db:"clean_sheets"`
	GoalsConceded   int   `db:"goals_conceded"`
	OwnGoals        int   `db:"own_goals"`
	PenaltiesSaved  int   `db:"penalties_saved"`
	PenaltiesMissed int   `db:"penalties_missed"`
	YellowCards     int   `db:"yellow_cards"`
	RedCards        int   `db:"red_cards"`
	Saves           int   `db:"saves"`
	Bonus           int   `db:"bonus"`
	TotalPoints     int   `db:"total_points"`
}

type predictionTableModel struct {
	PlayerID    int64     `db:"player_id"`
	Gameweek    int       `db:"gameweek"`
	Fixtures    int       `db:"fixtures"`
	Expected    string    `db:"expected"`
	Points      string    `db:"points"`
	TotalPoints float64   `db:"total_points"`
	GeneratedAt time.Time `db:"generated_at"`
}

type managerSquadTableModel struct {
	ManagerID int64         `db:"manager_id"`
	Gameweek  int           `db:"gameweek"`
	PlayerIDs pq.Int64Array `db:"player_ids"`
	Bank      int64         `db:"bank"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type managerTransferTableModel struct {
	ManagerID     int64     `db:"manager_id"`
	Gameweek      int       `db:"gameweek"`
	PlayerInID    int64     `db:"player_in_id"`
	PlayerInCost  int64     `db:"player_in_cost"`
	PlayerOutID   int64     `db:"player_out_id"`
	PlayerOutCost int64     `db:"player_out_cost"`
	TransferredAt time.Time `db:"transferred_at"`
}

type recommendationTableModel struct {
	ID        string    `db:"id"`
	ManagerID int64     `db:"manager_id"`
	Gameweek  int       `db:"gameweek"`
	Kind      string    `db:"kind"`
	Payload   string    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

type rawDataPayloadTableModel struct {
	Source      string    `db:"source"`
	EntityType  string    `db:"entity_type"`
	EntityKey   string    `db:"entity_key"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}
