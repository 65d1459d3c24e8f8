package fplapi

type bootstrapEnvelope struct {
	Events   []eventItem   `json:"events"`
	Teams    []teamItem    `json:"teams"`
	Elements []elementItem `json:"elements"`
}

type eventItem struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	Finished     bool   `json:"finished"`
	IsCurrent    bool   `json:"is_current"`
	IsNext       bool   `json:"is_next"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Strength  int    `json:"strength"`
}

type elementItem struct {
	ID          int64  `json:"id"`
	Team        int64  `json:"team"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	WebName     string `json:"web_name"`
	ElementType int    `json:"element_type"`
	NowCost     int64  `json:"now_cost"`
	Status      string `json:"status"`
}

type fixtureItem struct {
	ID              int64   `json:"id"`
	Event           *int    `json:"event"`
	TeamH           int64   `json:"team_h"`
	TeamA           int64   `json:"team_a"`
	KickoffTime     *string `json:"kickoff_time"`
	TeamHDifficulty int     `json:"team_h_difficulty"`
	TeamADifficulty int     `json:"team_a_difficulty"`
	TeamHScore      *int    `json:"team_h_score"`
	TeamAScore      *int    `json:"team_a_score"`
	Finished        bool    `json:"finished"`
}

type elementSummaryEnvelope struct {
	History []historyItem `json:"history"`
}

type historyItem struct {
	Element         int64 `json:"element"`
	Fixture         int64 `json:"fixture"`
	OpponentTeam    int64 `json:"opponent_team"`
	TotalPoints     int   `json:"total_points"`
	WasHome         bool  `json:"was_home"`
	Round           int   `json:"round"`
	Minutes         int   `json:"minutes"`
	GoalsScored     int   `json:"goals_scored"`
	Assists         int   `json:"assists"`
	CleanSheets     int   `json:"clean_sheets"`
	GoalsConceded   int   `json:"goals_conceded"`
	OwnGoals        int   `json:"own_goals"`
	PenaltiesSaved  int   `json:"penalties_saved"`
	PenaltiesMissed int   `json:"penalties_missed"`
	YellowCards     int   `json:"yellow_cards"`
	RedCards        int   `json:"red_cards"`
	Saves           int   `json:"saves"`
	Bonus           int   `json:"bonus"`
}

type picksEnvelope struct {
	Picks        []pickItem   `json:"picks"`
	EntryHistory entryHistory `json:"entry_history"`
}

type pickItem struct {
	Element  int64 `json:"element"`
	Position int   `json:"position"`
}

type entryHistory struct {
	Event int   `json:"event"`
	Bank  int64 `json:"bank"`
	Value int64 `json:"value"`
}

type transferItem struct {
	ElementIn      int64  `json:"element_in"`
	ElementInCost  int64  `json:"element_in_cost"`
	ElementOut     int64  `json:"element_out"`
	ElementOutCost int64  `json:"element_out_cost"`
	Entry          int64  `json:"entry"`
	Event          int    `json:"event"`
	Time           string `json:"time"`
}
