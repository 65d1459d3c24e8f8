package fplapi

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/playerstats"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
)

const (
	EntityBootstrap      = "bootstrap_static"
	EntityFixtures       = "fixtures"
	EntityElementSummary = "element_summary"
	EntityEntryPicks     = "entry_picks"
	EntityEntryTransfers = "entry_transfers"
)

// FetchBootstrap reads /bootstrap-static/: teams, players and gameweeks.
// Players with an unknown element type are skipped with a warning.
func (c *Client) FetchBootstrap(ctx context.Context) (usecase.ExternalBootstrap, error) {
	var envelope bootstrapEnvelope
	raw, err := c.doJSON(ctx, "/bootstrap-static/", &envelope)
	if err != nil {
		return usecase.ExternalBootstrap{}, fmt.Errorf("fetch bootstrap-static: %w", err)
	}

	out := usecase.ExternalBootstrap{
		Teams:       make([]team.Team, 0, len(envelope.Teams)),
		Players:     make([]player.Player, 0, len(envelope.Elements)),
		Gameweeks:   make([]gameweek.Gameweek, 0, len(envelope.Events)),
		RawPayloads: []rawdata.Payload{c.snapshot(EntityBootstrap, "static", raw)},
	}

	for _, item := range envelope.Teams {
		out.Teams = append(out.Teams, team.Team{
			ID:       item.ID,
			Name:     strings.TrimSpace(item.Name),
			Short:    strings.TrimSpace(item.ShortName),
			Strength: item.Strength,
		})
	}

	for _, item := range envelope.Elements {
		pos, err := player.PositionFromCode(item.ElementType)
		if err != nil {
			c.logger.WarnContext(ctx, "skip fpl element with unknown position", "player_id", item.ID, "element_type", item.ElementType)
			continue
		}
		out.Players = append(out.Players, player.Player{
			ID:       item.ID,
			TeamID:   item.Team,
			Name:     strings.TrimSpace(item.FirstName + " " + item.SecondName),
			WebName:  strings.TrimSpace(item.WebName),
			Position: pos,
			Price:    item.NowCost,
			Status:   item.Status,
		})
	}

	for _, item := range envelope.Events {
		deadline, err := parseTime(item.DeadlineTime)
		if err != nil {
			return usecase.ExternalBootstrap{}, crerr.Wrapf(err, "parse deadline of gameweek %d", item.ID)
		}
		out.Gameweeks = append(out.Gameweeks, gameweek.Gameweek{
			ID:         item.ID,
			Name:       item.Name,
			DeadlineAt: deadline,
			Finished:   item.Finished,
			IsCurrent:  item.IsCurrent,
			IsNext:     item.IsNext,
		})
	}

	return out, nil
}

// FetchFixtures reads /fixtures/. Unscheduled matches come back with Gameweek 0.
func (c *Client) FetchFixtures(ctx context.Context) ([]fixture.Fixture, []rawdata.Payload, error) {
	var items []fixtureItem
	raw, err := c.doJSON(ctx, "/fixtures/", &items)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		f := fixture.Fixture{
			ID:             item.ID,
			HomeTeamID:     item.TeamH,
			AwayTeamID:     item.TeamA,
			HomeDifficulty: item.TeamHDifficulty,
			AwayDifficulty: item.TeamADifficulty,
			HomeScore:      item.TeamHScore,
			AwayScore:      item.TeamAScore,
			Finished:       item.Finished,
		}
		if item.Event != nil {
			f.Gameweek = *item.Event
		}
		if item.KickoffTime != nil && *item.KickoffTime != "" {
			kickoff, err := parseTime(*item.KickoffTime)
			if err != nil {
				return nil, nil, crerr.Wrapf(err, "parse kickoff of fixture %d", item.ID)
			}
			f.KickoffAt = &kickoff
		}
		out = append(out, f)
	}

	return out, []rawdata.Payload{c.snapshot(EntityFixtures, "all", raw)}, nil
}

// FetchPlayerHistory reads /element-summary/{id}/ and returns one line per
// fixture played this season.
func (c *Client) FetchPlayerHistory(ctx context.Context, playerID int64) ([]playerstats.StatLine, []rawdata.Payload, error) {
	if playerID <= 0 {
		return nil, nil, fmt.Errorf("%w: player id must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope elementSummaryEnvelope
	path := "/element-summary/" + strconv.FormatInt(playerID, 10) + "/"
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch element-summary player_id=%d: %w", playerID, err)
	}

	out := make([]playerstats.StatLine, 0, len(envelope.History))
	for _, item := range envelope.History {
		out = append(out, playerstats.StatLine{
			PlayerID:        playerID,
			FixtureID:       item.Fixture,
			Gameweek:        item.Round,
			OpponentTeamID:  item.OpponentTeam,
			WasHome:         item.WasHome,
			Minutes:         item.Minutes,
			GoalsScored:     item.GoalsScored,
			Assists:         item.Assists,
			CleanSheets:     item.CleanSheets,
			GoalsConceded:   item.GoalsConceded,
			OwnGoals:        item.OwnGoals,
			PenaltiesSaved:  item.PenaltiesSaved,
			PenaltiesMissed: item.PenaltiesMissed,
			YellowCards:     item.YellowCards,
			RedCards:        item.RedCards,
			Saves:           item.Saves,
			Bonus:           item.Bonus,
			TotalPoints:     item.TotalPoints,
		})
	}

	return out, []rawdata.Payload{c.snapshot(EntityElementSummary, strconv.FormatInt(playerID, 10), raw)}, nil
}

// FetchManagerPicks reads /entry/{id}/event/{gw}/picks/. Picks keep the
// manager's slot order.
func (c *Client) FetchManagerPicks(ctx context.Context, managerID int64, gw int) (usecase.ExternalManagerPicks, []rawdata.Payload, error) {
	if managerID <= 0 || gw <= 0 {
		return usecase.ExternalManagerPicks{}, nil, fmt.Errorf("%w: manager id and gameweek must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope picksEnvelope
	path := fmt.Sprintf("/entry/%d/event/%d/picks/", managerID, gw)
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return usecase.ExternalManagerPicks{}, nil, fmt.Errorf("fetch picks manager_id=%d gw=%d: %w", managerID, gw, err)
	}

	picks := append([]pickItem(nil), envelope.Picks...)
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Position < picks[j].Position })
	ids := make([]int64, 0, len(picks))
	for _, p := range picks {
		ids = append(ids, p.Element)
	}

	out := usecase.ExternalManagerPicks{
		ManagerID: managerID,
		Gameweek:  gw,
		PlayerIDs: ids,
		Bank:      envelope.EntryHistory.Bank,
	}
	key := fmt.Sprintf("%d:%d", managerID, gw)
	return out, []rawdata.Payload{c.snapshot(EntityEntryPicks, key, raw)}, nil
}

// FetchManagerTransfers reads /entry/{id}/transfers/.
func (c *Client) FetchManagerTransfers(ctx context.Context, managerID int64) ([]fantasy.Purchase, []rawdata.Payload, error) {
	if managerID <= 0 {
		return nil, nil, fmt.Errorf("%w: manager id must be greater than zero", usecase.ErrInvalidInput)
	}

	var items []transferItem
	path := fmt.Sprintf("/entry/%d/transfers/", managerID)
	raw, err := c.doJSON(ctx, path, &items)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch transfers manager_id=%d: %w", managerID, err)
	}

	out := make([]fantasy.Purchase, 0, len(items))
	for _, item := range items {
		at, err := parseTime(item.Time)
		if err != nil {
			return nil, nil, crerr.Wrapf(err, "parse transfer time manager_id=%d element_in=%d", managerID, item.ElementIn)
		}
		out = append(out, fantasy.Purchase{
			ManagerID:     managerID,
			Gameweek:      item.Event,
			PlayerInID:    item.ElementIn,
			PlayerInCost:  item.ElementInCost,
			PlayerOutID:   item.ElementOut,
			PlayerOutCost: item.ElementOutCost,
			Time:          at,
		})
	}

	return out, []rawdata.Payload{c.snapshot(EntityEntryTransfers, strconv.FormatInt(managerID, 10), raw)}, nil
}

func parseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
