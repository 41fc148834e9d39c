package football

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/apperr"
	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// Leagues are the competitions the match lists cover, in output order.
var Leagues = []string{"PL", "PD", "SA", "BL1", "FL1", "CL"}

var (
	ErrMissingAPIKey   = apperr.ServerConfig("API key for football data is not set")
	ErrMatchIDRequired = apperr.BadRequest("Match ID is required")
	ErrLeagueRequired  = apperr.BadRequest("League code is required")
	ErrNoStandings     = apperr.NotFound("No standings data found")
	ErrMatchNotFound   = apperr.NotFound("Match not found")
	emptyLineups       = json.RawMessage("[]")
)

// Upstream is the provider the aggregator reads from. *Client satisfies it.
type Upstream interface {
	Configured() bool
	Get(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error
}

type Aggregator struct {
	upstream Upstream
	leagues  []string
	now      func() time.Time
}

func NewAggregator(upstream Upstream) *Aggregator {
	return &Aggregator{upstream: upstream, leagues: Leagues, now: time.Now}
}

// MatchesToday lists today's (UTC) matches across all leagues.
func (a *Aggregator) MatchesToday(ctx context.Context) ([]model.Match, error) {
	today := a.now().UTC()

	return a.matchesBetween(ctx, today, today)
}

// MatchesWeek lists matches from today to seven days ahead.
func (a *Aggregator) MatchesWeek(ctx context.Context) ([]model.Match, error) {
	from := a.now().UTC()

	return a.matchesBetween(ctx, from, from.AddDate(0, 0, 7))
}

// matchesBetween asks every league concurrently. The merged list keeps
// league order, then the provider's order within a league. Any failed
// league fails the whole call.
func (a *Aggregator) matchesBetween(ctx context.Context, from, to time.Time) ([]model.Match, error) {
	if !a.upstream.Configured() {
		return nil, ErrMissingAPIKey
	}

	query := url.Values{
		"dateFrom": {from.Format(dateLayout)},
		"dateTo":   {to.Format(dateLayout)},
	}

	perLeague := make([][]model.Match, len(a.leagues))
	g, gctx := errgroup.WithContext(ctx)
	for i, league := range a.leagues {
		g.Go(func() error {
			var resp matchesResponse
			if err := a.upstream.Get(gctx, "competition_matches", "/competitions/"+url.PathEscape(league)+"/matches", query, &resp); err != nil {
				return err
			}

			matches := make([]model.Match, 0, len(resp.Matches))
			for _, m := range resp.Matches {
				matches = append(matches, m.normalize())
			}
			perLeague[i] = matches

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := []model.Match{}
	for _, matches := range perLeague {
		all = append(all, matches...)
	}

	return all, nil
}

// LeagueTable returns the first standings table of league.
func (a *Aggregator) LeagueTable(ctx context.Context, league string) ([]model.Standing, error) {
	if !a.upstream.Configured() {
		return nil, ErrMissingAPIKey
	}
	if league == "" {
		return nil, ErrLeagueRequired
	}

	var resp standingsResponse
	err := a.upstream.Get(ctx, "standings", "/competitions/"+url.PathEscape(league)+"/standings", nil, &resp)
	if isUpstreamNotFound(err) {
		return nil, apperr.Wrap(ErrNoStandings, err)
	}
	if err != nil {
		return nil, err
	}
	if len(resp.Standings) == 0 {
		return nil, ErrNoStandings
	}

	table := make([]model.Standing, 0, len(resp.Standings[0].Table))
	for _, row := range resp.Standings[0].Table {
		table = append(table, model.Standing{
			Position:       row.Position,
			Team:           row.Team.Name,
			PlayedGames:    row.PlayedGames,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		})
	}

	return table, nil
}

// LiveMatchEvents returns the score and goal list of one match.
func (a *Aggregator) LiveMatchEvents(ctx context.Context, matchID string) (*model.LiveMatch, error) {
	m, err := a.match(ctx, "live_match", matchID)
	if err != nil {
		return nil, err
	}

	goals := make([]model.Goal, 0, len(m.Goals))
	for _, g := range m.Goals {
		goal := model.Goal{Minute: g.Minute, Scorer: g.Scorer.name(), Team: g.Team.name()}
		if assist := g.Assist.name(); assist != "" {
			goal.Assist = &assist
		}
		goals = append(goals, goal)
	}

	return &model.LiveMatch{
		MatchID:  matchID,
		Status:   m.Status,
		HomeTeam: m.HomeTeam.Name,
		AwayTeam: m.AwayTeam.Name,
		Score:    m.Score.fullTime(),
		Goals:    goals,
	}, nil
}

// MatchDetail returns one match with referees, and lineups exactly as the
// provider sent them.
func (a *Aggregator) MatchDetail(ctx context.Context, matchID string) (*model.MatchDetail, error) {
	m, err := a.match(ctx, "match_detail", matchID)
	if err != nil {
		return nil, err
	}

	referees := make([]model.Referee, 0, len(m.Referees))
	for _, r := range m.Referees {
		referees = append(referees, model.Referee{ID: r.ID, Name: r.Name, Role: r.Role})
	}

	lineups := m.Lineups
	if len(lineups) == 0 || string(lineups) == "null" {
		lineups = emptyLineups
	}

	return &model.MatchDetail{
		ID:          m.ID,
		Competition: m.Competition.Name,
		Season:      m.Season.StartDate + " - " + m.Season.EndDate,
		Status:      m.Status,
		UTCDate:     m.UTCDate,
		HomeTeam:    m.HomeTeam.Name,
		AwayTeam:    m.AwayTeam.Name,
		Score:       m.Score.fullTime(),
		Referees:    referees,
		Lineups:     lineups,
	}, nil
}

func (a *Aggregator) match(ctx context.Context, endpoint, matchID string) (*upstreamMatch, error) {
	if !a.upstream.Configured() {
		return nil, ErrMissingAPIKey
	}
	if matchID == "" {
		return nil, ErrMatchIDRequired
	}

	var resp matchResponse
	err := a.upstream.Get(ctx, endpoint, "/matches/"+url.PathEscape(matchID), nil, &resp)
	if isUpstreamNotFound(err) {
		return nil, apperr.Wrap(ErrMatchNotFound, err)
	}
	if err != nil {
		return nil, err
	}

	m := resp.resolve()
	if m == nil {
		return nil, ErrMatchNotFound
	}

	return m, nil
}

func isUpstreamNotFound(err error) bool {
	var upErr *UpstreamError

	return errors.As(err, &upErr) && upErr.Status == http.StatusNotFound
}
