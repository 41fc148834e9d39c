package football

import (
	"encoding/json"

	"github.com/SergeyParamoshkin/sportsnews/internal/model"
)

// Wire shapes of the football-data.org v4 API, reduced to what is read.

type named struct {
	Name string `json:"name"`
}

// namedRef is a nullable {name} object.
type namedRef struct {
	*named
}

func (n namedRef) name() string {
	if n.named == nil {
		return ""
	}

	return n.named.Name
}

func (n *namedRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		n.named = nil

		return nil
	}

	n.named = &named{}

	return json.Unmarshal(b, n.named)
}

type upstreamScore struct {
	FullTime struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"fullTime"`
}

// fullTime treats missing goals as zero.
func (s upstreamScore) fullTime() model.Score {
	var score model.Score
	if s.FullTime.Home != nil {
		score.Home = *s.FullTime.Home
	}
	if s.FullTime.Away != nil {
		score.Away = *s.FullTime.Away
	}

	return score
}

type upstreamGoal struct {
	Minute int      `json:"minute"`
	Team   namedRef `json:"team"`
	Scorer namedRef `json:"scorer"`
	Assist namedRef `json:"assist"`
}

type upstreamReferee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type upstreamMatch struct {
	ID          int64             `json:"id"`
	UTCDate     string            `json:"utcDate"`
	Status      model.MatchStatus `json:"status"`
	Competition named             `json:"competition"`
	Season      struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"season"`
	HomeTeam named             `json:"homeTeam"`
	AwayTeam named             `json:"awayTeam"`
	Score    upstreamScore     `json:"score"`
	Goals    []upstreamGoal    `json:"goals"`
	Referees []upstreamReferee `json:"referees"`
	Lineups  json.RawMessage   `json:"lineups"`
}

func (m upstreamMatch) normalize() model.Match {
	return model.Match{
		MatchID:  m.ID,
		League:   m.Competition.Name,
		HomeTeam: m.HomeTeam.Name,
		AwayTeam: m.AwayTeam.Name,
		Date:     m.UTCDate,
		Status:   m.Status,
		Score:    m.Score.fullTime(),
	}
}

type matchesResponse struct {
	Matches []upstreamMatch `json:"matches"`
}

// matchResponse accepts both the bare v4 match object and the older
// {"match": {...}} envelope.
type matchResponse struct {
	upstreamMatch
	Match *upstreamMatch `json:"match"`
}

func (r *matchResponse) resolve() *upstreamMatch {
	if r.Match != nil {
		return r.Match
	}
	if r.upstreamMatch.ID == 0 {
		return nil
	}

	return &r.upstreamMatch
}

type standingsResponse struct {
	Standings []struct {
		Table []struct {
			Position       int   `json:"position"`
			Team           named `json:"team"`
			PlayedGames    int   `json:"playedGames"`
			Won            int   `json:"won"`
			Draw           int   `json:"draw"`
			Lost           int   `json:"lost"`
			Points         int   `json:"points"`
			GoalsFor       int   `json:"goalsFor"`
			GoalsAgainst   int   `json:"goalsAgainst"`
			GoalDifference int   `json:"goalDifference"`
		} `json:"table"`
	} `json:"standings"`
}
