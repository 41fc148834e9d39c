package model

import "encoding/json"

// MatchStatus values are defined by football-data.org.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchTimed     MatchStatus = "TIMED"
	MatchInPlay    MatchStatus = "IN_PLAY"
	MatchPaused    MatchStatus = "PAUSED"
	MatchFinished  MatchStatus = "FINISHED"
	MatchPostponed MatchStatus = "POSTPONED"
	MatchSuspended MatchStatus = "SUSPENDED"
	MatchCancelled MatchStatus = "CANCELLED"
	MatchAwarded   MatchStatus = "AWARDED"
)

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Match is built per request from upstream payloads and never stored.
type Match struct {
	MatchID  int64       `json:"matchId"`
	League   string      `json:"league"`
	HomeTeam string      `json:"homeTeam"`
	AwayTeam string      `json:"awayTeam"`
	Date     string      `json:"date"`
	Status   MatchStatus `json:"status"`
	Score    Score       `json:"score"`
}

type Standing struct {
	Position       int    `json:"position"`
	Team           string `json:"team"`
	PlayedGames    int    `json:"playedGames"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type Goal struct {
	Minute int     `json:"minute"`
	Scorer string  `json:"scorer"`
	Assist *string `json:"assist"`
	Team   string  `json:"team"`
}

type LiveMatch struct {
	MatchID  string      `json:"matchId"`
	Status   MatchStatus `json:"status"`
	HomeTeam string      `json:"homeTeam"`
	AwayTeam string      `json:"awayTeam"`
	Score    Score       `json:"score"`
	Goals    []Goal      `json:"goals"`
}

type Referee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// MatchDetail passes Lineups through exactly as upstream sent them.
type MatchDetail struct {
	ID          int64           `json:"id"`
	Competition string          `json:"competition"`
	Season      string          `json:"season"`
	Status      MatchStatus     `json:"status"`
	UTCDate     string          `json:"utcDate"`
	HomeTeam    string          `json:"homeTeam"`
	AwayTeam    string          `json:"awayTeam"`
	Score       Score           `json:"score"`
	Referees    []Referee       `json:"referees"`
	Lineups     json.RawMessage `json:"lineups"`
}
