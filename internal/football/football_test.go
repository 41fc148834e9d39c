package football

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/apperr"
	"github.com/SergeyParamoshkin/sportsnews/internal/errresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testKey = "test-key"

var fixedNow = time.Date(2024, 5, 19, 15, 4, 5, 0, time.UTC)

func matchJSON(id int, league, home, away string, homeGoals, awayGoals interface{}) string {
	b, _ := json.Marshal(map[string]interface{}{
		"id":          id,
		"utcDate":     "2024-05-19T15:00:00Z",
		"status":      "FINISHED",
		"competition": map[string]string{"name": league},
		"homeTeam":    map[string]string{"name": home},
		"awayTeam":    map[string]string{"name": away},
		"score":       map[string]interface{}{"fullTime": map[string]interface{}{"home": homeGoals, "away": awayGoals}},
	})

	return string(b)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveUpstream(_ context.Context, _ string, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func newAggregator(t *testing.T, srv *httptest.Server, key string, opts ...ClientOption) *Aggregator {
	t.Helper()

	client := NewClient(srv.URL, key, 5*time.Second, zaptest.NewLogger(t).Sugar(), opts...)
	agg := NewAggregator(client)
	agg.now = func() time.Time { return fixedNow }

	return agg
}

// leagueServer answers competition match lists from bodies, keyed by code.
func leagueServer(t *testing.T, bodies map[string]string, hits *int32) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/competitions/{code}/matches", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, testKey, r.Header.Get("X-Auth-Token"))

		code := chi.URLParam(r, "code")
		if code == "PL" {
			// finish last so merge order cannot depend on arrival order
			time.Sleep(50 * time.Millisecond)
		}

		body, ok := bodies[code]
		if !ok {
			body = `{"matches":[]}`
		}
		if body == "500" {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)

			return
		}
		fmt.Fprint(w, body)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func TestMatchesTodayMergesInLeagueOrder(t *testing.T) {
	var hits int32
	var window []string
	var mu sync.Mutex

	bodies := map[string]string{
		"PL":  `{"matches":[` + matchJSON(1, "Premier League", "Arsenal", "Everton", 2, 1) + `,` + matchJSON(2, "Premier League", "Chelsea", "Bournemouth", nil, nil) + `]}`,
		"SA":  `{"matches":[` + matchJSON(3, "Serie A", "Inter", "Lazio", 1, 1) + `]}`,
		"CL":  `{"matches":[` + matchJSON(4, "Champions League", "Real Madrid", "Dortmund", 2, 0) + `]}`,
		"BL1": `{}`,
	}
	srv := leagueServer(t, bodies, &hits)

	obs := &recordingObserver{}
	agg := newAggregator(t, srv, testKey, WithObserver(obs))
	agg.upstream.(*Client).http.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		mu.Lock()
		window = append(window, r.URL.Query().Get("dateFrom")+"/"+r.URL.Query().Get("dateTo"))
		mu.Unlock()

		return http.DefaultTransport.RoundTrip(r)
	})

	matches, err := agg.MatchesToday(context.Background())
	require.NoError(t, err)

	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.MatchID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
	assert.EqualValues(t, len(Leagues), hits)

	assert.Equal(t, model.Match{
		MatchID:  1,
		League:   "Premier League",
		HomeTeam: "Arsenal",
		AwayTeam: "Everton",
		Date:     "2024-05-19T15:00:00Z",
		Status:   model.MatchFinished,
		Score:    model.Score{Home: 2, Away: 1},
	}, matches[0])
	assert.Equal(t, model.Score{}, matches[1].Score, "missing goals default to zero")

	for _, w := range window {
		assert.Equal(t, "2024-05-19/2024-05-19", w)
	}
	assert.Len(t, obs.outcomes, len(Leagues))
	for _, o := range obs.outcomes {
		assert.Equal(t, outcomeOK, o)
	}
}

func TestMatchesWeekWindow(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("dateFrom") + "/" + r.URL.Query().Get("dateTo")
		fmt.Fprint(w, `{"matches":[]}`)
	}))
	t.Cleanup(srv.Close)

	agg := newAggregator(t, srv, testKey)
	agg.leagues = []string{"PL"}

	matches, err := agg.MatchesWeek(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	assert.Equal(t, "2024-05-19/2024-05-26", got)
}

func TestMatchesLeagueFailureFailsWhole(t *testing.T) {
	var hits int32
	srv := leagueServer(t, map[string]string{"FL1": "500"}, &hits)

	_, err := newAggregator(t, srv, testKey).MatchesToday(context.Background())
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusInternalServerError, upErr.Status)
	assert.Equal(t, "boom", upErr.Message)
	assert.Equal(t, apperr.KindUnexpected, errresponse.Translate(err).Kind())
}

func TestMissingKeyFailsBeforeRequests(t *testing.T) {
	var hits int32
	srv := leagueServer(t, nil, &hits)
	agg := newAggregator(t, srv, "")

	_, err := agg.MatchesToday(context.Background())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = agg.MatchesWeek(context.Background())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = agg.LeagueTable(context.Background(), "PL")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = agg.LiveMatchEvents(context.Background(), "1")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = agg.MatchDetail(context.Background(), "1")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	assert.Zero(t, atomic.LoadInt32(&hits))
	assert.Equal(t, apperr.KindServerConfig, apperr.KindOf(err))
}

func TestLeagueTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/competitions/PL/standings":
			fmt.Fprint(w, `{"standings":[{"type":"TOTAL","table":[
				{"position":1,"team":{"name":"Manchester City FC"},"playedGames":38,"won":28,"draw":7,"lost":3,"points":91,"goalsFor":96,"goalsAgainst":34,"goalDifference":62},
				{"position":2,"team":{"name":"Arsenal FC"},"playedGames":38,"won":28,"draw":5,"lost":5,"points":89,"goalsFor":91,"goalsAgainst":29,"goalDifference":62}
			]}]}`)
		case "/competitions/EMPTY/standings":
			fmt.Fprint(w, `{"competition":{"name":"Empty"}}`)
		default:
			http.Error(w, `{"message":"The resource you are looking for does not exist."}`, http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	agg := newAggregator(t, srv, testKey)

	table, err := agg.LeagueTable(context.Background(), "PL")
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, model.Standing{
		Position: 1, Team: "Manchester City FC", PlayedGames: 38, Won: 28, Draw: 7, Lost: 3,
		GoalsFor: 96, GoalsAgainst: 34, GoalDifference: 62, Points: 91,
	}, table[0])

	_, err = agg.LeagueTable(context.Background(), "EMPTY")
	assert.ErrorIs(t, err, ErrNoStandings)

	_, err = agg.LeagueTable(context.Background(), "XX")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = agg.LeagueTable(context.Background(), "")
	assert.ErrorIs(t, err, ErrLeagueRequired)
}

const liveMatchBody = `{
	"id": 436103,
	"utcDate": "2024-05-19T15:00:00Z",
	"status": "IN_PLAY",
	"competition": {"name": "Premier League"},
	"season": {"startDate": "2023-08-11", "endDate": "2024-05-19"},
	"homeTeam": {"name": "Arsenal FC"},
	"awayTeam": {"name": "Everton FC"},
	"score": {"fullTime": {"home": 1, "away": null}},
	"goals": [
		{"minute": 43, "team": {"name": "Arsenal FC"}, "scorer": {"name": "Takehiro Tomiyasu"}, "assist": {"name": "Martin Odegaard"}},
		{"minute": 89, "team": {"name": "Arsenal FC"}, "scorer": {"name": "Kai Havertz"}, "assist": null}
	],
	"referees": [{"id": 11585, "name": "John Brooks", "role": "REFEREE"}]
}`

func matchServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches/436103":
			fmt.Fprint(w, liveMatchBody)
		case "/matches/7":
			fmt.Fprint(w, `{"match":`+matchJSON(7, "Serie A", "Roma", "Milan", 0, 3)+`}`)
		case "/matches/8":
			fmt.Fprint(w, strings.TrimSuffix(matchJSON(8, "Ligue 1", "PSG", "Lyon", 1, 0), "}")+
				`,"season":{"startDate":"2023-08-11","endDate":"2024-05-19"},"lineups":[{"team":"PSG"}]}`)
		case "/matches/empty":
			fmt.Fprint(w, `{}`)
		default:
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestLiveMatchEvents(t *testing.T) {
	agg := newAggregator(t, matchServer(t), testKey)

	live, err := agg.LiveMatchEvents(context.Background(), "436103")
	require.NoError(t, err)

	assert.Equal(t, "436103", live.MatchID)
	assert.Equal(t, model.MatchInPlay, live.Status)
	assert.Equal(t, "Arsenal FC", live.HomeTeam)
	assert.Equal(t, model.Score{Home: 1, Away: 0}, live.Score)
	require.Len(t, live.Goals, 2)
	require.NotNil(t, live.Goals[0].Assist)
	assert.Equal(t, "Martin Odegaard", *live.Goals[0].Assist)
	assert.Nil(t, live.Goals[1].Assist)
	assert.Equal(t, "Kai Havertz", live.Goals[1].Scorer)

	b, err := json.Marshal(live.Goals[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"minute":89,"scorer":"Kai Havertz","assist":null,"team":"Arsenal FC"}`, string(b))

	enveloped, err := agg.LiveMatchEvents(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Roma", enveloped.HomeTeam)
	assert.Empty(t, enveloped.Goals)

	_, err = agg.LiveMatchEvents(context.Background(), "999")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = agg.LiveMatchEvents(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = agg.LiveMatchEvents(context.Background(), "")
	assert.ErrorIs(t, err, ErrMatchIDRequired)
}

func TestMatchDetail(t *testing.T) {
	agg := newAggregator(t, matchServer(t), testKey)

	detail, err := agg.MatchDetail(context.Background(), "436103")
	require.NoError(t, err)

	assert.EqualValues(t, 436103, detail.ID)
	assert.Equal(t, "Premier League", detail.Competition)
	assert.Equal(t, "2023-08-11 - 2024-05-19", detail.Season)
	assert.Equal(t, "2024-05-19T15:00:00Z", detail.UTCDate)
	assert.Equal(t, []model.Referee{{ID: 11585, Name: "John Brooks", Role: "REFEREE"}}, detail.Referees)
	assert.JSONEq(t, `[]`, string(detail.Lineups))

	withLineups, err := agg.MatchDetail(context.Background(), "8")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"team":"PSG"}]`, string(withLineups.Lineups))
	assert.Empty(t, withLineups.Referees)

	_, err = agg.MatchDetail(context.Background(), "")
	assert.ErrorIs(t, err, ErrMatchIDRequired)
}

func TestCircuitBreakerOpensOnServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	obs := &recordingObserver{}
	agg := newAggregator(t, srv, testKey, WithObserver(obs))

	for i := 0; i < 5; i++ {
		_, err := agg.MatchDetail(context.Background(), "1")
		require.Error(t, err)
	}

	_, err := agg.MatchDetail(context.Background(), "1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.EqualValues(t, 5, atomic.LoadInt32(&hits))
	assert.Equal(t, outcomeRejected, obs.outcomes[len(obs.outcomes)-1])
	assert.Equal(t, outcomeServer, obs.outcomes[0])
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	agg := newAggregator(t, srv, testKey)
	for i := 0; i < 8; i++ {
		_, err := agg.MatchDetail(context.Background(), "1")
		assert.ErrorIs(t, err, ErrMatchNotFound)
	}
	assert.EqualValues(t, 8, atomic.LoadInt32(&hits))
}

func TestHandlers(t *testing.T) {
	var hits int32
	upstream := leagueServer(t, map[string]string{
		"PD": `{"matches":[` + matchJSON(9, "Primera Division", "Barcelona", "Sevilla", 3, 2) + `]}`,
	}, &hits)

	h := NewHandler(newAggregator(t, upstream, testKey), errresponse.NewResponder(false))
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/today", h.MatchesToday)
	r.Get("/{matchId}", h.MatchDetail)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/today", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"matchId":9,"league":"Primera Division","homeTeam":"Barcelona","awayTeam":"Sevilla",
		"date":"2024-05-19T15:00:00Z","status":"FINISHED","score":{"home":3,"away":2}}]`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/123", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
