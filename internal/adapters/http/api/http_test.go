package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/krish-25k/f1-championship-analyzer/internal/adapters/http/api"
	"github.com/krish-25k/f1-championship-analyzer/internal/adapters/upstream"
	service "github.com/krish-25k/f1-championship-analyzer/internal/app"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/model"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/progression"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/types"
	"github.com/krish-25k/f1-championship-analyzer/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDeps implements api.Dependencies and api.StatsProvider, returning
// canned values or a forced error.
type mockDeps struct {
	err error
}

func (m *mockDeps) GetStandings(ctx context.Context, season, roundCeiling int) ([]types.Entry, []types.Entry, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	drivers := []types.Entry{
		{Rank: 1, ID: "max_verstappen", Points: 395.5, Wins: 10, Podiums: 18},
		{Rank: 2, ID: "hamilton", Points: 387.5, Wins: 8, Podiums: 17},
	}
	constructors := []types.Entry{
		{Rank: 1, ID: "mercedes", Points: 613.5, Wins: 9, Podiums: 28},
	}
	return drivers, constructors, nil
}

func (m *mockDeps) GetProgression(ctx context.Context, season int, driverIDs []string, roundCeiling int) (map[string][]types.Point, error) {
	if m.err != nil {
		return nil, m.err
	}
	series := make(map[string][]types.Point, len(driverIDs))
	for _, id := range driverIDs {
		series[id] = []types.Point{{Round: 1, Points: 25}, {Round: 3, Points: 43}}
	}
	return series, nil
}

func (m *mockDeps) GetSeason(ctx context.Context, season int) (model.Schedule, error) {
	if m.err != nil {
		return model.Schedule{}, m.err
	}
	return model.Schedule{
		Season: season,
		Rounds: []model.ScheduleRound{
			{Round: 1, Name: "Bahrain Grand Prix", Date: time.Date(season, 3, 28, 0, 0, 0, 0, time.UTC)},
			{Round: 2, Name: "Emilia Romagna Grand Prix", Date: time.Date(season, 4, 18, 0, 0, 0, 0, time.UTC)},
		},
	}, nil
}

func (m *mockDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "cachedSeasons": 2}
}

func newTestServer(deps *mockDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestStandingsEndpoint(t *testing.T) {
	Convey("Given a server over mock dependencies", t, func() {
		deps := &mockDeps{}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When requesting full-season standings", func() {
			resp, err := http.Get(ts.URL + "/standings?season=2021")
			So(err, ShouldBeNil)

			Convey("Then both ranked tables come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("X-Request-ID"), ShouldNotBeEmpty)

				var body struct {
					Season       int         `json:"season"`
					Drivers      []api.Entry `json:"drivers"`
					Constructors []api.Entry `json:"constructors"`
				}
				decodeBody(t, resp, &body)
				So(body.Season, ShouldEqual, 2021)
				So(body.Drivers, ShouldHaveLength, 2)
				So(body.Drivers[0].ID, ShouldEqual, "max_verstappen")
				So(body.Drivers[0].Points, ShouldEqual, 395.5)
				So(body.Constructors, ShouldHaveLength, 1)
			})
		})

		Convey("When the client supplies a request id", func() {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/standings?season=2021", nil)
			req.Header.Set("X-Request-ID", "abc-123")
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			resp.Body.Close()

			Convey("Then it is echoed back", func() {
				So(resp.Header.Get("X-Request-ID"), ShouldEqual, "abc-123")
			})
		})

		Convey("When the season parameter is missing", func() {
			resp, err := http.Get(ts.URL + "/standings")
			So(err, ShouldBeNil)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "invalid_season")
			})
		})

		Convey("When the round parameter is zero", func() {
			resp, err := http.Get(ts.URL + "/standings?season=2021&round=0")
			So(err, ShouldBeNil)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "invalid_round")
			})
		})

		Convey("When using an unsupported method", func() {
			resp, err := http.Post(ts.URL+"/standings?season=2021", "application/json", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestErrorMapping(t *testing.T) {
	Convey("Given a server whose dependencies fail", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{fmt.Errorf("%w: 1949", service.ErrInvalidSeason), http.StatusBadRequest, "invalid_season"},
			{fmt.Errorf("%w: round 99", service.ErrInvalidRoundCeiling), http.StatusBadRequest, "invalid_round"},
			{fmt.Errorf("%w", upstream.ErrDataMissing), http.StatusNotFound, "data_missing"},
			{fmt.Errorf("%w", upstream.ErrRateLimited), http.StatusTooManyRequests, "upstream_rate_limited"},
			{fmt.Errorf("%w", upstream.ErrUnavailable), http.StatusBadGateway, "upstream_unavailable"},
			{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
		}

		for _, tc := range cases {
			tc := tc
			Convey(fmt.Sprintf("When the service returns %q", tc.code), func() {
				ts := newTestServer(&mockDeps{err: tc.err})
				defer ts.Close()

				resp, err := http.Get(ts.URL + "/standings?season=2021")
				So(err, ShouldBeNil)

				Convey("Then the status and code match", func() {
					So(resp.StatusCode, ShouldEqual, tc.status)
					var body struct {
						Code    string `json:"code"`
						Message string `json:"message"`
					}
					decodeBody(t, resp, &body)
					So(body.Code, ShouldEqual, tc.code)
					So(body.Message, ShouldNotBeEmpty)
				})
			})
		}
	})
}

func TestProgressionEndpoint(t *testing.T) {
	Convey("Given a server over mock dependencies", t, func() {
		deps := &mockDeps{}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When requesting two drivers", func() {
			resp, err := http.Get(ts.URL + "/progression?season=2021&drivers=max_verstappen,hamilton")
			So(err, ShouldBeNil)

			Convey("Then a series per driver comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body struct {
					Season int                      `json:"season"`
					Series map[string][]types.Point `json:"series"`
				}
				decodeBody(t, resp, &body)
				So(body.Series, ShouldHaveLength, 2)
				So(body.Series["hamilton"], ShouldHaveLength, 2)
				So(body.Series["hamilton"][1].Round, ShouldEqual, 3)
			})
		})

		Convey("When the drivers parameter is empty", func() {
			resp, err := http.Get(ts.URL + "/progression?season=2021")
			So(err, ShouldBeNil)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When the driver list exceeds the limit", func() {
			ts := newTestServer(&mockDeps{err: fmt.Errorf("%w: 11 requested", progression.ErrTooManyDrivers)})
			defer ts.Close()

			resp, err := http.Get(ts.URL + "/progression?season=2021&drivers=a,b,c,d,e,f,g,h,i,j,k")
			So(err, ShouldBeNil)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				var body struct {
					Code string `json:"code"`
				}
				decodeBody(t, resp, &body)
				So(body.Code, ShouldEqual, "too_many_drivers")
			})
		})

		Convey("When no requested driver matches", func() {
			ts := newTestServer(&mockDeps{err: fmt.Errorf("%w", progression.ErrNoMatchingDrivers)})
			defer ts.Close()

			resp, err := http.Get(ts.URL + "/progression?season=2021&drivers=ghost")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSeasonsEndpoint(t *testing.T) {
	Convey("Given a server over mock dependencies", t, func() {
		deps := &mockDeps{}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When requesting a season calendar", func() {
			resp, err := http.Get(ts.URL + "/seasons/2021")
			So(err, ShouldBeNil)

			Convey("Then the rounds come back in order", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body struct {
					Season    int  `json:"season"`
					Concluded bool `json:"concluded"`
					Rounds    []struct {
						Round int    `json:"round"`
						Name  string `json:"name"`
						Date  string `json:"date"`
					} `json:"rounds"`
				}
				decodeBody(t, resp, &body)
				So(body.Season, ShouldEqual, 2021)
				So(body.Concluded, ShouldBeTrue)
				So(body.Rounds, ShouldHaveLength, 2)
				So(body.Rounds[0].Name, ShouldEqual, "Bahrain Grand Prix")
				So(body.Rounds[0].Date, ShouldEqual, "2021-03-28")
			})
		})

		Convey("When the year segment is not a number", func() {
			resp, err := http.Get(ts.URL + "/seasons/abc")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthAndStatsEndpoints(t *testing.T) {
	Convey("Given a server over mock dependencies", t, func() {
		deps := &mockDeps{}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When probing the health endpoint", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When requesting stats", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)

			Convey("Then the provider's snapshot comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]interface{}
				decodeBody(t, resp, &body)
				So(body["started"], ShouldEqual, true)
				So(body["cachedSeasons"], ShouldEqual, 2)
			})
		})
	})
}
