// Package upstream fetches and normalizes race results from the provider.
//
// The provider is an Ergast-compatible JSON API (Jolpica). Responses are
// paginated and carry all numerics as strings; this package hides both and
// hands the rest of the system validated, fixed-shape records.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/krish-25k/f1-championship-analyzer/internal/domain/model"
	"github.com/krish-25k/f1-championship-analyzer/pkg/logger"
	"github.com/krish-25k/f1-championship-analyzer/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL     = "https://api.jolpi.ca/ergast/f1"
	defaultConcurrency = 8
	defaultTimeout     = 30 * time.Second
	pageLimit          = 100
)

// Client talks to the upstream results provider. It performs no caching
// and no retries; both belong to its callers.
type Client struct {
	baseURL     string
	http        *http.Client
	concurrency int
	logger      logger.Logger
}

// NewClient creates a provider client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		http:        &http.Client{Timeout: defaultTimeout},
		concurrency: defaultConcurrency,
		logger:      logger.Get().Named("upstream"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ergast wire shapes. Every numeric field arrives as a string.
type mrData struct {
	MRData struct {
		Total     string `json:"total"`
		RaceTable struct {
			Races []wireRace `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

type wireRace struct {
	Round    string    `json:"round"`
	RaceName string    `json:"raceName"`
	Date     string    `json:"date"`
	Results  []wireRow `json:"Results"`
}

type wireRow struct {
	PositionText string `json:"positionText"`
	Points       string `json:"points"`
	Driver       struct {
		DriverID string `json:"driverId"`
	} `json:"Driver"`
	Constructor struct {
		ConstructorID string `json:"constructorId"`
	} `json:"Constructor"`
}

// Schedule returns the season's race calendar.
func (c *Client) Schedule(ctx context.Context, season int) (model.Schedule, error) {
	races, err := c.pagedRaces(ctx, fmt.Sprintf("%s/%d.json", c.baseURL, season))
	if err != nil {
		return model.Schedule{}, err
	}
	if len(races) == 0 {
		return model.Schedule{}, fmt.Errorf("%w: season %d has no races", ErrDataMissing, season)
	}

	sched := model.Schedule{Season: season, Rounds: make([]model.ScheduleRound, 0, len(races))}
	for _, r := range races {
		round, err := strconv.Atoi(r.Round)
		if err != nil || round < 1 {
			c.logger.Warn(ctx, "dropping race with bad round",
				logger.Int("season", season),
				logger.String("round", r.Round),
			)
			continue
		}
		date, _ := time.Parse("2006-01-02", r.Date) // early seasons may omit dates
		sched.Rounds = append(sched.Rounds, model.ScheduleRound{Round: round, Name: r.RaceName, Date: date})
	}
	return sched, nil
}

// FetchSeason fetches every round of the season up to roundCeiling
// (all rounds when roundCeiling <= 0) and returns records concatenated
// in round order, along with the calendar.
//
// Rounds the provider has no coverage for are skipped and logged; that
// is a permanent characteristic of 1950s-era data, not a fault. Any
// other per-round failure aborts the whole fetch.
func (c *Client) FetchSeason(ctx context.Context, season, roundCeiling int) ([]model.RaceResult, model.Schedule, error) {
	start := time.Now()
	metrics.RecordUpstreamFetch()

	sched, err := c.Schedule(ctx, season)
	if err != nil {
		metrics.RecordUpstreamFetchError(errorKind(err))
		return nil, model.Schedule{}, err
	}

	rounds := sched.Rounds
	if roundCeiling > 0 && roundCeiling < len(rounds) {
		rounds = rounds[:roundCeiling]
	}

	perRound := make([][]model.RaceResult, len(rounds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, rd := range rounds {
		i, rd := i, rd
		g.Go(func() error {
			records, err := c.roundResults(gctx, season, rd)
			if err != nil {
				if isMissing(err) {
					metrics.RecordUpstreamRoundMissing()
					c.logger.Warn(gctx, "no results for round",
						logger.Int("season", season),
						logger.Int("round", rd.Round),
					)
					return nil
				}
				return err
			}
			perRound[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordUpstreamFetchError(errorKind(err))
		return nil, model.Schedule{}, err
	}

	var all []model.RaceResult
	for _, records := range perRound {
		all = append(all, records...)
	}
	if len(all) == 0 {
		metrics.RecordUpstreamFetchError(errorKind(ErrDataMissing))
		return nil, model.Schedule{}, fmt.Errorf("%w: season %d has no results yet", ErrDataMissing, season)
	}

	metrics.RecordUpstreamFetchLatency(float64(time.Since(start).Milliseconds()))
	c.logger.Info(ctx, "fetched season",
		logger.Int("season", season),
		logger.Int("rounds", len(rounds)),
		logger.Int("records", len(all)),
	)
	return all, sched, nil
}

// roundResults fetches one round's classification, in finishing order.
func (c *Client) roundResults(ctx context.Context, season int, rd model.ScheduleRound) ([]model.RaceResult, error) {
	races, err := c.pagedRaces(ctx, fmt.Sprintf("%s/%d/%d/results.json", c.baseURL, season, rd.Round))
	if err != nil {
		return nil, err
	}

	var rows []wireRow
	for _, race := range races {
		rows = append(rows, race.Results...)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: season %d round %d", ErrDataMissing, season, rd.Round)
	}

	records := make([]model.RaceResult, 0, len(rows))
	for _, row := range rows {
		points, err := strconv.ParseFloat(row.Points, 64)
		if err != nil {
			c.logger.Warn(ctx, "dropping malformed result row",
				logger.Int("season", season),
				logger.Int("round", rd.Round),
				logger.String("points", row.Points),
			)
			metrics.RecordErrorByComponent("upstream", "malformed_row")
			continue
		}
		// A non-numeric positionText ("R", "D", "W") means the driver
		// was not classified.
		position, err := strconv.Atoi(row.PositionText)
		if err != nil {
			position = model.PositionNotClassified
		}
		record := model.RaceResult{
			Season:        season,
			Round:         rd.Round,
			RaceName:      rd.Name,
			DriverID:      row.Driver.DriverID,
			ConstructorID: row.Constructor.ConstructorID,
			Position:      position,
			Points:        points,
		}
		if err := record.Validate(); err != nil {
			c.logger.Warn(ctx, "dropping invalid result row", logger.Error(err))
			metrics.RecordErrorByComponent("upstream", "invalid_row")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// pagedRaces walks the provider's limit/offset pagination and returns the
// concatenated race list for the given resource URL.
func (c *Client) pagedRaces(ctx context.Context, url string) ([]wireRace, error) {
	var races []wireRace
	for offset := 0; ; offset += pageLimit {
		page, err := c.getPage(ctx, fmt.Sprintf("%s?limit=%d&offset=%d", url, pageLimit, offset))
		if err != nil {
			return nil, err
		}
		races = mergeRaces(races, page.MRData.RaceTable.Races)
		total, err := strconv.Atoi(page.MRData.Total)
		if err != nil || offset+pageLimit >= total {
			return races, nil
		}
	}
}

// mergeRaces appends page races, folding a continued race's result rows
// into the race already collected for that round.
func mergeRaces(have, page []wireRace) []wireRace {
	for _, r := range page {
		if n := len(have); n > 0 && have[n-1].Round == r.Round {
			have[n-1].Results = append(have[n-1].Results, r.Results...)
			continue
		}
		have = append(have, r)
	}
	return have
}

// getPage performs one GET and classifies failures into the package's
// error kinds.
func (c *Client) getPage(ctx context.Context, url string) (*mrData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, url)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrDataMissing, url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnavailable, url, resp.StatusCode)
	}

	var page mrData
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrUnavailable, url, err)
	}
	return &page, nil
}

func isMissing(err error) bool {
	return errors.Is(err, ErrDataMissing)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrDataMissing):
		return "data_missing"
	default:
		return "unavailable"
	}
}
