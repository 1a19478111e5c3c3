// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/gaffer/internal/domain/feature"
	"github.com/okian/gaffer/internal/domain/forecast"
	"github.com/okian/gaffer/internal/domain/model"
	"github.com/okian/gaffer/internal/domain/recommend"
	"github.com/okian/gaffer/internal/domain/valuation"
	"github.com/okian/gaffer/pkg/logger"
	"github.com/okian/gaffer/pkg/metrics"
)

// Skipped names a player whose assessment failed and the reason. The
// batch carries on without them.
type Skipped = model.Skipped

// Service runs the full evaluation pipeline: features, forecasts,
// valuations, and recommendations.
type Service struct {
	mu sync.RWMutex

	// Core engines
	features    *feature.Engine
	forecasts   *forecast.Engine
	valuations  *valuation.Engine
	recommender *recommend.Engine

	// Configuration
	workerCount   int
	featureOpts   []feature.Option
	forecastOpts  []forecast.Option
	valuationOpts []valuation.Option
	recommendOpts []recommend.Option

	// State
	started        bool
	totalEvaluated atomic.Int64
	totalSkipped   atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the size of the evaluation worker pool.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFeatureOptions forwards options to the feature engine.
func WithFeatureOptions(opts ...feature.Option) Option {
	return func(s *Service) {
		s.featureOpts = append(s.featureOpts, opts...)
	}
}

// WithForecastOptions forwards options to the forecast engine.
func WithForecastOptions(opts ...forecast.Option) Option {
	return func(s *Service) {
		s.forecastOpts = append(s.forecastOpts, opts...)
	}
}

// WithValuationOptions forwards options to the valuation engine.
func WithValuationOptions(opts ...valuation.Option) Option {
	return func(s *Service) {
		s.valuationOpts = append(s.valuationOpts, opts...)
	}
}

// WithRecommendOptions forwards options to the recommendation engine.
func WithRecommendOptions(opts ...recommend.Option) Option {
	return func(s *Service) {
		s.recommendOpts = append(s.recommendOpts, opts...)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the engines.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting decision engine service...")

	s.features = feature.New(s.featureOpts...)
	s.forecasts = forecast.New(s.forecastOpts...)
	s.valuations = valuation.New(s.valuationOpts...)
	s.recommender = recommend.New(s.recommendOpts...)

	metrics.UpdateWorkerCount(s.workerCount)

	s.started = true
	s.logger.Info(ctx, "decision engine service started",
		logger.Int("workers", s.workerCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping decision engine service...")
	s.started = false
	s.logger.Info(context.Background(), "decision engine service stopped")
}

// assess runs one player through the feature, forecast, and valuation
// stages.
func (s *Service) assess(ctx context.Context, p model.Player) (recommend.Assessment, error) {
	b, err := s.features.Derive(ctx, p)
	if err != nil {
		metrics.RecordFeatureError()
		return recommend.Assessment{}, fmt.Errorf("derive features for %s: %w", p.ID, err)
	}

	f := s.forecasts.Project(ctx, b)

	v, err := s.valuations.Appraise(ctx, p, b, f)
	if err != nil {
		metrics.RecordValuationError()
		return recommend.Assessment{}, fmt.Errorf("appraise %s: %w", p.ID, err)
	}

	return recommend.Assessment{Player: p, Bundle: b, Forecast: f, Valuation: v}, nil
}

// EvaluatePlayers assesses a batch concurrently. Failing players land
// in the skipped list with their reason; the rest of the batch is
// unaffected. Result order follows input order.
func (s *Service) EvaluatePlayers(ctx context.Context, players []model.Player) ([]recommend.Assessment, []Skipped, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, nil, ErrNotStarted
	}

	start := time.Now()
	defer func() {
		metrics.RecordStageLatency("evaluate", float64(time.Since(start).Milliseconds()))
	}()

	assessments, skipped := s.fanOut(ctx, players)

	s.totalEvaluated.Add(int64(len(assessments)))
	s.totalSkipped.Add(int64(len(skipped)))
	for range assessments {
		metrics.RecordPlayerEvaluated()
	}
	for _, sk := range skipped {
		metrics.RecordPlayerSkipped()
		s.logger.Warn(ctx, "player skipped",
			logger.String("playerID", sk.PlayerID),
			logger.String("reason", sk.Reason),
		)
	}

	return assessments, skipped, nil
}

// Features derives feature bundles for a batch of players.
func (s *Service) Features(ctx context.Context, players []model.Player) ([]feature.Bundle, []Skipped, error) {
	assessments, skipped, err := s.EvaluatePlayers(ctx, players)
	if err != nil {
		return nil, nil, err
	}
	out := make([]feature.Bundle, len(assessments))
	for i, a := range assessments {
		out[i] = a.Bundle
	}
	return out, skipped, nil
}

// Forecasts projects expected points for a batch of players.
func (s *Service) Forecasts(ctx context.Context, players []model.Player) ([]forecast.Forecast, []Skipped, error) {
	assessments, skipped, err := s.EvaluatePlayers(ctx, players)
	if err != nil {
		return nil, nil, err
	}
	out := make([]forecast.Forecast, len(assessments))
	for i, a := range assessments {
		out[i] = a.Forecast
	}
	return out, skipped, nil
}

// Valuations appraises fair value, risk, and max bid for a batch.
func (s *Service) Valuations(ctx context.Context, players []model.Player) ([]valuation.Valuation, []Skipped, error) {
	assessments, skipped, err := s.EvaluatePlayers(ctx, players)
	if err != nil {
		return nil, nil, err
	}
	out := make([]valuation.Valuation, len(assessments))
	for i, a := range assessments {
		out[i] = a.Valuation
	}
	return out, skipped, nil
}

// Recommend runs the full pipeline: evaluate the squad and market,
// then rank sell, buy, swap, and differential lists.
func (s *Service) Recommend(ctx context.Context, squad model.Squad, market model.Market, rivals []model.RivalSquad) (recommend.Output, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return recommend.Output{}, ErrNotStarted
	}

	requestID := uuid.NewString()
	metrics.RecordEvaluationRequest()

	if err := squad.Validate(); err != nil {
		return recommend.Output{}, fmt.Errorf("validate squad: %w", err)
	}

	// Union of squad and market, first occurrence wins.
	pool := make([]model.Player, 0, len(squad.Players)+len(market.Players))
	seen := make(map[string]bool, cap(pool))
	for _, p := range append(append([]model.Player{}, squad.Players...), market.Players...) {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		pool = append(pool, p)
	}

	assessments, skipped, err := s.EvaluatePlayers(ctx, pool)
	if err != nil {
		return recommend.Output{}, err
	}

	byID := make(map[string]recommend.Assessment, len(assessments))
	for _, a := range assessments {
		byID[a.Player.ID] = a
	}
	skippedIDs := make([]string, len(skipped))
	for i, sk := range skipped {
		skippedIDs[i] = sk.PlayerID
	}

	adviseStart := time.Now()
	out := s.recommender.Advise(ctx, recommend.Input{
		Squad:       squad,
		Market:      market,
		Rivals:      rivals,
		Assessments: byID,
		Skipped:     skippedIDs,
	})
	metrics.RecordStageLatency("advise", float64(time.Since(adviseStart).Milliseconds()))

	for range out.SellCandidates {
		metrics.RecordRecommendation(string(recommend.ActionSell))
	}
	for range out.Buys {
		metrics.RecordRecommendation(string(recommend.ActionBuy))
	}
	for range out.Differentials {
		metrics.RecordRecommendation(string(recommend.ActionDifferential))
	}

	s.logger.Info(ctx, "recommendation complete",
		logger.String("requestID", requestID),
		logger.Int("squad", len(squad.Players)),
		logger.Int("market", len(market.Players)),
		logger.Int("rivals", len(rivals)),
		logger.Int("sells", len(out.SellCandidates)),
		logger.Int("buys", len(out.Buys)),
		logger.Int("swaps", len(out.Swaps)),
		logger.Int("differentials", len(out.Differentials)),
		logger.Int("skipped", len(skipped)),
	)

	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"totalEvaluated": s.totalEvaluated.Load(),
		"totalSkipped":   s.totalSkipped.Load(),
	}

	if s.started {
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
