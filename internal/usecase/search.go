package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
	"github.com/frameseek/frameseek-client/internal/domain/port"
	"github.com/frameseek/frameseek-client/internal/infra/metrics"
	"github.com/frameseek/frameseek-client/internal/session"
)

const (
	minSearchLimit = 1
	maxSearchLimit = 50
)

// SearchSimilarUseCase drives a similarity search for one reference frame.
// Results belong to the caller, not the session aggregate, and keep the
// server's score ordering untouched.
type SearchSimilarUseCase struct {
	store  *session.Store
	api    port.VideoAPI
	logger *zap.Logger
}

func NewSearchSimilarUseCase(store *session.Store, api port.VideoAPI, logger *zap.Logger) *SearchSimilarUseCase {
	return &SearchSimilarUseCase{store: store, api: api, logger: logger}
}

func (uc *SearchSimilarUseCase) Execute(ctx context.Context, frameID string, limit int) ([]entity.SimilarFrame, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "SearchSimilarUseCase.Execute")
	defer span.End()

	snap := uc.store.Snapshot()
	frame, ok := snap.FrameByID(frameID)
	if !ok {
		return nil, fmt.Errorf("%w: frame %s not in current set", entity.ErrInvalidState, frameID)
	}
	if !frame.HasFeatures() {
		return nil, fmt.Errorf("%w: frame %s", entity.ErrFeaturesNotReady, frameID)
	}

	// Out-of-range limits are corrected, not rejected.
	if limit < minSearchLimit {
		limit = minSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	span.SetAttributes(
		attribute.String("frame.id", frameID),
		attribute.Int("search.limit", limit),
	)

	tok, err := uc.store.Begin(entity.OpSearch)
	if err != nil {
		return nil, err
	}

	log := uc.logger.With(zap.String("frame_id", frameID), zap.Int("limit", limit))
	start := time.Now()

	results, err := uc.api.SearchSimilar(ctx, frameID, limit)
	if ferr := uc.store.FinishSearch(tok); ferr != nil {
		log.Debug("search completion discarded", zap.Error(ferr))
	}
	if err != nil {
		log.Error("similarity search failed", zap.Error(err))
		metrics.OperationsTotal.WithLabelValues("search", "failed").Inc()
		return nil, err
	}

	metrics.OperationsTotal.WithLabelValues("search", "completed").Inc()
	metrics.OperationDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())

	log.Info("similarity search completed", zap.Int("result_count", len(results)))
	return results, nil
}
