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

// ExtractFramesUseCase drives server-side frame extraction for the current
// video. The returned frame set replaces any previous extraction wholesale;
// on failure the previous frames are kept.
type ExtractFramesUseCase struct {
	store  *session.Store
	api    port.VideoAPI
	logger *zap.Logger
}

func NewExtractFramesUseCase(store *session.Store, api port.VideoAPI, logger *zap.Logger) *ExtractFramesUseCase {
	return &ExtractFramesUseCase{store: store, api: api, logger: logger}
}

func (uc *ExtractFramesUseCase) Execute(ctx context.Context, videoID string, intervalSeconds int) ([]entity.FrameRecord, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ExtractFramesUseCase.Execute")
	defer span.End()

	if intervalSeconds <= 0 {
		intervalSeconds = 1
	}
	span.SetAttributes(
		attribute.String("video.id", videoID),
		attribute.Int("extract.interval_seconds", intervalSeconds),
	)

	snap := uc.store.Snapshot()
	if snap.CurrentVideo == nil {
		return nil, fmt.Errorf("%w: no video uploaded", entity.ErrInvalidState)
	}
	if snap.CurrentVideo.ID != videoID {
		return nil, fmt.Errorf("%w: video %s is not the current video", entity.ErrInvalidState, videoID)
	}

	tok, err := uc.store.Begin(entity.OpExtract)
	if err != nil {
		return nil, err
	}
	if err := uc.store.StartExtraction(tok); err != nil {
		return nil, err
	}

	log := uc.logger.With(zap.String("video_id", videoID))
	start := time.Now()

	frames, err := uc.api.ExtractFrames(ctx, videoID, intervalSeconds)
	if err != nil {
		log.Error("frame extraction failed", zap.Error(err))
		if ferr := uc.store.FailOperation(tok, "Error: "+failureText(err, "frame extraction failed")); ferr != nil {
			log.Debug("failure status discarded", zap.Error(ferr))
		}
		metrics.OperationsTotal.WithLabelValues("extract", "failed").Inc()
		return nil, err
	}

	if err := uc.store.CommitExtraction(tok, frames); err != nil {
		log.Warn("extraction result discarded", zap.Error(err))
		return nil, err
	}

	metrics.OperationsTotal.WithLabelValues("extract", "completed").Inc()
	metrics.OperationDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	metrics.FramesExtractedTotal.Add(float64(len(frames)))

	log.Info("frames extracted", zap.Int("frame_count", len(frames)))
	return frames, nil
}
