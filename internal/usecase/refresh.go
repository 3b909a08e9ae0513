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

// RefreshSessionUseCase re-syncs the session from the server. Recovery path:
// re-fetches video metadata and the frame set after the local copy went
// stale, e.g. when a restored session predates a server-side re-extraction.
type RefreshSessionUseCase struct {
	store  *session.Store
	api    port.VideoAPI
	logger *zap.Logger
}

func NewRefreshSessionUseCase(store *session.Store, api port.VideoAPI, logger *zap.Logger) *RefreshSessionUseCase {
	return &RefreshSessionUseCase{store: store, api: api, logger: logger}
}

func (uc *RefreshSessionUseCase) Execute(ctx context.Context) (*entity.VideoMetadata, []entity.FrameRecord, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "RefreshSessionUseCase.Execute")
	defer span.End()

	snap := uc.store.Snapshot()
	if snap.CurrentVideo == nil {
		return nil, nil, fmt.Errorf("%w: no video to refresh", entity.ErrInvalidState)
	}
	videoID := snap.CurrentVideo.ID
	span.SetAttributes(attribute.String("video.id", videoID))

	tok, err := uc.store.Begin(entity.OpRefresh)
	if err != nil {
		return nil, nil, err
	}

	log := uc.logger.With(zap.String("video_id", videoID))
	start := time.Now()

	video, err := uc.api.GetVideo(ctx, videoID)
	if err != nil {
		log.Error("refresh failed fetching video", zap.Error(err))
		uc.fail(tok, err, log)
		return nil, nil, err
	}

	frames, err := uc.api.GetFrames(ctx, videoID)
	if err != nil {
		log.Error("refresh failed fetching frames", zap.Error(err))
		uc.fail(tok, err, log)
		return nil, nil, err
	}

	if err := uc.store.CommitRefresh(tok, video, frames); err != nil {
		log.Warn("refresh result discarded", zap.Error(err))
		return nil, nil, err
	}

	metrics.OperationsTotal.WithLabelValues("refresh", "completed").Inc()
	metrics.OperationDuration.WithLabelValues("refresh").Observe(time.Since(start).Seconds())

	log.Info("session refreshed", zap.Int("frame_count", len(frames)))
	return video, frames, nil
}

func (uc *RefreshSessionUseCase) fail(tok session.Token, err error, log *zap.Logger) {
	if ferr := uc.store.FailOperation(tok, "Error: "+failureText(err, "session refresh failed")); ferr != nil {
		log.Debug("failure status discarded", zap.Error(ferr))
	}
	metrics.OperationsTotal.WithLabelValues("refresh", "failed").Inc()
}
