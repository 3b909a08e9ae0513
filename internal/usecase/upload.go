package usecase

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
	"github.com/frameseek/frameseek-client/internal/domain/port"
	"github.com/frameseek/frameseek-client/internal/infra/metrics"
	"github.com/frameseek/frameseek-client/internal/session"
)

// UploadVideoUseCase drives the upload operation: claims the busy flag,
// forwards transport progress into the store and commits the resulting video
// metadata. Failures never retry and never touch the current video or frames.
type UploadVideoUseCase struct {
	store  *session.Store
	api    port.VideoAPI
	logger *zap.Logger
}

func NewUploadVideoUseCase(store *session.Store, api port.VideoAPI, logger *zap.Logger) *UploadVideoUseCase {
	return &UploadVideoUseCase{store: store, api: api, logger: logger}
}

func (uc *UploadVideoUseCase) Execute(ctx context.Context, file entity.UploadFile) (*entity.VideoMetadata, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "UploadVideoUseCase.Execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("upload.file_name", file.Name),
		attribute.Int64("upload.size_bytes", file.Size),
	)

	tok, err := uc.store.Begin(entity.OpUpload)
	if err != nil {
		return nil, err
	}

	log := uc.logger.With(zap.String("file_name", file.Name), zap.Int64("file_size", file.Size))
	start := time.Now()

	video, err := uc.api.Upload(ctx, file, func(pct int) {
		if perr := uc.store.SetProgress(tok, pct); perr != nil {
			log.Debug("progress update discarded", zap.Error(perr))
		}
	})
	if err != nil {
		log.Error("upload failed", zap.Error(err))
		uc.failOp(tok, "Error: "+failureText(err, "video upload failed"))
		metrics.OperationsTotal.WithLabelValues("upload", "failed").Inc()
		return nil, err
	}

	if err := uc.store.CommitUpload(tok, video); err != nil {
		log.Warn("upload result discarded", zap.Error(err))
		return nil, err
	}

	metrics.OperationsTotal.WithLabelValues("upload", "completed").Inc()
	metrics.OperationDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	metrics.UploadBytesTotal.Add(float64(file.Size))

	log.Info("video uploaded", zap.String("video_id", video.ID))
	return video, nil
}

func (uc *UploadVideoUseCase) failOp(tok session.Token, message string) {
	if err := uc.store.FailOperation(tok, message); err != nil {
		uc.logger.Debug("failure status discarded", zap.Error(err))
	}
}

// failureText derives the user-facing message from a failure. Transport and
// payload details are kept; anything else falls back to a generic message so
// internal wording never reaches the UI.
func failureText(err error, fallback string) string {
	if errors.Is(err, entity.ErrTransport) || errors.Is(err, entity.ErrBadPayload) {
		return err.Error()
	}
	return fallback
}
