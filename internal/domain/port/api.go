package port

import (
	"context"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
)

// ProgressFunc receives upload progress as a percentage, 0-100,
// monotonically non-decreasing.
type ProgressFunc func(pct int)

// VideoAPI is the remote video service consumed by the coordinators.
// Extraction, feature computation and nearest-neighbor search all happen
// server-side; the client only sees metadata.
type VideoAPI interface {
	Upload(ctx context.Context, file entity.UploadFile, progress ProgressFunc) (*entity.VideoMetadata, error)
	ExtractFrames(ctx context.Context, videoID string, intervalSeconds int) ([]entity.FrameRecord, error)
	SearchSimilar(ctx context.Context, frameID string, limit int) ([]entity.SimilarFrame, error)
	GetVideo(ctx context.Context, videoID string) (*entity.VideoMetadata, error)
	GetFrames(ctx context.Context, videoID string) ([]entity.FrameRecord, error)
}
