package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
	"github.com/frameseek/frameseek-client/internal/domain/port"
	"github.com/frameseek/frameseek-client/internal/session"
)

// fakeAPI scripts the remote collaborator. Channels let a test hold an
// operation in flight to provoke busy rejections.
type fakeAPI struct {
	uploadResult *entity.VideoMetadata
	uploadErr    error
	uploadBlock  chan struct{} // when set, Upload waits for it to close
	uploadPcts   []int         // progress values to emit before completing

	extractResult []entity.FrameRecord
	extractErr    error

	searchResult []entity.SimilarFrame
	searchErr    error
	gotLimit     int
	gotFrameID   string

	video     *entity.VideoMetadata
	videoErr  error
	frames    []entity.FrameRecord
	framesErr error
}

func (f *fakeAPI) Upload(ctx context.Context, file entity.UploadFile, progress port.ProgressFunc) (*entity.VideoMetadata, error) {
	for _, pct := range f.uploadPcts {
		if progress != nil {
			progress(pct)
		}
	}
	if f.uploadBlock != nil {
		select {
		case <-f.uploadBlock:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadResult, nil
}

func (f *fakeAPI) ExtractFrames(ctx context.Context, videoID string, intervalSeconds int) ([]entity.FrameRecord, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.extractResult, nil
}

func (f *fakeAPI) SearchSimilar(ctx context.Context, frameID string, limit int) ([]entity.SimilarFrame, error) {
	f.gotFrameID = frameID
	f.gotLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if limit < len(f.searchResult) {
		return f.searchResult[:limit], nil
	}
	return f.searchResult, nil
}

func (f *fakeAPI) GetVideo(ctx context.Context, videoID string) (*entity.VideoMetadata, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return f.video, nil
}

func (f *fakeAPI) GetFrames(ctx context.Context, videoID string) ([]entity.FrameRecord, error) {
	if f.framesErr != nil {
		return nil, f.framesErr
	}
	return f.frames, nil
}

type nopSlot struct{}

func (nopSlot) Save(entity.DurableState) error      { return nil }
func (nopSlot) Load() (*entity.DurableState, error) { return nil, nil }
func (nopSlot) Clear() error                        { return nil }

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(nopSlot{}, 25*time.Millisecond, zap.NewNop())
}

func video(id string) *entity.VideoMetadata {
	return &entity.VideoMetadata{ID: id, Name: id + ".mp4", Size: 4096, UploadTime: "2025-01-01T00:00:00Z"}
}

func frames(videoID string, n int, withFeatures bool) []entity.FrameRecord {
	out := make([]entity.FrameRecord, n)
	for i := range out {
		out[i] = entity.FrameRecord{
			ID:        fmt.Sprintf("%s-f%d", videoID, i+1),
			VideoID:   videoID,
			Timestamp: float64(i),
			Filename:  fmt.Sprintf("frame_%04d.jpg", i+1),
		}
		if withFeatures {
			out[i].Features = []float64{0.5, 0.25, 0.125}
		}
	}
	return out
}

func similar(videoID string, n int) []entity.SimilarFrame {
	out := make([]entity.SimilarFrame, n)
	for i := range out {
		out[i] = entity.SimilarFrame{
			Frame: entity.FrameRecord{ID: fmt.Sprintf("%s-s%d", videoID, i+1), VideoID: videoID},
			Score: 1 - float64(i)*0.01,
		}
	}
	return out
}

// seedSession puts the store into the "video uploaded, frames extracted"
// state through the real coordinators.
func seedSession(t *testing.T, store *session.Store, api *fakeAPI, frameCount int) []entity.FrameRecord {
	t.Helper()
	log := zap.NewNop()

	api.uploadResult = video("v1")
	_, err := NewUploadVideoUseCase(store, api, log).Execute(context.Background(), entity.UploadFile{Name: "v1.mp4", Size: 4096})
	require.NoError(t, err)

	api.extractResult = frames("v1", frameCount, true)
	got, err := NewExtractFramesUseCase(store, api, log).Execute(context.Background(), "v1", 1)
	require.NoError(t, err)
	return got
}
