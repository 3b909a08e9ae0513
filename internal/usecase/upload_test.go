package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
)

func TestUploadSuccess(t *testing.T) {
	store := newStore(t)
	api := &fakeAPI{uploadResult: video("v1"), uploadPcts: []int{10, 50, 90}}
	uc := NewUploadVideoUseCase(store, api, zap.NewNop())

	got, err := uc.Execute(context.Background(), entity.UploadFile{Name: "v1.mp4", Size: 4096})
	require.NoError(t, err)
	assert.Equal(t, "v1", got.ID)

	snap := store.Snapshot()
	require.NotNil(t, snap.CurrentVideo)
	assert.Equal(t, "v1", snap.CurrentVideo.ID)
	assert.Empty(t, snap.Frames)
	assert.Nil(t, snap.SelectedFrame)
	assert.Equal(t, 100, snap.UploadProgress)
	assert.False(t, snap.Busy)
}

func TestUploadProgressForwardedToSubscribers(t *testing.T) {
	store := newStore(t)
	api := &fakeAPI{uploadResult: video("v1"), uploadPcts: []int{25, 50, 75}}
	uc := NewUploadVideoUseCase(store, api, zap.NewNop())

	var seen []int
	store.Subscribe(func(snap entity.Session) {
		seen = append(seen, snap.UploadProgress)
	})

	_, err := uc.Execute(context.Background(), entity.UploadFile{Name: "v1.mp4", Size: 4096})
	require.NoError(t, err)

	assert.Contains(t, seen, 25)
	assert.Contains(t, seen, 50)
	assert.Contains(t, seen, 75)
	assert.Equal(t, 100, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1], "progress must be monotonic")
	}
}

func TestUploadTransportFailureLeavesStateIntact(t *testing.T) {
	store := newStore(t)
	api := &fakeAPI{uploadErr: fmt.Errorf("%w: upload: connection refused", entity.ErrTransport)}
	uc := NewUploadVideoUseCase(store, api, zap.NewNop())

	_, err := uc.Execute(context.Background(), entity.UploadFile{Name: "v1.mp4", Size: 4096})
	require.ErrorIs(t, err, entity.ErrTransport)

	snap := store.Snapshot()
	assert.Nil(t, snap.CurrentVideo, "failed upload must not install a video")
	assert.Empty(t, snap.Frames)
	assert.Zero(t, snap.UploadProgress)
	assert.False(t, snap.Busy, "busy must clear so the user can retry")
	require.NotNil(t, snap.Status)
	assert.True(t, snap.Status.IsError)
	assert.Contains(t, snap.Status.Text, "Error:")

	// Immediate retry succeeds.
	api.uploadErr = nil
	api.uploadResult = video("v1")
	_, err = uc.Execute(context.Background(), entity.UploadFile{Name: "v1.mp4", Size: 4096})
	require.NoError(t, err)
}

func TestUploadFailureKeepsPriorVideo(t *testing.T) {
	store := newStore(t)
	api := &fakeAPI{}
	seedSession(t, store, api, 3)

	api.uploadErr = fmt.Errorf("%w: upload: 500", entity.ErrTransport)
	uc := NewUploadVideoUseCase(store, api, zap.NewNop())
	_, err := uc.Execute(context.Background(), entity.UploadFile{Name: "v2.mp4", Size: 1})
	require.ErrorIs(t, err, entity.ErrTransport)

	snap := store.Snapshot()
	require.NotNil(t, snap.CurrentVideo)
	assert.Equal(t, "v1", snap.CurrentVideo.ID)
	assert.Len(t, snap.Frames, 3)
}

func TestUploadRejectedWhileBusy(t *testing.T) {
	store := newStore(t)
	block := make(chan struct{})
	api := &fakeAPI{uploadResult: video("v1"), uploadBlock: block}
	uc := NewUploadVideoUseCase(store, api, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(context.Background(), entity.UploadFile{Name: "v1.mp4", Size: 4096})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return store.Snapshot().Busy
	}, time.Second, time.Millisecond)

	_, err := uc.Execute(context.Background(), entity.UploadFile{Name: "v2.mp4", Size: 4096})
	assert.ErrorIs(t, err, entity.ErrAlreadyBusy)

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, "v1", store.Snapshot().CurrentVideo.ID)
}
