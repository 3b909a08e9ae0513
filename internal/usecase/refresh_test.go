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

const (
	testEventually = time.Second
	testTick       = 5 * time.Millisecond
)

func TestRefreshRequiresCurrentVideo(t *testing.T) {
	store := newStore(t)
	uc := NewRefreshSessionUseCase(store, &fakeAPI{}, zap.NewNop())

	_, _, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestRefreshReplacesVideoAndFrames(t *testing.T) {
	store := newStore(t)
	api := &fakeAPI{}
	fs := seedSession(t, store, api, 3)
	require.NoError(t, store.SelectFrame(fs[0].ID))

	refreshed := video("v1")
	refreshed.Duration = 42
	api.video = refreshed
	api.frames = frames("v1", 8, true)

	uc := NewRefreshSessionUseCase(store, api, zap.NewNop())
	gotVideo, gotFrames, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42.0, gotVideo.Duration)
	assert.Len(t, gotFrames, 8)

	snap := store.Snapshot()
	assert.Equal(t, 42.0, snap.CurrentVideo.Duration)
	assert.Len(t, snap.Frames, 8)
	assert.Nil(t, snap.SelectedFrame, "wholesale replace clears the selection")
	assert.False(t, snap.Busy)
}

func TestRefreshFailureLeavesSessionIntact(t *testing.T) {
	store := newStore(t)
	api := &fakeAPI{}
	seedSession(t, store, api, 3)

	api.videoErr = fmt.Errorf("%w: get video: server returned 503", entity.ErrTransport)
	uc := NewRefreshSessionUseCase(store, api, zap.NewNop())
	_, _, err := uc.Execute(context.Background())
	require.ErrorIs(t, err, entity.ErrTransport)

	snap := store.Snapshot()
	assert.Equal(t, "v1", snap.CurrentVideo.ID)
	assert.Len(t, snap.Frames, 3)
	assert.False(t, snap.Busy)
	require.NotNil(t, snap.Status)
	assert.True(t, snap.Status.IsError)
}

func TestRefreshFrameFetchFailureLeavesSessionIntact(t *testing.T) {
	store := newStore(t)
	api := &fakeAPI{}
	seedSession(t, store, api, 3)

	api.video = video("v1")
	api.framesErr = fmt.Errorf("%w: get frames: server returned 500", entity.ErrTransport)
	uc := NewRefreshSessionUseCase(store, api, zap.NewNop())
	_, _, err := uc.Execute(context.Background())
	require.ErrorIs(t, err, entity.ErrTransport)

	snap := store.Snapshot()
	assert.Len(t, snap.Frames, 3)
	assert.False(t, snap.Busy)
}
