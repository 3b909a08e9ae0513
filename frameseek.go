// Package frameseek is the client-side session orchestrator for the frameseek
// video service: upload a video, trigger server-side frame extraction, and
// search for visually similar frames. It owns the single live session
// aggregate, persists the durable subset across restarts, and exposes derived
// view state to rendering surfaces through a subscription.
package frameseek

import (
	"context"
	"net/http"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	apiclient "github.com/frameseek/frameseek-client/internal/infra/api"
	"github.com/frameseek/frameseek-client/internal/infra/config"
	"github.com/frameseek/frameseek-client/internal/infra/localstore"
	"github.com/frameseek/frameseek-client/internal/infra/metrics"
	"github.com/frameseek/frameseek-client/internal/infra/tracing"
	"github.com/frameseek/frameseek-client/internal/session"
	"github.com/frameseek/frameseek-client/internal/usecase"
	"github.com/frameseek/frameseek-client/pkg/logger"
)

// Client wires the session store, the remote API adapter and the
// coordinators into one orchestrator. One Client owns one session.
type Client struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *session.Store
	api    *apiclient.Client

	upload  *usecase.UploadVideoUseCase
	extract *usecase.ExtractFramesUseCase
	search  *usecase.SearchSimilarUseCase
	refresh *usecase.RefreshSessionUseCase

	metricsSrv     *http.Server
	tracerProvider *sdktrace.TracerProvider
}

// New builds a Client from environment configuration.
func New() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds a Client from an explicit configuration. The session
// is restored from the durable slot when present and well-formed, otherwise
// it starts empty.
func NewWithConfig(cfg *config.Config) (*Client, error) {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, logger: log}

	ctx := context.Background()
	if cfg.OTLPEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			c.tracerProvider = tp
		}
	}

	c.api = apiclient.NewClient(apiclient.ClientConfig{
		BaseURL:       cfg.APIBaseURL,
		StaticBaseURL: cfg.StaticBaseURL,
		Timeout:       time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		UploadTimeout: time.Duration(cfg.UploadTimeoutSeconds) * time.Second,
	}, log)

	slot := localstore.NewFileSlot(cfg.StateFile, log)
	c.store = session.NewStore(slot, time.Duration(cfg.StatusTTLSeconds)*time.Second, log)

	c.upload = usecase.NewUploadVideoUseCase(c.store, c.api, log)
	c.extract = usecase.NewExtractFramesUseCase(c.store, c.api, log)
	c.search = usecase.NewSearchSimilarUseCase(c.store, c.api, log)
	c.refresh = usecase.NewRefreshSessionUseCase(c.store, c.api, log)

	if cfg.MetricsPort > 0 {
		c.metricsSrv = metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)
	}

	return c, nil
}

// Upload transfers a video to the server and makes it the current video,
// clearing any frames from a prior one. Progress is observable through
// Subscribe. Rejected with ErrAlreadyBusy while another operation runs.
func (c *Client) Upload(ctx context.Context, file UploadFile) (*VideoMetadata, error) {
	return c.upload.Execute(ctx, file)
}

// ExtractFrames asks the server to sample the current video at the given
// interval and replaces the session's frame set with the result.
func (c *Client) ExtractFrames(ctx context.Context, videoID string, intervalSeconds int) ([]FrameRecord, error) {
	return c.extract.Execute(ctx, videoID, intervalSeconds)
}

// FindSimilar returns the server's similarity ranking for the reference
// frame, descending by score. The limit is clamped to [1, 50]. The result is
// transient and owned by the caller; it never enters the session.
func (c *Client) FindSimilar(ctx context.Context, frameID string, limit int) ([]SimilarFrame, error) {
	return c.search.Execute(ctx, frameID, limit)
}

// Refresh re-fetches the current video's metadata and frames from the
// server. Recovery path, not needed on the ordinary flow.
func (c *Client) Refresh(ctx context.Context) (*VideoMetadata, []FrameRecord, error) {
	return c.refresh.Execute(ctx)
}

// SelectFrame marks a frame of the current set as selected.
func (c *Client) SelectFrame(frameID string) error {
	return c.store.SelectFrame(frameID)
}

// ClearSelection drops the selected frame.
func (c *Client) ClearSelection() error {
	return c.store.ClearSelection()
}

// Reset destroys the session and erases its durable copy.
func (c *Client) Reset() error {
	return c.store.Reset()
}

// Snapshot returns a copy of the current session state.
func (c *Client) Snapshot() Session {
	return c.store.Snapshot()
}

// Subscribe registers a callback invoked synchronously with a snapshot after
// every committed state transition. The returned function unsubscribes.
func (c *Client) Subscribe(fn func(Session)) func() {
	return c.store.Subscribe(fn)
}

// FrameURL derives the static URL a rendering surface fetches the frame
// image from.
func (c *Client) FrameURL(frame FrameRecord) string {
	return c.api.FrameURL(frame.VideoID, frame.Filename)
}

// Close shuts down the metrics server and tracer and flushes the logger.
func (c *Client) Close(ctx context.Context) error {
	if c.metricsSrv != nil {
		c.metricsSrv.Shutdown(ctx)
	}
	if c.tracerProvider != nil {
		c.tracerProvider.Shutdown(ctx)
	}
	c.logger.Sync()
	return nil
}
