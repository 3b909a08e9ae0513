package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
	"github.com/frameseek/frameseek-client/internal/domain/port"
)

// Client talks to the remote video service over HTTP. It implements
// port.VideoAPI against the service's JSON envelope:
//
//	{"status": "...", "data": {...}}
type Client struct {
	baseURL      string
	staticURL    string
	httpClient   *http.Client
	uploadClient *http.Client
	logger       *zap.Logger
}

type ClientConfig struct {
	BaseURL       string
	StaticBaseURL string
	Timeout       time.Duration
	UploadTimeout time.Duration
}

func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		staticURL:    strings.TrimRight(cfg.StaticBaseURL, "/"),
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		uploadClient: &http.Client{Timeout: cfg.UploadTimeout},
		logger:       logger,
	}
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// progressReader reports multipart body progress as a 0-100 percentage.
// Percentages only ever grow because the underlying reader advances.
type progressReader struct {
	r       io.Reader
	total   int64
	sent    int64
	lastPct int
	fn      port.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 && p.fn != nil {
		p.sent += int64(n)
		pct := int(p.sent * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.lastPct {
			p.lastPct = pct
			p.fn(pct)
		}
	}
	return n, err
}

// Upload sends the video as a multipart request, field name "video".
func (c *Client) Upload(ctx context.Context, file entity.UploadFile, progress port.ProgressFunc) (*entity.VideoMetadata, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("video", file.Name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return nil, fmt.Errorf("read video file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	total := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/video/upload",
		&progressReader{r: &body, total: total, fn: progress})
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: upload: %v", entity.ErrTransport, err)
	}
	defer resp.Body.Close()

	var data struct {
		Video *entity.VideoMetadata `json:"video"`
	}
	if err := c.decode(resp, "upload", &data); err != nil {
		return nil, err
	}
	if data.Video == nil || data.Video.ID == "" {
		return nil, fmt.Errorf("%w: upload: missing video metadata", entity.ErrBadPayload)
	}

	c.logger.Debug("video uploaded",
		zap.String("video_id", data.Video.ID),
		zap.Int64("size", file.Size),
	)
	return data.Video, nil
}

// ExtractFrames triggers server-side frame sampling at the given interval.
// The result replaces any previous extraction for the video.
func (c *Client) ExtractFrames(ctx context.Context, videoID string, intervalSeconds int) ([]entity.FrameRecord, error) {
	payload := map[string]int{"interval": intervalSeconds}
	var data struct {
		Frames []entity.FrameRecord `json:"frames"`
		Count  int                  `json:"count"`
	}
	err := c.postJSON(ctx, "/video/extract-frames/"+videoID, "extract frames", payload, &data)
	if err != nil {
		return nil, err
	}
	if data.Frames == nil {
		return nil, fmt.Errorf("%w: extract frames: missing frames", entity.ErrBadPayload)
	}
	return data.Frames, nil
}

// SearchSimilar returns the server's similarity ranking for the reference
// frame, descending by score. The order is the server's contract and is not
// recomputed here.
func (c *Client) SearchSimilar(ctx context.Context, frameID string, limit int) ([]entity.SimilarFrame, error) {
	payload := map[string]any{"frameId": frameID, "limit": limit}
	var data struct {
		SimilarFrames []entity.SimilarFrame `json:"similarFrames"`
		Count         int                   `json:"count"`
	}
	err := c.postJSON(ctx, "/video/search-similar", "search similar", payload, &data)
	if err != nil {
		return nil, err
	}
	if data.SimilarFrames == nil {
		return nil, fmt.Errorf("%w: search similar: missing results", entity.ErrBadPayload)
	}
	return data.SimilarFrames, nil
}

// GetVideo fetches current metadata for a video, used for recovery.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*entity.VideoMetadata, error) {
	var data struct {
		Video *entity.VideoMetadata `json:"video"`
	}
	if err := c.getJSON(ctx, "/video/"+videoID, "get video", &data); err != nil {
		return nil, err
	}
	if data.Video == nil || data.Video.ID == "" {
		return nil, fmt.Errorf("%w: get video: missing video metadata", entity.ErrBadPayload)
	}
	return data.Video, nil
}

// GetFrames fetches the current frame set for a video, used for recovery.
func (c *Client) GetFrames(ctx context.Context, videoID string) ([]entity.FrameRecord, error) {
	var data struct {
		Frames []entity.FrameRecord `json:"frames"`
		Count  int                  `json:"count"`
	}
	if err := c.getJSON(ctx, "/video/"+videoID+"/frames", "get frames", &data); err != nil {
		return nil, err
	}
	if data.Frames == nil {
		return nil, fmt.Errorf("%w: get frames: missing frames", entity.ErrBadPayload)
	}
	return data.Frames, nil
}

// FrameURL derives the static asset URL for a frame image. Image bytes are
// fetched by the rendering layer, never by this client.
func (c *Client) FrameURL(videoID, filename string) string {
	return c.staticURL + "/" + videoID + "/" + filename
}

func (c *Client) postJSON(ctx context.Context, path, op string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrTransport, op, err)
	}
	defer resp.Body.Close()

	return c.decode(resp, op, out)
}

func (c *Client) getJSON(ctx context.Context, path, op string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrTransport, op, err)
	}
	defer resp.Body.Close()

	return c.decode(resp, op, out)
}

func (c *Client) decode(resp *http.Response, op string, out any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %v", entity.ErrTransport, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: server returned %d: %s",
			entity.ErrTransport, op, resp.StatusCode, serverErrorText(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrBadPayload, op, err)
	}
	if env.Data == nil {
		return fmt.Errorf("%w: %s: missing data", entity.ErrBadPayload, op)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrBadPayload, op, err)
	}
	return nil
}

// serverErrorText pulls a human-readable message out of an error response.
func serverErrorText(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
