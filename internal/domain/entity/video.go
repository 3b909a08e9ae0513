package entity

import "io"

// VideoMetadata describes an uploaded video as registered by the server.
// Identity and storage paths are assigned server-side.
type VideoMetadata struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Size       int64   `json:"size"`
	Duration   float64 `json:"duration,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	UploadTime string  `json:"uploadTime"`
	FramePath  string  `json:"framePath"`
}

// FrameRecord is one sampled frame of a video. Features stays empty until the
// server has computed the embedding for the frame.
type FrameRecord struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	Timestamp float64   `json:"timestamp"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Features  []float64 `json:"features,omitempty"`
}

// HasFeatures reports whether similarity search may run for this frame.
func (f FrameRecord) HasFeatures() bool {
	return len(f.Features) > 0
}

// SimilarFrame is one entry of a similarity search result, score in [0,1].
// Result ordering (descending score) is owned by the server and passed
// through unmodified.
type SimilarFrame struct {
	Frame FrameRecord `json:"frame"`
	Score float64     `json:"score"`
}

// UploadFile is an opaque binary handle for a video to upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// DurableState is the subset of the session persisted across restarts.
// The JSON shape matches the slot written by earlier clients.
type DurableState struct {
	CurrentVideo *VideoMetadata `json:"currentVideo"`
	Frames       []FrameRecord  `json:"frames"`
}
