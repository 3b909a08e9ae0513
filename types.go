package frameseek

import (
	"github.com/frameseek/frameseek-client/internal/domain/entity"
	"github.com/frameseek/frameseek-client/internal/infra/config"
)

// Aliases re-exporting the domain vocabulary for callers.
type (
	Session       = entity.Session
	VideoMetadata = entity.VideoMetadata
	FrameRecord   = entity.FrameRecord
	SimilarFrame  = entity.SimilarFrame
	UploadFile    = entity.UploadFile
	StatusMessage = entity.StatusMessage
	Op            = entity.Op

	Config = config.Config
)

const (
	OpNone    = entity.OpNone
	OpUpload  = entity.OpUpload
	OpExtract = entity.OpExtract
	OpSearch  = entity.OpSearch
	OpRefresh = entity.OpRefresh
)

var (
	ErrTransport           = entity.ErrTransport
	ErrBadPayload          = entity.ErrBadPayload
	ErrInvalidState        = entity.ErrInvalidState
	ErrInvalidTransition   = entity.ErrInvalidTransition
	ErrConcurrentOperation = entity.ErrConcurrentOperation
	ErrAlreadyBusy         = entity.ErrAlreadyBusy
	ErrFeaturesNotReady    = entity.ErrFeaturesNotReady
	ErrStaleResponse       = entity.ErrStaleResponse
)

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	return config.Load()
}
