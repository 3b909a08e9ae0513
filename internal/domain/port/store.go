package port

import "github.com/frameseek/frameseek-client/internal/domain/entity"

// SessionSlot is one named durable slot holding the persisted session subset.
//
// Load must degrade to (nil, nil) when the slot is missing or its content is
// malformed; corruption never propagates to the caller.
type SessionSlot interface {
	Save(state entity.DurableState) error
	Load() (*entity.DurableState, error)
	Clear() error
}
