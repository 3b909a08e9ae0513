package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
	"github.com/frameseek/frameseek-client/internal/domain/port"
)

// Texts shown through the status messenger.
const (
	statusExtracting = "Extracting frames..."
	statusExtracted  = "Frames extracted successfully!"
)

// Token proves ownership of the in-flight operation. Every Begin issues a
// fresh token; reset or completion invalidates it, so late results from the
// transport layer fail validation instead of being committed.
type Token struct {
	id uuid.UUID
	op entity.Op
}

// Op returns the operation this token was issued for.
func (t Token) Op() entity.Op { return t.op }

type subscriber struct {
	id int
	fn func(entity.Session)
}

// Store owns the single live Session aggregate. All mutation goes through
// its transition methods; each method is one atomic transition. Subscribers
// observe every committed transition, never a rejected one, and the durable
// subset is written to the slot after subscribers have seen the change.
type Store struct {
	mu        sync.Mutex
	session   entity.Session
	active    Token
	subs      []subscriber
	nextSubID int

	statusGen   int
	statusTimer *time.Timer
	statusTTL   time.Duration

	slot   port.SessionSlot
	logger *zap.Logger
}

// NewStore builds a store seeded from the durable slot. A missing or
// corrupted slot starts an empty session.
func NewStore(slot port.SessionSlot, statusTTL time.Duration, logger *zap.Logger) *Store {
	s := &Store{
		slot:      slot,
		statusTTL: statusTTL,
		logger:    logger,
	}

	state, err := slot.Load()
	if err != nil {
		logger.Warn("session slot unreadable, starting empty", zap.Error(err))
	} else if state != nil {
		s.session.CurrentVideo = state.CurrentVideo
		s.session.Frames = state.Frames
		if state.CurrentVideo != nil {
			logger.Info("session restored",
				zap.String("video_id", state.CurrentVideo.ID),
				zap.Int("frame_count", len(state.Frames)),
			)
		}
	}
	return s
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

// Subscribe registers a callback invoked synchronously with a snapshot after
// every committed transition, in registration order. The returned function
// unsubscribes.
func (s *Store) Subscribe(fn func(entity.Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Begin claims the busy flag for op and returns the ownership token.
// A second operation attempted while busy is rejected, never queued.
func (s *Store) Begin(op entity.Op) (Token, error) {
	s.mu.Lock()
	if s.session.Busy {
		s.mu.Unlock()
		return Token{}, fmt.Errorf("%w: %s blocked by in-flight %s", entity.ErrAlreadyBusy, op, s.session.BusyOp)
	}

	tok := Token{id: uuid.New(), op: op}
	s.active = tok
	s.session.Busy = true
	s.session.BusyOp = op
	if op == entity.OpUpload {
		s.session.UploadProgress = 0
	}
	s.clearStatusLocked()

	s.finish(false)
	return tok, nil
}

// SetProgress forwards upload progress. Values are clamped to 0-100 and kept
// monotonically non-decreasing; stale updates are discarded.
func (s *Store) SetProgress(tok Token, pct int) error {
	s.mu.Lock()
	if err := s.validateLocked(tok); err != nil {
		s.mu.Unlock()
		return err
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if pct <= s.session.UploadProgress {
		s.mu.Unlock()
		return nil
	}
	s.session.UploadProgress = pct

	s.finish(false)
	return nil
}

// CommitUpload installs the uploaded video. A new video invalidates any
// extraction results from a prior one, so frames and selection are cleared.
func (s *Store) CommitUpload(tok Token, video *entity.VideoMetadata) error {
	s.mu.Lock()
	if err := s.validateLocked(tok); err != nil {
		s.mu.Unlock()
		return err
	}
	s.session.CurrentVideo = video
	s.session.Frames = nil
	s.session.SelectedFrame = nil
	s.session.UploadProgress = 100
	s.releaseLocked()

	s.finish(true)
	return nil
}

// StartExtraction marks extraction as running and sets its status text.
func (s *Store) StartExtraction(tok Token) error {
	s.mu.Lock()
	if err := s.validateLocked(tok); err != nil {
		s.mu.Unlock()
		return err
	}
	s.setStatusLocked(statusExtracting, false, false)

	s.finish(false)
	return nil
}

// CommitExtraction replaces the frame set wholesale and arms the
// self-clearing success status. Rejected when no video is present.
func (s *Store) CommitExtraction(tok Token, frames []entity.FrameRecord) error {
	s.mu.Lock()
	if err := s.validateLocked(tok); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.session.CurrentVideo == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: extraction succeeded without a current video", entity.ErrInvalidTransition)
	}
	s.session.Frames = frames
	s.session.SelectedFrame = nil
	s.releaseLocked()
	s.setStatusLocked(statusExtracted, false, true)

	s.finish(true)
	return nil
}

// CommitRefresh re-syncs the aggregate from the server, replacing both the
// video metadata and the frame set.
func (s *Store) CommitRefresh(tok Token, video *entity.VideoMetadata, frames []entity.FrameRecord) error {
	s.mu.Lock()
	if err := s.validateLocked(tok); err != nil {
		s.mu.Unlock()
		return err
	}
	s.session.CurrentVideo = video
	s.session.Frames = frames
	s.session.SelectedFrame = nil
	s.releaseLocked()

	s.finish(true)
	return nil
}

// FailOperation releases the busy flag after a failed operation and surfaces
// the message as an error status that does not auto-clear. The aggregate
// keeps its last-known-good value.
func (s *Store) FailOperation(tok Token, message string) error {
	s.mu.Lock()
	if err := s.validateLocked(tok); err != nil {
		s.mu.Unlock()
		return err
	}
	if tok.op == entity.OpUpload {
		s.session.UploadProgress = 0
	}
	s.releaseLocked()
	s.setStatusLocked(message, true, false)

	s.finish(false)
	return nil
}

// FinishSearch releases the busy flag after a search. Search results are
// owned by the caller and never enter the aggregate.
func (s *Store) FinishSearch(tok Token) error {
	s.mu.Lock()
	if err := s.validateLocked(tok); err != nil {
		s.mu.Unlock()
		return err
	}
	s.releaseLocked()

	s.finish(false)
	return nil
}

// SelectFrame marks a frame of the current set as selected.
func (s *Store) SelectFrame(frameID string) error {
	s.mu.Lock()
	if s.session.Busy {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot select frame during %s", entity.ErrConcurrentOperation, s.session.BusyOp)
	}
	frame, ok := s.session.FrameByID(frameID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: frame %s not in current set", entity.ErrInvalidTransition, frameID)
	}
	s.session.SelectedFrame = &frame

	s.finish(false)
	return nil
}

// ClearSelection drops the selected frame.
func (s *Store) ClearSelection() error {
	s.mu.Lock()
	if s.session.Busy {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot change selection during %s", entity.ErrConcurrentOperation, s.session.BusyOp)
	}
	if s.session.SelectedFrame == nil {
		s.mu.Unlock()
		return nil
	}
	s.session.SelectedFrame = nil

	s.finish(false)
	return nil
}

// Reset destroys the session and erases the durable slot. It is permitted
// while an operation is in flight: the active token is invalidated, so the
// in-flight result is discarded as stale when it arrives.
func (s *Store) Reset() error {
	s.mu.Lock()
	if s.session.Busy {
		s.logger.Warn("reset during in-flight operation, result will be discarded",
			zap.String("op", string(s.session.BusyOp)))
	}
	s.active = Token{}
	s.session = entity.Session{}
	s.cancelStatusTimerLocked()
	s.statusGen++

	snap, subs := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap, subs)
	if err := s.slot.Clear(); err != nil {
		s.logger.Warn("failed to clear session slot", zap.Error(err))
	}
	return nil
}

// validateLocked checks that tok still owns the in-flight operation.
func (s *Store) validateLocked(tok Token) error {
	if s.active.id != uuid.Nil && s.active.id == tok.id {
		return nil
	}
	if s.session.Busy {
		return fmt.Errorf("%w: %s result while %s owns the session", entity.ErrConcurrentOperation, tok.op, s.session.BusyOp)
	}
	s.logger.Warn("discarding stale operation result", zap.String("op", string(tok.op)))
	return fmt.Errorf("%w: %s", entity.ErrStaleResponse, tok.op)
}

func (s *Store) releaseLocked() {
	s.active = Token{}
	s.session.Busy = false
	s.session.BusyOp = entity.OpNone
}

// finish commits the transition: snapshots under the held lock, releases it,
// notifies subscribers in order, then persists the durable subset. The busy
// flag serializes operations, so commit order equals notification order.
func (s *Store) finish(persist bool) {
	snap, subs := s.commitLocked()
	s.mu.Unlock()

	s.notify(snap, subs)
	if persist {
		if err := s.slot.Save(snap.Durable()); err != nil {
			s.logger.Warn("failed to persist session", zap.Error(err))
		}
	}
}

func (s *Store) commitLocked() (entity.Session, []subscriber) {
	snap := s.session.Clone()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	return snap, subs
}

func (s *Store) notify(snap entity.Session, subs []subscriber) {
	for _, sub := range subs {
		sub.fn(snap)
	}
}
