package entity

// Op identifies the remote operation holding the busy flag.
type Op string

const (
	OpNone    Op = ""
	OpUpload  Op = "upload"
	OpExtract Op = "extract"
	OpSearch  Op = "search"
	OpRefresh Op = "refresh"
)

// StatusMessage is transient user-facing status text. Success messages
// self-expire; error messages stay until the next operation.
type StatusMessage struct {
	Text    string
	IsError bool
}

// Session is the root aggregate of client-visible state for one video's
// processing lifecycle. SelectedFrame, when set, always references an element
// of Frames by identity; replacing Frames clears it. Only CurrentVideo and
// Frames survive restarts.
type Session struct {
	CurrentVideo   *VideoMetadata
	Frames         []FrameRecord
	SelectedFrame  *FrameRecord
	UploadProgress int
	Busy           bool
	BusyOp         Op
	Status         *StatusMessage
}

// FrameByID returns the frame with the given id from the current set.
func (s Session) FrameByID(id string) (FrameRecord, bool) {
	for _, f := range s.Frames {
		if f.ID == id {
			return f, true
		}
	}
	return FrameRecord{}, false
}

// Clone returns a snapshot observers may keep without aliasing store state.
func (s Session) Clone() Session {
	out := s
	if s.CurrentVideo != nil {
		v := *s.CurrentVideo
		out.CurrentVideo = &v
	}
	if s.Frames != nil {
		out.Frames = make([]FrameRecord, len(s.Frames))
		copy(out.Frames, s.Frames)
	}
	if s.SelectedFrame != nil {
		f := *s.SelectedFrame
		out.SelectedFrame = &f
	}
	if s.Status != nil {
		m := *s.Status
		out.Status = &m
	}
	return out
}

// Durable extracts the persisted subset of the session.
func (s Session) Durable() DurableState {
	return DurableState{CurrentVideo: s.CurrentVideo, Frames: s.Frames}
}
