package rtc

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwebrtc/go-rtc/pkg/utils"
	"github.com/gammazero/deque"
	"github.com/ghettovoice/gosip/log"
	"github.com/google/uuid"
	"github.com/pixelbender/go-sdp/sdp"
)

// Session drives negotiation for a set of transceivers: it binds remote
// media lines to pooled local transceivers and creates fresh inactive ones
// for lines nothing can satisfy. One negotiation round runs at a time; the
// session's lock is the serialization point the transceivers rely on for
// their mutating operations.
type Session struct {
	lock         sync.Mutex
	mediaEngine  *MediaEngine
	transceivers []*RTPTransceiver

	opsLock     sync.Mutex
	ops         deque.Deque
	negotiating bool

	onNegotiationNeeded func()

	closed utils.AtomicBool
	logger log.Logger
}

func NewSession(mediaEngine *MediaEngine) *Session {
	return &Session{
		mediaEngine: mediaEngine,
		logger:      utils.NewLogrusLogger(utils.DefaultLogLevel, "Session", nil),
	}
}

func (s *Session) Log() log.Logger {
	return s.logger
}

// OnNegotiationNeeded registers the handler fired after pool changes that
// require a new offer/answer round. Handlers run one at a time, in order,
// on a separate goroutine.
func (s *Session) OnNegotiationNeeded(f func()) {
	s.opsLock.Lock()
	s.onNegotiationNeeded = f
	s.opsLock.Unlock()
}

func (s *Session) negotiationNeeded() {
	s.opsLock.Lock()
	f := s.onNegotiationNeeded
	s.opsLock.Unlock()
	if f == nil {
		return
	}
	s.queueOp(f)
}

func (s *Session) queueOp(op func()) {
	s.opsLock.Lock()
	s.ops.PushBack(op)
	if s.negotiating {
		s.opsLock.Unlock()
		return
	}
	s.negotiating = true
	s.opsLock.Unlock()

	go s.drainOps()
}

func (s *Session) drainOps() {
	for {
		s.opsLock.Lock()
		if s.ops.Len() == 0 {
			s.negotiating = false
			s.opsLock.Unlock()
			return
		}
		op := s.ops.PopFront().(func())
		s.opsLock.Unlock()

		op()
	}
}

// AddTransceiver appends a transceiver built from explicit handles to the
// session's pool.
func (s *Session) AddTransceiver(receiver Receiver, sender Sender, direction RTPTransceiverDirection, kind RTPCodecType) (*RTPTransceiver, error) {
	if s.closed.Get() {
		return nil, ErrSessionClosed
	}
	if kind != RTPCodecTypeAudio && kind != RTPCodecTypeVideo {
		return nil, ErrUnknownType
	}

	t := NewRTPTransceiver(receiver, sender, direction, kind, nil, s.mediaEngine)

	s.lock.Lock()
	s.transceivers = append(s.transceivers, t)
	s.lock.Unlock()

	s.negotiationNeeded()
	return t, nil
}

// AddTransceiverFromKind appends a transceiver of the given kind and
// direction with no handles attached yet.
func (s *Session) AddTransceiverFromKind(kind RTPCodecType, direction RTPTransceiverDirection) (*RTPTransceiver, error) {
	return s.AddTransceiver(nil, nil, direction, kind)
}

// AddTransceiverFromTrack appends a sendrecv transceiver sending track
// through sender.
func (s *Session) AddTransceiverFromTrack(track TrackLocal, sender Sender) (*RTPTransceiver, error) {
	t, err := s.AddTransceiver(nil, nil, RTPTransceiverDirectionSendrecv, track.Kind())
	if err != nil {
		return nil, err
	}
	if err := t.SetSender(sender, track); err != nil {
		return nil, err
	}
	return t, nil
}

// Transceivers returns a snapshot of the pool in its current order.
func (s *Session) Transceivers() []*RTPTransceiver {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]*RTPTransceiver, len(s.transceivers))
	copy(out, s.transceivers)
	return out
}

// SetRemoteDescription walks the media lines of a remote session
// description and binds each to a local transceiver: by mid when the line
// carries one, else by kind and complementary direction, else a fresh
// inactive transceiver is created. Matched transceivers keep media-line
// order at the head of the pool; unmatched ones keep their relative order
// behind them.
func (s *Session) SetRemoteDescription(ctx context.Context, remoteSdp string) error {
	if s.closed.Get() {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sess, err := sdp.Parse([]byte(remoteSdp))
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	pool := make([]*RTPTransceiver, len(s.transceivers))
	copy(pool, s.transceivers)

	var bound []*RTPTransceiver
	for _, m := range sess.Media {
		kind := NewRTPCodecType(m.Type)
		if kind == RTPCodecType(0) {
			// application and other non-media sections are not ours
			continue
		}

		remoteDirection := NewRTPTransceiverDirection(m.Mode)
		if remoteDirection == RTPTransceiverDirection(0) {
			// no mode attribute defaults to sendrecv
			remoteDirection = RTPTransceiverDirectionSendrecv
		}

		mid := m.Attributes.Get("mid")

		var t *RTPTransceiver
		if mid != "" {
			t, pool = FindByMid(mid, pool)
		}
		if t == nil {
			t, pool = SatisfyTypeAndDirection(kind, remoteDirection, pool)
		}
		if t == nil {
			t = NewRTPTransceiver(nil, nil, RTPTransceiverDirectionInactive, kind, nil, s.mediaEngine)
			s.logger.Debugf("no local transceiver satisfies %s %s, created inactive one", kind, remoteDirection)
		}

		if t.Mid() == "" {
			assigned := mid
			if assigned == "" {
				assigned = fmt.Sprintf("%s-%s", kind, uuid.NewString()[:8])
			}
			if err := t.SetMid(assigned); err != nil {
				return err
			}
			s.logger.Debugf("bound %s %s line to mid %s", kind, remoteDirection, assigned)
		}

		bound = append(bound, t)
	}

	s.transceivers = append(bound, pool...)
	return nil
}

// Close stops every transceiver in the pool. The first stop failure is
// returned after all transceivers were attempted.
func (s *Session) Close() error {
	if !s.closed.Set(true) {
		return ErrSessionClosed
	}

	s.lock.Lock()
	transceivers := s.transceivers
	s.transceivers = nil
	s.lock.Unlock()

	var firstErr error
	for _, t := range transceivers {
		if err := t.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
