package rtc

import (
	"context"
	"sync"

	"github.com/cloudwebrtc/go-rtc/pkg/utils"
)

// RTPTransceiver represents a combination of a Sender and a Receiver that
// share a common mid.
//
// Direction is readable lock-free while a negotiation round is in flight;
// every other field is guarded by the transceiver's own mutex, and the
// session driver is expected to keep at most one mutating call in flight
// per transceiver.
type RTPTransceiver struct {
	mu sync.Mutex

	mid      string
	sender   Sender
	receiver Receiver

	direction utils.AtomicUInt32 // RTPTransceiverDirection

	// codecs holds the preference order given via SetCodecPreferences.
	// Empty defers entirely to the media engine's order.
	codecs []RTPCodecParameters

	stopped bool
	kind    RTPCodecType

	mediaEngine *MediaEngine
}

func NewRTPTransceiver(
	receiver Receiver,
	sender Sender,
	direction RTPTransceiverDirection,
	kind RTPCodecType,
	codecs []RTPCodecParameters,
	mediaEngine *MediaEngine,
) *RTPTransceiver {
	t := &RTPTransceiver{
		receiver:    receiver,
		sender:      sender,
		codecs:      codecs,
		kind:        kind,
		mediaEngine: mediaEngine,
	}
	t.setDirection(direction)
	return t
}

// SetCodecPreferences sets the preferred list of supported codecs. An empty
// list resets to the media engine's defaults. The call is all-or-nothing:
// one unsupported entry rejects the whole list and leaves the previous
// preferences in place.
func (t *RTPTransceiver) SetCodecPreferences(ctx context.Context, codecs []RTPCodecParameters) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, codec := range codecs {
		mediaEngineCodecs := t.mediaEngine.GetCodecsByKind(ctx, t.kind)
		if _, matchType := CodecParametersFuzzySearch(codec, mediaEngineCodecs); matchType == CodecMatchNone {
			return ErrRTPTransceiverCodecUnsupported
		}
	}

	t.codecs = codecs
	return nil
}

// Codecs returns the list of supported codecs in preference order. Stored
// preferences are re-resolved against the media engine on every call, so a
// preference whose codec was since dropped from the engine silently
// disappears from the result.
func (t *RTPTransceiver) Codecs(ctx context.Context) []RTPCodecParameters {
	t.mu.Lock()
	defer t.mu.Unlock()

	mediaEngineCodecs := t.mediaEngine.GetCodecsByKind(ctx, t.kind)
	if len(t.codecs) == 0 {
		return mediaEngineCodecs
	}

	filteredCodecs := []RTPCodecParameters{}
	for _, codec := range t.codecs {
		if c, matchType := CodecParametersFuzzySearch(codec, mediaEngineCodecs); matchType != CodecMatchNone {
			filteredCodecs = append(filteredCodecs, c)
		}
	}

	return filteredCodecs
}

// Sender returns the RTPTransceiver's Sender if it has one.
func (t *RTPTransceiver) Sender() Sender {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sender
}

// SetSender sets the Sender and its track on the transceiver, then applies
// the track-presence direction transition.
func (t *RTPTransceiver) SetSender(s Sender, track TrackLocal) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sender = s
	return t.setSendingTrack(track)
}

// Receiver returns the RTPTransceiver's Receiver if it has one.
func (t *RTPTransceiver) Receiver() Receiver {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.receiver
}

// SetMid sets the RTPTransceiver's mid. If it was already set, it returns
// an error; a transceiver is never renamed once bound to a media line.
func (t *RTPTransceiver) SetMid(mid string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mid != "" {
		return ErrRTPTransceiverCannotChangeMid
	}
	t.mid = mid
	return nil
}

// Mid gets the transceiver's mid value. Empty until assigned by a
// negotiation round.
func (t *RTPTransceiver) Mid() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mid
}

// Kind returns the RTPTransceiver's kind.
func (t *RTPTransceiver) Kind() RTPCodecType {
	return t.kind
}

// Direction returns the RTPTransceiver's current direction.
func (t *RTPTransceiver) Direction() RTPTransceiverDirection {
	return RTPTransceiverDirection(t.direction.Get())
}

func (t *RTPTransceiver) setDirection(d RTPTransceiverDirection) {
	t.direction.Set(uint32(d))
}

// Stopped reports whether Stop has completed successfully.
func (t *RTPTransceiver) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Stop irreversibly stops the RTPTransceiver. The sender is stopped first,
// then the receiver; a failure short-circuits and leaves the direction
// unchanged even though the already-stopped handle stays stopped. Only a
// fully successful sequence forces the direction to inactive, so a failed
// Stop may be retried; after success the handles report their own
// already-stopped errors on a repeat call.
func (t *RTPTransceiver) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sender != nil {
		if err := t.sender.Stop(); err != nil {
			return err
		}
	}
	if t.receiver != nil {
		if err := t.receiver.Stop(); err != nil {
			return err
		}
	}

	t.setDirection(RTPTransceiverDirectionInactive)
	t.stopped = true
	return nil
}

// SetSendingTrack attaches track to the sender (nil detaches) and walks the
// direction transition table: attaching adds the sending capability,
// detaching removes it, and any other combination is a caller bug reported
// as ErrRTPTransceiverSetSendingInvalidState.
func (t *RTPTransceiver) SetSendingTrack(track TrackLocal) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.setSendingTrack(track)
}

func (t *RTPTransceiver) setSendingTrack(track TrackLocal) error {
	trackIsNil := track == nil
	if t.sender != nil {
		if err := t.sender.ReplaceTrack(track); err != nil {
			return err
		}
	}
	if trackIsNil {
		t.sender = nil
	}

	direction := t.Direction()
	switch {
	case !trackIsNil && direction == RTPTransceiverDirectionRecvonly:
		t.setDirection(RTPTransceiverDirectionSendrecv)
	case !trackIsNil && direction == RTPTransceiverDirectionInactive:
		t.setDirection(RTPTransceiverDirectionSendonly)
	case trackIsNil && direction == RTPTransceiverDirectionSendrecv:
		t.setDirection(RTPTransceiverDirectionRecvonly)
	case !trackIsNil && (direction == RTPTransceiverDirectionSendonly || direction == RTPTransceiverDirectionSendrecv):
		// Already sending: a sendonly transceiver added by a negotiation
		// initiated by the remote peer (remote offered recvonly), or a
		// sendrecv one in the same situation. Keep the direction as is.
	case trackIsNil && direction == RTPTransceiverDirectionSendonly:
		t.setDirection(RTPTransceiverDirectionInactive)
	default:
		return ErrRTPTransceiverSetSendingInvalidState
	}
	return nil
}

// FindByMid removes and returns the first transceiver in pool whose mid
// equals mid exactly, together with the remaining pool. Pool order breaks
// ties, but mids are unique by invariant; a duplicate is external misuse
// this function does not detect.
func FindByMid(mid string, pool []*RTPTransceiver) (*RTPTransceiver, []*RTPTransceiver) {
	for i, t := range pool {
		if t.Mid() == mid {
			return t, append(pool[:i:i], pool[i+1:]...)
		}
	}

	return nil, pool
}

// SatisfyTypeAndDirection plucks a transceiver from pool that can satisfy a
// remote media line of the given kind and direction: it must be unassigned
// (empty mid), of the same kind, and have one of the local directions that
// complement the remote's intent, tried in preference order. Direction
// preference dominates pool order. When nothing matches it returns a nil
// transceiver and the untouched pool; the caller creates a fresh inactive
// transceiver in that case.
func SatisfyTypeAndDirection(remoteKind RTPCodecType, remoteDirection RTPTransceiverDirection, pool []*RTPTransceiver) (*RTPTransceiver, []*RTPTransceiver) {
	// Get direction order from most preferred to least
	var preferredDirections []RTPTransceiverDirection
	switch remoteDirection {
	case RTPTransceiverDirectionSendrecv:
		preferredDirections = []RTPTransceiverDirection{RTPTransceiverDirectionRecvonly, RTPTransceiverDirectionSendrecv}
	case RTPTransceiverDirectionSendonly:
		preferredDirections = []RTPTransceiverDirection{RTPTransceiverDirectionRecvonly}
	case RTPTransceiverDirectionRecvonly:
		preferredDirections = []RTPTransceiverDirection{RTPTransceiverDirectionSendonly, RTPTransceiverDirectionSendrecv}
	}

	for _, possibleDirection := range preferredDirections {
		for i, t := range pool {
			if t.Mid() == "" && t.Kind() == remoteKind && t.Direction() == possibleDirection {
				return t, append(pool[:i:i], pool[i+1:]...)
			}
		}
	}

	return nil, pool
}
