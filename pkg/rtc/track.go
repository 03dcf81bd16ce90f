package rtc

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/rtp"
)

// TrackLocal is a media track sourced by this peer and attached to a sender.
type TrackLocal interface {
	ID() string
	StreamID() string
	Kind() RTPCodecType
	Codec() RTPCodecCapability
}

// RTPWriter is the sink a local track writes its packets to. A sender binds
// itself as the writer of its current track.
type RTPWriter interface {
	WriteRTP(p *rtp.Packet) error
}

// TrackLocalStaticRTP is a TrackLocal fed with pre-packetized RTP.
type TrackLocalStaticRTP struct {
	mu       sync.RWMutex
	id       string
	streamID string
	codec    RTPCodecCapability
	writer   RTPWriter
}

// NewTrackLocalStaticRTP returns a TrackLocalStaticRTP. Empty id or streamID
// are replaced with generated ones.
func NewTrackLocalStaticRTP(codec RTPCodecCapability, id, streamID string) *TrackLocalStaticRTP {
	if id == "" {
		id = uuid.NewString()
	}
	if streamID == "" {
		streamID = uuid.NewString()
	}
	return &TrackLocalStaticRTP{
		id:       id,
		streamID: streamID,
		codec:    codec,
	}
}

func (t *TrackLocalStaticRTP) ID() string { return t.id }

func (t *TrackLocalStaticRTP) StreamID() string { return t.streamID }

func (t *TrackLocalStaticRTP) Codec() RTPCodecCapability { return t.codec }

func (t *TrackLocalStaticRTP) Kind() RTPCodecType {
	if strings.HasPrefix(strings.ToLower(t.codec.MimeType), "audio/") {
		return RTPCodecTypeAudio
	}
	return RTPCodecTypeVideo
}

// WriteRTP forwards the packet to the bound writer. Packets written while
// no sender is bound are dropped.
func (t *TrackLocalStaticRTP) WriteRTP(p *rtp.Packet) error {
	t.mu.RLock()
	w := t.writer
	t.mu.RUnlock()

	if w == nil {
		return nil
	}
	return w.WriteRTP(p)
}

func (t *TrackLocalStaticRTP) bind(w RTPWriter) {
	t.mu.Lock()
	t.writer = w
	t.mu.Unlock()
}
