package rtc

import (
	"context"
	"sync"

	"github.com/cloudwebrtc/go-rtc/pkg/utils"
	"github.com/ghettovoice/gosip/log"
)

const (
	MimeTypePCMU = "audio/PCMU"
	MimeTypePCMA = "audio/PCMA"
	MimeTypeG722 = "audio/G722"
	MimeTypeOpus = "audio/opus"
	MimeTypeVP8  = "video/vp8"
	MimeTypeVP9  = "video/vp9"
	MimeTypeH264 = "video/h264"
)

// MediaEngine holds the engine-wide table of supported codecs per media
// kind. Transceivers resolve codec preferences against it at call time, so
// registering a codec after preferences were set is observed by later
// Codecs() calls.
type MediaEngine struct {
	mu          sync.RWMutex
	audioCodecs []RTPCodecParameters
	videoCodecs []RTPCodecParameters
	logger      log.Logger
}

func NewMediaEngine() *MediaEngine {
	return &MediaEngine{
		logger: utils.NewLogrusLogger(utils.DefaultLogLevel, "MediaEngine", nil),
	}
}

func (m *MediaEngine) Log() log.Logger {
	return m.logger
}

// RegisterCodec adds codec to the list of supported codecs of the given
// kind. Registration order is the engine's default preference order.
func (m *MediaEngine) RegisterCodec(codec RTPCodecParameters, kind RTPCodecType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case RTPCodecTypeAudio:
		m.audioCodecs = append(m.audioCodecs, codec)
	case RTPCodecTypeVideo:
		m.videoCodecs = append(m.videoCodecs, codec)
	default:
		return ErrUnknownType
	}

	m.logger.Debugf("RegisterCodec: %v %s, pt: %d", kind, codec.MimeType, codec.PayloadType)
	return nil
}

// RegisterDefaultCodecs registers the codec set the engine ships with.
func (m *MediaEngine) RegisterDefaultCodecs() error {
	for _, codec := range []RTPCodecParameters{
		{
			RTPCodecCapability: RTPCodecCapability{MimeType: MimeTypePCMU, ClockRate: 8000},
			PayloadType:        0,
		},
		{
			RTPCodecCapability: RTPCodecCapability{MimeType: MimeTypePCMA, ClockRate: 8000},
			PayloadType:        8,
		},
		{
			RTPCodecCapability: RTPCodecCapability{MimeType: MimeTypeOpus, ClockRate: 48000, Channels: 2, SDPFmtpLine: "minptime=10;useinbandfec=1"},
			PayloadType:        111,
		},
	} {
		if err := m.RegisterCodec(codec, RTPCodecTypeAudio); err != nil {
			return err
		}
	}

	videoRTCPFeedback := []RTCPFeedback{{"goog-remb", ""}, {"ccm", "fir"}, {"nack", ""}, {"nack", "pli"}}
	for _, codec := range []RTPCodecParameters{
		{
			RTPCodecCapability: RTPCodecCapability{MimeType: MimeTypeVP8, ClockRate: 90000, RTCPFeedback: videoRTCPFeedback},
			PayloadType:        96,
		},
		{
			RTPCodecCapability: RTPCodecCapability{MimeType: MimeTypeVP9, ClockRate: 90000, SDPFmtpLine: "profile-id=0", RTCPFeedback: videoRTCPFeedback},
			PayloadType:        98,
		},
		{
			RTPCodecCapability: RTPCodecCapability{MimeType: MimeTypeH264, ClockRate: 90000, SDPFmtpLine: "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42001f", RTCPFeedback: videoRTCPFeedback},
			PayloadType:        102,
		},
	} {
		if err := m.RegisterCodec(codec, RTPCodecTypeVideo); err != nil {
			return err
		}
	}

	return nil
}

// GetCodecsByKind returns a copy of the supported codec list for kind, in
// registration order. The catalog may be queried while a negotiation round
// is blocked elsewhere, so a canceled context aborts with no result.
func (m *MediaEngine) GetCodecsByKind(ctx context.Context, kind RTPCodecType) []RTPCodecParameters {
	if ctx.Err() != nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var codecs []RTPCodecParameters
	switch kind {
	case RTPCodecTypeAudio:
		codecs = m.audioCodecs
	case RTPCodecTypeVideo:
		codecs = m.videoCodecs
	default:
		return nil
	}

	out := make([]RTPCodecParameters, len(codecs))
	copy(out, codecs)
	return out
}
