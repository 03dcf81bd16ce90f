package rtc

import (
	"strings"
)

// RTPCodecType determines the type of a codec
type RTPCodecType int

const (
	// RTPCodecTypeAudio indicates this is an audio codec
	RTPCodecTypeAudio RTPCodecType = iota + 1

	// RTPCodecTypeVideo indicates this is a video codec
	RTPCodecTypeVideo
)

func (t RTPCodecType) String() string {
	switch t {
	case RTPCodecTypeAudio:
		return "audio"
	case RTPCodecTypeVideo:
		return "video"
	default:
		return ErrUnknownType.Error()
	}
}

// NewRTPCodecType creates a RTPCodecType from a string
func NewRTPCodecType(r string) RTPCodecType {
	switch {
	case strings.EqualFold(r, RTPCodecTypeAudio.String()):
		return RTPCodecTypeAudio
	case strings.EqualFold(r, RTPCodecTypeVideo.String()):
		return RTPCodecTypeVideo
	default:
		return RTPCodecType(0)
	}
}

// PayloadType identifies the format of the RTP payload and determines
// its interpretation by the application.
type PayloadType uint8

// RTCPFeedback signals the connection to use additional RTCP packet types.
// https://draft.ortc.org/#dom-rtcrtcpfeedback
type RTCPFeedback struct {
	Type      string
	Parameter string
}

// RTPCodecCapability provides information about codec capabilities.
//
// https://w3c.github.io/webrtc-pc/#dictionary-rtcrtpcodeccapability-members
type RTPCodecCapability struct {
	MimeType     string
	ClockRate    uint32
	Channels     uint16
	SDPFmtpLine  string
	RTCPFeedback []RTCPFeedback
}

// RTPCodecParameters is a sequence containing the media codecs that a sender
// will choose from. This also includes the PayloadType that has been
// negotiated.
//
// https://w3c.github.io/webrtc-pc/#rtcrtpcodecparameters
type RTPCodecParameters struct {
	RTPCodecCapability
	PayloadType PayloadType
}

// CodecMatchType is the tier of a fuzzy codec comparison.
type CodecMatchType int

const (
	CodecMatchNone    CodecMatchType = 0
	CodecMatchPartial CodecMatchType = 1
	CodecMatchExact   CodecMatchType = 2
)

// CodecParametersFuzzySearch does a fuzzy find for a codec in a list of
// codecs. Used to look up a codec in an existing list to find a match.
// Returns CodecMatchExact, CodecMatchPartial, or CodecMatchNone.
func CodecParametersFuzzySearch(needle RTPCodecParameters, haystack []RTPCodecParameters) (RTPCodecParameters, CodecMatchType) {
	// First attempt to match on MimeType + SDPFmtpLine
	// Exact matches means fmtp line cannot be empty
	for _, c := range haystack {
		if strings.EqualFold(c.RTPCodecCapability.MimeType, needle.RTPCodecCapability.MimeType) &&
			c.RTPCodecCapability.SDPFmtpLine == needle.RTPCodecCapability.SDPFmtpLine {
			return c, CodecMatchExact
		}
	}

	// Fallback to just MimeType if either haystack or needle does not have
	// a fmtp line set
	for _, c := range haystack {
		if strings.EqualFold(c.RTPCodecCapability.MimeType, needle.RTPCodecCapability.MimeType) &&
			(c.RTPCodecCapability.SDPFmtpLine == "" || needle.RTPCodecCapability.SDPFmtpLine == "") {
			return c, CodecMatchPartial
		}
	}

	return RTPCodecParameters{}, CodecMatchNone
}
