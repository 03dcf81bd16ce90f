package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecParametersFuzzySearch(t *testing.T) {
	haystack := []RTPCodecParameters{
		{
			RTPCodecCapability: RTPCodecCapability{MimeType: MimeTypeOpus, ClockRate: 48000, Channels: 2, SDPFmtpLine: "minptime=10;useinbandfec=1"},
			PayloadType:        111,
		},
		{
			RTPCodecCapability: RTPCodecCapability{MimeType: MimeTypePCMA, ClockRate: 8000},
			PayloadType:        8,
		},
	}

	// MimeType and fmtp line both equal
	needle := RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{MimeType: "audio/OPUS", ClockRate: 48000, Channels: 2, SDPFmtpLine: "minptime=10;useinbandfec=1"},
	}
	c, matchType := CodecParametersFuzzySearch(needle, haystack)
	assert.Equal(t, CodecMatchExact, matchType)
	assert.Equal(t, PayloadType(111), c.PayloadType)

	// fmtp line missing on the needle
	needle.SDPFmtpLine = ""
	c, matchType = CodecParametersFuzzySearch(needle, haystack)
	assert.Equal(t, CodecMatchPartial, matchType)
	assert.Equal(t, MimeTypeOpus, c.MimeType)

	// fmtp line differs but both are set
	needle.SDPFmtpLine = "minptime=20"
	_, matchType = CodecParametersFuzzySearch(needle, haystack)
	assert.Equal(t, CodecMatchNone, matchType)

	// unknown mime type
	needle = RTPCodecParameters{
		RTPCodecCapability: RTPCodecCapability{MimeType: "audio/iLBC", ClockRate: 8000},
	}
	_, matchType = CodecParametersFuzzySearch(needle, haystack)
	assert.Equal(t, CodecMatchNone, matchType)
}

func TestNewRTPCodecType(t *testing.T) {
	assert.Equal(t, RTPCodecTypeAudio, NewRTPCodecType("audio"))
	assert.Equal(t, RTPCodecTypeAudio, NewRTPCodecType("AUDIO"))
	assert.Equal(t, RTPCodecTypeVideo, NewRTPCodecType("video"))
	assert.Equal(t, RTPCodecType(0), NewRTPCodecType("application"))
	assert.Equal(t, "audio", RTPCodecTypeAudio.String())
	assert.Equal(t, "video", RTPCodecTypeVideo.String())
}

func TestNewRTPTransceiverDirection(t *testing.T) {
	for _, d := range []RTPTransceiverDirection{
		RTPTransceiverDirectionSendrecv,
		RTPTransceiverDirectionSendonly,
		RTPTransceiverDirectionRecvonly,
		RTPTransceiverDirectionInactive,
	} {
		assert.Equal(t, d, NewRTPTransceiverDirection(d.String()))
	}
	assert.Equal(t, RTPTransceiverDirection(0), NewRTPTransceiverDirection("bogus"))
}
