package rtc

import (
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDPSenderReceiverLoopback(t *testing.T) {
	receiver, err := NewUDPReceiver(RTPCodecTypeAudio, "127.0.0.1")
	require.NoError(t, err)

	sender, err := NewUDPSender(RTPCodecTypeAudio, "127.0.0.1", 0xDEADBEEF)
	require.NoError(t, err)
	sender.SetRemoteAddr(receiver.LocalAddr())

	track := NewTrackLocalStaticRTP(RTPCodecCapability{MimeType: MimeTypeOpus, ClockRate: 48000, Channels: 2}, "", "")
	require.NoError(t, sender.ReplaceTrack(track))

	payload := []byte{0x01, 0x02, 0x03}
	err = track.WriteRTP(&rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    111,
			SequenceNumber: 1,
			Timestamp:      960,
		},
		Payload: payload,
	})
	require.NoError(t, err)

	type result struct {
		pkt *rtp.Packet
		err error
	}
	got := make(chan result, 1)
	go func() {
		p, readErr := receiver.ReadRTP()
		got <- result{p, readErr}
	}()

	select {
	case r := <-got:
		require.NoError(t, r.err)
		assert.Equal(t, payload, r.pkt.Payload)
		assert.Equal(t, uint32(0xDEADBEEF), r.pkt.SSRC)
		assert.Equal(t, uint8(111), r.pkt.PayloadType)
	case <-time.After(3 * time.Second):
		t.Fatal("no RTP packet arrived")
	}

	require.NoError(t, sender.Stop())
	assert.ErrorIs(t, sender.Stop(), ErrRTPSenderStopped)
	require.NoError(t, receiver.Stop())
	assert.ErrorIs(t, receiver.Stop(), ErrRTPReceiverStopped)
}

func TestUDPSenderReplaceTrackKind(t *testing.T) {
	sender, err := NewUDPSender(RTPCodecTypeAudio, "127.0.0.1", 1)
	require.NoError(t, err)
	defer sender.Stop()

	videoTrack := NewTrackLocalStaticRTP(RTPCodecCapability{MimeType: MimeTypeVP8, ClockRate: 90000}, "", "")
	assert.ErrorIs(t, sender.ReplaceTrack(videoTrack), ErrRTPSenderTrackKindMismatch)

	audioTrack := NewTrackLocalStaticRTP(RTPCodecCapability{MimeType: MimeTypePCMU, ClockRate: 8000}, "", "")
	require.NoError(t, sender.ReplaceTrack(audioTrack))
	assert.Equal(t, TrackLocal(audioTrack), sender.Track())

	// detaching unbinds the old track
	require.NoError(t, sender.ReplaceTrack(nil))
	assert.Nil(t, sender.Track())
}
