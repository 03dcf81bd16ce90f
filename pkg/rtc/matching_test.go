package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPoolTransceiver(t *testing.T, engine *MediaEngine, kind RTPCodecType, direction RTPTransceiverDirection, mid string) *RTPTransceiver {
	tr := NewRTPTransceiver(nil, nil, direction, kind, nil, engine)
	if mid != "" {
		require.NoError(t, tr.SetMid(mid))
	}
	return tr
}

func TestFindByMid(t *testing.T) {
	engine := newTestEngine(t)

	unassigned := newPoolTransceiver(t, engine, RTPCodecTypeAudio, RTPTransceiverDirectionSendrecv, "")
	first := newPoolTransceiver(t, engine, RTPCodecTypeAudio, RTPTransceiverDirectionSendrecv, "m1")
	// duplicate mid only happens through external misuse; the earliest
	// entry must still win and only that one is consumed
	second := newPoolTransceiver(t, engine, RTPCodecTypeAudio, RTPTransceiverDirectionSendrecv, "m1")
	pool := []*RTPTransceiver{unassigned, first, second}

	got, rest := FindByMid("m1", pool)
	assert.Same(t, first, got)
	require.Len(t, rest, 2)
	assert.Same(t, unassigned, rest[0])
	assert.Same(t, second, rest[1])

	// matching is exact and case-sensitive
	got, rest = FindByMid("M1", rest)
	assert.Nil(t, got)
	assert.Len(t, rest, 2)

	got, rest = FindByMid("m2", rest)
	assert.Nil(t, got)
	assert.Len(t, rest, 2)
}

func TestSatisfyTypeAndDirectionPreferenceOrder(t *testing.T) {
	engine := newTestEngine(t)

	// the recvonly candidate sits later in pool order, but direction
	// preference dominates pool order for a sendrecv remote
	sendrecv := newPoolTransceiver(t, engine, RTPCodecTypeVideo, RTPTransceiverDirectionSendrecv, "")
	recvonly := newPoolTransceiver(t, engine, RTPCodecTypeVideo, RTPTransceiverDirectionRecvonly, "")
	pool := []*RTPTransceiver{sendrecv, recvonly}

	got, rest := SatisfyTypeAndDirection(RTPCodecTypeVideo, RTPTransceiverDirectionSendrecv, pool)
	assert.Same(t, recvonly, got)
	require.Len(t, rest, 1)
	assert.Same(t, sendrecv, rest[0])

	// second pass falls through to the sendrecv tier
	got, rest = SatisfyTypeAndDirection(RTPCodecTypeVideo, RTPTransceiverDirectionSendrecv, rest)
	assert.Same(t, sendrecv, got)
	assert.Len(t, rest, 0)
}

func TestSatisfyTypeAndDirectionFilters(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("assigned mid is skipped", func(t *testing.T) {
		assigned := newPoolTransceiver(t, engine, RTPCodecTypeVideo, RTPTransceiverDirectionRecvonly, "video0")
		pool := []*RTPTransceiver{assigned}

		got, rest := SatisfyTypeAndDirection(RTPCodecTypeVideo, RTPTransceiverDirectionSendrecv, pool)
		assert.Nil(t, got)
		assert.Len(t, rest, 1)
	})

	t.Run("kind must match exactly", func(t *testing.T) {
		audio := newPoolTransceiver(t, engine, RTPCodecTypeAudio, RTPTransceiverDirectionRecvonly, "")
		pool := []*RTPTransceiver{audio}

		got, _ := SatisfyTypeAndDirection(RTPCodecTypeVideo, RTPTransceiverDirectionSendrecv, pool)
		assert.Nil(t, got)
	})

	t.Run("remote sendonly only accepts recvonly", func(t *testing.T) {
		sendrecv := newPoolTransceiver(t, engine, RTPCodecTypeAudio, RTPTransceiverDirectionSendrecv, "")
		recvonly := newPoolTransceiver(t, engine, RTPCodecTypeAudio, RTPTransceiverDirectionRecvonly, "")
		pool := []*RTPTransceiver{sendrecv, recvonly}

		got, rest := SatisfyTypeAndDirection(RTPCodecTypeAudio, RTPTransceiverDirectionSendonly, pool)
		assert.Same(t, recvonly, got)
		require.Len(t, rest, 1)

		got, _ = SatisfyTypeAndDirection(RTPCodecTypeAudio, RTPTransceiverDirectionSendonly, rest)
		assert.Nil(t, got)
	})

	t.Run("remote recvonly prefers sendonly over sendrecv", func(t *testing.T) {
		sendrecv := newPoolTransceiver(t, engine, RTPCodecTypeAudio, RTPTransceiverDirectionSendrecv, "")
		sendonly := newPoolTransceiver(t, engine, RTPCodecTypeAudio, RTPTransceiverDirectionSendonly, "")
		pool := []*RTPTransceiver{sendrecv, sendonly}

		got, _ := SatisfyTypeAndDirection(RTPCodecTypeAudio, RTPTransceiverDirectionRecvonly, pool)
		assert.Same(t, sendonly, got)
	})

	t.Run("remote inactive never matches", func(t *testing.T) {
		for _, d := range []RTPTransceiverDirection{
			RTPTransceiverDirectionSendrecv,
			RTPTransceiverDirectionSendonly,
			RTPTransceiverDirectionRecvonly,
			RTPTransceiverDirectionInactive,
		} {
			candidate := newPoolTransceiver(t, engine, RTPCodecTypeAudio, d, "")
			got, rest := SatisfyTypeAndDirection(RTPCodecTypeAudio, RTPTransceiverDirectionInactive, []*RTPTransceiver{candidate})
			assert.Nil(t, got)
			assert.Len(t, rest, 1)
		}
	})
}
