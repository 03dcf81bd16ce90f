package rtc

import "errors"

var (
	// ErrUnknownType indicates an enum value outside of the defined set.
	ErrUnknownType = errors.New("unknown")

	// ErrRTPTransceiverCodecUnsupported indicates a codec preference has no
	// match in the media engine's supported codec list.
	ErrRTPTransceiverCodecUnsupported = errors.New("codec is not supported by media engine")

	// ErrRTPTransceiverCannotChangeMid indicates an attempt to re-assign a
	// transceiver's mid after it was already set.
	ErrRTPTransceiverCannotChangeMid = errors.New("cannot change transceiver mid")

	// ErrRTPTransceiverSetSendingInvalidState indicates a track change that
	// has no defined direction transition from the current direction.
	ErrRTPTransceiverSetSendingInvalidState = errors.New("invalid state change in RTPTransceiver.SetSendingTrack")

	// ErrRTPSenderTrackKindMismatch indicates ReplaceTrack was given a track
	// of a different media kind than the sender.
	ErrRTPSenderTrackKindMismatch = errors.New("new track must be of the same kind as previous")

	// ErrRTPSenderStopped indicates an operation on a stopped sender.
	ErrRTPSenderStopped = errors.New("sender has already been stopped")

	// ErrRTPReceiverStopped indicates an operation on a stopped receiver.
	ErrRTPReceiverStopped = errors.New("receiver has already been stopped")

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("session is closed")
)
