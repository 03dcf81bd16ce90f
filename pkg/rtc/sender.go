package rtc

import (
	"net"
	"sync"

	transport "github.com/cloudwebrtc/go-rtc/pkg/media/transport/rtp"
	"github.com/cloudwebrtc/go-rtc/pkg/utils"
	"github.com/ghettovoice/gosip/log"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/tevino/abool"
)

// Sender is the outbound half a transceiver owns. The transceiver only
// sequences calls to it; the send loop itself lives behind this contract.
type Sender interface {
	Stop() error
	ReplaceTrack(track TrackLocal) error
	Track() TrackLocal
}

// UDPSender sends a local track's RTP over a plain UDP stream and surfaces
// RTCP arriving on the same socket.
type UDPSender struct {
	mu     sync.Mutex
	kind   RTPCodecType
	track  TrackLocal
	stream *transport.UDPStream
	ssrc   uint32

	stopped *abool.AtomicBool
	onRTCP  func(pkts []rtcp.Packet)
	logger  log.Logger
}

func NewUDPSender(kind RTPCodecType, bind string, ssrc uint32) (*UDPSender, error) {
	s := &UDPSender{
		kind:    kind,
		ssrc:    ssrc,
		stopped: abool.New(),
		logger:  utils.NewLogrusLogger(utils.DefaultLogLevel, "UDPSender", nil),
	}

	stream, err := transport.NewUDPStream(bind, transport.DefaultPortMin, transport.DefaultPortMax, s.onPacket)
	if err != nil {
		return nil, err
	}
	s.stream = stream
	go stream.Read()
	return s, nil
}

func (s *UDPSender) Log() log.Logger {
	return s.logger
}

func (s *UDPSender) LocalAddr() *net.UDPAddr {
	return s.stream.LocalAddr()
}

// SetRemoteAddr pins where WriteRTP sends to.
func (s *UDPSender) SetRemoteAddr(raddr *net.UDPAddr) {
	s.stream.SetRemoteAddr(raddr)
}

// OnRTCP registers a handler for RTCP compound packets received from the
// remote peer, e.g. PLI or NACK.
func (s *UDPSender) OnRTCP(f func(pkts []rtcp.Packet)) {
	s.mu.Lock()
	s.onRTCP = f
	s.mu.Unlock()
}

func (s *UDPSender) onPacket(pkt []byte, raddr net.Addr) {
	pkts, err := rtcp.Unmarshal(pkt)
	if err != nil {
		s.logger.Warnf("drop non-RTCP packet from %v: %v", raddr, err)
		return
	}

	s.mu.Lock()
	f := s.onRTCP
	s.mu.Unlock()
	if f != nil {
		f(pkts)
	}
}

func (s *UDPSender) Track() TrackLocal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track
}

// ReplaceTrack swaps the sending track without renegotiation. The new track
// must be of the sender's kind; nil detaches the current track.
func (s *UDPSender) ReplaceTrack(track TrackLocal) error {
	if s.stopped.IsSet() {
		return ErrRTPSenderStopped
	}
	if track != nil && track.Kind() != s.kind {
		return ErrRTPSenderTrackKindMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.track.(*TrackLocalStaticRTP); ok {
		prev.bind(nil)
	}
	if next, ok := track.(*TrackLocalStaticRTP); ok {
		next.bind(s)
	}
	s.track = track
	return nil
}

// WriteRTP stamps the sender's SSRC on the packet and sends it.
func (s *UDPSender) WriteRTP(p *rtp.Packet) error {
	if s.stopped.IsSet() {
		return ErrRTPSenderStopped
	}

	p.SSRC = s.ssrc
	raw, err := p.Marshal()
	if err != nil {
		return err
	}
	_, err = s.stream.Send(raw, nil)
	return err
}

// Stop closes the socket. A second call reports ErrRTPSenderStopped.
func (s *UDPSender) Stop() error {
	if !s.stopped.SetToIf(false, true) {
		return ErrRTPSenderStopped
	}

	s.mu.Lock()
	if prev, ok := s.track.(*TrackLocalStaticRTP); ok {
		prev.bind(nil)
	}
	s.track = nil
	s.mu.Unlock()

	s.stream.Close()
	return nil
}
