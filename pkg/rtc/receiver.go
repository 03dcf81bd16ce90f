package rtc

import (
	"net"
	"sync"

	transport "github.com/cloudwebrtc/go-rtc/pkg/media/transport/rtp"
	"github.com/cloudwebrtc/go-rtc/pkg/utils"
	"github.com/ghettovoice/gosip/log"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/transport/packetio"
	"github.com/tevino/abool"
)

// Receiver is the inbound half a transceiver owns.
type Receiver interface {
	Stop() error
}

// UDPReceiver buffers inbound RTP from a UDP stream and hands RTCP on the
// same socket to a callback.
type UDPReceiver struct {
	mu     sync.Mutex
	kind   RTPCodecType
	stream *transport.UDPStream
	buffer *packetio.Buffer

	stopped *abool.AtomicBool
	onRTCP  func(pkts []rtcp.Packet)
	logger  log.Logger
}

func NewUDPReceiver(kind RTPCodecType, bind string) (*UDPReceiver, error) {
	r := &UDPReceiver{
		kind:    kind,
		buffer:  packetio.NewBuffer(),
		stopped: abool.New(),
		logger:  utils.NewLogrusLogger(utils.DefaultLogLevel, "UDPReceiver", nil),
	}

	stream, err := transport.NewUDPStream(bind, transport.DefaultPortMin, transport.DefaultPortMax, r.onPacket)
	if err != nil {
		return nil, err
	}
	r.stream = stream
	go stream.Read()
	return r, nil
}

func (r *UDPReceiver) Log() log.Logger {
	return r.logger
}

func (r *UDPReceiver) Kind() RTPCodecType {
	return r.kind
}

func (r *UDPReceiver) LocalAddr() *net.UDPAddr {
	return r.stream.LocalAddr()
}

// OnRTCP registers a handler for inbound RTCP compound packets.
func (r *UDPReceiver) OnRTCP(f func(pkts []rtcp.Packet)) {
	r.mu.Lock()
	r.onRTCP = f
	r.mu.Unlock()
}

// isRTCP reports whether pkt looks like an RTCP packet rather than RTP,
// per the payload type demux rule of RFC 5761 section 4.
func isRTCP(pkt []byte) bool {
	return len(pkt) >= 2 && pkt[1] >= 192 && pkt[1] <= 223
}

func (r *UDPReceiver) onPacket(pkt []byte, raddr net.Addr) {
	if isRTCP(pkt) {
		pkts, err := rtcp.Unmarshal(pkt)
		if err != nil {
			r.logger.Warnf("bad RTCP packet from %v: %v", raddr, err)
			return
		}
		r.mu.Lock()
		f := r.onRTCP
		r.mu.Unlock()
		if f != nil {
			f(pkts)
		}
		return
	}

	if _, err := r.buffer.Write(pkt); err != nil {
		r.logger.Warnf("buffer write: %v", err)
	}
}

// ReadRTP blocks until the next inbound RTP packet, or until Stop closes
// the buffer.
func (r *UDPReceiver) ReadRTP() (*rtp.Packet, error) {
	buf := make([]byte, 1500)
	n, err := r.buffer.Read(buf)
	if err != nil {
		return nil, err
	}

	p := &rtp.Packet{}
	if err := p.Unmarshal(buf[:n]); err != nil {
		return nil, err
	}
	return p, nil
}

// Stop closes the buffer and the socket. A second call reports
// ErrRTPReceiverStopped.
func (r *UDPReceiver) Stop() error {
	if !r.stopped.SetToIf(false, true) {
		return ErrRTPReceiverStopped
	}

	err := r.buffer.Close()
	r.stream.Close()
	return err
}
