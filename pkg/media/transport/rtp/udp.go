package rtp

import (
	"net"

	"github.com/cloudwebrtc/go-rtc/pkg/utils"
	"github.com/ghettovoice/gosip/log"
	"github.com/tevino/abool"
)

const (
	DefaultPortMin = 30000
	DefaultPortMax = 65530

	maxPktSize = 1500
)

// UDPStream is a bidirectional UDP packet stream used to carry RTP and RTCP.
// Incoming packets are delivered to the callback from the Read loop.
type UDPStream struct {
	conn     *net.UDPConn
	closed   *abool.AtomicBool
	onPacket func(pkt []byte, raddr net.Addr)
	laddr    *net.UDPAddr
	raddr    *net.UDPAddr
	logger   log.Logger
}

func NewUDPStream(bind string, portMin, portMax int, callback func(pkt []byte, raddr net.Addr)) (*UDPStream, error) {
	logger := utils.NewLogrusLogger(utils.DefaultLogLevel, "UDPStream", nil)

	lAddr := &net.UDPAddr{IP: net.ParseIP(bind), Port: 0}
	conn, err := utils.ListenUDPInPortRange(portMin, portMax, lAddr)
	if err != nil {
		logger.Errorf("ListenUDP: err => %v", err)
		return nil, err
	}

	return &UDPStream{
		conn:     conn,
		closed:   abool.New(),
		onPacket: callback,
		laddr:    lAddr,
		logger:   logger,
	}, nil
}

func (s *UDPStream) Log() log.Logger {
	return s.logger
}

func (s *UDPStream) LocalAddr() *net.UDPAddr {
	return s.laddr
}

func (s *UDPStream) RemoteAddr() *net.UDPAddr {
	return s.raddr
}

// SetRemoteAddr pins the destination used by Send when no explicit address
// is given.
func (s *UDPStream) SetRemoteAddr(raddr *net.UDPAddr) {
	s.raddr = raddr
}

// Close shuts the socket down. Safe to call more than once.
func (s *UDPStream) Close() {
	if s.closed.SetToIf(false, true) {
		s.conn.Close()
	}
}

func (s *UDPStream) Send(pkt []byte, raddr *net.UDPAddr) (int, error) {
	if raddr == nil {
		raddr = s.raddr
	}
	s.logger.Tracef("Send to %v, length %d", raddr.String(), len(pkt))
	return s.conn.WriteToUDP(pkt, raddr)
}

// Read pumps incoming packets into the callback until the stream is closed
// or the socket errors out. Run it on its own goroutine.
func (s *UDPStream) Read() {
	buf := make([]byte, maxPktSize)
	for {
		if s.closed.IsSet() {
			s.logger.Infof("Terminate: stop stream now!")
			return
		}
		n, raddr, err := s.conn.ReadFrom(buf)
		if err != nil {
			if !s.closed.IsSet() {
				s.logger.Warnf("UDP conn read err: %v, stop now!", err)
			}
			return
		}

		s.logger.Tracef("Read from: %v, length: %d", raddr.String(), n)

		if !s.closed.IsSet() {
			s.onPacket(buf[0:n], raddr)
		}
	}
}
