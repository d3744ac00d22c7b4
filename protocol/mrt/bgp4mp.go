package mrt

import (
	"net"

	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/bgp"
	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

// Bgp4MpStateChange is a decoded BGP4MP[_ET]_STATE_CHANGE[_AS4] record
// (RFC 6396 §4.4.1).
type Bgp4MpStateChange struct {
	PeerAS    string            `json:"peer_as"`
	LocalAS   string            `json:"local_as"`
	Ifindex   uint16            `json:"ifindex"`
	AFI       registry.CodeName `json:"afi"`
	PeerIP    net.IP            `json:"peer_ip"`
	LocalIP   net.IP            `json:"local_ip"`
	OldState  registry.CodeName `json:"old_state"`
	NewState  registry.CodeName `json:"new_state"`
}

// Bgp4MpMessage is a decoded BGP4MP[_ET]_MESSAGE[_AS4][_ADDPATH] record:
// the same peer header followed by a complete BGP message.
type Bgp4MpMessage struct {
	PeerAS  string      `json:"peer_as"`
	LocalAS string      `json:"local_as"`
	Ifindex uint16      `json:"ifindex"`
	AFI     registry.CodeName `json:"afi"`
	PeerIP  net.IP      `json:"peer_ip"`
	LocalIP net.IP      `json:"local_ip"`
	Message *bgp.Message `json:"message"`
}

// peerHeader is the shared prefix of every BGP4MP body: peer/local AS,
// interface index, address family, and peer/local IP, as laid out in
// CSUNetSec-protoparse/protocol/mrt.go's bgp4mpHdrBuf.Parse.
type peerHeader struct {
	peerAS  string
	localAS string
	ifindex uint16
	afi     uint16
	peerIP  net.IP
	localIP net.IP
}

func decodePeerHeader(c *wire.Cursor, ctx *wire.Context) (peerHeader, error) {
	var h peerHeader
	peerAS, err := c.Asn(ctx.ASWidth, ctx.ASRepr)
	if err != nil {
		return h, errors.Wrap(err, "peer as")
	}
	localAS, err := c.Asn(ctx.ASWidth, ctx.ASRepr)
	if err != nil {
		return h, errors.Wrap(err, "local as")
	}
	ifindexV, err := c.Num(2)
	if err != nil {
		return h, errors.Wrap(err, "interface index")
	}
	afiV, err := c.Num(2)
	if err != nil {
		return h, errors.Wrap(err, "address family")
	}
	afi := uint16(afiV)
	peerIP, err := c.Addr(afi, -1)
	if err != nil {
		return h, errors.Wrap(err, "peer ip")
	}
	localIP, err := c.Addr(afi, -1)
	if err != nil {
		return h, errors.Wrap(err, "local ip")
	}
	h.peerAS, h.localAS, h.ifindex, h.afi, h.peerIP, h.localIP = peerAS, localAS, uint16(ifindexV), afi, peerIP, localIP
	return h, nil
}

func decodeBgp4MpStateChange(buf []byte, ctx *wire.Context) (*Bgp4MpStateChange, error) {
	c := wire.New(buf)
	h, err := decodePeerHeader(c, ctx)
	if err != nil {
		return nil, err
	}
	oldV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "old state")
	}
	newV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "new state")
	}
	return &Bgp4MpStateChange{
		PeerAS:   h.peerAS,
		LocalAS:  h.localAS,
		Ifindex:  h.ifindex,
		AFI:      registry.AFI(h.afi),
		PeerIP:   h.peerIP,
		LocalIP:  h.localIP,
		OldState: registry.BGPFSMState(uint16(oldV)),
		NewState: registry.BGPFSMState(uint16(newV)),
	}, nil
}

func decodeBgp4MpMessage(buf []byte, ctx *wire.Context) (*Bgp4MpMessage, error) {
	c := wire.New(buf)
	h, err := decodePeerHeader(c, ctx)
	if err != nil {
		return nil, err
	}
	msg, err := bgp.DecodeMessage(c.Rest(), ctx)
	if err != nil {
		return nil, errors.Wrap(err, "bgp message")
	}
	return &Bgp4MpMessage{
		PeerAS:  h.peerAS,
		LocalAS: h.localAS,
		Ifindex: h.ifindex,
		AFI:     registry.AFI(h.afi),
		PeerIP:  h.peerIP,
		LocalIP: h.localIP,
		Message: msg,
	}, nil
}
