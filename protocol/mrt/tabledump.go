package mrt

import (
	"net"

	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/bgp"
	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

// TableDump is a decoded legacy TABLE_DUMP record (RFC 6396 §4.2),
// grounded on CSUNetSec-protoparse/protocol/rib's prefix/attribute
// handling but for the pre-TABLE_DUMP_V2 per-prefix wire layout.
type TableDump struct {
	View           uint16            `json:"view"`
	Sequence       uint16            `json:"sequence"`
	Prefix         net.IP            `json:"prefix"`
	PrefixLength   uint8             `json:"prefix_length"`
	Status         uint8             `json:"status"`
	OriginatedTime uint32            `json:"originated_time"`
	PeerIP         net.IP            `json:"peer_ip"`
	PeerAS         string            `json:"peer_as"`
	Attrs          []bgp.BgpAttr     `json:"attrs,omitempty"`
}

// decodeTableDump implements spec.md §4.6's TABLE_DUMP layout, including
// the historical "IPv4 peer advertising IPv6" compatibility probe: for
// the AFI_IPv6 subtype the peer_ip field is the full 16-byte width, but
// if its trailing 12 bytes are all zero it is treated as an IPv4-only
// peer address written into the v6-shaped field by an old collector.
func decodeTableDump(buf []byte, subtype uint16, ctx *wire.Context) (*TableDump, error) {
	afi, err := tableDumpAFI(subtype)
	if err != nil {
		return nil, err
	}
	ctx.SetASWidthFromSubtypeName("TABLE_DUMP")
	ctx.ASWidth = 2
	ctx.AFI = afi

	c := wire.New(buf)
	viewV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "view")
	}
	seqV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	prefix, err := c.Addr(afi, -1)
	if err != nil {
		return nil, errors.Wrap(err, "prefix")
	}
	plenV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "prefix length")
	}
	statusV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "status")
	}
	timeV, err := c.Num(4)
	if err != nil {
		return nil, errors.Wrap(err, "originated time")
	}

	var peerIP net.IP
	if afi == registry.AFIIPv6 {
		raw, err := c.Bytes(16)
		if err != nil {
			return nil, errors.Wrap(err, "peer ip")
		}
		if isZero(raw[4:16]) {
			peerIP = net.IP(raw[:4]).To4()
		} else {
			peerIP = net.IP(raw)
		}
	} else {
		raw, err := c.Bytes(4)
		if err != nil {
			return nil, errors.Wrap(err, "peer ip")
		}
		peerIP = net.IP(raw).To4()
	}

	peerASV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "peer as")
	}
	attrLenV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "attribute length")
	}
	attrBuf, err := c.Bytes(int(attrLenV))
	if err != nil {
		return nil, errors.Wrap(err, "attributes")
	}
	attrs, err := bgp.Decode(attrBuf, ctx)
	if err != nil {
		return nil, errors.Wrap(err, "attributes")
	}

	return &TableDump{
		View:           uint16(viewV),
		Sequence:       uint16(seqV),
		Prefix:         prefix,
		PrefixLength:   uint8(plenV),
		Status:         uint8(statusV),
		OriginatedTime: uint32(timeV),
		PeerIP:         peerIP,
		PeerAS:         wire.FormatASN(uint32(peerASV), ctx.ASRepr),
		Attrs:          attrs,
	}, nil
}

func tableDumpAFI(subtype uint16) (uint16, error) {
	switch subtype {
	case registry.TDAFIIPv4:
		return registry.AFIIPv4, nil
	case registry.TDAFIIPv6:
		return registry.AFIIPv6, nil
	default:
		return 0, errors.Errorf("mrt: unsupported TABLE_DUMP subtype %d", subtype)
	}
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
