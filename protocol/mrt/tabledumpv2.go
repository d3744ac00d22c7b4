package mrt

import (
	"net"

	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/bgp"
	"github.com/csunetsec/mrtdecode/protocol/nlri"
	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

// PeerEntry is one row of a PEER_INDEX_TABLE (RFC 6396 §4.3.1).
type PeerEntry struct {
	Flags uint8  `json:"flags"`
	BGPID net.IP `json:"bgp_id"`
	IP    net.IP `json:"ip"`
	ASN   string `json:"asn"`
}

// PeerIndexTable is the decoded PEER_INDEX_TABLE record, grounded on
// CSUNetSec-protoparse/protocol/rib's parseIndexTable/parsePeerEntry.
type PeerIndexTable struct {
	CollectorBGPID net.IP      `json:"collector_bgp_id"`
	ViewName       string      `json:"view_name"`
	Peers          []PeerEntry `json:"peers"`
}

func decodePeerIndexTable(buf []byte) (*PeerIndexTable, error) {
	c := wire.New(buf)
	idBytes, err := c.Bytes(4)
	if err != nil {
		return nil, errors.Wrap(err, "collector bgp id")
	}
	vlenV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "view name length")
	}
	viewName, err := c.Str(int(vlenV))
	if err != nil {
		return nil, errors.Wrap(err, "view name")
	}
	countV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "peer count")
	}

	pit := &PeerIndexTable{
		CollectorBGPID: net.IP(idBytes).To4(),
		ViewName:       viewName,
	}
	for i := 0; i < int(countV); i++ {
		pe, err := decodePeerEntry(c)
		if err != nil {
			return nil, errors.Wrapf(err, "peer entry %d", i)
		}
		pit.Peers = append(pit.Peers, pe)
	}
	return pit, nil
}

func decodePeerEntry(c *wire.Cursor) (PeerEntry, error) {
	var pe PeerEntry
	flagsV, err := c.Num(1)
	if err != nil {
		return pe, errors.Wrap(err, "flags")
	}
	flags := uint8(flagsV)
	pe.Flags = flags
	idBytes, err := c.Bytes(4)
	if err != nil {
		return pe, errors.Wrap(err, "bgp id")
	}
	pe.BGPID = net.IP(idBytes).To4()

	isV6 := flags&0x01 != 0
	isAS4 := flags&0x02 != 0

	afi := uint16(registry.AFIIPv4)
	if isV6 {
		afi = registry.AFIIPv6
	}
	ip, err := c.Addr(afi, -1)
	if err != nil {
		return pe, errors.Wrap(err, "peer ip")
	}
	pe.IP = ip

	width := 2
	if isAS4 {
		width = 4
	}
	asn, err := c.Asn(width, wire.ASPlain)
	if err != nil {
		return pe, errors.Wrap(err, "peer as")
	}
	pe.ASN = asn
	return pe, nil
}

// RibEntry is one route entry inside a TABLE_DUMP_V2 RIB body, grounded
// on rib.go's parseRIBEntry but generalized with an optional ADD-PATH
// path identifier.
type RibEntry struct {
	PeerIndex      uint16        `json:"peer_index"`
	OriginatedTime uint32        `json:"originated_time"`
	PathID         *uint32       `json:"path_id,omitempty"`
	Attrs          []bgp.BgpAttr `json:"attrs,omitempty"`
}

// RibEntrySet is a decoded RIB_{IPv4,IPv6}_{UNICAST,MULTICAST}[_ADDPATH]
// or RIB_GENERIC[_ADDPATH] record: one shared prefix, many peer entries.
type RibEntrySet struct {
	Sequence uint32     `json:"sequence"`
	AFI      uint16     `json:"afi,omitempty"`
	SAFI     uint8      `json:"safi,omitempty"`
	Prefix   net.IP     `json:"prefix"`
	PrefixLength int    `json:"prefix_length"`
	Entries  []RibEntry `json:"entries"`
}

// decodeRibAfiSpecific implements spec.md §4.6's
// RIB_{IPv4,IPv6}_{UNICAST,MULTICAST}[_ADDPATH] layout: the prefix is
// shared by every entry (unlike the per-prefix NLRI grammar), so it is
// decoded directly rather than through protocol/nlri.
func decodeRibAfiSpecific(buf []byte, afi uint16, safi uint8, ctx *wire.Context) (*RibEntrySet, error) {
	c := wire.New(buf)
	seqV, err := c.Num(4)
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	plenV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "prefix length")
	}
	prefix, err := c.Addr(afi, int(plenV))
	if err != nil {
		return nil, errors.Wrap(err, "prefix")
	}

	entries, err := decodeRibEntries(c, ctx)
	if err != nil {
		return nil, err
	}

	return &RibEntrySet{
		Sequence:     uint32(seqV),
		AFI:          afi,
		SAFI:         safi,
		Prefix:       prefix,
		PrefixLength: int(plenV),
		Entries:      entries,
	}, nil
}

// decodeRibGeneric implements RIB_GENERIC[_ADDPATH]'s layout: sequence(4),
// AFI(2 bytes), SAFI(1), then a single NLRI entry decoded directly by
// protocol/nlri (its own prefix-length byte is read by that decoder,
// not peeked here).
func decodeRibGeneric(buf []byte, ctx *wire.Context) (*RibEntrySet, error) {
	c := wire.New(buf)
	seqV, err := c.Num(4)
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	afiV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "afi")
	}
	safiV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "safi")
	}
	afi := uint16(afiV)
	safi := uint8(safiV)
	ctx.AFI, ctx.SAFI = afi, uint16(safi)

	prefix, err := nlri.Decode(c, afi, safi, ctx.AddPath)
	if err != nil {
		return nil, errors.Wrap(err, "prefix")
	}

	entries, err := decodeRibEntries(c, ctx)
	if err != nil {
		return nil, err
	}

	return &RibEntrySet{
		Sequence:     uint32(seqV),
		AFI:          afi,
		SAFI:         safi,
		Prefix:       prefix.Prefix,
		PrefixLength: prefix.Length,
		Entries:      entries,
	}, nil
}

func decodeRibEntries(c *wire.Cursor, ctx *wire.Context) ([]RibEntry, error) {
	countV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "entry count")
	}
	ctx.RibV2 = true
	defer func() { ctx.RibV2 = false }()

	var entries []RibEntry
	for i := 0; i < int(countV); i++ {
		e, err := decodeOneRibEntry(c, ctx)
		if err != nil {
			return entries, errors.Wrapf(err, "rib entry %d", i)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeOneRibEntry(c *wire.Cursor, ctx *wire.Context) (RibEntry, error) {
	var e RibEntry
	peerIdxV, err := c.Num(2)
	if err != nil {
		return e, errors.Wrap(err, "peer index")
	}
	timeV, err := c.Num(4)
	if err != nil {
		return e, errors.Wrap(err, "originated time")
	}
	e.PeerIndex = uint16(peerIdxV)
	e.OriginatedTime = uint32(timeV)

	if ctx.AddPath {
		pidV, err := c.Num(4)
		if err != nil {
			return e, errors.Wrap(err, "path id")
		}
		pid := uint32(pidV)
		e.PathID = &pid
	}

	attrLenV, err := c.Num(2)
	if err != nil {
		return e, errors.Wrap(err, "attribute length")
	}
	attrBuf, err := c.Bytes(int(attrLenV))
	if err != nil {
		return e, errors.Wrap(err, "attributes")
	}
	attrs, err := bgp.Decode(attrBuf, ctx)
	if err != nil {
		return e, errors.Wrap(err, "attributes")
	}
	e.Attrs = attrs
	return e, nil
}
