// Package bgp decodes BGP-4 messages and path attributes carried inside
// MRT records (spec.md §4.4-§4.5), grounded on the byte layout of
// CSUNetSec-protoparse's readAttrs/readPrefix and generalized beyond its
// protobuf-bound attribute set into a plain tagged-union value.
package bgp

import (
	"encoding/hex"
	"net"

	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/nlri"
	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

// AttrFlags holds the four flag bits of a path attribute header.
type AttrFlags struct {
	Optional   bool `json:"optional"`
	Transitive bool `json:"transitive"`
	Partial    bool `json:"partial"`
	Extended   bool `json:"extended_length"`
}

// AsPathSegment is one AS_PATH or AS4_PATH segment.
type AsPathSegment struct {
	Type registry.CodeName `json:"type"`
	ASNs []string          `json:"asns"`
}

// Aggregator is the decoded AGGREGATOR / AS4_AGGREGATOR value.
type Aggregator struct {
	ASN string `json:"asn"`
	Addr net.IP `json:"addr"`
}

// MPReach is the decoded MP_REACH_NLRI attribute (RFC 4760).
type MPReach struct {
	AFI       uint16     `json:"afi"`
	SAFI      uint8      `json:"safi"`
	NextHop   net.IP     `json:"next_hop"`
	LinkLocal net.IP     `json:"link_local_next_hop,omitempty"`
	NLRI      []nlri.Nlri `json:"nlri"`
	AddPath   bool       `json:"add_path"`
}

// MPUnreach is the decoded MP_UNREACH_NLRI attribute (RFC 4760).
type MPUnreach struct {
	AFI     uint16      `json:"afi"`
	SAFI    uint8       `json:"safi"`
	NLRI    []nlri.Nlri `json:"nlri"`
	AddPath bool        `json:"add_path"`
}

// AigpTLV is one type-length-value entry of the AIGP attribute (RFC 7311).
type AigpTLV struct {
	Type  uint8  `json:"type"`
	Value []byte `json:"value"`
}

// AttrSet is the recursively-nested ATTR_SET attribute (RFC 6368).
type AttrSet struct {
	OriginAS uint32    `json:"origin_as"`
	Attrs    []BgpAttr `json:"attrs"`
}

// BgpAttr is a single decoded path attribute. Exactly one of the typed
// fields is populated according to Code; everything the decoder does not
// special-case lands in Raw verbatim.
type BgpAttr struct {
	Flags AttrFlags         `json:"flags"`
	Code  uint8             `json:"code"`
	Name  string            `json:"name"`
	Raw   []byte            `json:"raw,omitempty"`

	Origin           *registry.CodeName `json:"origin,omitempty"`
	ASPath           []AsPathSegment    `json:"as_path,omitempty"`
	NextHop          net.IP             `json:"next_hop,omitempty"`
	MED              *uint32            `json:"med,omitempty"`
	LocalPref        *uint32            `json:"local_pref,omitempty"`
	AtomicAggregate  bool               `json:"atomic_aggregate,omitempty"`
	Aggregator       *Aggregator        `json:"aggregator,omitempty"`
	Communities      []string           `json:"communities,omitempty"`
	OriginatorID     net.IP             `json:"originator_id,omitempty"`
	ClusterList      []net.IP           `json:"cluster_list,omitempty"`
	MPReach          *MPReach           `json:"mp_reach,omitempty"`
	MPUnreach        *MPUnreach         `json:"mp_unreach,omitempty"`
	ExtCommunities   []string           `json:"ext_communities,omitempty"`
	AS4Path          []AsPathSegment    `json:"as4_path,omitempty"`
	AS4Aggregator    *Aggregator        `json:"as4_aggregator,omitempty"`
	AIGP             []AigpTLV          `json:"aigp,omitempty"`
	LargeCommunities []string           `json:"large_communities,omitempty"`
	AttrSet          *AttrSet           `json:"attr_set,omitempty"`
}

// Decode decodes every path attribute in buf. ctx supplies the AS width,
// ADD-PATH mode, and AFI/SAFI (for the default NLRI region when UPDATE's
// own NLRI/withdrawn-routes fields are being decoded elsewhere); MP_REACH
// and MP_UNREACH each carry their own AFI/SAFI and override it locally.
func Decode(buf []byte, ctx *wire.Context) ([]BgpAttr, error) {
	cur := wire.New(buf)
	var out []BgpAttr
	for cur.Remaining() > 0 {
		a, err := decodeOne(cur, ctx)
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeOne(cur *wire.Cursor, ctx *wire.Context) (BgpAttr, error) {
	var a BgpAttr

	flagByte, err := cur.Num(1)
	if err != nil {
		return a, errors.Wrap(err, "bgp: attribute flags")
	}
	typeByte, err := cur.Num(1)
	if err != nil {
		return a, errors.Wrap(err, "bgp: attribute type")
	}
	a.Code = uint8(typeByte)
	a.Name = registry.AttrType(a.Code).Name
	a.Flags = AttrFlags{
		Optional:   flagByte&0x80 != 0,
		Transitive: flagByte&0x40 != 0,
		Partial:    flagByte&0x20 != 0,
		Extended:   flagByte&0x10 != 0,
	}

	var length int
	if a.Flags.Extended {
		l, err := cur.Num(2)
		if err != nil {
			return a, errors.Wrap(err, "bgp: extended attribute length")
		}
		length = int(l)
	} else {
		l, err := cur.Num(1)
		if err != nil {
			return a, errors.Wrap(err, "bgp: attribute length")
		}
		length = int(l)
	}

	body, err := cur.Bytes(length)
	if err != nil {
		return a, errors.Wrapf(err, "bgp: attribute %s body", a.Name)
	}
	bc := wire.New(body)

	switch a.Code {
	case registry.AttrOrigin:
		if err := decodeOrigin(bc, &a); err != nil {
			return a, err
		}
	case registry.AttrASPath:
		segs, err := decodeASPath(bc, ctx.ASWidth, ctx.ASRepr)
		if err != nil {
			return a, errors.Wrap(err, "bgp: AS_PATH")
		}
		a.ASPath = segs
	case registry.AttrNextHop:
		ip, err := decodeNextHop(body)
		if err != nil {
			return a, errors.Wrap(err, "bgp: NEXT_HOP")
		}
		a.NextHop = ip
	case registry.AttrMultiExitDisc:
		v, err := bc.Num(4)
		if err != nil {
			return a, errors.Wrap(err, "bgp: MULTI_EXIT_DISC")
		}
		med := uint32(v)
		a.MED = &med
	case registry.AttrLocalPref:
		v, err := bc.Num(4)
		if err != nil {
			return a, errors.Wrap(err, "bgp: LOCAL_PREF")
		}
		lp := uint32(v)
		a.LocalPref = &lp
	case registry.AttrAtomicAggregate:
		a.AtomicAggregate = true
	case registry.AttrAggregator:
		agg, err := decodeAggregator(body)
		if err != nil {
			return a, errors.Wrap(err, "bgp: AGGREGATOR")
		}
		a.Aggregator = agg
	case registry.AttrCommunity:
		a.Communities = decodeCommunities(bc)
	case registry.AttrOriginatorID:
		if len(body) != 4 {
			return a, errors.New("bgp: ORIGINATOR_ID must be 4 bytes")
		}
		a.OriginatorID = net.IP(body).To4()
	case registry.AttrClusterList:
		for i := 0; i+4 <= len(body); i += 4 {
			a.ClusterList = append(a.ClusterList, net.IP(body[i:i+4]).To4())
		}
	case registry.AttrMPReachNLRI:
		mp, err := decodeMPReach(body, ctx)
		if err != nil {
			return a, errors.Wrap(err, "bgp: MP_REACH_NLRI")
		}
		a.MPReach = mp
	case registry.AttrMPUnreachNLRI:
		mp, err := decodeMPUnreach(body, ctx)
		if err != nil {
			return a, errors.Wrap(err, "bgp: MP_UNREACH_NLRI")
		}
		a.MPUnreach = mp
	case registry.AttrExtendedCommunities:
		a.ExtCommunities = decodeExtCommunities(body)
	case registry.AttrAS4Path:
		segs, err := decodeASPath(bc, 4, ctx.ASRepr)
		if err != nil {
			return a, errors.Wrap(err, "bgp: AS4_PATH")
		}
		a.AS4Path = segs
	case registry.AttrAS4Aggregator:
		if len(body) != 8 {
			return a, errors.New("bgp: AS4_AGGREGATOR must be 8 bytes")
		}
		asn, err := wire.New(body[:4]).Num(4)
		if err != nil {
			return a, err
		}
		a.AS4Aggregator = &Aggregator{
			ASN:  wire.FormatASN(uint32(asn), ctx.ASRepr),
			Addr: net.IP(body[4:8]).To4(),
		}
	case registry.AttrAIGP:
		tlvs, err := decodeAIGP(body)
		if err != nil {
			return a, errors.Wrap(err, "bgp: AIGP")
		}
		a.AIGP = tlvs
	case registry.AttrLargeCommunity:
		for i := 0; i+12 <= len(body); i += 12 {
			w := wire.New(body[i : i+12])
			g, _ := w.Num(4)
			d1, _ := w.Num(4)
			d2, _ := w.Num(4)
			a.LargeCommunities = append(a.LargeCommunities, formatLargeCommunity(uint32(g), uint32(d1), uint32(d2)))
		}
	case registry.AttrAttrSet:
		set, err := decodeAttrSet(body, ctx)
		if err != nil {
			return a, errors.Wrap(err, "bgp: ATTR_SET")
		}
		a.AttrSet = set
	default:
		a.Raw = body
	}

	return a, nil
}

func decodeOrigin(bc *wire.Cursor, a *BgpAttr) error {
	if bc.Remaining() != 1 {
		return errors.New("bgp: ORIGIN must be 1 byte")
	}
	v, err := bc.Num(1)
	if err != nil {
		return err
	}
	cn := registry.Origin(uint8(v))
	a.Origin = &cn
	return nil
}

func decodeASPath(bc *wire.Cursor, width int, repr wire.ASRepr) ([]AsPathSegment, error) {
	var segs []AsPathSegment
	for bc.Remaining() > 0 {
		segTypeV, err := bc.Num(1)
		if err != nil {
			return nil, err
		}
		segLenV, err := bc.Num(1)
		if err != nil {
			return nil, err
		}
		seg := AsPathSegment{Type: registry.ASPathSegmentType(uint8(segTypeV))}
		for i := 0; i < int(segLenV); i++ {
			asn, err := bc.Asn(width, repr)
			if err != nil {
				return nil, err
			}
			seg.ASNs = append(seg.ASNs, asn)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func decodeNextHop(body []byte) (net.IP, error) {
	switch len(body) {
	case 4:
		return net.IP(body).To4(), nil
	case 16:
		return net.IP(body), nil
	default:
		return nil, errors.Errorf("unsupported NEXT_HOP length %d", len(body))
	}
}

func decodeAggregator(body []byte) (*Aggregator, error) {
	switch len(body) {
	case 6:
		return &Aggregator{ASN: wire.FormatASN(uint32(be16(body[:2])), wire.ASPlain), Addr: net.IP(body[2:6]).To4()}, nil
	case 8:
		return &Aggregator{ASN: wire.FormatASN(be32(body[:4]), wire.ASPlain), Addr: net.IP(body[4:8]).To4()}, nil
	case 18:
		return &Aggregator{ASN: wire.FormatASN(uint32(be16(body[:2])), wire.ASPlain), Addr: net.IP(body[2:18])}, nil
	case 20:
		return &Aggregator{ASN: wire.FormatASN(be32(body[:4]), wire.ASPlain), Addr: net.IP(body[4:20])}, nil
	default:
		return nil, errors.Errorf("unsupported AGGREGATOR length %d", len(body))
	}
}

func decodeCommunities(bc *wire.Cursor) []string {
	var out []string
	for bc.Remaining() >= 4 {
		v, err := bc.Num(4)
		if err != nil {
			break
		}
		out = append(out, wire.FormatASN(uint32(v>>16), wire.ASPlain)+":"+wire.FormatASN(uint32(v&0xFFFF), wire.ASPlain))
	}
	return out
}

func decodeExtCommunities(body []byte) []string {
	var out []string
	for i := 0; i+8 <= len(body); i += 8 {
		out = append(out, decodeExtCommunity(body[i:i+8]))
	}
	return out
}

// decodeExtCommunity renders one 8-byte extended community. It recognises
// Route Target and Route Origin for the 2-octet-AS, IPv4, and 4-octet-AS
// transitive types and falls back to hex for everything else.
func decodeExtCommunity(b []byte) string {
	typeHigh := b[0] & 0x3F
	typeLow := b[1]

	switch typeHigh {
	case 0x00:
		asn := be16(b[2:4])
		val := be32(b[4:8])
		switch typeLow {
		case 0x02:
			return "RT:" + wire.FormatASN(uint32(asn), wire.ASPlain) + ":" + wire.FormatASN(val, wire.ASPlain)
		case 0x03:
			return "SOO:" + wire.FormatASN(uint32(asn), wire.ASPlain) + ":" + wire.FormatASN(val, wire.ASPlain)
		}
	case 0x01:
		ip := net.IP(b[2:6]).To4().String()
		val := be16(b[6:8])
		switch typeLow {
		case 0x02:
			return "RT:" + ip + ":" + wire.FormatASN(uint32(val), wire.ASPlain)
		case 0x03:
			return "SOO:" + ip + ":" + wire.FormatASN(uint32(val), wire.ASPlain)
		}
	case 0x02:
		asn := be32(b[2:6])
		val := be16(b[6:8])
		switch typeLow {
		case 0x02:
			return "RT:" + wire.FormatASN(asn, wire.ASPlain) + ":" + wire.FormatASN(uint32(val), wire.ASPlain)
		case 0x03:
			return "SOO:" + wire.FormatASN(asn, wire.ASPlain) + ":" + wire.FormatASN(uint32(val), wire.ASPlain)
		}
	}
	return hex.EncodeToString(b)
}

func formatLargeCommunity(global, d1, d2 uint32) string {
	return wire.FormatASN(global, wire.ASPlain) + ":" + wire.FormatASN(d1, wire.ASPlain) + ":" + wire.FormatASN(d2, wire.ASPlain)
}

func decodeMPReach(body []byte, ctx *wire.Context) (*MPReach, error) {
	c := wire.New(body)

	var afi uint16
	var safi uint8
	if ctx.RibV2 {
		// Invariant: TABLE_DUMP_V2 RIB entries carry AFI/SAFI on the
		// outer subtype; MP_REACH_NLRI here starts straight at
		// next_hop_length (RFC 6396 §4.3.4).
		afi = ctx.AFI
		safi = uint8(ctx.SAFI)
	} else {
		afiV, err := c.Num(2)
		if err != nil {
			return nil, errors.Wrap(err, "afi/safi")
		}
		safiV, err := c.Num(1)
		if err != nil {
			return nil, errors.Wrap(err, "afi/safi")
		}
		afi = uint16(afiV)
		safi = uint8(safiV)
	}

	nhLenV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "next hop length")
	}
	nhLen := int(nhLenV)

	nhBytes, err := c.Bytes(nhLen)
	if err != nil {
		return nil, errors.Wrap(err, "next hop")
	}
	mp := &MPReach{AFI: afi, SAFI: safi}
	switch nhLen {
	case 4:
		mp.NextHop = net.IP(nhBytes).To4()
	case 16:
		mp.NextHop = net.IP(nhBytes)
	case 32:
		mp.NextHop = net.IP(nhBytes[:16])
		mp.LinkLocal = net.IP(nhBytes[16:32])
	default:
		return nil, errors.Errorf("unsupported MP_REACH next hop length %d", nhLen)
	}

	if ctx.RibV2 {
		// RFC 6396 §4.3.4: no Reserved/SNPA or NLRI field here, the RIB
		// entry's own prefix is the NLRI.
		return mp, nil
	}

	snpaCountV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "snpa count")
	}
	for i := 0; i < int(snpaCountV); i++ {
		lenV, err := c.Num(1)
		if err != nil {
			return nil, errors.Wrap(err, "snpa length")
		}
		if _, err := c.Bytes((int(lenV) + 1) / 2); err != nil {
			return nil, errors.Wrap(err, "snpa value")
		}
	}

	region, addPath, err := nlri.Region(c.Rest(), afi, safi, ctx.AddPath)
	if err != nil {
		return nil, errors.Wrap(err, "nlri")
	}
	mp.NLRI = region
	mp.AddPath = addPath
	return mp, nil
}

func decodeMPUnreach(body []byte, ctx *wire.Context) (*MPUnreach, error) {
	c := wire.New(body)
	afiV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "afi/safi")
	}
	safiV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "afi/safi")
	}
	afi := uint16(afiV)
	safi := uint8(safiV)

	region, addPath, err := nlri.Region(c.Rest(), afi, safi, ctx.AddPath)
	if err != nil {
		return nil, errors.Wrap(err, "nlri")
	}
	return &MPUnreach{AFI: afi, SAFI: safi, NLRI: region, AddPath: addPath}, nil
}

func decodeAIGP(body []byte) ([]AigpTLV, error) {
	c := wire.New(body)
	var out []AigpTLV
	for c.Remaining() > 0 {
		typeV, err := c.Num(1)
		if err != nil {
			return nil, err
		}
		lenV, err := c.Num(2)
		if err != nil {
			return nil, err
		}
		if lenV < 3 {
			return nil, errors.Errorf("aigp: TLV length %d too small to hold its own header", lenV)
		}
		value, err := c.Bytes(int(lenV) - 3)
		if err != nil {
			return nil, err
		}
		out = append(out, AigpTLV{Type: uint8(typeV), Value: value})
	}
	return out, nil
}

func decodeAttrSet(body []byte, ctx *wire.Context) (*AttrSet, error) {
	if ctx.Exceeded() {
		return nil, errors.New("bgp: ATTR_SET nesting exceeds maximum depth")
	}
	if len(body) < 4 {
		return nil, errors.New("bgp: ATTR_SET must start with a 4-byte origin AS")
	}
	originAS := be32(body[:4])
	nested, err := Decode(body[4:], ctx.WithDepth())
	if err != nil {
		return nil, err
	}
	return &AttrSet{OriginAS: originAS, Attrs: nested}, nil
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
