// Package nlri decodes Network Layer Reachability Information: a single
// prefix given AFI/SAFI/ADD-PATH mode (spec.md §4.3), including the
// L3VPN label-stack + route-distinguisher form and the region-level
// ADD-PATH retry-by-replay that is the grammar's sole backtracking point.
package nlri

import (
	"fmt"
	"net"

	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

// Label is one entry of an MPLS label stack prefixed to an L3VPN NLRI.
type Label uint32

// Value returns the 20-bit label value (top bits of the 3-byte field).
func (l Label) Value() uint32 { return uint32(l) >> 4 }

// Nlri is one decoded prefix, per spec.md §3.
type Nlri struct {
	PathID *uint32 `json:"path_id,omitempty"`
	Length int     `json:"length"`
	Labels []Label `json:"label_stack,omitempty"`
	RD     string  `json:"route_distinguisher,omitempty"`
	Prefix net.IP  `json:"prefix"`
}

// CIDR renders the Nlri as "prefix/length", matching how the original
// decoder and the teacher's Route.String render a route (spec.md §8
// scenario naming, e.g. "10.0.1.0/24").
func (n Nlri) CIDR() string {
	return fmt.Sprintf("%s/%d", n.Prefix, n.Length)
}

func isL3VPN(safi uint8) bool {
	return safi == registry.SAFIL3VPNUnicast || safi == registry.SAFIL3VPNMulticast
}

// Decode decodes one NLRI entry from cur, per the AFI/SAFI/ADD-PATH mode
// given. It is the single-prefix primitive; Region implements the
// list-level ADD-PATH retry around it.
func Decode(cur *wire.Cursor, afi uint16, safi uint8, addPath bool) (Nlri, error) {
	var n Nlri

	if addPath {
		v, err := cur.Num(4)
		if err != nil {
			return n, errors.Wrap(err, "nlri: path identifier")
		}
		id := uint32(v)
		n.PathID = &id
	}

	lenByte, err := cur.Num(1)
	if err != nil {
		return n, errors.Wrap(err, "nlri: prefix length")
	}
	remainingBits := int(lenByte)
	n.Length = remainingBits

	if isL3VPN(safi) {
		for {
			if remainingBits < 24 {
				return n, errors.New("nlri: label stack overruns declared prefix length")
			}
			raw, err := cur.Num(3)
			if err != nil {
				return n, errors.Wrap(err, "nlri: mpls label")
			}
			lbl := Label(raw)
			remainingBits -= 24
			n.Labels = append(n.Labels, lbl)
			bottomOfStack := raw&0x000001 != 0
			withdrawalSentinel := raw == 0x800000
			if bottomOfStack || withdrawalSentinel {
				break
			}
		}
		if remainingBits < 64 {
			return n, errors.New("nlri: route distinguisher overruns declared prefix length")
		}
		rd, err := cur.Rd()
		if err != nil {
			return n, errors.Wrap(err, "nlri: route distinguisher")
		}
		n.RD = rd
		remainingBits -= 64
	}

	maxBits, err := wire.MaxPrefixLen(afi)
	if err != nil {
		return n, errors.Wrap(err, "nlri")
	}
	if remainingBits > maxBits {
		return n, errors.Errorf("nlri: prefix length %d exceeds AFI max %d", remainingBits, maxBits)
	}

	addr, err := cur.Addr(afi, remainingBits)
	if err != nil {
		return n, errors.Wrap(err, "nlri: address")
	}
	n.Prefix = addr
	return n, nil
}

// Region decodes every NLRI in buf. If ctxAddPath is true (the enclosing
// subtype name contained ADDPATH), every entry is decoded with a path
// identifier directly. Otherwise the region is first parsed assuming no
// path identifiers; if that fails before the region is exhausted, or if
// two decoded prefixes come out bit-identical, the region is rewound and
// reparsed entirely in ADD-PATH mode (spec.md §4.3, the decoder's sole
// lookahead-by-replay). It reports whether ADD-PATH mode was ultimately
// used.
func Region(buf []byte, afi uint16, safi uint8, ctxAddPath bool) ([]Nlri, bool, error) {
	if ctxAddPath {
		list, err := decodeRegion(buf, afi, safi, true)
		return list, true, err
	}

	plain, err := decodeRegion(buf, afi, safi, false)
	if err == nil && !hasDuplicatePrefixes(plain) {
		return plain, false, nil
	}

	retried, rerr := decodeRegion(buf, afi, safi, true)
	if rerr != nil {
		if err != nil {
			return nil, false, err
		}
		return nil, false, rerr
	}
	return retried, true, nil
}

func decodeRegion(buf []byte, afi uint16, safi uint8, addPath bool) ([]Nlri, error) {
	cur := wire.New(buf)
	var out []Nlri
	for cur.Remaining() > 0 {
		n, err := Decode(cur, afi, safi, addPath)
		if err != nil {
			return out, err
		}
		out = append(out, n)
	}
	return out, nil
}

func hasDuplicatePrefixes(list []Nlri) bool {
	seen := make(map[string]struct{}, len(list))
	for _, n := range list {
		key := n.CIDR()
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}
