// Package wire implements the bottom of the MRT decode stack: a bounded
// byte cursor over an immutable buffer, and the per-record Context
// scratchpad that outer frames set and inner frames consult.
package wire

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// ErrInsufficientBuffer is wrapped into every short-read failure so
// callers can distinguish framing/data truncation from a malformed value.
var ErrInsufficientBuffer = errors.New("insufficient buffer")

// ASRepr selects how Cursor.Asn renders an AS number.
type ASRepr int

const (
	// ASPlain renders the ASN as a plain decimal integer.
	ASPlain ASRepr = iota
	// ASDot renders 2-byte-range ASNs as decimal and 4-byte-range ASNs
	// as high.low ("asdot").
	ASDot
	// ASDotPlus always renders as high.low, even for ASNs <= 65535.
	ASDotPlus
)

const (
	afiIPv4 = 1
	afiIPv6 = 2
)

// Cursor is a bounded, forward-only reader over a borrowed byte slice.
// It never advances past the end of its own buffer; callers carve out
// sub-regions by slicing before constructing a nested Cursor.
type Cursor struct {
	buf []byte
	p   int
}

// New wraps buf in a Cursor starting at position 0.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.p }

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.p }

// Rest returns every remaining unread byte without advancing the cursor.
func (c *Cursor) Rest() []byte { return c.buf[c.p:] }

// Slice carves out the next n bytes as their own independent Cursor,
// advancing this cursor past them. Used when a sub-decoder must be
// bounded by a declared length field (invariant 1 in spec.md §3).
func (c *Cursor) Slice(n int) (*Cursor, error) {
	b, err := c.Bytes(n)
	if err != nil {
		return nil, err
	}
	return New(b), nil
}

func (c *Cursor) need(n int) error {
	if n < 0 || c.Remaining() < n {
		return errors.Wrapf(ErrInsufficientBuffer, "need %d bytes, have %d", n, c.Remaining())
	}
	return nil
}

// Num reads n in {1,2,3,4,8} bytes as a big-endian unsigned integer.
func (c *Cursor) Num(n int) (uint64, error) {
	if err := c.need(n); err != nil {
		return 0, err
	}
	var v uint64
	switch n {
	case 1:
		v = uint64(c.buf[c.p])
	case 2:
		v = uint64(binary.BigEndian.Uint16(c.buf[c.p : c.p+2]))
	case 3:
		v = uint64(c.buf[c.p])<<16 | uint64(c.buf[c.p+1])<<8 | uint64(c.buf[c.p+2])
	case 4:
		v = uint64(binary.BigEndian.Uint32(c.buf[c.p : c.p+4]))
	case 8:
		v = binary.BigEndian.Uint64(c.buf[c.p : c.p+8])
	default:
		return 0, errors.Errorf("wire: unsupported integer width %d", n)
	}
	c.p += n
	return v, nil
}

// Bytes copies out the next n bytes verbatim.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.p:c.p+n])
	c.p += n
	return out, nil
}

// Str reads n bytes and UTF-8 decodes them. Non-UTF-8 input is not an
// error: it is surfaced as the Go string produced by a direct byte-slice
// conversion, which callers may choose to treat as opaque/lossy text,
// matching the RFC's permissive treatment of the view-name field.
func (c *Cursor) Str(n int) (string, error) {
	b, err := c.Bytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Addr reads an address for afi (1=IPv4, 2=IPv6). If plen >= 0, it is
// treated as a prefix length: only ceil(plen/8) bytes are read from the
// wire and the result is zero-padded to the AFI's full width. If plen is
// negative, the AFI's full byte width is read. Any non-zero bit beyond
// plen within the last consumed byte is a format error (invariant 2).
func (c *Cursor) Addr(afi uint16, plen int) (net.IP, error) {
	width, err := AddrWidth(afi)
	if err != nil {
		return nil, err
	}
	n := width
	if plen >= 0 {
		max := width * 8
		if plen > max {
			return nil, errors.Errorf("wire: prefix length %d exceeds AFI max %d", plen, max)
		}
		n = (plen + 7) / 8
	}
	raw, err := c.Bytes(n)
	if err != nil {
		return nil, err
	}
	full := make([]byte, width)
	copy(full, raw)
	var ip net.IP
	if width == 4 {
		ip = net.IPv4(full[0], full[1], full[2], full[3]).To4()
	} else {
		ip = net.IP(full)
	}
	if plen >= 0 && plen%8 != 0 && n > 0 {
		mask := byte(0xff00 >> uint(plen%8))
		if raw[n-1]&^mask != 0 {
			return nil, errors.Errorf("wire: invalid prefix %s/%d: non-zero trailing bits beyond prefix length", ip, plen)
		}
	}
	return ip, nil
}

// AddrWidth returns the full byte width of an address in afi.
func AddrWidth(afi uint16) (int, error) {
	switch afi {
	case afiIPv4:
		return 4, nil
	case afiIPv6:
		return 16, nil
	default:
		return 0, errors.Errorf("wire: unsupported AFI %d for address decode", afi)
	}
}

// MaxPrefixLen returns the maximum valid prefix length for afi (invariant 3).
func MaxPrefixLen(afi uint16) (int, error) {
	w, err := AddrWidth(afi)
	if err != nil {
		return 0, err
	}
	return w * 8, nil
}

// Asn reads a width-byte (2 or 4) AS number and renders it per repr.
func (c *Cursor) Asn(width int, repr ASRepr) (string, error) {
	if width != 2 && width != 4 {
		return "", errors.Errorf("wire: unsupported AS width %d", width)
	}
	v, err := c.Num(width)
	if err != nil {
		return "", err
	}
	return FormatASN(uint32(v), repr), nil
}

// FormatASN renders a 32-bit ASN under the given representation mode.
func FormatASN(asn uint32, repr ASRepr) string {
	switch repr {
	case ASDot:
		if asn > 0xFFFF {
			return fmt.Sprintf("%d.%d", asn>>16, asn&0xFFFF)
		}
		return fmt.Sprintf("%d", asn)
	case ASDotPlus:
		return fmt.Sprintf("%d.%d", asn>>16, asn&0xFFFF)
	default: // ASPlain
		return fmt.Sprintf("%d", asn)
	}
}

// Rd reads an 8-byte route distinguisher and renders it as "high32:low32".
func (c *Cursor) Rd() (string, error) {
	if err := c.need(8); err != nil {
		return "", err
	}
	hi := binary.BigEndian.Uint32(c.buf[c.p : c.p+4])
	lo := binary.BigEndian.Uint32(c.buf[c.p+4 : c.p+8])
	c.p += 8
	return fmt.Sprintf("%d:%d", hi, lo), nil
}
