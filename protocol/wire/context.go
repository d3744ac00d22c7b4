package wire

import "strings"

// MaxNestDepth bounds recursive descent into nested ATTR_SET attributes
// so a pathological input cannot blow the stack (the wire format never
// legitimately nests this deep).
const MaxNestDepth = 8

// Context is the per-record mutable parse scratchpad described in
// spec.md §4.2. It must be reset at the start of every top-level
// record and is threaded explicitly through decode calls rather than
// held as package-level state, so a Context never leaks across records
// and decoding remains safe to run concurrently across independent
// records (spec.md §5).
type Context struct {
	// ASWidth is 2 or 4; default 4, overridden to 2 by outer frames
	// per spec.md invariant 4.
	ASWidth int
	// AddPath is true iff the enclosing subtype name contains ADDPATH.
	AddPath bool
	// AFI/SAFI are set by outer frames that name an address family
	// (TABLE_DUMP_V2 RIB subtypes, MP_REACH_NLRI).
	AFI, SAFI uint16
	// ASRepr controls how AS numbers are rendered by Cursor.Asn.
	ASRepr ASRepr
	// Depth tracks recursive descent into ATTR_SET against MaxNestDepth.
	Depth int
	// RibV2 is true while decoding attributes embedded in a
	// TABLE_DUMP_V2 RIB entry, where MP_REACH_NLRI omits its AFI/SAFI/
	// reserved fields because the outer subtype already carries them
	// (RFC 6396 §4.3.4).
	RibV2 bool
}

// NewContext returns a Context reset to its per-record defaults.
func NewContext() *Context {
	return &Context{ASWidth: 4, AddPath: false}
}

// Reset restores default values before decoding the next top-level record.
func (c *Context) Reset() {
	c.ASWidth = 4
	c.AddPath = false
	c.AFI = 0
	c.SAFI = 0
	c.Depth = 0
	c.RibV2 = false
}

// WithDepth returns a shallow copy of c with Depth incremented, used when
// descending into a nested ATTR_SET attribute list. The
// caller should check Exceeded() on the result before recursing further.
func (c *Context) WithDepth() *Context {
	clone := *c
	clone.Depth++
	return &clone
}

// Exceeded reports whether the nesting bound has been hit.
func (c *Context) Exceeded() bool {
	return c.Depth >= MaxNestDepth
}

// SetASWidthFromSubtypeName applies invariant 4: AS width is 2 for
// TABLE_DUMP, and for BGP4MP subtypes whose name lacks "_AS4" (and
// legacy ADD-PATH-less 2-byte variants).
func (c *Context) SetASWidthFromSubtypeName(subtypeName string) {
	if !strings.Contains(subtypeName, "AS4") {
		c.ASWidth = 2
	} else {
		c.ASWidth = 4
	}
}

// SetAddPathFromSubtypeName applies invariant 5: ADD-PATH mode is true
// iff the subtype name contains "ADDPATH".
func (c *Context) SetAddPathFromSubtypeName(subtypeName string) {
	c.AddPath = strings.Contains(subtypeName, "ADDPATH")
}
