package wire

import "testing"

func TestCursorNum(t *testing.T) {
	c := New([]byte{0x00, 0x01, 0x02, 0x03, 0x04})
	v, err := c.Num(2)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v != 1 {
		t.Errorf("got %d, want 1", v)
	}
	if c.Remaining() != 3 {
		t.Errorf("remaining = %d, want 3", c.Remaining())
	}
}

func TestCursorNumShortRead(t *testing.T) {
	c := New([]byte{0x00})
	if _, err := c.Num(4); err == nil {
		t.Error("expected insufficient buffer error")
	}
}

func TestCursorAddrIPv4Full(t *testing.T) {
	c := New([]byte{192, 168, 0, 1})
	ip, err := c.Addr(1, -1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ip.String() != "192.168.0.1" {
		t.Errorf("got %s", ip)
	}
}

func TestCursorAddrTruncatedWithZeroPad(t *testing.T) {
	// 192.168.0.0/16 -> only 2 bytes on the wire.
	c := New([]byte{192, 168})
	ip, err := c.Addr(1, 16)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ip.String() != "192.168.0.0" {
		t.Errorf("got %s", ip)
	}
}

func TestCursorAddrZeroLength(t *testing.T) {
	c := New([]byte{})
	ip, err := c.Addr(1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ip.String() != "0.0.0.0" {
		t.Errorf("got %s", ip)
	}
	if c.Remaining() != 0 {
		t.Errorf("should consume zero bytes for a /0 prefix")
	}
}

func TestCursorAddrRejectsTrailingBits(t *testing.T) {
	// /24 but the byte at offset 24 has trailing garbage below /32... use
	// a /20 so the 3rd byte has 4 significant bits and 4 must be zero.
	c := New([]byte{10, 0, 0x11}) // 0x11 = 00010001, low nibble non-zero
	if _, err := c.Addr(1, 20); err == nil {
		t.Error("expected non-zero trailing bits to be rejected")
	}
}

func TestCursorAddrRejectsOverLongPrefix(t *testing.T) {
	c := New(make([]byte, 20))
	if _, err := c.Addr(1, 33); err == nil {
		t.Error("expected prefix length > 32 to be rejected for IPv4")
	}
}

func TestFormatASN(t *testing.T) {
	cases := []struct {
		asn  uint32
		repr ASRepr
		want string
	}{
		{65000, ASPlain, "65000"},
		{65000, ASDot, "65000"},
		{65000, ASDotPlus, "0.65000"},
		{4259905999, ASPlain, "4259905999"},
		{4259905999, ASDot, "65001.463"},
		{4259905999, ASDotPlus, "65001.463"},
	}
	for _, tc := range cases {
		got := FormatASN(tc.asn, tc.repr)
		if got != tc.want {
			t.Errorf("FormatASN(%d, %v) = %s, want %s", tc.asn, tc.repr, got, tc.want)
		}
	}
}

func TestCursorRd(t *testing.T) {
	c := New([]byte{0, 0, 0, 100, 0, 0, 0, 200})
	rd, err := c.Rd()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if rd != "100:200" {
		t.Errorf("got %s, want 100:200", rd)
	}
}

func TestCursorSlice(t *testing.T) {
	c := New([]byte{1, 2, 3, 4, 5})
	sub, err := c.Slice(3)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sub.Remaining() != 3 {
		t.Errorf("sub-cursor remaining = %d, want 3", sub.Remaining())
	}
	if c.Remaining() != 2 {
		t.Errorf("parent cursor remaining = %d, want 2", c.Remaining())
	}
}
