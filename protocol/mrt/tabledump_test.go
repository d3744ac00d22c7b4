package mrt

import (
	"testing"

	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

func TestDecodeTableDumpIPv4(t *testing.T) {
	buf := []byte{
		0, 1, // view
		0, 2, // sequence
		10, 0, 0, 1, // prefix
		24,   // prefix length
		1,    // status
		0, 0, 0, 99, // originated time
		192, 168, 1, 1, // peer ip
		0xfd, 0xe8, // peer as
		0, 4, // attr len
		0x40, 1, 1, 0, // ORIGIN = IGP
	}
	td, err := decodeTableDump(buf, registry.TDAFIIPv4, wire.NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if td.Prefix.String() != "10.0.0.1" || td.PrefixLength != 24 {
		t.Errorf("got prefix %s/%d", td.Prefix, td.PrefixLength)
	}
	if td.PeerIP.String() != "192.168.1.1" {
		t.Errorf("got peer ip %s", td.PeerIP)
	}
	if len(td.Attrs) != 1 {
		t.Errorf("got attrs %+v", td.Attrs)
	}
}

func TestDecodeTableDumpIPv4InIPv6CompatibilityProbe(t *testing.T) {
	buf := []byte{
		0, 1,
		0, 2,
	}
	buf = append(buf, make([]byte, 16)...) // IPv6 prefix, all zero
	buf = append(buf, 64, 1)
	buf = append(buf, 0, 0, 0, 1)
	peerIP := append([]byte{192, 0, 2, 1}, make([]byte, 12)...)
	buf = append(buf, peerIP...)
	buf = append(buf, 0xfd, 0xe8)
	buf = append(buf, 0, 0) // no attrs

	td, err := decodeTableDump(buf, registry.TDAFIIPv6, wire.NewContext())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if td.PeerIP.String() != "192.0.2.1" {
		t.Errorf("expected v4-in-v6 compatibility probe to yield an IPv4 address, got %s", td.PeerIP)
	}
}
