package mrt

import (
	"testing"

	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

func TestDecodePeerIndexTable(t *testing.T) {
	buf := []byte{1, 2, 3, 4} // collector bgp id
	buf = append(buf, 0, 4)   // view name length
	buf = append(buf, []byte("test")...)
	buf = append(buf, 0, 1) // peer count
	// one peer entry: flags=0 (ipv4, as2), bgp id, ip, as
	buf = append(buf, 0)
	buf = append(buf, 10, 10, 10, 10)
	buf = append(buf, 192, 168, 0, 1)
	buf = append(buf, 0xfd, 0xe8)

	pit, err := decodePeerIndexTable(buf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if pit.ViewName != "test" {
		t.Errorf("got view name %q", pit.ViewName)
	}
	if len(pit.Peers) != 1 || pit.Peers[0].IP.String() != "192.168.0.1" {
		t.Errorf("got peers %+v", pit.Peers)
	}
	if pit.Peers[0].ASN != "65000" {
		t.Errorf("got asn %s", pit.Peers[0].ASN)
	}
	if pit.Peers[0].Flags != 0 {
		t.Errorf("got flags %d, want 0", pit.Peers[0].Flags)
	}
}

func TestDecodeRibIPv4UnicastAddPath(t *testing.T) {
	ctx := wire.NewContext()
	ctx.SetASWidthFromSubtypeName("RIB_IPV4_UNICAST_ADDPATH")
	ctx.SetAddPathFromSubtypeName("RIB_IPV4_UNICAST_ADDPATH")

	buf := []byte{0, 0, 0, 1} // sequence
	buf = append(buf, 24)     // prefix length
	buf = append(buf, 10, 0, 0)
	buf = append(buf, 0, 1) // entry count

	entry := []byte{0, 0} // peer index
	entry = append(entry, 0, 0, 0, 42) // originated time
	entry = append(entry, 0, 0, 0, 7)  // path id
	attrs := []byte{0x40, 1, 1, 0}
	entry = append(entry, 0, byte(len(attrs)))
	entry = append(entry, attrs...)
	buf = append(buf, entry...)

	ribs, err := decodeRibAfiSpecific(buf, registry.AFIIPv4, registry.SAFIUnicast, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ribs.Prefix.String() != "10.0.0.0" || ribs.PrefixLength != 24 {
		t.Errorf("got prefix %s/%d", ribs.Prefix, ribs.PrefixLength)
	}
	if len(ribs.Entries) != 1 {
		t.Fatalf("got entries %+v", ribs.Entries)
	}
	e := ribs.Entries[0]
	if e.PathID == nil || *e.PathID != 7 {
		t.Errorf("got path id %+v", e.PathID)
	}
	if len(e.Attrs) != 1 {
		t.Errorf("got attrs %+v", e.Attrs)
	}
}

func TestDecodeRibGenericMPReachOmitsAFISAFI(t *testing.T) {
	ctx := wire.NewContext()
	ctx.SetASWidthFromSubtypeName("RIB_GENERIC")
	ctx.SetAddPathFromSubtypeName("RIB_GENERIC")

	buf := []byte{0, 0, 0, 9} // sequence
	buf = append(buf, 0, byte(registry.AFIIPv6), byte(registry.SAFIUnicast))
	buf = append(buf, 48) // prefix length
	buf = append(buf, 0x20, 0x01, 0x0d, 0xb8, 0, 0) // 2001:db8::/48 (6 bytes for 48 bits)
	buf = append(buf, 0, 1)                         // entry count

	nextHop := append([]byte{16}, make([]byte, 16)...) // next hop length(1)+16 bytes
	mpReach := append([]byte{}, nextHop...)
	mpAttr := append([]byte{0xc0, 14, byte(len(mpReach))}, mpReach...)

	entry := []byte{0, 0}             // peer index
	entry = append(entry, 0, 0, 0, 1) // originated time
	entry = append(entry, 0, byte(len(mpAttr)))
	entry = append(entry, mpAttr...)
	buf = append(buf, entry...)

	ribs, err := decodeRibGeneric(buf, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if ribs.Prefix.String() != "2001:db8::" || ribs.PrefixLength != 48 {
		t.Errorf("got prefix %s/%d", ribs.Prefix, ribs.PrefixLength)
	}
	if len(ribs.Entries) != 1 || len(ribs.Entries[0].Attrs) != 1 {
		t.Fatalf("got entries %+v", ribs.Entries)
	}
	mp := ribs.Entries[0].Attrs[0].MPReach
	if mp == nil {
		t.Fatal("expected an MP_REACH_NLRI attribute")
	}
	if mp.AFI != registry.AFIIPv6 || mp.SAFI != registry.SAFIUnicast {
		t.Errorf("expected AFI/SAFI to come from the outer RIB_GENERIC subtype, got %d/%d", mp.AFI, mp.SAFI)
	}
	if len(mp.NLRI) != 0 {
		t.Errorf("expected no embedded NLRI region, got %+v", mp.NLRI)
	}
}
