package bgp

import (
	"testing"

	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

func ctx() *wire.Context {
	c := wire.NewContext()
	c.ASWidth = 4
	return c
}

func TestDecodeOriginAndNextHop(t *testing.T) {
	buf := []byte{
		0x40, 1, 1, 0, // ORIGIN = IGP
		0x40, 3, 4, 10, 0, 0, 1, // NEXT_HOP = 10.0.0.1
	}
	attrs, err := Decode(buf, ctx())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(attrs) != 2 {
		t.Fatalf("got %d attrs, want 2", len(attrs))
	}
	if attrs[0].Origin == nil || attrs[0].Origin.Name != "IGP" {
		t.Errorf("origin = %+v", attrs[0].Origin)
	}
	if attrs[1].NextHop.String() != "10.0.0.1" {
		t.Errorf("next hop = %s", attrs[1].NextHop)
	}
}

func TestDecodeASPathAS4(t *testing.T) {
	buf := []byte{
		0x40, 2, 6, // AS_PATH, len 6
		2, 1, 0, 0, 0xfd, 0xe8, // SEQUENCE of one: AS 65000
	}
	attrs, err := Decode(buf, ctx())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(attrs[0].ASPath) != 1 || attrs[0].ASPath[0].ASNs[0] != "65000" {
		t.Errorf("got %+v", attrs[0].ASPath)
	}
}

func TestDecodeExtendedLengthFlag(t *testing.T) {
	buf := []byte{0xd0, 16, 0, 8, 0, 0x02, 0, 100, 0, 0, 0, 200}
	attrs, err := Decode(buf, ctx())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(attrs) != 1 || len(attrs[0].ExtCommunities) != 1 {
		t.Fatalf("got %+v", attrs)
	}
	if attrs[0].ExtCommunities[0] != "RT:100:200" {
		t.Errorf("got %s", attrs[0].ExtCommunities[0])
	}
}

func TestDecodeMPReachNLRI(t *testing.T) {
	body := []byte{
		0, 1, registry.SAFIUnicast, 4, 10, 0, 0, 1, // afi=1 safi=1 nhlen=4 nexthop
		0, // 0 SNPAs
		24, 192, 168, 1, // one NLRI: 192.168.1.0/24
	}
	buf := append([]byte{0x80, registry.AttrMPReachNLRI, byte(len(body))}, body...)
	attrs, err := Decode(buf, ctx())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if attrs[0].MPReach == nil {
		t.Fatal("expected MPReach to be populated")
	}
	if attrs[0].MPReach.NextHop.String() != "10.0.0.1" {
		t.Errorf("next hop = %s", attrs[0].MPReach.NextHop)
	}
	if len(attrs[0].MPReach.NLRI) != 1 || attrs[0].MPReach.NLRI[0].CIDR() != "192.168.1.0/24" {
		t.Errorf("nlri = %+v", attrs[0].MPReach.NLRI)
	}
}

func TestDecodeUnknownAttrCapturesRaw(t *testing.T) {
	buf := []byte{0xc0, 99, 3, 0xde, 0xad, 0xbe}
	attrs, err := Decode(buf, ctx())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(attrs[0].Raw) != 3 {
		t.Errorf("got raw len %d, want 3", len(attrs[0].Raw))
	}
}

func TestDecodeAttrSetRecursion(t *testing.T) {
	inner := []byte{0x40, 1, 1, 0} // ORIGIN = IGP
	body := append([]byte{0, 0, 0xfd, 0xe8}, inner...)
	buf := append([]byte{0xc0, byte(registry.AttrAttrSet), byte(len(body))}, body...)
	attrs, err := Decode(buf, ctx())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if attrs[0].AttrSet == nil || attrs[0].AttrSet.OriginAS != 65000 {
		t.Fatalf("got %+v", attrs[0].AttrSet)
	}
	if len(attrs[0].AttrSet.Attrs) != 1 {
		t.Errorf("expected one nested attribute")
	}
}
