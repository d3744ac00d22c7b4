package mrt

import (
	"testing"

	"github.com/csunetsec/mrtdecode/protocol/wire"
)

func TestDecodeBgp4MpStateChange(t *testing.T) {
	ctx := wire.NewContext()
	ctx.SetASWidthFromSubtypeName("BGP4MP_STATE_CHANGE_AS4")

	buf := []byte{0, 0, 0xfd, 0xe8} // peer as (AS4)
	buf = append(buf, 0, 0, 0xfd, 0xe9) // local as
	buf = append(buf, 0, 1) // ifindex
	buf = append(buf, 0, 1) // afi ipv4
	buf = append(buf, 192, 168, 0, 1) // peer ip
	buf = append(buf, 192, 168, 0, 2) // local ip
	buf = append(buf, 0, 2)           // old state (Connect)
	buf = append(buf, 0, 3)           // new state (Active)

	sc, err := decodeBgp4MpStateChange(buf, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sc.PeerAS != "65000" {
		t.Errorf("got peer as %s", sc.PeerAS)
	}
	if sc.PeerIP.String() != "192.168.0.1" {
		t.Errorf("got peer ip %s", sc.PeerIP)
	}
	if sc.NewState.Code != 3 {
		t.Errorf("got new state %+v", sc.NewState)
	}
}

func TestDecodeBgp4MpMessage(t *testing.T) {
	ctx := wire.NewContext()
	ctx.SetASWidthFromSubtypeName("BGP4MP_MESSAGE_AS4")

	hdr := []byte{0, 0, 0xfd, 0xe8}
	hdr = append(hdr, 0, 0, 0xfd, 0xe9)
	hdr = append(hdr, 0, 1)
	hdr = append(hdr, 0, 1)
	hdr = append(hdr, 192, 168, 0, 1)
	hdr = append(hdr, 192, 168, 0, 2)

	marker := make([]byte, 16)
	for i := range marker {
		marker[i] = 0xff
	}
	bgpMsg := append(append([]byte{}, marker...), 0, 19, 4) // keepalive

	buf := append(hdr, bgpMsg...)

	msg, err := decodeBgp4MpMessage(buf, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if msg.Message == nil {
		t.Fatal("expected an embedded bgp message")
	}
	if msg.Message.Header.Type.Name != "KEEPALIVE" {
		t.Errorf("got message type %s", msg.Message.Header.Type.Name)
	}
	if msg.PeerIP.String() != "192.168.0.1" {
		t.Errorf("got peer ip %s", msg.PeerIP)
	}
}
