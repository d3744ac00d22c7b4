package util

import (
	"net"
	"testing"
)

func TestPrefixTreeContainsIPMask(t *testing.T) {
	pt := NewPrefixTree()
	pt.Add(net.ParseIP("10.0.0.0"), 8)

	if !pt.ContainsIPMask(net.ParseIP("10.1.2.3"), 32) {
		t.Error("expected 10.1.2.3/32 to be contained within 10.0.0.0/8")
	}
	if pt.ContainsIPMask(net.ParseIP("192.168.0.1"), 32) {
		t.Error("did not expect 192.168.0.1/32 to be contained")
	}
}

func TestPrefixTreeEmpty(t *testing.T) {
	pt := NewPrefixTree()
	if pt.ContainsIPMask(net.ParseIP("10.0.0.1"), 32) {
		t.Error("an empty tree should contain nothing")
	}
}
