package util

import (
	"net"

	radix "github.com/armon/go-radix"
)

// PrefixTree indexes a set of IP networks and answers longest-prefix
// containment queries, grounded on cmd/gobgpdump.go's use of
// github.com/armon/go-radix keyed by IpToRadixkey.
type PrefixTree struct {
	t *radix.Tree
}

// NewPrefixTree returns an empty PrefixTree.
func NewPrefixTree() PrefixTree {
	return PrefixTree{t: radix.New()}
}

// Add registers ip/mask as a member network.
func (p PrefixTree) Add(ip net.IP, mask uint8) {
	key := IpToRadixkey(ip, mask)
	if key == "" {
		return
	}
	p.t.Insert(key, struct{}{})
}

// ContainsIPMask reports whether ip/mask falls within any network
// previously added to the tree (i.e. some added network is an
// ancestor of, or equal to, ip/mask).
func (p PrefixTree) ContainsIPMask(ip net.IP, mask uint8) bool {
	key := IpToRadixkey(ip, mask)
	if key == "" {
		return false
	}
	_, _, ok := p.t.LongestPrefix(key)
	return ok
}
