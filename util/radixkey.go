package util

import (
	"bytes"
	"fmt"
	"net"
	"strconv"
)

// IpToRadixkey renders ip/mask as a binary string so it can be used as
// a go-radix key, where shared key prefixes correspond to containing
// networks. Grounded on CSUNetSec-protoparse/util.go's IpToRadixkey,
// generalized to take a net.IP directly instead of a protobuf wrapper.
func IpToRadixkey(ip net.IP, mask uint8) string {
	var buffer bytes.Buffer
	if len(ip) == 0 {
		return ""
	}

	if v4 := ip.To4(); v4 != nil {
		if mask > 32 {
			return ""
		}
		ip = v4.Mask(net.CIDRMask(int(mask), 32))
	} else {
		if mask > 128 {
			return ""
		}
		ip = ip.Mask(net.CIDRMask(int(mask), 128)).To16()
	}

	for i := 0; i < len(ip) && i < int(mask); i++ {
		fmt.Fprintf(&buffer, "%08b", ip[i])
	}
	return buffer.String()[:mask]
}

// MaskStrToUint8 parses a decimal prefix length, rejecting anything
// outside the IPv6 range.
func MaskStrToUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	if v > 128 {
		return 0, fmt.Errorf("util: mask %d exceeds 128 bits", v)
	}
	return uint8(v), nil
}
