// Package filter selects decoded MRT records by prefix membership or
// AS path position, adapted from CSUNetSec-protoparse/filter/mrtFilter.go
// to operate on protocol/mrt.Record instead of a protobuf buffer stack.
package filter

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/mrt"
	"github.com/csunetsec/mrtdecode/util"
)

// Filter reports whether rec should be kept.
type Filter func(rec *mrt.Record) bool

// PrefixLocation selects which side of a record's routes a PrefixFilter
// inspects.
type PrefixLocation int

const (
	AdvPrefix PrefixLocation = iota
	WdrPrefix
	AnyPrefix
)

// NewPrefixFilterFromString parses a sep-delimited list of "ip/mask"
// strings into a Filter, grounded on mrtFilter.go's
// NewPrefixFilterFromString.
func NewPrefixFilterFromString(raw, sep string, loc PrefixLocation) (Filter, error) {
	return NewPrefixFilterFromSlice(strings.Split(raw, sep), loc)
}

// NewPrefixFilterFromSlice builds a Filter that keeps records
// advertising or withdrawing (per loc) a prefix contained within one of
// prefixStrings.
func NewPrefixFilterFromSlice(prefixStrings []string, loc PrefixLocation) (Filter, error) {
	pt := util.NewPrefixTree()
	for _, p := range prefixStrings {
		parts := strings.Split(p, "/")
		if len(parts) != 2 {
			return nil, errors.Errorf("filter: malformed prefix string %q", p)
		}
		mask, err := util.MaskStrToUint8(parts[1])
		if err != nil {
			return nil, errors.Wrapf(err, "filter: can not parse mask %q", parts[1])
		}
		ip := net.ParseIP(parts[0])
		if ip == nil {
			return nil, errors.Errorf("filter: malformed IP address %q", parts[0])
		}
		pt.Add(ip, mask)
	}

	return func(rec *mrt.Record) bool {
		if loc == AdvPrefix || loc == AnyPrefix {
			if adv, err := mrt.GetAdvertisedPrefixes(rec); err == nil {
				for _, r := range adv {
					if pt.ContainsIPMask(r.IP, r.Mask) {
						return true
					}
				}
			}
		}
		if loc == WdrPrefix || loc == AnyPrefix {
			if wdn, err := mrt.GetWithdrawnPrefixes(rec); err == nil {
				for _, r := range wdn {
					if pt.ContainsIPMask(r.IP, r.Mask) {
						return true
					}
				}
			}
		}
		return false
	}, nil
}

// ASPosition selects where in a record's AS path an ASFilter looks for
// a match.
type ASPosition int

const (
	ASSource ASPosition = iota
	ASDestination
	ASMidpath
	ASAnywhere
)

// NewASFilter parses a comma-separated AS number list (e.g. "65000,65001")
// into a Filter matching at pos.
func NewASFilter(list string, pos ASPosition) (Filter, error) {
	asList, err := parseASList(list)
	if err != nil {
		return nil, err
	}
	return NewASFilterFromSlice(asList, pos)
}

// NewASFilterFromSlice builds a Filter matching at pos against asList.
func NewASFilterFromSlice(asList []string, pos ASPosition) (Filter, error) {
	matches := func(candidate string) bool {
		for _, as := range asList {
			if as == candidate {
				return true
			}
		}
		return false
	}

	switch pos {
	case ASSource:
		return func(rec *mrt.Record) bool {
			path, err := mrt.GetASPath(rec)
			if err != nil || len(path) < 1 {
				return false
			}
			return matches(path[len(path)-1])
		}, nil
	case ASDestination:
		return func(rec *mrt.Record) bool {
			path, err := mrt.GetASPath(rec)
			if err != nil || len(path) < 1 {
				return false
			}
			return matches(path[0])
		}, nil
	case ASMidpath:
		return func(rec *mrt.Record) bool {
			path, err := mrt.GetASPath(rec)
			if err != nil || len(path) < 3 {
				return false
			}
			for _, as := range path[1 : len(path)-1] {
				if matches(as) {
					return true
				}
			}
			return false
		}, nil
	case ASAnywhere:
		return func(rec *mrt.Record) bool {
			path, err := mrt.GetASPath(rec)
			if err != nil {
				return false
			}
			for _, as := range path {
				if matches(as) {
					return true
				}
			}
			return false
		}, nil
	default:
		return nil, errors.New("filter: unsupported AS position")
	}
}

func parseASList(s string) ([]string, error) {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if _, err := strconv.ParseUint(p, 10, 32); err != nil {
			return nil, errors.Wrapf(err, "filter: invalid AS number %q", p)
		}
		out = append(out, p)
	}
	return out, nil
}

// All reports whether rec passes every filter (vacuously true for an
// empty slice), matching mrtFilter.go's FilterAll.
func All(filters []Filter, rec *mrt.Record) bool {
	for _, f := range filters {
		if f != nil && !f(rec) {
			return false
		}
	}
	return true
}
