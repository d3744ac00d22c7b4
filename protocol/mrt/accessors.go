package mrt

import (
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/bgp"
	"github.com/csunetsec/mrtdecode/protocol/nlri"
)

// Route is a decoded prefix/length pair, used by GetAdvertisedPrefixes
// and GetWithdrawnPrefixes.
type Route struct {
	IP   net.IP
	Mask uint8
}

func (r Route) String() string {
	return fmt.Sprintf("%s/%d", r.IP, r.Mask)
}

func routesFromNlri(list []nlri.Nlri) []Route {
	var out []Route
	for _, n := range list {
		out = append(out, Route{IP: n.Prefix, Mask: uint8(n.Length)})
	}
	return out
}

// GetTimestamp converts the record's MRT header timestamp to a time.Time.
func GetTimestamp(rec *Record) time.Time {
	return time.Unix(int64(rec.Header.Timestamp), 0)
}

// GetCollector returns the local (collector-side) peering address of a
// BGP4MP_MESSAGE record, or nil for any other record kind.
func GetCollector(rec *Record) net.IP {
	if rec.Body.Bgp4MpMessage == nil {
		return nil
	}
	return rec.Body.Bgp4MpMessage.LocalIP
}

// GetASPath returns every AS number mentioned in the record's AS_PATH
// attribute(s), across whichever body variant carries attributes. It
// does no segment-type bookkeeping (AS_SET vs AS_SEQUENCE are
// flattened), matching the permissive behavior of the teacher's
// GetASPath.
func GetASPath(rec *Record) ([]string, error) {
	attrs, err := attrsOf(rec)
	if err != nil {
		return nil, err
	}
	var asList []string
	for _, group := range attrs {
		for _, a := range group {
			for _, seg := range a.ASPath {
				asList = append(asList, seg.ASNs...)
			}
		}
	}
	return asList, nil
}

func attrsOf(rec *Record) ([][]bgp.BgpAttr, error) {
	switch {
	case rec.Body.TableDump != nil:
		return [][]bgp.BgpAttr{rec.Body.TableDump.Attrs}, nil
	case rec.Body.RibEntrySet != nil:
		var groups [][]bgp.BgpAttr
		for _, e := range rec.Body.RibEntrySet.Entries {
			groups = append(groups, e.Attrs)
		}
		return groups, nil
	case rec.Body.Bgp4MpMessage != nil && rec.Body.Bgp4MpMessage.Message != nil &&
		rec.Body.Bgp4MpMessage.Message.Update != nil:
		return [][]bgp.BgpAttr{rec.Body.Bgp4MpMessage.Message.Update.Attrs}, nil
	default:
		return nil, errors.New("mrt: record carries no BGP attributes")
	}
}

// GetAdvertisedPrefixes returns every prefix the record advertises: a
// RIB record's own shared prefix, a TABLE_DUMP record's prefix, or a
// BGP4MP UPDATE's NLRI (classic and MP_REACH_NLRI combined).
func GetAdvertisedPrefixes(rec *Record) ([]Route, error) {
	switch {
	case rec.Body.TableDump != nil:
		return []Route{{IP: rec.Body.TableDump.Prefix, Mask: rec.Body.TableDump.PrefixLength}}, nil
	case rec.Body.RibEntrySet != nil:
		return []Route{{IP: rec.Body.RibEntrySet.Prefix, Mask: uint8(rec.Body.RibEntrySet.PrefixLength)}}, nil
	case rec.Body.Bgp4MpMessage != nil && rec.Body.Bgp4MpMessage.Message != nil &&
		rec.Body.Bgp4MpMessage.Message.Update != nil:
		u := rec.Body.Bgp4MpMessage.Message.Update
		routes := routesFromNlri(u.NLRI)
		for _, a := range u.Attrs {
			if a.MPReach != nil {
				routes = append(routes, routesFromNlri(a.MPReach.NLRI)...)
			}
		}
		return routes, nil
	default:
		return nil, errors.New("mrt: record carries no advertised prefixes")
	}
}

// GetWithdrawnPrefixes returns every prefix the record withdraws (RIB
// and TABLE_DUMP records never withdraw, matching the teacher's
// GetWithdrawnPrefixes).
func GetWithdrawnPrefixes(rec *Record) ([]Route, error) {
	if rec.Body.Bgp4MpMessage == nil || rec.Body.Bgp4MpMessage.Message == nil ||
		rec.Body.Bgp4MpMessage.Message.Update == nil {
		return nil, nil
	}
	u := rec.Body.Bgp4MpMessage.Message.Update
	routes := routesFromNlri(u.WithdrawnRoutes)
	for _, a := range u.Attrs {
		if a.MPUnreach != nil {
			routes = append(routes, routesFromNlri(a.MPUnreach.NLRI)...)
		}
	}
	return routes, nil
}
