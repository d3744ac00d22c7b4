// Package registry holds the bidirectional numeric-code <-> name tables
// for every MRT/BGP enumeration this decoder understands (spec.md §4.7,
// "Type registry"). Every lookup degrades gracefully to the literal
// "Unknown" for an unassigned code (spec.md §8, "Registry totality").
package registry

import "fmt"

// CodeName pairs a raw wire code with its resolved display name, per
// spec.md §6 ("Enumerated fields are represented as a (code, name) pair").
type CodeName struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
}

func (c CodeName) String() string {
	return fmt.Sprintf("%s(%d)", c.Name, c.Code)
}

func lookup(table map[uint32]string, code uint32) CodeName {
	if name, ok := table[code]; ok {
		return CodeName{Code: code, Name: name}
	}
	return CodeName{Code: code, Name: "Unknown"}
}

// AFI numeric codes.
const (
	AFIIPv4  = 1
	AFIIPv6  = 2
	AFIL2VPN = 25
)

// SAFI numeric codes.
const (
	SAFIUnicast         = 1
	SAFIMulticast       = 2
	SAFIVPLS            = 65
	SAFIEVPN            = 70
	SAFIL3VPNUnicast    = 128
	SAFIL3VPNMulticast  = 129
)

var afiNames = map[uint32]string{
	1:  "IPv4",
	2:  "IPv6",
	25: "L2VPN",
}

var safiNames = map[uint32]string{
	1:   "UNICAST",
	2:   "MULTICAST",
	65:  "VPLS",
	70:  "EVPN",
	128: "L3VPN_UNICAST",
	129: "L3VPN_MULTICAST",
}

// AFI resolves an AFI code to its CodeName.
func AFI(code uint16) CodeName { return lookup(afiNames, uint32(code)) }

// SAFI resolves a SAFI code to its CodeName.
func SAFI(code uint8) CodeName { return lookup(safiNames, uint32(code)) }

// MRT top-level type codes (RFC 6396 §3 plus deprecated historical types).
const (
	MRTNull       = 0
	MRTStart      = 1
	MRTDie        = 2
	MRTIAmDead    = 3
	MRTPeerDown   = 4
	MRTBGP        = 5
	MRTRIP        = 6
	MRTIDRP       = 7
	MRTRIPNG      = 8
	MRTBGP4PLUS   = 9
	MRTBGP4PLUS01 = 10
	MRTOSPFv2     = 11
	MRTTableDump  = 12
	MRTTableDumpV2 = 13
	MRTBGP4MP     = 16
	MRTBGP4MPET   = 17
	MRTISIS       = 32
	MRTISISET     = 33
	MRTOSPFv3     = 48
	MRTOSPFv3ET   = 49
)

var mrtTypeNames = map[uint32]string{
	0:  "NULL",
	1:  "START",
	2:  "DIE",
	3:  "I_AM_DEAD",
	4:  "PEER_DOWN",
	5:  "BGP",
	6:  "RIP",
	7:  "IDRP",
	8:  "RIPNG",
	9:  "BGP4PLUS",
	10: "BGP4PLUS_01",
	11: "OSPFv2",
	12: "TABLE_DUMP",
	13: "TABLE_DUMP_V2",
	16: "BGP4MP",
	17: "BGP4MP_ET",
	32: "ISIS",
	33: "ISIS_ET",
	48: "OSPFv3",
	49: "OSPFv3_ET",
}

// MRTType resolves an MRT header type code to its CodeName.
func MRTType(code uint16) CodeName { return lookup(mrtTypeNames, uint32(code)) }

// TABLE_DUMP subtype codes.
const (
	TDAFIIPv4 = 1
	TDAFIIPv6 = 2
)

var tableDumpSubtypeNames = map[uint32]string{
	1: "AFI_IPv4",
	2: "AFI_IPv6",
}

// TableDumpSubtype resolves a TABLE_DUMP subtype code to its CodeName.
func TableDumpSubtype(code uint16) CodeName { return lookup(tableDumpSubtypeNames, uint32(code)) }

// TABLE_DUMP_V2 subtype codes (RFC 6396, RFC 6397, RFC 8050).
const (
	TDV2PeerIndexTable        = 1
	TDV2RIBIPv4Unicast        = 2
	TDV2RIBIPv4Multicast      = 3
	TDV2RIBIPv6Unicast        = 4
	TDV2RIBIPv6Multicast      = 5
	TDV2RIBGeneric            = 6
	TDV2GeoPeerTable          = 7
	TDV2RIBIPv4UnicastAddPath = 8
	TDV2RIBIPv4MulticastAddPath = 9
	TDV2RIBIPv6UnicastAddPath = 10
	TDV2RIBIPv6MulticastAddPath = 11
	TDV2RIBGenericAddPath     = 12
)

var tableDumpV2SubtypeNames = map[uint32]string{
	1:  "PEER_INDEX_TABLE",
	2:  "RIB_IPV4_UNICAST",
	3:  "RIB_IPV4_MULTICAST",
	4:  "RIB_IPV6_UNICAST",
	5:  "RIB_IPV6_MULTICAST",
	6:  "RIB_GENERIC",
	7:  "GEO_PEER_TABLE",
	8:  "RIB_IPV4_UNICAST_ADDPATH",
	9:  "RIB_IPV4_MULTICAST_ADDPATH",
	10: "RIB_IPV6_UNICAST_ADDPATH",
	11: "RIB_IPV6_MULTICAST_ADDPATH",
	12: "RIB_GENERIC_ADDPATH",
}

// TableDumpV2Subtype resolves a TABLE_DUMP_V2 subtype code to its CodeName.
func TableDumpV2Subtype(code uint16) CodeName {
	return lookup(tableDumpV2SubtypeNames, uint32(code))
}

// BGP4MP[_ET] subtype codes.
const (
	BGP4MPStateChange            = 0
	BGP4MPMessage                = 1
	BGP4MPEntry                  = 2 // deprecated
	BGP4MPSnapshot                = 3 // deprecated
	BGP4MPMessageAS4              = 4
	BGP4MPStateChangeAS4           = 5
	BGP4MPMessageLocal            = 6
	BGP4MPMessageAS4Local          = 7
	BGP4MPMessageAddPath           = 8
	BGP4MPMessageAS4AddPath        = 9
	BGP4MPMessageLocalAddPath      = 10
	BGP4MPMessageAS4LocalAddPath   = 11
)

var bgp4mpSubtypeNames = map[uint32]string{
	0:  "BGP4MP_STATE_CHANGE",
	1:  "BGP4MP_MESSAGE",
	2:  "BGP4MP_ENTRY",
	3:  "BGP4MP_SNAPSHOT",
	4:  "BGP4MP_MESSAGE_AS4",
	5:  "BGP4MP_STATE_CHANGE_AS4",
	6:  "BGP4MP_MESSAGE_LOCAL",
	7:  "BGP4MP_MESSAGE_AS4_LOCAL",
	8:  "BGP4MP_MESSAGE_ADDPATH",
	9:  "BGP4MP_MESSAGE_AS4_ADDPATH",
	10: "BGP4MP_MESSAGE_LOCAL_ADDPATH",
	11: "BGP4MP_MESSAGE_AS4_LOCAL_ADDPATH",
}

// BGP4MPSubtype resolves a BGP4MP subtype code to its CodeName.
func BGP4MPSubtype(code uint16) CodeName { return lookup(bgp4mpSubtypeNames, uint32(code)) }

// Deprecated/legacy BGP subtype codes (types BGP, BGP4PLUS, BGP4PLUS_01).
var bgpSubtypeNames = map[uint32]string{
	0: "BGP_NULL",
	1: "BGP_UPDATE",
	2: "BGP_PREF_UPDATE",
	3: "BGP_STATE_CHANGE",
	4: "BGP_SYNC",
	5: "BGP_OPEN",
	6: "BGP_NOTIFY",
	7: "BGP_KEEPALIVE",
}

// BGPSubtype resolves a legacy BGP/BGP4PLUS subtype code to its CodeName.
func BGPSubtype(code uint16) CodeName { return lookup(bgpSubtypeNames, uint32(code)) }

// BGP message type codes.
const (
	BGPMsgOpen         = 1
	BGPMsgUpdate       = 2
	BGPMsgNotification = 3
	BGPMsgKeepalive    = 4
	BGPMsgRouteRefresh = 5
)

var bgpMessageTypeNames = map[uint32]string{
	1: "OPEN",
	2: "UPDATE",
	3: "NOTIFICATION",
	4: "KEEPALIVE",
	5: "ROUTE-REFRESH",
}

// BGPMessageType resolves a BGP message type code to its CodeName.
func BGPMessageType(code uint8) CodeName { return lookup(bgpMessageTypeNames, uint32(code)) }

// Path attribute type codes (RFC 4271 and extensions).
const (
	AttrOrigin                = 1
	AttrASPath                = 2
	AttrNextHop               = 3
	AttrMultiExitDisc         = 4
	AttrLocalPref             = 5
	AttrAtomicAggregate       = 6
	AttrAggregator            = 7
	AttrCommunity             = 8
	AttrOriginatorID          = 9
	AttrClusterList           = 10
	AttrMPReachNLRI           = 14
	AttrMPUnreachNLRI         = 15
	AttrExtendedCommunities   = 16
	AttrAS4Path               = 17
	AttrAS4Aggregator         = 18
	AttrPMSITunnel            = 22
	AttrTunnelEncapsulation   = 23
	AttrTrafficEngineering    = 24
	AttrIPv6SpecificExtComm   = 25
	AttrAIGP                  = 26
	AttrPEDistinguisherLabels = 27
	AttrBGPLS                 = 29
	AttrLargeCommunity        = 32
	AttrBGPsecPath            = 33
	AttrAttrSet               = 128
)

var attrTypeNames = map[uint32]string{
	1:   "ORIGIN",
	2:   "AS_PATH",
	3:   "NEXT_HOP",
	4:   "MULTI_EXIT_DISC",
	5:   "LOCAL_PREF",
	6:   "ATOMIC_AGGREGATE",
	7:   "AGGREGATOR",
	8:   "COMMUNITY",
	9:   "ORIGINATOR_ID",
	10:  "CLUSTER_LIST",
	11:  "DPA",
	12:  "ADVERTISER",
	13:  "RCID_PATH/CLUSTER_ID",
	14:  "MP_REACH_NLRI",
	15:  "MP_UNREACH_NLRI",
	16:  "EXTENDED COMMUNITIES",
	17:  "AS4_PATH",
	18:  "AS4_AGGREGATOR",
	19:  "SAFI Specific Attribute",
	20:  "Connector Attribute",
	21:  "AS_PATHLIMIT",
	22:  "PMSI_TUNNEL",
	23:  "Tunnel Encapsulation Attribute",
	24:  "Traffic Engineering",
	25:  "IPv6 Address Specific Extended Community",
	26:  "AIGP",
	27:  "PE Distinguisher Labels",
	28:  "BGP Entropy Label Capability Attribute",
	29:  "BGP-LS Attribute",
	32:  "LARGE_COMMUNITY",
	33:  "BGPsec_Path",
	34:  "BGP Community Container Attribute",
	35:  "Only to Customer",
	36:  "BGP Domain Path",
	40:  "BGP Prefix-SID",
	128: "ATTR_SET",
}

// AttrType resolves a path attribute type code to its CodeName.
func AttrType(code uint8) CodeName { return lookup(attrTypeNames, uint32(code)) }

var originNames = map[uint32]string{
	0: "IGP",
	1: "EGP",
	2: "INCOMPLETE",
}

// Origin resolves an ORIGIN attribute value to its CodeName.
func Origin(code uint8) CodeName { return lookup(originNames, uint32(code)) }

var asPathSegNames = map[uint32]string{
	1: "AS_SET",
	2: "AS_SEQUENCE",
	3: "AS_CONFED_SEQUENCE",
	4: "AS_CONFED_SET",
}

// AS_PATH segment type codes.
const (
	ASPathSegSet            = 1
	ASPathSegSequence       = 2
	ASPathSegConfedSequence = 3
	ASPathSegConfedSet      = 4
)

// ASPathSegmentType resolves an AS_PATH segment type code to its CodeName.
func ASPathSegmentType(code uint8) CodeName { return lookup(asPathSegNames, uint32(code)) }

var bgpFSMStateNames = map[uint32]string{
	1: "Idle",
	2: "Connect",
	3: "Active",
	4: "OpenSent",
	5: "OpenConfirm",
	6: "Established",
	7: "Clearing",
	8: "Deleted",
}

// BGPFSMState resolves a BGP FSM state code (state-change records) to its CodeName.
func BGPFSMState(code uint16) CodeName { return lookup(bgpFSMStateNames, uint32(code)) }

var bgpErrorCodeNames = map[uint32]string{
	1: "Message Header Error",
	2: "OPEN Message Error",
	3: "UPDATE Message Error",
	4: "Hold Timer Expired",
	5: "Finite State Machine Error",
	6: "Cease",
	7: "ROUTE-REFRESH Message Error",
}

// BGPErrorCode resolves a NOTIFICATION error code to its CodeName.
func BGPErrorCode(code uint8) CodeName { return lookup(bgpErrorCodeNames, uint32(code)) }

var bgpHeaderErrSubcodeNames = map[uint32]string{
	1: "Connection Not Synchronized",
	2: "Bad Message Length",
	3: "Bad Message Type",
}

var bgpOpenErrSubcodeNames = map[uint32]string{
	1: "Unsupported Version Number",
	2: "Bad Peer AS",
	3: "Bad BGP Identifier",
	4: "Unsupported Optional Parameter",
	5: "[Deprecated]",
	6: "Unacceptable Hold Time",
	7: "Unsupported Capability",
	8: "Role Mismatch",
}

var bgpUpdateErrSubcodeNames = map[uint32]string{
	1:  "Malformed Attribute List",
	2:  "Unrecognized Well-known Attribute",
	3:  "Missing Well-known Attribute",
	4:  "Attribute Flags Error",
	5:  "Attribute Length Error",
	6:  "Invalid ORIGIN Attribute",
	7:  "[Deprecated]",
	8:  "Invalid NEXT_HOP Attribute",
	9:  "Optional Attribute Error",
	10: "Invalid Network Field",
	11: "Malformed AS_PATH",
}

var bgpFSMErrSubcodeNames = map[uint32]string{
	0: "Unspecified Error",
	1: "Receive Unexpected Message in OpenSent State",
	2: "Receive Unexpected Message in OpenConfirm State",
	3: "Receive Unexpected Message in Established State",
}

// BGPErrorSubcode resolves a NOTIFICATION error subcode to its CodeName,
// using the subcode table appropriate for errorCode.
func BGPErrorSubcode(errorCode uint8, subcode uint8) CodeName {
	switch errorCode {
	case 1:
		return lookup(bgpHeaderErrSubcodeNames, uint32(subcode))
	case 2:
		return lookup(bgpOpenErrSubcodeNames, uint32(subcode))
	case 3:
		return lookup(bgpUpdateErrSubcodeNames, uint32(subcode))
	case 5:
		return lookup(bgpFSMErrSubcodeNames, uint32(subcode))
	default:
		return CodeName{Code: uint32(subcode), Name: "Unknown"}
	}
}

var capabilityNames = map[uint32]string{
	1:  "Multiprotocol Extensions for BGP-4",
	2:  "Route Refresh Capability for BGP-4",
	3:  "Outbound Route Filtering Capability",
	4:  "Multiple routes to a destination capability",
	5:  "Extended Next Hop Encoding",
	6:  "BGP Extended Message",
	7:  "BGPsec Capability",
	8:  "Multiple Labels Capability",
	9:  "BGP Role",
	64: "Graceful Restart Capability",
	65: "Support for 4-octet AS number capability",
	66: "[Deprecated]",
	67: "Support for Dynamic Capability",
	68: "Multisession BGP Capability",
	69: "ADD-PATH Capability",
	70: "Enhanced Route Refresh Capability",
}

// Capability numeric codes used structurally by protocol/bgp.
const (
	CapMultiprotocol  = 1
	CapRouteRefresh   = 2
	CapORF            = 3
	CapGracefulRestart = 64
	CapAS4            = 65
	CapAddPath        = 69
)

// Capability resolves an OPEN capability code to its CodeName.
func Capability(code uint8) CodeName { return lookup(capabilityNames, uint32(code)) }
