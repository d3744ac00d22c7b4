// Package mrt decodes the Multi-threaded Routing Toolkit container
// format (RFC 6396) down to a tagged-union Record tree, dispatching each
// MRT type/subtype to the appropriate body decoder. Grounded on
// CSUNetSec-protoparse's mrt.go header-then-body chaining, generalized
// from its single BGP4MP/protobuf path to the full type table.
package mrt

import (
	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

// HeaderLen is the fixed size of the MRT common header (RFC 6396 §2).
const HeaderLen = 12

// MrtHeaderError reports a malformed common header or declared-length
// mismatch: the record could not even be framed.
type MrtHeaderError struct {
	cause error
}

func (e *MrtHeaderError) Error() string { return "mrt: header error: " + e.cause.Error() }
func (e *MrtHeaderError) Unwrap() error { return e.cause }

func headerError(cause error) error { return &MrtHeaderError{cause: cause} }

// MrtDataError reports a record that framed correctly but whose body
// failed to decode (bad attribute, malformed prefix, unsupported
// combination of fields).
type MrtDataError struct {
	cause error
}

func (e *MrtDataError) Error() string { return "mrt: data error: " + e.cause.Error() }
func (e *MrtDataError) Unwrap() error { return e.cause }

func dataError(cause error) error { return &MrtDataError{cause: cause} }

// Header is the decoded 12-byte MRT common header.
type Header struct {
	Timestamp uint32            `json:"timestamp"`
	Type      registry.CodeName `json:"type"`
	Subtype   uint16            `json:"-"`
	SubtypeName string          `json:"subtype"`
	Length    uint32            `json:"length"`
	// MicrosecondTimestamp is set for _ET (extended timestamp) variants.
	MicrosecondTimestamp *uint32 `json:"microsecond_timestamp,omitempty"`
}

// Body is populated with exactly one of its fields depending on Header.
type Body struct {
	TableDump        *TableDump        `json:"table_dump,omitempty"`
	PeerIndexTable   *PeerIndexTable   `json:"peer_index_table,omitempty"`
	RibEntrySet      *RibEntrySet      `json:"rib_entry_set,omitempty"`
	Bgp4MpStateChange *Bgp4MpStateChange `json:"bgp4mp_state_change,omitempty"`
	Bgp4MpMessage    *Bgp4MpMessage    `json:"bgp4mp_message,omitempty"`
}

// Record is one fully decoded MRT record, or one whose body decode
// failed after successfully framing (Err is then set to a
// *MrtDataError and Body is the zero value).
type Record struct {
	Header Header `json:"header"`
	Body   Body   `json:"body"`
	Err    error  `json:"-"`
}

// DecodeRecord decodes exactly one MRT record occupying buf, which must
// be precisely HeaderLen+Length bytes (the caller's framing/stream
// reader is responsible for carving that region out).
func DecodeRecord(buf []byte) (*Record, error) {
	cur := wire.New(buf)
	tsV, err := cur.Num(4)
	if err != nil {
		return nil, headerError(err)
	}
	typeV, err := cur.Num(2)
	if err != nil {
		return nil, headerError(err)
	}
	subV, err := cur.Num(2)
	if err != nil {
		return nil, headerError(err)
	}
	lenV, err := cur.Num(4)
	if err != nil {
		return nil, headerError(err)
	}
	if cur.Remaining() < int(lenV) {
		return nil, headerError(errors.Errorf("declared length %d exceeds available %d bytes", lenV, cur.Remaining()))
	}
	body, err := cur.Bytes(int(lenV))
	if err != nil {
		return nil, headerError(err)
	}

	mrtType := uint16(typeV)
	subtype := uint16(subV)
	rec := &Record{Header: Header{
		Timestamp: uint32(tsV),
		Type:      registry.MRTType(mrtType),
		Subtype:   subtype,
		Length:    uint32(lenV),
	}}

	if mrtType == registry.MRTBGP4MPET || mrtType == registry.MRTOSPFv3ET {
		bc := wire.New(body)
		usecV, err := bc.Num(4)
		if err != nil {
			return nil, headerError(errors.Wrap(err, "extended timestamp"))
		}
		usec := uint32(usecV)
		rec.Header.MicrosecondTimestamp = &usec
		body = bc.Rest()
	}

	ctx := wire.NewContext()

	switch mrtType {
	case registry.MRTTableDump:
		rec.Header.SubtypeName = registry.TableDumpSubtype(subtype).Name
		td, err := decodeTableDump(body, subtype, ctx)
		if err != nil {
			rec.Err = dataError(err)
			return rec, nil
		}
		rec.Body.TableDump = td
	case registry.MRTTableDumpV2:
		rec.Header.SubtypeName = registry.TableDumpV2Subtype(subtype).Name
		ctx.SetAddPathFromSubtypeName(rec.Header.SubtypeName)
		switch subtype {
		case registry.TDV2PeerIndexTable:
			pit, err := decodePeerIndexTable(body)
			if err != nil {
				rec.Err = dataError(err)
				return rec, nil
			}
			rec.Body.PeerIndexTable = pit
		case registry.TDV2RIBGeneric, registry.TDV2RIBGenericAddPath:
			ribs, err := decodeRibGeneric(body, ctx)
			if err != nil {
				rec.Err = dataError(err)
				return rec, nil
			}
			rec.Body.RibEntrySet = ribs
		case registry.TDV2RIBIPv4Unicast, registry.TDV2RIBIPv4Multicast,
			registry.TDV2RIBIPv6Unicast, registry.TDV2RIBIPv6Multicast,
			registry.TDV2RIBIPv4UnicastAddPath, registry.TDV2RIBIPv4MulticastAddPath,
			registry.TDV2RIBIPv6UnicastAddPath, registry.TDV2RIBIPv6MulticastAddPath:
			afi, safi := afiSafiForRibSubtype(subtype)
			ctx.AFI, ctx.SAFI = afi, uint16(safi)
			ribs, err := decodeRibAfiSpecific(body, afi, safi, ctx)
			if err != nil {
				rec.Err = dataError(err)
				return rec, nil
			}
			rec.Body.RibEntrySet = ribs
		default:
			rec.Err = dataError(errors.Errorf("unsupported TABLE_DUMP_V2 subtype %d (%s)", subtype, rec.Header.SubtypeName))
		}
	case registry.MRTBGP4MP, registry.MRTBGP4MPET:
		rec.Header.SubtypeName = registry.BGP4MPSubtype(subtype).Name
		ctx.SetASWidthFromSubtypeName(rec.Header.SubtypeName)
		ctx.SetAddPathFromSubtypeName(rec.Header.SubtypeName)
		switch subtype {
		case registry.BGP4MPStateChange, registry.BGP4MPStateChangeAS4:
			sc, err := decodeBgp4MpStateChange(body, ctx)
			if err != nil {
				rec.Err = dataError(err)
				return rec, nil
			}
			rec.Body.Bgp4MpStateChange = sc
		case registry.BGP4MPMessage, registry.BGP4MPMessageAS4,
			registry.BGP4MPMessageLocal, registry.BGP4MPMessageAS4Local,
			registry.BGP4MPMessageAddPath, registry.BGP4MPMessageAS4AddPath,
			registry.BGP4MPMessageLocalAddPath, registry.BGP4MPMessageAS4LocalAddPath:
			msg, err := decodeBgp4MpMessage(body, ctx)
			if err != nil {
				rec.Err = dataError(err)
				return rec, nil
			}
			rec.Body.Bgp4MpMessage = msg
		default:
			rec.Err = dataError(errors.Errorf("unsupported BGP4MP subtype %d (%s)", subtype, rec.Header.SubtypeName))
		}
	default:
		// Deprecated/historical types (NULL..OSPFv2, ISIS, OSPFv3) are
		// named by the registry but their bodies are not decoded.
		rec.Header.SubtypeName = registry.BGPSubtype(subtype).Name
	}

	return rec, nil
}

func afiSafiForRibSubtype(subtype uint16) (uint16, uint8) {
	switch subtype {
	case registry.TDV2RIBIPv4Unicast, registry.TDV2RIBIPv4UnicastAddPath:
		return registry.AFIIPv4, registry.SAFIUnicast
	case registry.TDV2RIBIPv4Multicast, registry.TDV2RIBIPv4MulticastAddPath:
		return registry.AFIIPv4, registry.SAFIMulticast
	case registry.TDV2RIBIPv6Unicast, registry.TDV2RIBIPv6UnicastAddPath:
		return registry.AFIIPv6, registry.SAFIUnicast
	default: // RIB_IPv6_MULTICAST[_ADDPATH]
		return registry.AFIIPv6, registry.SAFIMulticast
	}
}
