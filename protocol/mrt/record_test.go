package mrt

import (
	"encoding/binary"
	"testing"

	"github.com/csunetsec/mrtdecode/protocol/registry"
)

func header(mrtType, subtype uint16, body []byte) []byte {
	h := make([]byte, HeaderLen)
	binary.BigEndian.PutUint32(h[0:4], 1234567890)
	binary.BigEndian.PutUint16(h[4:6], mrtType)
	binary.BigEndian.PutUint16(h[6:8], subtype)
	binary.BigEndian.PutUint32(h[8:12], uint32(len(body)))
	return append(h, body...)
}

func TestDecodeRecordPeerIndexTable(t *testing.T) {
	body := []byte{1, 2, 3, 4, 0, 0, 0, 0}
	buf := header(registry.MRTTableDumpV2, registry.TDV2PeerIndexTable, body)

	rec, err := DecodeRecord(buf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if rec.Err != nil {
		t.Fatalf("unexpected record error: %s", rec.Err)
	}
	if rec.Body.PeerIndexTable == nil {
		t.Fatal("expected a peer index table body")
	}
	if rec.Body.PeerIndexTable.CollectorBGPID.String() != "1.2.3.4" {
		t.Errorf("got collector id %s", rec.Body.PeerIndexTable.CollectorBGPID)
	}
	if rec.Header.Type.Name != "TABLE_DUMP_V2" {
		t.Errorf("got type %s", rec.Header.Type.Name)
	}
}

func TestDecodeRecordTruncatedHeaderIsHeaderError(t *testing.T) {
	_, err := DecodeRecord([]byte{0, 1, 2})
	if err == nil {
		t.Fatal("expected a header error")
	}
	if _, ok := err.(*MrtHeaderError); !ok {
		t.Errorf("got %T: %s", err, err)
	}
}

func TestDecodeRecordDeclaredLengthOverflowIsHeaderError(t *testing.T) {
	h := make([]byte, HeaderLen)
	binary.BigEndian.PutUint32(h[8:12], 999)
	_, err := DecodeRecord(h)
	if err == nil {
		t.Fatal("expected a header error")
	}
	if _, ok := err.(*MrtHeaderError); !ok {
		t.Errorf("got %T: %s", err, err)
	}
}

func TestDecodeRecordMalformedBodyIsDataError(t *testing.T) {
	// A RIB_GENERIC body too short to even hold its sequence number.
	body := []byte{0, 1}
	buf := header(registry.MRTTableDumpV2, registry.TDV2RIBGeneric, body)

	rec, err := DecodeRecord(buf)
	if err != nil {
		t.Fatalf("unexpected framing error: %s", err)
	}
	if rec.Err == nil {
		t.Fatal("expected a data error")
	}
	if _, ok := rec.Err.(*MrtDataError); !ok {
		t.Errorf("got %T: %s", rec.Err, rec.Err)
	}
}

func TestDecodeRecordExtendedTimestamp(t *testing.T) {
	peerHdr := []byte{0xfd, 0xe8, 0xfd, 0xe9, 0, 0, 0, 1, 1, 2, 3, 4, 5, 6, 7, 8}
	sc := append(peerHdr, 0, 3, 0, 4) // old state 3, new state 4
	body := append([]byte{0, 0, 1, 0}, sc...)
	buf := header(registry.MRTBGP4MPET, registry.BGP4MPStateChange, body)

	rec, err := DecodeRecord(buf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if rec.Err != nil {
		t.Fatalf("unexpected record error: %s", rec.Err)
	}
	if rec.Header.MicrosecondTimestamp == nil || *rec.Header.MicrosecondTimestamp != 256 {
		t.Errorf("got microsecond timestamp %+v", rec.Header.MicrosecondTimestamp)
	}
	if rec.Body.Bgp4MpStateChange == nil {
		t.Fatal("expected a state change body")
	}
	if rec.Body.Bgp4MpStateChange.NewState.Code != 4 {
		t.Errorf("got new state %+v", rec.Body.Bgp4MpStateChange.NewState)
	}
}

func TestDecodeRecordUnsupportedTypeNamesSubtypeOnly(t *testing.T) {
	buf := header(registry.MRTOSPFv2, 0, nil)
	rec, err := DecodeRecord(buf)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if rec.Err != nil {
		t.Fatalf("unexpected record error: %s", rec.Err)
	}
	if rec.Body.TableDump != nil || rec.Body.PeerIndexTable != nil {
		t.Errorf("expected no decoded body, got %+v", rec.Body)
	}
}
