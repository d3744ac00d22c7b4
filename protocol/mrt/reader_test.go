package mrt

import (
	"bytes"
	"io"
	"testing"

	"github.com/csunetsec/mrtdecode/protocol/registry"
)

func TestReaderDecodesMultipleRecords(t *testing.T) {
	rec1 := header(registry.MRTTableDumpV2, registry.TDV2PeerIndexTable, []byte{1, 2, 3, 4, 0, 0, 0, 0})
	rec2 := header(registry.MRTOSPFv2, 0, nil)

	var buf bytes.Buffer
	buf.Write(rec1)
	buf.Write(rec2)

	r := NewReader(&buf)
	recs, err := All(r)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Body.PeerIndexTable == nil {
		t.Errorf("expected first record to be a peer index table")
	}
}

func TestReaderSurfacesTruncatedTrailingRecordAsScanError(t *testing.T) {
	full := header(registry.MRTTableDumpV2, registry.TDV2PeerIndexTable, []byte{1, 2, 3, 4, 0, 0, 0, 0})
	truncated := full[:HeaderLen+2]

	r := NewReader(bytes.NewReader(truncated))
	_, err := r.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("expected a framing error, got %v", err)
	}
}

func TestReaderNextReturnsEOFAtEnd(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_, err := r.Next()
	if err != io.EOF {
		t.Errorf("got %v", err)
	}
}
