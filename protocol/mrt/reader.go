package mrt

import (
	"bufio"
	"compress/bzip2"
	"encoding/binary"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// maxRecordSize bounds a single MRT record's on-wire size so a
// corrupt length field cannot make the scanner buffer unboundedly;
// the largest legitimate records (full-table RIB dumps) stay well
// under this.
const maxRecordSize = 64 << 20

// SplitFunc is a bufio.SplitFunc that frames one MRT record (header plus
// declared-length body) at a time, grounded on
// CSUNetSec-protoparse/protocol/mrt.go's SplitMrt.
func SplitFunc(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if len(data) < HeaderLen {
		if atEOF {
			return 0, nil, errors.New("mrt: truncated header at end of stream")
		}
		return 0, nil, nil
	}
	totlen := int(binary.BigEndian.Uint32(data[8:12])) + HeaderLen
	if totlen > maxRecordSize {
		return 0, nil, errors.Errorf("mrt: declared record length %d exceeds maximum %d", totlen, maxRecordSize)
	}
	if len(data) < totlen {
		if atEOF {
			return 0, nil, errors.New("mrt: truncated record at end of stream")
		}
		return 0, nil, nil
	}
	return totlen, data[:totlen], nil
}

// Reader decodes a stream of MRT records, one per Next call. Unlike a
// raw bufio.Scanner over SplitFunc, it does not abort the whole stream
// when a single record's body fails to decode (see DecodeRecord's
// MrtDataError handling). A record that fails even to frame ends the
// stream: Next returns the framing error and no later record is read.
type Reader struct {
	sc *bufio.Scanner
}

// NewReader wraps r, scanning it for framed MRT records.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Split(SplitFunc)
	buf := make([]byte, 0, 64<<10)
	sc.Buffer(buf, maxRecordSize)
	return &Reader{sc: sc}
}

// Open opens path, sniffing its leading magic bytes for gzip (1f 8b) or
// bzip2 ("BZh") compression, and returns a Reader over the decompressed
// stream plus the underlying file so the caller can Close it.
func Open(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open")
	}
	br := bufio.NewReader(f)
	var rd io.Reader = br
	magic, _ := br.Peek(3)
	switch {
	case len(magic) >= 3 && magic[0] == 0x42 && magic[1] == 0x5a && magic[2] == 0x68:
		rd = bzip2.NewReader(br)
	case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, errors.Wrap(err, "gzip header")
		}
		rd = gz
	}
	return NewReader(rd), f, nil
}

// Next returns the next decoded record. It returns io.EOF once the
// stream is exhausted. A record whose body failed to decode is still
// returned (with Record.Err set); only a framing failure (a record
// that can't even be delimited) is returned as an error here.
func (r *Reader) Next() (*Record, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		return nil, io.EOF
	}
	return DecodeRecord(r.sc.Bytes())
}

// All drains the reader, returning every decoded record. Intended for
// tests and small files; streaming callers should use Next directly.
func All(r *Reader) ([]*Record, error) {
	var out []*Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
