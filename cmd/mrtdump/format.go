// Defines the output formatters mrtdump can select between, grounded on
// CSUNetSec-protoparse/cmd/gobgpdump/format.go's Formatter interface.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/csunetsec/mrtdecode/protocol/mrt"
)

// Formatter renders one decoded record for the dump file.
type Formatter interface {
	format(rec *mrt.Record) (string, error)
}

// TextFormatter prints a short human-readable line per record.
type TextFormatter struct {
	msgNum int
}

func NewTextFormatter() *TextFormatter { return &TextFormatter{} }

func (t *TextFormatter) format(rec *mrt.Record) (string, error) {
	t.msgNum++
	collector := mrt.GetCollector(rec)
	collStr := "-"
	if collector != nil {
		collStr = collector.String()
	}
	adv, _ := mrt.GetAdvertisedPrefixes(rec)
	wdn, _ := mrt.GetWithdrawnPrefixes(rec)
	return fmt.Sprintf("[%d] %s %s/%s collector=%s adv=%d wdn=%d\n",
		t.msgNum, mrt.GetTimestamp(rec).UTC().Format("2006-01-02T15:04:05Z"),
		rec.Header.Type.Name, rec.Header.SubtypeName, collStr, len(adv), len(wdn)), nil
}

// JSONFormatter marshals the full decoded record, one JSON object per line.
type JSONFormatter struct{}

func NewJSONFormatter() JSONFormatter { return JSONFormatter{} }

func (j JSONFormatter) format(rec *mrt.Record) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func newFormatter(name string) (Formatter, error) {
	switch name {
	case "json":
		return NewJSONFormatter(), nil
	case "text":
		return NewTextFormatter(), nil
	default:
		return nil, fmt.Errorf("mrtdump: unknown output format %q", name)
	}
}
