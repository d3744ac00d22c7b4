package main

import (
	"fmt"

	"github.com/csunetsec/mrtdecode/filter"
	"github.com/csunetsec/mrtdecode/internal/config"
)

// buildFilters translates the loaded FilterConfig into the filter.Filter
// chain the scanner applies to every decoded record.
func buildFilters(c config.FilterConfig) ([]filter.Filter, error) {
	var loc filter.PrefixLocation
	switch c.PrefixLocation {
	case "adv":
		loc = filter.AdvPrefix
	case "wdr":
		loc = filter.WdrPrefix
	default:
		loc = filter.AnyPrefix
	}

	var filters []filter.Filter
	if len(c.Prefixes) > 0 {
		f, err := filter.NewPrefixFilterFromSlice(c.Prefixes, loc)
		if err != nil {
			return nil, fmt.Errorf("mrtdump: building prefix filter: %w", err)
		}
		filters = append(filters, f)
	}
	if c.SourceASes != "" {
		f, err := filter.NewASFilter(c.SourceASes, filter.ASSource)
		if err != nil {
			return nil, fmt.Errorf("mrtdump: building source AS filter: %w", err)
		}
		filters = append(filters, f)
	}
	if c.DestASes != "" {
		f, err := filter.NewASFilter(c.DestASes, filter.ASDestination)
		if err != nil {
			return nil, fmt.Errorf("mrtdump: building destination AS filter: %w", err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}
