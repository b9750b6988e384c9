package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const maxLineSize = 1024 * 1024

// Stats counts what Scan did with each line.
type Stats struct {
	Records int
	Skipped int
	Invalid int
}

// Scan parses every line of r and hands records to fn in file order.
// Malformed lines are counted and skipped; an error from fn stops the scan.
func Scan(r io.Reader, filetype string, fn func(Record) error) (Stats, error) {
	var stats Stats
	if !Supported(filetype) {
		return stats, fmt.Errorf("%w: %q", ErrUnknownFiletype, filetype)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		rec, ok, err := Parse(filetype, scanner.Text())
		switch {
		case errors.Is(err, ErrMalformedLine):
			stats.Invalid++
			continue
		case err != nil:
			return stats, err
		case !ok:
			stats.Skipped++
			continue
		}

		if err := fn(rec); err != nil {
			return stats, err
		}
		stats.Records++
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read genotype file: %w", err)
	}
	return stats, nil
}
