// Package parser turns lines of raw genotype exports into SNP records.
//
// Every supported filetype is reduced to the same four columns: SNP name,
// chromosome, position and allele. Lines are lowercased before splitting, so
// names come out lowercase while chromosome and allele are uppercased.
package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"snpr/pkg/model"
)

var (
	ErrUnknownFiletype = errors.New("unknown filetype")
	ErrMalformedLine   = errors.New("malformed line")
)

type Record struct {
	SNPName    string
	Chromosome string
	Position   string
	Allele     string
}

// format returns the name, chromosome, position and allele columns of a
// lowercased line, or ok=false for header rows.
type format func(line string) (cols [4]string, ok bool, err error)

var formats = map[model.Filetype]format{
	model.Filetype23andMe:    parse23andMe,
	model.FiletypeAncestry:   parseAncestry,
	model.FiletypeDecodeMe:   parseDecodeMe,
	model.FiletypeFTDNA:      parseFTDNA,
	model.Filetype23andMeVCF: parseVCF,
	model.FiletypeIYG:        parseIYG,
}

// mtRSIDs maps IYG mitochondrial marker names to their dbSNP ids.
var mtRSIDs = map[string]string{
	"mt-t3027c":  "rs199838004",
	"mt-t4336c":  "rs41456348",
	"mt-g4580a":  "rs28357975",
	"mt-t5004c":  "rs41419549",
	"mt-c5178a":  "rs28357984",
	"mt-a5390g":  "rs41333444",
	"mt-c6371t":  "rs41366755",
	"mt-g8697a":  "rs28358886",
	"mt-g9477a":  "rs2853825",
	"mt-g10310a": "rs41467651",
	"mt-a10550g": "rs28358280",
	"mt-c10873t": "rs2857284",
	"mt-c11332t": "rs55714831",
	"mt-a11947g": "rs28359168",
	"mt-a12308g": "rs2853498",
	"mt-a12612g": "rs28359172",
	"mt-t14318c": "rs28357675",
	"mt-t14766c": "rs3135031",
	"mt-t14783c": "rs28357680",
}

func Supported(filetype string) bool {
	_, ok := formats[filetype]
	return ok
}

// Parse maps one line of a filetype's export to a Record. Comments, blank
// lines and header rows return ok=false. Rows with too few columns return an
// error wrapping ErrMalformedLine.
func Parse(filetype, line string) (Record, bool, error) {
	parse, ok := formats[filetype]
	if !ok {
		return Record{}, false, fmt.Errorf("%w: %q", ErrUnknownFiletype, filetype)
	}

	line = strings.TrimRight(line, "\r\n")
	if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
		return Record{}, false, nil
	}

	cols, ok, err := parse(strings.ToLower(line))
	if err != nil || !ok {
		return Record{}, false, err
	}

	return Record{
		SNPName:    cols[0],
		Chromosome: strings.ToUpper(cols[1]),
		Position:   cols[2],
		Allele:     strings.ToUpper(cols[3]),
	}, true, nil
}

func split(line, sep string, want int) ([]string, error) {
	cols := strings.Split(line, sep)
	if len(cols) < want {
		return nil, fmt.Errorf("%w: want %d columns, got %d", ErrMalformedLine, want, len(cols))
	}
	return cols, nil
}

func parse23andMe(line string) ([4]string, bool, error) {
	cols, err := split(line, "\t", 4)
	if err != nil {
		return [4]string{}, false, err
	}
	return [4]string{cols[0], cols[1], cols[2], cols[3]}, true, nil
}

func parseAncestry(line string) ([4]string, bool, error) {
	if strings.HasPrefix(line, "rsid\t") {
		return [4]string{}, false, nil
	}
	cols, err := split(line, "\t", 5)
	if err != nil {
		return [4]string{}, false, err
	}
	return [4]string{cols[0], cols[1], cols[2], cols[3] + cols[4]}, true, nil
}

func parseDecodeMe(line string) ([4]string, bool, error) {
	if strings.HasPrefix(line, "name,") {
		return [4]string{}, false, nil
	}
	cols, err := split(line, ",", 6)
	if err != nil {
		return [4]string{}, false, err
	}
	return [4]string{cols[0], cols[2], cols[3], cols[5]}, true, nil
}

// FTDNA exports quote every field but otherwise match the 23andMe layout.
func parseFTDNA(line string) ([4]string, bool, error) {
	line = strings.ReplaceAll(line, `"`, "")
	if strings.HasPrefix(line, "rsid,") {
		return [4]string{}, false, nil
	}
	cols, err := split(line, ",", 4)
	if err != nil {
		return [4]string{}, false, err
	}
	return [4]string{cols[0], cols[1], cols[2], cols[3]}, true, nil
}

// parseVCF reads the first sample column. GT indexes 0 and 1 resolve to REF
// and ALT; other indexes (no-calls, multi-allelic) contribute nothing.
func parseVCF(line string) ([4]string, bool, error) {
	cols, err := split(line, "\t", 10)
	if err != nil {
		return [4]string{}, false, err
	}

	gt := slices.Index(strings.Split(cols[8], ":"), "gt")
	if gt < 0 {
		return [4]string{}, false, fmt.Errorf("%w: no GT in FORMAT %q", ErrMalformedLine, cols[8])
	}
	sample := strings.Split(cols[9], ":")
	if gt >= len(sample) {
		return [4]string{}, false, fmt.Errorf("%w: sample %q has no GT", ErrMalformedLine, cols[9])
	}

	var genotype strings.Builder
	for _, allele := range strings.FieldsFunc(sample[gt], func(r rune) bool { return r == '/' || r == '|' }) {
		switch allele {
		case "0":
			genotype.WriteString(cols[3])
		case "1":
			genotype.WriteString(cols[4])
		}
	}

	return [4]string{cols[2], cols[0], cols[1], genotype.String()}, true, nil
}

// IYG files carry no coordinates. Mitochondrial markers get chromosome MT and
// the position embedded in their name; everything else is filed under 1:1.
func parseIYG(line string) ([4]string, bool, error) {
	cols, err := split(line, "\t", 2)
	if err != nil {
		return [4]string{}, false, err
	}

	name := cols[0]
	if !strings.HasPrefix(name, "mt") {
		return [4]string{name, "1", "1", cols[1]}, true, nil
	}

	position := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
	if rsid, ok := mtRSIDs[name]; ok {
		name = rsid
	}
	return [4]string{name, "mt", position, cols[1]}, true, nil
}
