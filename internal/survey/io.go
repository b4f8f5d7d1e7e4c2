package survey

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Read decodes raw survey rows. The header must carry the ten survey
// columns; extra columns are ignored.
func Read(r io.Reader) ([]Record, error) {
	return decodeAll[Record](r)
}

// ReadLabeled decodes the labeler's output table.
func ReadLabeled(r io.Reader) ([]Labeled, error) {
	return decodeAll[Labeled](r)
}

func decodeAll[T any](r io.Reader) ([]T, error) {
	// Spreadsheet exports often lead with a byte order mark.
	r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("survey: input has no header row")
		}
		return nil, eris.Wrap(err, "survey: read header")
	}
	dec.DisallowMissingColumns = true

	var out []T
	for {
		var rec T
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "survey: decode line %d", len(out)+2)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Write encodes labeled rows: the ten survey columns, then diet_sex_group
// and outliers. The header is written even when recs is empty.
func Write(w io.Writer, recs []Labeled) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(Labeled{}); err != nil {
		return eris.Wrap(err, "survey: write header")
	}
	for i := range recs {
		if err := enc.Encode(recs[i]); err != nil {
			return eris.Wrapf(err, "survey: encode row %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "survey: flush")
	}
	return nil
}

// Strip drops the derived columns, returning the raw records.
func Strip(recs []Labeled) []Record {
	out := make([]Record, len(recs))
	for i := range recs {
		out[i] = recs[i].Record
	}
	return out
}
