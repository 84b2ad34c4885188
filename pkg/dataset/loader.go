package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jszwec/csvutil"
	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// rowAttributes holds the non-date columns read from every row.
type rowAttributes struct {
	StudyNumber string `csv:"study_number"`
	SiteNumber  string `csv:"study_site_number"`
	SiteNo      string `csv:"site_no"`
	SiteName    string `csv:"site_name"`
	TA          string `csv:"clintrack_ta_desc"`
	Sourcing    string `csv:"sourcing_strategy"`
	SSUS        string `csv:"ssus"`
	SiteStatus  string `csv:"site_status"`
	Leading     string `csv:"leading_site_or_not"`
}

// Load reads a CSV sheet into a Dataset. A missing required column is a
// SchemaError; unparseable cells are coerced to missing.
func Load(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	data, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	headerRow, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, SchemaError{Missing: append([]string(nil), RequiredColumns...), reason: ErrEmptyDataset}
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	header := make([]string, len(headerRow))
	for i, h := range headerRow {
		header[i] = NormalizeColumn(h)
	}
	if err := checkRequired(header); err != nil {
		return nil, err
	}

	dec, err := csvutil.NewDecoder(&paddedReader{r: cr, width: len(header)}, header...)
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	dec.Map = func(field, _ string, _ any) string {
		if IsNull(field) {
			return ""
		}
		return strings.TrimSpace(field)
	}

	dateColumns := make(map[int]string)
	for i, col := range header {
		if IsDateColumn(col) {
			dateColumns[i] = col
		}
	}

	ds := &Dataset{columns: newColumnSet(header)}
	index := make(map[string]*Study)
	for {
		var attrs rowAttributes
		if err := dec.Decode(&attrs); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding row %d: %w", ds.Rows+2, err)
		}
		record := dec.Record()
		ds.Rows++

		if attrs.StudyNumber == "" {
			continue
		}

		site := NewSite(attrs.StudyNumber, nil)
		site.SiteNumber = firstNonEmpty(attrs.SiteNumber, attrs.SiteNo)
		site.SiteName = attrs.SiteName
		site.SSUS = attrs.SSUS
		site.SiteStatus = attrs.SiteStatus
		site.Leading = strings.EqualFold(attrs.Leading, "YES")
		for i, col := range dateColumns {
			if i >= len(record) {
				continue
			}
			if t := ParseDate(record[i]); t != nil {
				site.SetDate(col, *t)
			}
		}

		st, ok := index[attrs.StudyNumber]
		if !ok {
			st = &Study{
				Number:    attrs.StudyNumber,
				TA:        attrs.TA,
				Sourcing:  attrs.Sourcing,
				CTNActual: site.Date("study_ctn_actual_date"),
				CTNPlan:   site.Date("study_ctn_plan_date"),
				columns:   ds.columns,
			}
			index[attrs.StudyNumber] = st
			ds.Studies = append(ds.Studies, st)
		}
		st.Sites = append(st.Sites, site)
	}

	logger.Log.WithFields(map[string]interface{}{
		"rows":    ds.Rows,
		"studies": len(ds.Studies),
		"columns": len(header),
	}).Info("Dataset loaded")

	return ds, nil
}

// decodeText returns UTF-8 text, falling back to GBK for sheets exported by
// Chinese-locale spreadsheet tools.
func decodeText(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, nil
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("dataset is neither UTF-8 nor GBK: %w", err)
	}
	return decoded, nil
}

// paddedReader normalises ragged rows to the header width so short lines
// decode as missing trailing cells.
type paddedReader struct {
	r     *csv.Reader
	width int
}

func (p *paddedReader) Read() ([]string, error) {
	rec, err := p.r.Read()
	if err != nil {
		return nil, err
	}
	switch {
	case len(rec) < p.width:
		padded := make([]string, p.width)
		copy(padded, rec)
		return padded, nil
	case len(rec) > p.width:
		return rec[:p.width], nil
	}
	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
