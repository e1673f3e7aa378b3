package ingest

// Result is the outcome of one parse run.
type Result struct {
	// Records are the valid records in sheet order.
	Records []VideoRecord `json:"records"`

	// HeaderRow is the index of the row used as the header.
	HeaderRow int `json:"header_row"`

	// Header is the raw header row, kept for diagnostics.
	Header []string `json:"header"`

	// RowsScanned is the number of data rows below the header.
	RowsScanned int `json:"rows_scanned"`

	// Dropped is the number of data rows rejected by validation.
	Dropped int `json:"dropped"`
}

// Parser runs the ingestion pipeline with fixed options.
// The zero value is ready to use with default options.
type Parser struct {
	opts Options
}

// NewParser returns a Parser using opts; zero-value fields take defaults.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts.withDefaults()}
}

// Parse runs the pipeline with default options.
func Parse(text string) Result {
	return NewParser(DefaultOptions()).Parse(text)
}

// Parse tokenizes text, locates the header, builds one record per data row
// and keeps the valid ones. Empty input yields an empty Result.
func (p *Parser) Parse(text string) Result {
	opts := p.opts.withDefaults()

	rows := Tokenize(text)
	if len(rows) == 0 {
		return Result{Records: []VideoRecord{}}
	}

	headerIdx := LocateHeader(rows, opts)
	header := rows[headerIdx]
	cols := resolveColumns(NewHeaderMap(header))

	dataRows := rows[headerIdx+1:]
	records := make([]VideoRecord, 0, len(dataRows))
	for _, row := range dataRows {
		rec := buildRecord(row, &cols)
		if rec.Valid() {
			records = append(records, rec)
		}
	}

	return Result{
		Records:     records,
		HeaderRow:   headerIdx,
		Header:      append([]string(nil), header...),
		RowsScanned: len(dataRows),
		Dropped:     len(dataRows) - len(records),
	}
}
