// Package ingest turns a spreadsheet export into typed video records.
//
// The source is a human-edited sheet published as CSV, so nothing about its
// shape can be trusted: fields may be quoted and span lines, columns may be
// renamed, reordered or missing, numbers carry thousands separators and unit
// suffixes, and banner rows may sit above the real header. The package is
// fail-soft throughout. No function here returns an error; anomalies degrade
// to empty strings and zero values instead.
//
// # Pipeline
//
// [Parse] runs every stage in order over one in-memory text blob:
//
//  1. [Tokenize] splits the text into rows of raw fields in a single scan.
//  2. [LocateHeader] picks the header row from the first rows of the sheet.
//  3. [NewHeaderMap] indexes the header by normalized column name.
//  4. [BuildRecord] produces one [VideoRecord] per data row.
//  5. [VideoRecord.Valid] drops rows that cannot be displayed.
//
// Each call owns all of its intermediate state, so concurrent calls are safe.
// Parsing cannot be cancelled once started; callers cancel at the fetch layer.
package ingest
