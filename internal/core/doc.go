// Package core orchestrates sheet refreshes for the video dashboard.
//
// This package owns the current [Snapshot] and every policy the ingestion
// pipeline deliberately leaves to its caller: when to fetch, what to do with
// an empty result, where to persist it. It is transport independent and is
// used by both the HTTP server and the CLI.
//
// # Refresh
//
// A refresh runs fetch, [ingest.Parse] and persistence in sequence:
//
//  1. The [source.Fetcher] downloads the sheet text
//  2. The text is parsed into filtered video records
//  3. A parse with zero records fails with [ErrNoRecords]; the previous
//     snapshot stays in place
//  4. Otherwise the snapshot is replaced and the run saved to the [store.Store]
//
// Concurrent calls to [Service.Refresh] share one in-flight refresh.
// Every attempt, failed or not, is recorded in run history.
//
// # Scheduling
//
// [Service.StartRefreshScheduler] refreshes immediately and then on a fixed
// interval until its context is cancelled.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each category has a code prefix for support reference:
//
//   - SRC: fetching the sheet (status, redirects, size, network)
//   - ING: ingest results (empty sheet, no snapshot yet)
//   - STO: run history persistence
//   - RATE: throttling and busy limits
//   - REQ: cancelled or timed out requests
package core
