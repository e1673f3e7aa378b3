// Package source fetches the published video sheet as CSV text.
//
// Two fetchers are provided: [HTTPFetcher] for the live export URL and
// [FileFetcher] for local exports used by the CLI. Both return text that has
// been through [ReadBody], so callers never see byte-order marks or invalid
// UTF-8.
package source
