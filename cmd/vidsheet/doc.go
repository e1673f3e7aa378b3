// Command vidsheet is the operator CLI for the video sheet service.
//
// It parses local exports, fetches the published sheet once, and lists
// refresh runs from the configured store. Record output goes to stdout and
// logs go to stderr so output can be piped.
package main
