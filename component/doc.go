// Package component defines lifecycle-managed pieces of a callbridge
// process and a Registry that starts them in order and stops them in
// reverse.
//
// The HTTP client (adapter plus dispatcher) is the main Component; the CLI
// registers it, starts it before fetching and stops it on exit so in-flight
// calls drain.
package component
