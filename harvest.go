// Package harvest provides a Go client library for the Harvest web-data
// collection API. It triggers asynchronous collection jobs (site unlocking,
// SERP queries, dataset snapshots, site crawls), polls them until results
// are ready, and downloads the collected payloads.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., resty/, sqlite/, gemini/) or their
// concern (e.g., scrape/, export/).
package harvest
