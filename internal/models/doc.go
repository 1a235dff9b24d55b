// Package models defines domain entities for the decades playlist analyzer.
//
// The package contains two categories of types:
//
// 1. Request-scoped catalog data, constructed from Spotify responses and
// discarded after one analysis session:
//   - [Track] : a playable track with its derived release year
//   - [PlaylistMeta] : a snapshot of playlist metadata
//   - [YearStats] : per-year count and track membership
//   - [PlaylistData] : the full aggregated result of one fetch
//
// 2. Persistent auth entities, the only state decades writes to disk:
//   - [User] : a Spotify account seen at login
//   - [Session] : a browser/CLI session holding delegated tokens
//
// Persistent entities implement the [Model] interface providing ID handling,
// timestamps, and validation. [Repository] defines their data access surface.
package models
