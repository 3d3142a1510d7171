// Package webview serves notebooks and agent hierarchies to a browser.
//
// # Routes
//
//   - GET /                          agent list
//   - GET /agents/{id}               hierarchy of one agent
//   - GET /notebooks/{id}            notebook page (?refresh=1 refetches)
//   - POST /notebooks/{id}/expanded  record a region toggle
//   - POST /theme                    save the theme preference
//
// # View State
//
// Notebook pages are rendered with every region present; regions in the
// saved expanded set are written open. A small script on the page posts each
// toggle back, so the expanded set is shared with the terminal viewer.
//
// # Caching
//
// Parsed notebooks are kept in a TTL cache keyed by notebook id. Agent lists
// and hierarchies are always fetched fresh.
package webview
