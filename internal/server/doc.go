// Package server implements the site's HTTP surface.
//
// Owns:
//   - Request classification (static asset, API call, page) and dispatch
//   - The login cookie to UserContext resolution
//   - The API and page tables, and the handlers behind them
//   - Storage of users, tokens and services (Store implementations)
//
// Does not own:
//   - Configuration loading and wire types (internal/shared)
//   - The embedded templates and public files (web)
//
// Invariants:
//   - Every request gets exactly one response, even on handler panic or deadline
//   - API failures are JSON {"error": ...}; unknown API routes are 404, unserved methods 405
//   - Route tables are fixed once NewDispatcher returns
//   - Pages never refuse anonymous visitors; API mutations check UserContext.IsLoggedIn
package server
