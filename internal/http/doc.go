// Package http provides optional HTTP adapters for generated pages.
//
// The public API serves a page's JSON-LD at its route:
//   - /{country}/{state}/{city}/{business}
//   - /{country}/{state}/{city}/{business}/{variant}
//
// Admin routes mount under /admin/api:
//   - Pages: /pages/{id}, /pages/{id}/extend, /pages/{id}/reactivate, /pages/{id}/expire
//   - Batches: /batches/{id}, /batches/{id}/publish
//
// Admin writes are dispatched through the command handlers so they share
// validation, timeouts and logging with the CLI and cron surfaces. Host
// applications can register handlers on their own mux/router as needed.
package http
