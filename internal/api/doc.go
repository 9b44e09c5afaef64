// Package api is the HTTP surface of the streamsched daemon.
//
// # Routes
//
// /api/config: GET returns the configuration document (defaults when none is
// stored); POST validates and overwrites it wholesale and reports
// {success, message}.
//
// /api/health: liveness with uptime.
//
// /api/slots: collection reads and slot mutations. Mutations go through
// schedule.Store, so every change persists the full snapshot and re-renders
// the mounted display containers.
//
// /api/display/{key}: the read-only panel view model for one collection.
//
// /overlay and /ws: a browser source page showing the mounted containers and
// a websocket that pushes {type:"DISPLAY", data:panel} when a panel changes.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Errors are {"error": message}. CORS is open
// for browser sources; the per-IP rate limit and bearer token are optional and
// come from the application config.
package api
