// Package preflight provides readiness checks for the filesystem paths and
// the HTTP service streamsched depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll before taking the lock; a failing directory
//     check aborts startup.
//   - The CLI "streamsched status" command uses CheckService to probe a
//     running daemon's /api/health endpoint.
package preflight
