// Package scanner implements the website security-header scan.
//
// Architecture overview:
//
//   - ValidateURL gates every scan; rejected input never reaches the network.
//   - Prober issues the single probe request (GET by default, HEAD optional)
//     and, when enabled, the secondary robots.txt fetch. Failures come back
//     as wrapped errors with ErrProbeFailed, never as partial results.
//   - Evaluate is a pure function from (target, response headers, robots
//     outcome) to a Report. It walks a fixed checklist in order and threads a
//     local tally through it, so repeated scans of an unchanged site give the
//     same Report.
//   - Scanner ties the three together under one timeout budget and is what
//     the API server and the CLI call.
//
// Checklist order: HTTPS, content-security-policy, x-frame-options,
// x-content-type-options, referrer-policy, permissions-policy, Server header
// exposure, then robots.txt. The score is the rounded percentage of passed
// checks over 8, or over 7 when the robots.txt check is disabled.
package scanner
