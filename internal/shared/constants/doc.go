// Package constants centralizes defaults shared by the scanner, the API
// server and the CLI.
//
// Keeping the listen port, probe timeouts, body limits and the fixed
// client-facing messages in one place prevents magic numbers from scattering
// across cmd/ and internal/ without introducing import cycles.
package constants
