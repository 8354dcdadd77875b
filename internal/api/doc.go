// Package api provides the read-only HTTP status API.
//
// The API reports the declared ruleset, the running firewall and the
// snapshot inventory. It never changes the firewall: applying a ruleset
// requires the confirmation prompt of the apply command, which only works
// on an interactive terminal on the host.
//
// Endpoints:
//   - GET /api/status          - declared vs. running ruleset, snapshot inventory
//   - GET /api/ruleset/preview - compiled iptables-restore program (text/plain)
//   - GET /api/ruleset/live    - running ruleset as reported by iptables (text/plain)
//   - GET /api/ruleset/diff    - unified diff between declared and running markers
//   - GET /api/snapshots       - snapshots on disk, newest first
//   - GET /metrics             - Prometheus metrics
//   - GET /health              - liveness probe
//
// # Response Format
//
// All successful JSON responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "error_code",
//	    "message": "Human-readable error message"
//	  }
//	}
//
// # Access Control
//
// Requests are only accepted from private subnets, based on the TCP peer
// address. Forwarding headers are ignored.
package api
