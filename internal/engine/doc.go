// Package engine drives the safe-apply state machine.
//
// One apply attempt is a Session moving through:
//
//	Idle -> Compiled -> BackedUp -> Applied -> Validated -> Confirmed
//
// Every step can divert:
//
//   - Compile errors and rulesets without a tcp/22 accept rule are refused
//     before the first controller call; the firewall is untouched.
//   - A failed backup is terminal; apply never ran, so there is nothing to
//     roll back.
//   - A failed apply or validation restores the pre-apply snapshot.
//   - After validation the operator gets a confirmation window. Anything
//     but a confirmed answer (declined, timed out, interrupted) restores
//     the snapshot. The timeout is the dead-man's switch: an operator who
//     locked themselves out cannot answer, and the rollback brings their
//     session back.
//
// The snapshot is restored at most once per session. A restore failure ends
// the session with ROLLBACK_FAILED regardless of what triggered the restore;
// the firewall is then in an unknown state and the journal says so.
package engine
