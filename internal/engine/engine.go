package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/errors"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/journal"
	"github.com/fwguard/fwguard/internal/snapshot"
)

// DefaultConfirmTimeout is used when Options leaves the window unset.
const DefaultConfirmTimeout = 60 * time.Second

// Phase is where a session currently stands (or where it ended).
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseCompiled   Phase = "compiled"
	PhaseBackedUp   Phase = "backed_up"
	PhaseApplied    Phase = "applied"
	PhaseValidated  Phase = "validated"
	PhaseConfirmed  Phase = "confirmed"
	PhaseRolledBack Phase = "rolled_back"
	PhaseFailed     Phase = "failed"
)

// Session is the record of one apply attempt.
type Session struct {
	// ID tags every journal line of this attempt.
	ID string
	// StartedAt is when the attempt began (UTC).
	StartedAt time.Time
	// Phase is the terminal phase once Run returns.
	Phase Phase
	// Program is the compiled ruleset, set from the compile step on.
	Program *firewall.Program
	// Snapshot is the pre-apply backup, set from the backup step on.
	Snapshot *snapshot.Snapshot
	// Decision is the gate's answer. Empty when the gate never ran
	// (failed earlier, or confirmation was skipped).
	Decision Decision
	// Err is the terminal failure. Nil when the session ended cleanly:
	// confirmed, or rolled back on the operator's decision.
	Err error
}

// Options tunes one apply attempt.
type Options struct {
	// ConfirmTimeout is the post-apply confirmation window
	// (default: DefaultConfirmTimeout).
	ConfirmTimeout time.Duration
	// SkipConfirmation keeps the new ruleset without asking. The engine
	// journals a warning: with no confirmation there is no dead-man's
	// switch, a bad ruleset stays applied.
	SkipConfirmation bool
}

// Engine drives an apply attempt through compile, backup, apply, validate
// and confirm, rolling back to the pre-apply snapshot on every path that
// does not end in a confirmation.
type Engine struct {
	ctl   firewall.Controller
	store *snapshot.Store
	gate  Gate
	jnl   *journal.Journal
	clk   clock.Clock
}

func New(ctl firewall.Controller, store *snapshot.Store, gate Gate, jnl *journal.Journal, clk clock.Clock) *Engine {
	return &Engine{
		ctl:   ctl,
		store: store,
		gate:  gate,
		jnl:   jnl,
		clk:   clk,
	}
}

// Preview compiles the declared ruleset and checks the admin access
// precondition without touching the firewall. Used by the preview command
// and the status API.
func Preview(clk clock.Clock, policies firewall.PolicySet, rules []*firewall.Rule) (*Session, error) {
	session := newSession(clk)
	if err := compileInto(session, policies, rules); err != nil {
		return session, err
	}
	return session, nil
}

// Run applies the declared ruleset. The returned session always reports what
// happened; the returned error is non-nil only when something failed (a
// rollback on the operator's decision is a clean outcome).
//
// The pre-apply snapshot is restored at most once per session. If that
// restore itself fails the session ends with ROLLBACK_FAILED, which outranks
// the failure that triggered the restore: the firewall is now in an unknown
// state and needs manual intervention.
func (e *Engine) Run(ctx context.Context, policies firewall.PolicySet, rules []*firewall.Rule, opts Options) (*Session, error) {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = DefaultConfirmTimeout
	}

	session := newSession(e.clk)
	e.jnl.Infof("Session %s: applying %d rule(s)", session.ID, len(rules))

	// Compile and refuse lockouts. No controller call has happened yet, so
	// a refusal here leaves the firewall untouched.
	if err := compileInto(session, policies, rules); err != nil {
		e.jnl.Errorf("Session %s: %v", session.ID, err)
		return session, err
	}
	e.jnl.Infof("Session %s: compiled %d statement(s), admin access on tcp/22 verified",
		session.ID, session.Program.NumStatements())

	// Backup. Failure is terminal but requires no rollback: apply has not
	// run.
	snap, err := e.store.Capture(e.ctl)
	if err != nil {
		return e.fail(session, err)
	}
	session.Snapshot = snap
	session.Phase = PhaseBackedUp
	e.jnl.Infof("Session %s: backup saved: %s", session.ID, snap.Path)

	// Apply.
	if err := e.ctl.Apply(session.Program.Text()); err != nil {
		applyErr := errors.NewApplyFailedError("iptables-restore rejected the compiled ruleset", err)
		e.jnl.Errorf("Session %s: apply failed: %v. Restoring backup...", session.ID, err)
		return e.rollback(session, applyErr, PhaseFailed)
	}
	session.Phase = PhaseApplied
	e.jnl.Infof("Session %s: new ruleset applied", session.ID)

	// Validate the live ruleset against what was declared.
	live, err := e.ctl.CurrentRules()
	if err != nil {
		valErr := errors.NewValidationFailedError("could not read back the live ruleset", err)
		e.jnl.Errorf("Session %s: %v. Rolling back immediately...", session.ID, valErr)
		return e.rollback(session, valErr, PhaseRolledBack)
	}
	if err := firewall.ValidateLive(live, policies, rules); err != nil {
		e.jnl.Errorf("Session %s: %v. Rolling back immediately...", session.ID, err)
		return e.rollback(session, err, PhaseRolledBack)
	}
	session.Phase = PhaseValidated
	e.jnl.Infof("Session %s: live ruleset matches the declared one", session.ID)

	// Confirm or roll back.
	if opts.SkipConfirmation {
		e.jnl.Warnf("Session %s: confirmation skipped: keeping the new ruleset without a safety window", session.ID)
		session.Phase = PhaseConfirmed
		return session, nil
	}

	e.jnl.Infof("Session %s: waiting %s for confirmation (auto-rollback on timeout)", session.ID, opts.ConfirmTimeout)
	session.Decision = e.gate.Await(ctx, opts.ConfirmTimeout)

	switch session.Decision {
	case DecisionConfirmed:
		session.Phase = PhaseConfirmed
		e.jnl.Infof("Session %s: confirmed, keeping the new ruleset", session.ID)
		return session, nil
	case DecisionTimedOut:
		e.jnl.Warnf("Session %s: no confirmation within %s, rolling back...", session.ID, opts.ConfirmTimeout)
	case DecisionInterrupted:
		e.jnl.Warnf("Session %s: interrupted, rolling back...", session.ID)
	default:
		e.jnl.Warnf("Session %s: not confirmed, rolling back...", session.ID)
	}

	return e.rollback(session, nil, PhaseRolledBack)
}

func newSession(clk clock.Clock) *Session {
	return &Session{
		ID:        uuid.New().String(),
		StartedAt: clk.Now().UTC(),
		Phase:     PhaseIdle,
	}
}

// compileInto runs the compile step and the admin access precondition on a
// fresh session. On error the session is terminal and no controller call has
// been made.
func compileInto(session *Session, policies firewall.PolicySet, rules []*firewall.Rule) error {
	program, err := firewall.Compile(policies, rules)
	if err != nil {
		session.Phase = PhaseFailed
		session.Err = err
		return err
	}
	session.Program = program
	session.Phase = PhaseCompiled

	if !program.HasAdminAccess() {
		err := errors.NewPolicyRefusedError("ruleset has no tcp/22 accept rule and would cut off remote management")
		session.Phase = PhaseFailed
		session.Err = err
		return err
	}
	return nil
}

// fail marks the session terminal without attempting a rollback.
func (e *Engine) fail(session *Session, err error) (*Session, error) {
	e.jnl.Errorf("Session %s: %v", session.ID, err)
	session.Phase = PhaseFailed
	session.Err = err
	return session, err
}

// rollback restores the pre-apply snapshot exactly once. cause is the
// failure that triggered the rollback (nil when the operator decided);
// endPhase is the session phase when the restore succeeds.
func (e *Engine) rollback(session *Session, cause error, endPhase Phase) (*Session, error) {
	if err := e.store.Restore(e.ctl, session.Snapshot); err != nil {
		e.jnl.Errorf("Session %s: ROLLBACK FAILED, firewall state unknown, manual intervention required: %v", session.ID, err)
		session.Phase = PhaseFailed
		session.Err = err
		return session, err
	}
	e.jnl.Infof("Session %s: rollback complete, previous ruleset restored from %s", session.ID, session.Snapshot.Name)
	session.Phase = endPhase
	session.Err = cause
	return session, cause
}
