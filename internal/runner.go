package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/chukul/eventpush/internal/ui"
)

// State is a stage of a publishing run.
type State int

const (
	StateIdle State = iota
	StateCredentialsResolving
	StateClientReady
	StateIngesting
	StatePublishing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCredentialsResolving:
		return "credentials-resolving"
	case StateClientReady:
		return "client-ready"
	case StateIngesting:
		return "ingesting"
	case StatePublishing:
		return "publishing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Console is the interactive side of a run.
type Console interface {
	ReadLine(prompt string) (string, error)
	ReadMasked(prompt string) (string, error)
	WaitKey(prompt string) error
}

// Resolver produces the session the run publishes with.
type Resolver interface {
	Resolve(ctx context.Context, profile string, mfa TokenFunc) (*AWSSession, error)
}

// Summary is what a run ended with.
type Summary struct {
	State           State
	Total           int
	Published       int
	NotAcknowledged int
	Malformed       int
}

// Runner drives one batch: credentials, client, events, publish, report.
// Everything happens sequentially so publish order matches file order.
type Runner struct {
	Profile      string // prompted for when empty
	Console      Console
	Status       *ui.Status
	Resolver     Resolver
	NewPublisher func(*AWSSession) EventPublisher
	Events       fs.FS
	Dir          string
	NoPause      bool
	Logger       *slog.Logger
	Now          func() time.Time

	state State
	index int
}

// State returns the current stage and, while publishing, the batch index.
func (r *Runner) State() (State, int) {
	return r.state, r.index
}

// Run executes the batch. The returned error is fatal; per-event problems
// are only reported and counted.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	log := r.logger()

	profile := r.Profile
	if profile == "" {
		p, err := r.Console.ReadLine("Enter AWS profile name:")
		if err != nil {
			return r.fail(sum, err)
		}
		profile = p
	}

	r.enter(StateCredentialsResolving)
	r.Status.Step("🔐", "Looking for credentials for profile '%s'...", profile)
	session, err := r.Resolver.Resolve(ctx, profile, func() (string, error) {
		return r.Console.ReadMasked(fmt.Sprintf("Enter MFA code for '%s': ", profile))
	})
	if err != nil {
		return r.fail(sum, err)
	}
	if session == nil {
		return r.fail(sum, fmt.Errorf("%w: no session for profile '%s'", ErrProfileNotAssumable, profile))
	}
	r.Status.Success("Credentials found for %s, expires %s", describeCaller(session), FormatExpiry(session.Expiration, r.now()))

	r.Status.Step("🔌", "Creating event bridge client...")
	pub := r.NewPublisher(session)
	r.enter(StateClientReady)
	r.Status.Success("Client created (bus '%s', region %s)", EventBusName, session.Region)

	r.enter(StateIngesting)
	dir := r.Dir
	if dir == "" {
		dir = EventsDir
	}
	r.Status.Step("📂", "Getting events from directory '%s'...", dir)
	batch, err := ListEvents(r.Events, dir)
	if err != nil {
		return r.fail(sum, err)
	}
	sum.Total = len(batch)
	r.Status.Step("📦", "%d events found", len(batch))

	if len(batch) == 0 {
		r.enter(StateDone)
		r.Status.Step("📭", "No events to send - restart application to send new events")
		sum.State = StateDone
		r.pause()
		return sum, nil
	}

	r.Status.Step("🚀", "Putting events to event bridge...")
	for i, ev := range batch {
		r.enter(StatePublishing)
		r.index = i
		log.Debug("processing event", "index", i, "path", ev.Path, "bytes", len(ev.Raw))

		rec, err := DecodeEvent(ev.Path, ev.Raw)
		if err != nil {
			if !errors.Is(err, ErrMalformedEvent) {
				return r.fail(sum, err)
			}
			sum.Malformed++
			r.Status.Fail("%v", err)
			continue
		}

		outcome, err := pub.Publish(ctx, rec)
		if err != nil {
			return r.fail(sum, err)
		}
		if outcome.Acknowledged {
			sum.Published++
			log.Debug("event acknowledged", "path", rec.Path, "event_id", outcome.EventID)
			r.Status.Success("Put event with type '%s' & status '%s' from '%s'", rec.DetailType, rec.Status, rec.Path)
			continue
		}
		sum.NotAcknowledged++
		r.Status.Warn("Event bridge client received non-OK response when putting event with type '%s' & status '%s' from '%s'%s",
			rec.DetailType, rec.Status, rec.Path, describeFailure(outcome))
	}

	r.enter(StateDone)
	sum.State = StateDone
	r.Status.Success("Completed: %d published, %d not acknowledged, %d malformed", sum.Published, sum.NotAcknowledged, sum.Malformed)
	r.pause()
	return sum, nil
}

func (r *Runner) enter(s State) {
	r.logger().Debug("state change", "from", r.state, "to", s)
	r.state = s
}

func (r *Runner) fail(sum Summary, err error) (Summary, error) {
	r.logger().Debug("run failed", "state", r.state, "index", r.index, "err", err)
	r.state = StateFailed
	sum.State = StateFailed
	return sum, err
}

func (r *Runner) pause() {
	if r.NoPause {
		return
	}
	if err := r.Console.WaitKey("Press any key to exit..."); err != nil {
		r.logger().Debug("final keypress", "err", err)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func describeCaller(s *AWSSession) string {
	if s.CallerArn != "" {
		return s.CallerArn
	}
	return s.RoleArn
}

func describeFailure(o PublishOutcome) string {
	switch {
	case o.ErrorCode != "" && o.ErrorMessage != "":
		return fmt.Sprintf(" (HTTP %d, %s: %s)", o.StatusCode, o.ErrorCode, o.ErrorMessage)
	case o.ErrorCode != "":
		return fmt.Sprintf(" (HTTP %d, %s)", o.StatusCode, o.ErrorCode)
	default:
		return fmt.Sprintf(" (HTTP %d)", o.StatusCode)
	}
}
