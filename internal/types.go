package internal

import "time"

const (
	// EventBusName is the bus every event is put on.
	EventBusName = "marketplace-event-bus"
	// EventSource tags every published event.
	EventSource = "EVENT-BRIDGE-PUBLISHER-TOOL"
	// Region hosts both STS and the event bus.
	Region = "eu-west-1"
	// EventsDir is read relative to the working directory.
	EventsDir = "events"
)

// AWSSession is the role-assumed credential set used for the whole run.
// It is never persisted and never refreshed.
type AWSSession struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Expiration   time.Time

	Profile       string
	RoleArn       string
	SourceProfile string
	MfaArn        string
	Region        string
	CallerArn     string // from sts:GetCallerIdentity
	Account       string
}

// EventFile is one raw event document as read from disk.
type EventFile struct {
	Path string
	Raw  string
}

// EventRecord is an event file with its routing and reporting fields extracted.
type EventRecord struct {
	Path       string
	DetailType string
	Status     string
	Raw        string
}

// Payload returns the body sent to the bus: the original text, untouched.
func (r EventRecord) Payload() string {
	return r.Raw
}

// PublishOutcome is the bus acknowledgment for a single event.
type PublishOutcome struct {
	Record       EventRecord
	Acknowledged bool
	StatusCode   int
	EventID      string
	ErrorCode    string
	ErrorMessage string
}
