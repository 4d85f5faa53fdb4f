// ABOUTME: Notifications emitted once per settled mutation
// ABOUTME: Presentation layers implement Notifier to show success or failure to users

package mutation

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// User-facing notification text.
const (
	TitleSuccess   = "Success"
	TitleError     = "Error"
	MsgShared      = "Your thought has been shared."
	MsgCreateError = "Failed to create message"
)

// Notification is what a user sees when a mutation settles.
type Notification struct {
	Severity Severity
	Title    string
	Message  string
}

// Notifier receives exactly one Notification per mutation.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}
