package webview

import "strings"

// MessageKind enumerates the bridge message channel between the embedded
// page and the shell
type MessageKind int

const (
	MessageUnknown MessageKind = iota
	// MessageLogout is sent by the web app to drive local sign-out
	MessageLogout
	// MessageTokenSet is posted by the bootstrap script on successful seeding
	MessageTokenSet
	// MessageTokenError is posted by the bootstrap script on failure,
	// followed by a reason
	MessageTokenError
)

const (
	logoutLiteral     = "LOGOUT"
	tokenSetLiteral   = "TOKEN_SET"
	tokenErrorLiteral = "TOKEN_ERROR: "
)

// Message is a parsed bridge message
type Message struct {
	Kind   MessageKind
	Detail string
}

// ParseMessage maps the raw wire literals onto message kinds. The wire
// format is fixed by the web app and the bootstrap script.
func ParseMessage(raw string) Message {
	switch {
	case raw == logoutLiteral:
		return Message{Kind: MessageLogout}
	case raw == tokenSetLiteral:
		return Message{Kind: MessageTokenSet}
	case strings.HasPrefix(raw, tokenErrorLiteral):
		return Message{Kind: MessageTokenError, Detail: strings.TrimPrefix(raw, tokenErrorLiteral)}
	}
	return Message{Kind: MessageUnknown, Detail: raw}
}
