package runtime

import "strings"

type CallOrigin string

const (
	OriginTelephony CallOrigin = "telephony"
	OriginWeb       CallOrigin = "web"
)

// WebCallerPlaceholder stands in for a caller number on web-originated
// sessions, which have none.
const WebCallerPlaceholder = "web_user"

// CallInfo is the call-context the telephony bridge hands over at session
// start. The conversation core behaves identically for both origins.
type CallInfo struct {
	CallID       string
	Origin       CallOrigin
	CallerNumber string
	CalledNumber string
}

// EffectiveCaller returns the caller number, substituting the placeholder
// for web-originated calls.
func (i CallInfo) EffectiveCaller() string {
	if i.Origin == OriginWeb || strings.TrimSpace(i.CallerNumber) == "" {
		return WebCallerPlaceholder
	}
	return i.CallerNumber
}
