// Package callback defines the compact payload format carried by inline
// buttons. Payloads are a verb and a post id joined by an underscore, e.g.
// "approve_123". Both the moderation side (building buttons) and the update
// router (decoding presses) share this codec so the format lives in one place.
package callback

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the verb part of a callback payload.
type Kind string

const (
	KindApprove Kind = "approve"
	KindReject  Kind = "reject"
	KindResolve Kind = "sold"
)

// Encode builds the wire payload for a button.
func Encode(k Kind, postID int64) string {
	return fmt.Sprintf("%s_%d", k, postID)
}

// Decode parses a payload back into its verb and post id. Unknown verbs and
// malformed ids are rejected so stale or foreign buttons cannot reach the
// moderation handlers.
func Decode(data string) (Kind, int64, error) {
	idx := strings.LastIndex(data, "_")
	if idx <= 0 {
		return "", 0, fmt.Errorf("malformed callback data %q", data)
	}
	kind := Kind(data[:idx])
	switch kind {
	case KindApprove, KindReject, KindResolve:
	default:
		return "", 0, fmt.Errorf("unknown callback verb %q", data[:idx])
	}
	postID, err := strconv.ParseInt(data[idx+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed post id in callback data %q", data)
	}
	return kind, postID, nil
}
