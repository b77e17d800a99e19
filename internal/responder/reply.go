// Package responder resolves a customer message to a canned support reply.
// Each resolver is independent; the chat service decides the order they run in.
package responder

import "strings"

// Reply is a bot answer kept as separate lines so the presentation layer
// decides how breaks are rendered.
type Reply struct {
	Lines []string
}

func NewReply(lines ...string) Reply {
	return Reply{Lines: lines}
}

// Text joins the lines with newlines.
func (r Reply) Text() string {
	return strings.Join(r.Lines, "\n")
}

func (r Reply) IsZero() bool {
	return len(r.Lines) == 0
}
