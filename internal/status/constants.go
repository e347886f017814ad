// internal/status/constants.go
package status

// Status reply values. These define the bus protocol and MUST NOT be
// configurable.

// ReplyNoData means no message has ever been successfully decoded; the
// display is still on the "no data yet" placeholder.
const ReplyNoData byte = 0

// ReplyHasData means at least one message was decoded and the display
// carries real content.
const ReplyHasData byte = 1
