package vault

import "errors"

// ErrUnreadable is returned by Reveal when the envelope is malformed or
// fails authentication. It wraps envelope.ErrFormat or envelope.ErrIntegrity.
var ErrUnreadable = errors.New("vault unreadable")
