package store

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrNotAuthorized  = errors.New("not authorized")
	ErrUsernameTaken  = errors.New("username is already taken")
	ErrBadCredentials = errors.New("invalid username or password")

	ErrDuplicatePendingInvite = errors.New("a pending invite to this server already exists")
	ErrNoPendingInvite        = errors.New("no such invite")
	ErrInviteResolved         = errors.New("invite has already been resolved")
	// ErrAmbiguousPendingInvite means the uniqueness invariant was violated
	// somewhere else. Callers must reject, never pick one of the candidates.
	ErrAmbiguousPendingInvite = errors.New("inconsistent state: more than one pending invite for this pair")

	ErrBadReplyTarget = errors.New("replied-to post is not in this thread")
)
