package apperr

import "errors"

// ErrInvalidArgument is returned when the input fails domain validation.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotFound indicates that the requested aggregate or participation does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotJoinable is returned when the aggregate is not accepting participants.
var ErrNotJoinable = errors.New("not joinable")

// ErrCapacityExceeded is returned when a cargo contribution does not fit the remaining capacity.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrParticipantLimitReached is returned when the participant cap is already reached.
var ErrParticipantLimitReached = errors.New("participant limit reached")

// ErrAlreadyJoined is returned when the participant already holds an active participation.
var ErrAlreadyJoined = errors.New("already joined")

// ErrAlreadyCancelled is returned when cancelling a participation twice.
var ErrAlreadyCancelled = errors.New("already cancelled")

// ErrInvalidTransition is returned for a status change the state machine does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrForbidden indicates the actor may not perform the operation on the aggregate.
var ErrForbidden = errors.New("forbidden")
