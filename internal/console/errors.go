package console

import "errors"

var (
	ErrBusy             = errors.New("console: operation already in flight")
	ErrStaleResult      = errors.New("console: result arrived after the view moved on")
	ErrNotFound         = errors.New("console: record not found")
	ErrDeleteInFlight   = errors.New("console: delete already in flight")
	ErrNoPendingDelete  = errors.New("console: no delete awaiting confirmation")
	ErrRangeUnsupported = errors.New("console: range filter not supported")
)
