package game

import "errors"

var (
	ErrUnknownRoom      = errors.New("unknown room")
	ErrUnknownItem      = errors.New("unknown item")
	ErrUnknownPolicy    = errors.New("unknown death policy")
	ErrMissingSpear     = errors.New("world has no spear item")
	ErrMissingStartRoom = errors.New("start room is required")
)
