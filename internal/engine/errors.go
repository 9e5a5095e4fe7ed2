package engine

import (
	"errors"
	"log/slog"
)

var log = slog.Default().With("package", "engine")

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrIllegalDrop  = errors.New("illegal drop")
	ErrEmptyReserve = errors.New("no such piece in reserve")
	ErrMissingKing  = errors.New("king missing from board")
)
