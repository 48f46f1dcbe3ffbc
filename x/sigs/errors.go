package sigs

import (
	"github.com/iov-one/heirloom/errors"
)

// x/sigs reserves 240 ~ 249.
var (
	ErrInvalidSequence = errors.Register(240, "invalid sequence number")
)
