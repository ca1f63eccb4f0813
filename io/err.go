package io

import (
	"errors"

	"github.com/ezrec/synvm/translate"
)

var f = translate.From

var (
	// Stream errors
	ErrInputEmpty = errors.New(f("no input available"))
)
