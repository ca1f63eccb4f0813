package emulator

import (
	"github.com/ezrec/synvm/cpu"
	"github.com/ezrec/synvm/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
// LineNo is zero when no assembled program listing is attached.
type ErrRuntime struct {
	Ip     cpu.Word
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return err.Err.Error()
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
