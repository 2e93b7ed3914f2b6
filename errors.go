package sds

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout     = errors.New("timeout")
	ErrUnknownUnit = errors.New("unknown unit in the cradle (0)")
	ErrNoDevice    = fmt.Errorf("could not get device %04x:%04x"+
		" - is it connected? do you need higher privileges?",
		VENDOR_ID, PRODUCT_ID)
)

// TransferErr is a failed bulk write or read.
type TransferErr struct {
	Op  string
	Err error
}

func (e TransferErr) Error() string {
	return "bulk " + e.Op + " error: " + e.Err.Error()
}

func (e TransferErr) Unwrap() error {
	return e.Err
}

// LenErr is a reply whose length differs from the command's fixed length.
type LenErr struct {
	Cmd  string
	Want int
	Got  int
}

func (e LenErr) Error() string {
	return fmt.Sprintf("bulk transfer error: expected %d bytes, got %d (%s)",
		e.Want, e.Got, e.Cmd)
}

// ClearErr is the nonzero return code of the reset counters command.
type ClearErr byte

func (e ClearErr) Error() string {
	return fmt.Sprintf("counters clearing probably failed (return code %d)",
		byte(e))
}

// TimeoutErr is a transport specific timeout; it matches ErrTimeout.
type TimeoutErr struct {
	Err error
}

func (e TimeoutErr) Error() string {
	return "timeout: " + e.Err.Error()
}

func (e TimeoutErr) Unwrap() error {
	return e.Err
}

func (e TimeoutErr) Is(target error) bool {
	return target == ErrTimeout
}
