// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hs300x

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the device response is not exactly
// four bytes long.
var ErrMalformedResponse = errors.New("hs300x: malformed response")

// BusError is returned when an I²C transaction with the sensor fails. Op is
// "trigger" for the measurement request and "fetch" for the data read.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("hs300x: %s failed: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the sensor answered but flagged the data as
// not valid. The whole read sequence should be retried after a while.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hs300x: device reported %s data", e.Status)
}
