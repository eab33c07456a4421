// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package envview

import (
	"fmt"

	"github.com/GermanBionicSystems/hs300x/hs300x"
)

// TextDisplay is the subset of display.TextDisplay used by Print.
type TextDisplay interface {
	Clear() error
	MoveTo(row, col int) error
	MinRow() int
	MinCol() int
	Rows() int
	WriteString(text string) (int, error)
}

// Print writes m to a character display. On displays with two or more rows
// the temperature and humidity get a row each.
func Print(d TextDisplay, m hs300x.Measurement) error {
	t := fmt.Sprintf("T %6.2fC", m.Temperature)
	h := fmt.Sprintf("H %6.2f%%", m.Humidity)
	if err := d.Clear(); err != nil {
		return err
	}
	if err := d.MoveTo(d.MinRow(), d.MinCol()); err != nil {
		return err
	}
	if d.Rows() < 2 {
		_, err := d.WriteString(t + " " + h)
		return err
	}
	if _, err := d.WriteString(t); err != nil {
		return err
	}
	if err := d.MoveTo(d.MinRow()+1, d.MinCol()); err != nil {
		return err
	}
	_, err := d.WriteString(h)
	return err
}
