// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package envview presents temperature/humidity measurements: as ANSI bars
// on a terminal, as an image for pixel displays, or as text on a character
// display.
package envview

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/hs300x/hs300x"
)

const (
	minTemperature = -40.0
	maxTemperature = 125.0
)

var (
	cold  = color.NRGBA{0, 0, 255, 255}
	hot   = color.NRGBA{255, 0, 0, 255}
	wet   = color.NRGBA{0, 160, 255, 255}
	empty = color.NRGBA{48, 48, 48, 255}
)

// Opts represents the options available for the gauge.
type Opts struct {
	// Width is the number of cells of each bar. 0 means 20.
	Width int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Out defaults to a colorable stdout.
	Out io.Writer

	_ struct{}
}

// Gauge draws a temperature and a humidity bar on a single terminal line,
// rewriting it for every measurement.
type Gauge struct {
	w       io.Writer
	width   int
	palette ansi256.Palette

	buf bytes.Buffer
}

// NewGauge returns a Gauge. opts can be nil.
func NewGauge(opts *Opts) *Gauge {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	width := opts.Width
	if width <= 0 {
		width = 20
	}
	return &Gauge{w: w, width: width, palette: *p}
}

func (g *Gauge) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It ends the line and resets the colors so the terminal is not corrupted.
func (g *Gauge) Halt() error {
	_, err := g.w.Write([]byte("\n\033[0m"))
	return err
}

// Show rewrites the line with m.
func (g *Gauge) Show(m hs300x.Measurement) error {
	g.buf.Reset()
	_, _ = g.buf.WriteString("\r\033[0m")
	_, _ = fmt.Fprintf(&g.buf, "%7.2f°C ", m.Temperature)
	tFrac := (m.Temperature - minTemperature) / (maxTemperature - minTemperature)
	n := g.cells(tFrac)
	for i := 0; i < g.width; i++ {
		c := empty
		if i < n {
			c = blend(cold, hot, float64(i)/float64(g.width-1))
		}
		_, _ = io.WriteString(&g.buf, g.palette.Block(c))
	}
	_, _ = fmt.Fprintf(&g.buf, "\033[0m %6.2f%%RH ", m.Humidity)
	n = g.cells(m.Humidity / 100)
	for i := 0; i < g.width; i++ {
		c := empty
		if i < n {
			c = wet
		}
		_, _ = io.WriteString(&g.buf, g.palette.Block(c))
	}
	_, _ = g.buf.WriteString("\033[0m ")
	_, err := g.buf.WriteTo(g.w)
	return err
}

// cells returns the number of lit cells for a 0..1 fraction.
func (g *Gauge) cells(frac float64) int {
	n := int(math.Round(frac * float64(g.width)))
	if n < 0 {
		return 0
	}
	if n > g.width {
		return g.width
	}
	return n
}

func blend(a, b color.NRGBA, f float64) color.NRGBA {
	switch {
	case math.IsNaN(f) || f < 0:
		f = 0
	case f > 1:
		f = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x)*(1-f) + float64(y)*f))
	}
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

var _ conn.Resource = &Gauge{}
var _ fmt.Stringer = &Gauge{}
