// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package envview

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/hs300x/hs300x"
)

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

func regular() (*truetype.Font, error) {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
	})
	return goFont, fontErr
}

// Card renders m as black text on a white background, temperature on top
// and humidity below, with a humidity bar along the bottom edge. The image
// origin is (0, 0) and its size is the size of r.
func Card(m hs300x.Measurement, r image.Rectangle) (image.Image, error) {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.New("envview: empty bounds")
	}
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("envview: %w", err)
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: float64(h) / 3}))
	fw, fh := float64(w), float64(h)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f°C", m.Temperature), fw/2, fh/4, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f%%RH", m.Humidity), fw/2, 5*fh/8, 0.5, 0.5)
	bar := fh / 16
	if bar < 1 {
		bar = 1
	}
	dc.DrawRectangle(0, fh-bar, fw*clamp(m.Humidity/100), bar)
	dc.Fill()
	return dc.Image(), nil
}

// Show renders a Card the size of the display and draws it.
func Show(d display.Drawer, m hs300x.Measurement) error {
	r := d.Bounds()
	img, err := Card(m, r)
	if err != nil {
		return err
	}
	return d.Draw(r, img, image.Point{})
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
