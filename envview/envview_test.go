// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package envview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/hs300x/hs300x"
)

var sample = hs300x.Measurement{Temperature: 25.997985716901667, Humidity: 49.996948055911616}

func TestGauge(t *testing.T) {
	var buf bytes.Buffer
	g := NewGauge(&Opts{Width: 10, Out: &buf})
	if err := g.Show(sample); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.HasPrefix(s, "\r\033[0m") {
		t.Errorf("line not rewound: %q", s)
	}
	if !strings.HasSuffix(s, "\033[0m ") {
		t.Errorf("colors not reset: %q", s)
	}
	for _, want := range []string{"  26.00°C", " 50.00%RH"} {
		if !strings.Contains(s, want) {
			t.Errorf("%q not found in %q", want, s)
		}
	}

	buf.Reset()
	if err := g.Show(hs300x.Measurement{Temperature: -40, Humidity: 0}); err != nil {
		t.Fatal(err)
	}
	low := buf.String()
	buf.Reset()
	if err := g.Show(hs300x.Measurement{Temperature: 125, Humidity: 100}); err != nil {
		t.Fatal(err)
	}
	if low == buf.String() {
		t.Error("empty and full gauges look the same")
	}

	buf.Reset()
	if err := g.Halt(); err != nil {
		t.Fatal(err)
	}
	if s := buf.String(); s != "\n\033[0m" {
		t.Errorf("Halt() wrote %q", s)
	}
	if g.String() == "" {
		t.Error("String() returned empty")
	}
}

func TestGaugeCells(t *testing.T) {
	g := NewGauge(&Opts{Width: 20, Out: &bytes.Buffer{}})
	tests := []struct {
		frac     float64
		expected int
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 10},
		{1, 20},
		{3, 20},
	}
	for _, test := range tests {
		if n := g.cells(test.frac); n != test.expected {
			t.Errorf("cells(%f)=%d expected %d", test.frac, n, test.expected)
		}
	}
}

func TestBlend(t *testing.T) {
	if c := blend(cold, hot, 0); c != cold {
		t.Errorf("blend(0)=%v", c)
	}
	if c := blend(cold, hot, 1); c != hot {
		t.Errorf("blend(1)=%v", c)
	}
	if c := blend(cold, hot, 2); c != hot {
		t.Errorf("blend(2)=%v", c)
	}
}

func isDark(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 128
}

func TestCard(t *testing.T) {
	img, err := Card(sample, image.Rect(10, 10, 138, 74))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(image.Rect(0, 0, 128, 64), img.Bounds()); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	if isDark(img.At(0, 0)) {
		t.Error("background is not white")
	}
	// The humidity bar covers half the width.
	if !isDark(img.At(10, 63)) {
		t.Error("humidity bar missing")
	}
	if isDark(img.At(120, 63)) {
		t.Error("humidity bar too long")
	}
	dark := 0
	for y := 0; y < 56; y++ {
		for x := 0; x < 128; x++ {
			if isDark(img.At(x, y)) {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text rendered")
	}

	if _, err := Card(sample, image.Rectangle{}); err == nil {
		t.Error("Card() accepted empty bounds")
	}
}

type fakeDrawer struct {
	bounds image.Rectangle
	drawn  image.Image
}

func (f *fakeDrawer) String() string { return "fake" }
func (f *fakeDrawer) Halt() error { return nil }
func (f *fakeDrawer) ColorModel() color.Model { return color.RGBAModel }
func (f *fakeDrawer) Bounds() image.Rectangle { return f.bounds }
func (f *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	f.drawn = src
	return nil
}

var _ display.Drawer = &fakeDrawer{}

func TestShow(t *testing.T) {
	d := &fakeDrawer{bounds: image.Rect(0, 0, 250, 122)}
	if err := Show(d, sample); err != nil {
		t.Fatal(err)
	}
	if d.drawn == nil || d.drawn.Bounds() != d.bounds {
		t.Errorf("Show() drew %v", d.drawn)
	}
}

type fakeText struct {
	rows  int
	lines map[int]string
	row   int
	fail  error
}

func (f *fakeText) Clear() error {
	f.lines = map[int]string{}
	return f.fail
}

func (f *fakeText) MoveTo(row, col int) error {
	f.row = row
	return nil
}

func (f *fakeText) MinRow() int { return 1 }
func (f *fakeText) MinCol() int { return 1 }
func (f *fakeText) Rows() int { return f.rows }

func (f *fakeText) WriteString(text string) (int, error) {
	f.lines[f.row] += text
	return len(text), nil
}

func TestPrint(t *testing.T) {
	d := &fakeText{rows: 2}
	if err := Print(d, sample); err != nil {
		t.Fatal(err)
	}
	want := map[int]string{1: "T  26.00C", 2: "H  50.00%"}
	if diff := cmp.Diff(want, d.lines); diff != "" {
		t.Errorf("Print() mismatch (-want +got):\n%s", diff)
	}

	d = &fakeText{rows: 1}
	if err := Print(d, sample); err != nil {
		t.Fatal(err)
	}
	want = map[int]string{1: "T  26.00C H  50.00%"}
	if diff := cmp.Diff(want, d.lines); diff != "" {
		t.Errorf("Print() mismatch (-want +got):\n%s", diff)
	}

	errLCD := errors.New("lcd")
	if err := Print(&fakeText{rows: 2, fail: errLCD}, sample); !errors.Is(err, errLCD) {
		t.Errorf("Print() returned %v", err)
	}
}
