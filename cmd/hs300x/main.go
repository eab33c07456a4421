// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hs300x reads temperature and humidity from a HS3001/HS3003 sensor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"time"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/hs300x/envview"
	"github.com/GermanBionicSystems/hs300x/hs300x"
)

type config struct {
	bus      string
	addr     uint
	count    int
	interval time.Duration
	gauge    bool
	png      string
	verbose  bool
}

func parseFlags(args []string) (*config, error) {
	c := &config{}
	f := flag.NewFlagSet("hs300x", flag.ContinueOnError)
	f.StringVar(&c.bus, "b", "", "I²C bus to use")
	f.UintVar(&c.addr, "a", uint(hs300x.DefaultAddress), "I²C address of the sensor")
	f.IntVar(&c.count, "n", 1, "number of readings, 0 to read until interrupted")
	f.DurationVar(&c.interval, "i", 2*time.Second, "interval between readings")
	f.BoolVar(&c.gauge, "gauge", false, "draw the readings as a terminal gauge")
	f.StringVar(&c.png, "png", "", "write the last reading as a 250x122 PNG card")
	f.BoolVar(&c.verbose, "v", false, "verbose mode")
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	if f.NArg() != 0 {
		return nil, errors.New("unexpected argument, try -help")
	}
	if c.addr > 0x7f {
		return nil, fmt.Errorf("-a 0x%x is not a 7-bit I²C address", c.addr)
	}
	if c.count < 0 {
		return nil, errors.New("-n must be >= 0")
	}
	if c.interval < hs300x.DefaultConversionTime {
		return nil, fmt.Errorf("-i must be at least %s", hs300x.DefaultConversionTime)
	}
	return c, nil
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// run reads c.count measurements, or until ctx is done when c.count is 0.
func run(ctx context.Context, c *config, dev *hs300x.Dev, log logrus.FieldLogger) error {
	var g *envview.Gauge
	if c.gauge {
		g = envview.NewGauge(nil)
		defer g.Halt()
	}
	var last *hs300x.Measurement
	for i := 0; c.count == 0 || i < c.count; i++ {
		if i != 0 {
			select {
			case <-ctx.Done():
				return writeCard(c.png, last, log)
			case <-time.After(c.interval):
			}
		}
		m, err := dev.Read(nil)
		var se *hs300x.StatusError
		switch {
		case errors.As(err, &se):
			log.WithField("status", se.Status).Warn("no fresh data")
			continue
		case err != nil:
			log.WithError(err).Warn("read failed")
			continue
		}
		last = &m
		if g != nil {
			if err := g.Show(m); err != nil {
				return err
			}
			continue
		}
		log.WithFields(logrus.Fields{
			"temperature": fmt.Sprintf("%.2f°C", m.Temperature),
			"humidity":    fmt.Sprintf("%.2f%%RH", m.Humidity),
		}).Info("measurement")
	}
	return writeCard(c.png, last, log)
}

func writeCard(path string, m *hs300x.Measurement, log logrus.FieldLogger) error {
	if path == "" {
		return nil
	}
	if m == nil {
		return errors.New("no valid reading to render")
	}
	img, err := envview.Card(*m, image.Rect(0, 0, 250, 122))
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return err
	}
	log.WithField("path", path).Debug("card written")
	return nil
}

func mainImpl() error {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	log := newLogger(c.verbose)

	if _, err := host.Init(); err != nil {
		return err
	}
	var b i2c.BusCloser
	if b, err = i2creg.Open(c.bus); err != nil {
		return err
	}
	defer b.Close()

	dev, err := hs300x.NewWithAddress(b, uint16(c.addr))
	if err != nil {
		return err
	}
	defer dev.Release()
	log.WithFields(logrus.Fields{"bus": b.String(), "addr": fmt.Sprintf("0x%02x", c.addr)}).Debug("opened sensor")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, c, dev, log)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "hs300x: %s.\n", err)
		os.Exit(1)
	}
}
