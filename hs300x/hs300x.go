// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hs300x

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the factory I²C address of the sensor.
const DefaultAddress uint16 = 0x44

// DefaultConversionTime is the wait between the measurement request and the
// data read. The datasheet gives ~34ms for a 14-bit humidity and temperature
// conversion; the extra margin covers the wake-up from sleep.
const DefaultConversionTime = 100 * time.Millisecond

const (
	// Any write starts a measurement. A single zero byte is accepted by every
	// I²C controller, unlike an empty write.
	cmdMeasure byte = 0x00

	maxAddress uint16 = 0x7f

	// 2^14 - 1, the full scale of both codes.
	codeMax = float64(1<<14 - 1)

	humidityScalar    = 100.0
	temperatureScalar = 165.0
	temperatureOffset = -40.0
)

// ErrReleased is returned by operations on a Dev whose bus was handed back
// with Release.
var ErrReleased = errors.New("hs300x: device released")

// Status is the 2-bit status field at the top of every response.
type Status uint8

const (
	// StatusValid flags data from a conversion that completed after the last
	// read.
	StatusValid Status = iota
	// StatusStale flags data that was already read before.
	StatusStale
	// StatusCommandMode is only reported while the device is in programming
	// mode.
	StatusCommandMode
	StatusReserved
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusStale:
		return "stale"
	case StatusCommandMode:
		return "command mode"
	case StatusReserved:
		return "reserved"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Measurement is a single reading from the sensor.
type Measurement struct {
	// Temperature in °C.
	Temperature float64
	// Humidity in %RH.
	Humidity float64
}

// Env returns the measurement in periph units. Pressure is always 0.
func (m Measurement) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(m.Temperature*float64(physic.Celsius)),
		Humidity:    physic.RelativeHumidity(m.Humidity * float64(physic.PercentRH)),
	}
}

// Delayer blocks the caller for the given duration.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a function to the Delayer interface.
type DelayFunc func(d time.Duration)

// Delay calls f(d).
func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

// SleepDelayer waits using time.Sleep.
var SleepDelayer Delayer = DelayFunc(time.Sleep)

// Opts holds the configuration options for the device.
type Opts struct {
	// Address is the 7-bit I²C address. 0 means DefaultAddress.
	Address uint16
	// ConversionTime is the wait between triggering a measurement and reading
	// it. 0 means DefaultConversionTime.
	ConversionTime time.Duration
	// Delay is used by Sense and SenseContinuous, and by Read when it is
	// passed a nil Delayer. nil means SleepDelayer.
	Delay Delayer
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Address:        DefaultAddress,
	ConversionTime: DefaultConversionTime,
	Delay:          SleepDelayer,
}

// Dev represents a HS300x humidity/temperature sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts
	// mu serializes the trigger/wait/fetch sequence.
	mu sync.Mutex

	smu      sync.Mutex
	shutdown chan struct{}
	wg       sync.WaitGroup
	released bool
}

// New returns a sensor at DefaultAddress on the bus. No I/O is done.
func New(b i2c.Bus) *Dev {
	return &Dev{d: &i2c.Dev{Bus: b, Addr: DefaultAddress}, opts: DefaultOpts}
}

// NewWithAddress returns a sensor at addr on the bus. No I/O is done.
func NewWithAddress(b i2c.Bus, addr uint16) (*Dev, error) {
	return NewI2C(b, &Opts{Address: addr})
}

// NewI2C returns an object that communicates over I²C to a HS300x sensor.
// The Opts can be nil. No I/O is done.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if b == nil {
		return nil, errors.New("hs300x: nil bus")
	}
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Address == 0 {
		o.Address = DefaultAddress
	}
	if o.Address > maxAddress {
		return nil, fmt.Errorf("hs300x: invalid 7-bit address 0x%x", o.Address)
	}
	if o.ConversionTime <= 0 {
		o.ConversionTime = DefaultConversionTime
	}
	if o.Delay == nil {
		o.Delay = SleepDelayer
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: o.Address}, opts: o}, nil
}

// Read triggers a conversion, waits for it with delay and returns the
// result. A nil delay uses the one from Opts. Nothing is retried: a failed
// transaction returns a *BusError and data not flagged as valid returns a
// *StatusError.
func (d *Dev) Read(delay Delayer) (Measurement, error) {
	if delay == nil {
		delay = d.opts.Delay
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return Measurement{}, ErrReleased
	}
	if err := d.d.Tx([]byte{cmdMeasure}, nil); err != nil {
		return Measurement{}, &BusError{Op: "trigger", Err: err}
	}
	delay.Delay(d.opts.ConversionTime)
	var raw [4]byte
	if err := d.d.Tx(nil, raw[:]); err != nil {
		return Measurement{}, &BusError{Op: "fetch", Err: err}
	}
	return decode(raw[:])
}

// Sense implements physic.SenseEnv. Pressure is always 0. On error the
// values are zeroed.
func (d *Dev) Sense(e *physic.Env) error {
	*e = physic.Env{}
	m, err := d.Read(nil)
	if err != nil {
		return err
	}
	*e = m.Env()
	return nil
}

// SenseContinuous implements physic.SenseEnv. It reads the sensor every
// interval and sends the result to the returned channel; failed reads are
// skipped. Call Halt to stop it.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < d.opts.ConversionTime {
		return nil, fmt.Errorf("hs300x: interval %s is shorter than the conversion time %s", interval, d.opts.ConversionTime)
	}
	d.smu.Lock()
	defer d.smu.Unlock()
	if d.released {
		return nil, ErrReleased
	}
	if d.shutdown != nil {
		return nil, errors.New("hs300x: SenseContinuous already running")
	}
	stop := make(chan struct{})
	d.shutdown = stop
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return ch, nil
}

// Halt stops a running SenseContinuous and waits for it to exit. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	d.smu.Lock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	d.smu.Unlock()
	d.wg.Wait()
	return nil
}

// Precision implements physic.SenseEnv. It is one step of the 14-bit codes.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = temperatureScalar * physic.Kelvin / (1<<14 - 1)
	e.Humidity = humidityScalar * physic.PercentRH / (1<<14 - 1)
	e.Pressure = 0
}

// Release stops SenseContinuous and hands the bus back to the caller. The Dev
// returns ErrReleased afterwards. No I/O is done.
func (d *Dev) Release() i2c.Bus {
	d.smu.Lock()
	d.mu.Lock()
	d.released = true
	d.mu.Unlock()
	d.smu.Unlock()
	_ = d.Halt()
	return d.d.Bus
}

// Address returns the I²C address of the sensor.
func (d *Dev) Address() uint16 {
	return d.d.Addr
}

func (d *Dev) String() string {
	return fmt.Sprintf("hs300x: %s", d.d)
}

// decode validates the status of a raw response and converts its codes.
//
// The layout is:
//
//	byte 0: status[7:6] humidity[13:8]
//	byte 1: humidity[7:0]
//	byte 2: temperature[13:6]
//	byte 3: temperature[5:0] don't care[1:0]
func decode(raw []byte) (Measurement, error) {
	if len(raw) != 4 {
		return Measurement{}, ErrMalformedResponse
	}
	if s := Status(raw[0] >> 6); s != StatusValid {
		return Measurement{}, &StatusError{Status: s}
	}
	h := uint16(raw[0]&0x3f)<<8 | uint16(raw[1])
	t := (uint16(raw[2])<<8 | uint16(raw[3])) >> 2
	return Measurement{
		Temperature: temperatureFromCode(t),
		Humidity:    humidityFromCode(h),
	}, nil
}

// humidityFromCode converts a 14-bit humidity code to %RH.
func humidityFromCode(code uint16) float64 {
	return float64(code) / codeMax * humidityScalar
}

// temperatureFromCode converts a 14-bit temperature code to °C.
func temperatureFromCode(code uint16) float64 {
	return float64(code)/codeMax*temperatureScalar + temperatureOffset
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
