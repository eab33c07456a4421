// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hs300x controls a Renesas HS3001/HS3003 relative humidity and
// temperature sensor over I²C.
//
// The device has a single fixed-function operation. Writing to it starts a
// conversion, and reading four bytes afterwards returns a 2-bit status, a
// 14-bit humidity code and a 14-bit temperature code. The hs300x.Dev type
// implements physic.SenseEnv; the pressure value is never set.
//
// # Accuracy
//
//	HS3001: ±1.5 %RH, ±0.2 °C
//	HS3003: ±1.5 %RH, ±0.2 °C (5..60 °C)
//
// Both have a 14-bit resolution, a humidity range of 0..100 %RH and a
// temperature range of -40..+125 °C.
//
// # Datasheet
//
// https://www.renesas.com/us/en/document/dst/hs300x-datasheet
package hs300x
