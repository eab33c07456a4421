// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices contains the HS300x humidity/temperature sensor driver
// and the helpers to present its measurements.
//
// See hs300x for the driver and envview for terminal and display output.
package devices
