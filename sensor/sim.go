// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"math"
	"math/rand"
)

// Sim is a simulated environment and light meter, drifting around
// typical indoor values.
type Sim struct {
	rnd *rand.Rand

	temp  float64
	press float64
	hum   float64
	iaq   float64
	co2   float64
	light float64
}

// NewSim returns a simulated board seeded with seed.
func NewSim(seed int64) *Sim {
	return &Sim{
		rnd:   rand.New(rand.NewSource(seed)),
		temp:  21,
		press: 101325,
		hum:   45,
		iaq:   50,
		co2:   400,
		light: 120,
	}
}

func (sim *Sim) walk(v *float64, step, lo, hi float64) float64 {
	*v += step * sim.rnd.NormFloat64()
	*v = math.Max(lo, math.Min(hi, *v))
	return *v
}

func (sim *Sim) Temperature() (float64, error) { return sim.walk(&sim.temp, 0.1, -40, 85), nil }
func (sim *Sim) Pressure() (float64, error)    { return sim.walk(&sim.press, 5, 30000, 110000), nil }
func (sim *Sim) Humidity() (float64, error)    { return sim.walk(&sim.hum, 0.5, 0, 100), nil }
func (sim *Sim) IAQ() (float64, error)         { return sim.walk(&sim.iaq, 2, 0, 500), nil }
func (sim *Sim) CO2() (float64, error)         { return sim.walk(&sim.co2, 5, 400, 5000), nil }
func (sim *Sim) Light() (float64, error)       { return math.Round(sim.walk(&sim.light, 3, 0, 255)), nil }

var (
	_ Environment = (*Sim)(nil)
	_ LightMeter  = (*Sim)(nil)
)
