package nes

// Region selects the timing table the console runs on. NTSC is the primary
// target; PAL is carried as an alternate set of constants, not a separate
// code path.
type Region int

const (
	NTSC Region = iota
	PAL
)

// timing holds the region-dependent clock constants and period tables.
type timing struct {
	cpuFreq        float64
	scanlines      int
	oddFrameSkip   bool
	noisePeriods   [16]uint16
	dmcRates       [16]uint16
	frameQuarter1  uint64
	frameHalf1     uint64
	frameQuarter2  uint64
	frameHalf2     uint64
	frameWrap4Step uint64
	frameHalf5Step uint64
}

// Master clock is 21.477272 MHz (NTSC); the CPU divides it by 12 and the PPU
// by 4, which is where the 3 dots per CPU cycle ratio comes from.
var ntscTiming = timing{
	cpuFreq:      1789773,
	scanlines:    262,
	oddFrameSkip: true,
	noisePeriods: [16]uint16{
		4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
	},
	dmcRates: [16]uint16{
		428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
	},
	frameQuarter1:  7457,
	frameHalf1:     14913,
	frameQuarter2:  22372,
	frameHalf2:     29829,
	frameWrap4Step: 29831,
	frameHalf5Step: 37281,
}

var palTiming = timing{
	cpuFreq:      1662607,
	scanlines:    312,
	oddFrameSkip: false,
	noisePeriods: [16]uint16{
		4, 8, 14, 30, 60, 88, 118, 148, 188, 236, 354, 472, 708, 944, 1890, 3778,
	},
	dmcRates: [16]uint16{
		398, 354, 316, 298, 276, 236, 210, 198, 176, 148, 132, 118, 98, 78, 66, 50,
	},
	frameQuarter1:  8313,
	frameHalf1:     16627,
	frameQuarter2:  24939,
	frameHalf2:     33252,
	frameWrap4Step: 33254,
	frameHalf5Step: 41565,
}

func (r Region) timing() *timing {
	if r == PAL {
		return &palTiming
	}
	return &ntscTiming
}
