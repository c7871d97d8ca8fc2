package canonical

import "unicode/utf16"

type Season string

const (
	SeasonSummer Season = "SUMMER"
	SeasonFall   Season = "FALL"
	SeasonWinter Season = "WINTER"
	SeasonSpring Season = "SPRING"
)

// Seasons lists every season in display order.
var Seasons = []Season{SeasonSummer, SeasonFall, SeasonWinter, SeasonSpring}

type Capacity map[Season]float64

var seasonOffset = map[Season]int{
	SeasonSummer: 0,
	SeasonFall:   -2,
	SeasonWinter: -1,
	SeasonSpring: -3,
}

// DeriveCapacity is a pure function of the external id. Values are not
// clamped.
func DeriveCapacity(externalID string) Capacity {
	base := BaseMagnitude(externalID)
	c := make(Capacity, len(Seasons))
	for _, s := range Seasons {
		c[s] = float64(base + seasonOffset[s])
	}
	return c
}

// BaseMagnitude returns |hash(id) mod 50| + 10, in the range 10..59.
func BaseMagnitude(externalID string) int {
	r := stringHash(externalID) % 50
	if r < 0 {
		r = -r
	}
	return int(r) + 10
}

// stringHash is the 31-multiplier polynomial over UTF-16 code units with
// int32 overflow, so ids hash identically across JVM and Go producers.
func stringHash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(u)
	}
	return h
}

func (c Capacity) Clone() Capacity {
	if c == nil {
		return nil
	}
	out := make(Capacity, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
