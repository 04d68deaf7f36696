package market

import (
	"fmt"
	"time"
)

// Convention names a time convention price series are expressed in.
// "Prevailing" conventions observe DST via the IANA database; the fixed
// standard-time conventions never shift.
type Convention string

const (
	EPT Convention = "EPT" // Eastern Prevailing Time
	EST Convention = "EST" // Eastern Standard Time, fixed UTC-5
	CPT Convention = "CPT" // Central Prevailing Time
	CST Convention = "CST" // Central Standard Time, fixed UTC-6
	PPT Convention = "PPT" // Pacific Prevailing Time
	PST Convention = "PST" // Pacific Standard Time, fixed UTC-8
)

var fixedZones = map[Convention]*time.Location{
	EST: time.FixedZone("EST", -5*3600),
	CST: time.FixedZone("CST", -6*3600),
	PST: time.FixedZone("PST", -8*3600),
}

var prevailingZones = map[Convention]string{
	EPT: "America/New_York",
	CPT: "America/Chicago",
	PPT: "America/Los_Angeles",
}

// Location resolves the convention to a civil time zone.
func (c Convention) Location() (*time.Location, error) {
	if loc, ok := fixedZones[c]; ok {
		return loc, nil
	}
	if name, ok := prevailingZones[c]; ok {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("load location %s: %w", name, err)
		}
		return loc, nil
	}
	return nil, fmt.Errorf("unknown time convention %q", c)
}

// Fixed reports whether the convention ignores DST.
func (c Convention) Fixed() bool {
	_, ok := fixedZones[c]
	return ok
}
