package market

import (
	"fmt"
	"time"

	"lmp-shapers/internal/calendar"
)

// Classify maps a (date, hour-ending) pair to the market's peak-block label.
// The date must already be expressed in the market's contract convention.
// Classification is total: every hour of every day maps to exactly one label.
func Classify(d time.Time, hour int, m Market) (Label, error) {
	desc, err := Lookup(m)
	if err != nil {
		return "", err
	}
	if hour < 1 || hour > 24 {
		return "", fmt.Errorf("market: hour-ending %d outside 1..24", hour)
	}

	isHoliday := calendar.IsHoliday(d)
	isSaturday := d.Weekday() == time.Saturday
	isSunday := d.Weekday() == time.Sunday
	isNight := hour < desc.PeakStart || hour > desc.PeakEnd

	if m == CAISO {
		// Four-block scheme: Saturday daytime trades on-peak.
		offPeak := isHoliday || isSunday || isNight
		switch {
		case offPeak && isNight:
			return LabelOffNight, nil
		case offPeak:
			return LabelOffSunday, nil
		case isSaturday:
			return Label6x16Saturday, nil
		default:
			return Label6x16Weekday, nil
		}
	}

	offPeak := isHoliday || isSaturday || isSunday || isNight
	switch {
	case !offPeak:
		return Label5x16, nil
	case isNight:
		return Label7x8, nil
	default:
		return Label2x16, nil
	}
}

// Collapse maps a classification label to the traded block it settles
// against: eastern/central markets fold 2x16 and 7x8 into Off, and CAISO
// labels drop their day-type suffix.
func Collapse(l Label, m Market) (Label, error) {
	if _, err := Lookup(m); err != nil {
		return "", err
	}
	if m == CAISO {
		switch l {
		case Label6x16Weekday, Label6x16Saturday:
			return Label6x16, nil
		case LabelOffSunday, LabelOffNight:
			return LabelOff, nil
		default:
			return "", fmt.Errorf("%w: %q", ErrUnrecognizedLabel, l)
		}
	}
	switch l {
	case Label5x16:
		return Label5x16, nil
	case Label2x16, Label7x8:
		return LabelOff, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedLabel, l)
	}
}

// Complement returns the paired category within the same traded block.
// 5x16 has no pair: ok is false and err is nil. Labels outside the known set
// fail with ErrUnrecognizedLabel.
func Complement(l Label) (Label, bool, error) {
	switch l {
	case Label5x16:
		return "", false, nil
	case Label7x8:
		return Label2x16, true, nil
	case Label2x16:
		return Label7x8, true, nil
	case LabelOffNight:
		return LabelOffSunday, true, nil
	case LabelOffSunday:
		return LabelOffNight, true, nil
	case Label6x16Saturday:
		return Label6x16Weekday, true, nil
	case Label6x16Weekday:
		return Label6x16Saturday, true, nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnrecognizedLabel, l)
	}
}
