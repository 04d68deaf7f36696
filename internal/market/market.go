// Package market defines the closed set of supported ISOs, their trading
// conventions, and the peak-block classification of (date, hour) pairs.
package market

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMarket indicates a market (or market/mode combination)
	// outside the supported set. Checked before any computation starts.
	ErrUnsupportedMarket = errors.New("market: unsupported market")
	// ErrUnrecognizedLabel indicates a peak-block label outside the known set.
	ErrUnrecognizedLabel = errors.New("market: unrecognized peak block")
)

// Market identifies an ISO / regional market authority.
type Market string

const (
	PJM   Market = "PJM"
	ISONE Market = "ISONE"
	NYISO Market = "NYISO"
	MISO  Market = "MISO"
	ERCOT Market = "ERCOT"
	SPP   Market = "SPP"
	CAISO Market = "CAISO"
)

// Label is a peak-block category assigned to one (date, hour).
type Label string

// Eastern/central three-block scheme.
const (
	Label5x16 Label = "5x16"
	Label2x16 Label = "2x16"
	Label7x8  Label = "7x8"
	LabelOff  Label = "Off" // traded block, result of Collapse only
)

// CAISO four-block scheme.
const (
	Label6x16Weekday  Label = "6x16-Weekday"
	Label6x16Saturday Label = "6x16-Saturday"
	LabelOffSunday    Label = "Off-Sunday"
	LabelOffNight     Label = "Off-Night"
	Label6x16         Label = "6x16" // traded block, result of Collapse only
)

// Descriptor carries the constant trading conventions of one market.
//
// LMPs arrive from the price database in the source convention; traded
// contracts are defined in the contract convention:
//
//	PJM / ISONE / NYISO  - EPT prices, EPT contracts (HE 8-23 on-peak)
//	MISO                 - EST prices (no DST), EPT contracts
//	ERCOT / SPP          - CPT prices, CPT contracts (HE 7-22 on-peak)
//	CAISO                - PPT prices, PPT contracts (HE 7-22 on-peak, 6x16)
type Descriptor struct {
	Source        Convention // convention of raw price rows
	Contract      Convention // convention contracts are defined in
	PeakStart     int        // first on-peak hour-ending, inclusive
	PeakEnd       int        // last on-peak hour-ending, inclusive
	Labels        []Label    // label set produced by Classify
	SaturdayPeak  bool       // Saturday daytime counts as on-peak (CAISO)
	Shaper        bool       // shaper estimation supported
	BlockShaper   bool       // time-block shaper mode supported
	Splitter      bool       // splitter estimation supported
	Vol           bool       // cash vol / PVM supported
	HubNode       string     // default volatility reference hub node
}

var registry = map[Market]Descriptor{
	PJM: {
		Source: EPT, Contract: EPT, PeakStart: 8, PeakEnd: 23,
		Labels:  []Label{Label5x16, Label2x16, Label7x8},
		Shaper:  true, BlockShaper: true, Splitter: true, Vol: true,
		HubNode: "51288",
	},
	ISONE: {
		Source: EPT, Contract: EPT, PeakStart: 8, PeakEnd: 23,
		Labels:  []Label{Label5x16, Label2x16, Label7x8},
		Shaper:  true, BlockShaper: true, Splitter: true, Vol: true,
		HubNode: "4000",
	},
	NYISO: {
		Source: EPT, Contract: EPT, PeakStart: 8, PeakEnd: 23,
		Labels: []Label{Label5x16, Label2x16, Label7x8},
		// Classification only; NYISO is not an estimator target.
	},
	MISO: {
		// MISO rows are stamped in fixed EST and are re-based to EPT before
		// classification. The alternative CPT/7-22 treatment is deliberately
		// not modeled.
		Source: EST, Contract: EPT, PeakStart: 8, PeakEnd: 23,
		Labels:  []Label{Label5x16, Label2x16, Label7x8},
		Shaper:  true, BlockShaper: true, Splitter: true, Vol: true,
		HubNode: "INDIANA.HUB",
	},
	ERCOT: {
		Source: CPT, Contract: CPT, PeakStart: 7, PeakEnd: 22,
		Labels:  []Label{Label5x16, Label2x16, Label7x8},
		Vol:     true,
		HubNode: "HB_NORTH",
	},
	SPP: {
		Source: CPT, Contract: CPT, PeakStart: 7, PeakEnd: 22,
		Labels:  []Label{Label5x16, Label2x16, Label7x8},
		Shaper:  true, BlockShaper: true, Splitter: true, Vol: true,
		HubNode: "SPPNORTH_HUB",
	},
	CAISO: {
		Source: PPT, Contract: PPT, PeakStart: 7, PeakEnd: 22,
		Labels:       []Label{Label6x16Weekday, Label6x16Saturday, LabelOffSunday, LabelOffNight},
		SaturdayPeak: true,
		Shaper:       true,
	},
}

// Lookup returns the descriptor for m, or ErrUnsupportedMarket.
func Lookup(m Market) (Descriptor, error) {
	d, ok := registry[m]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnsupportedMarket, m)
	}
	return d, nil
}

// All returns every known market, in a stable order.
func All() []Market {
	return []Market{PJM, ISONE, NYISO, MISO, ERCOT, SPP, CAISO}
}

// Parse converts a market identifier string to a Market.
func Parse(s string) (Market, error) {
	m := Market(s)
	if _, ok := registry[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMarket, s)
	}
	return m, nil
}

// Labels returns the peak-block label set of m.
func (m Market) Labels() ([]Label, error) {
	d, err := Lookup(m)
	if err != nil {
		return nil, err
	}
	return d.Labels, nil
}
