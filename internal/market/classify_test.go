package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyPJM(t *testing.T) {
	cases := []struct {
		name string
		d    time.Time
		hour int
		want Label
	}{
		{"holiday daytime", day(2024, time.July, 4), 10, Label2x16},
		{"holiday night", day(2024, time.July, 4), 2, Label7x8},
		{"weekday daytime", day(2024, time.July, 10), 10, Label5x16},
		{"weekday night", day(2024, time.July, 10), 2, Label7x8},
		{"weekday HE8 boundary", day(2024, time.July, 10), 8, Label5x16},
		{"weekday HE23 boundary", day(2024, time.July, 10), 23, Label5x16},
		{"weekday HE24", day(2024, time.July, 10), 24, Label7x8},
		{"saturday daytime", day(2024, time.July, 13), 12, Label2x16},
		{"sunday daytime", day(2024, time.July, 14), 12, Label2x16},
		{"sunday night", day(2024, time.July, 14), 1, Label7x8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(tc.d, tc.hour, PJM)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyCentralWindow(t *testing.T) {
	// ERCOT/SPP use HE 7-22.
	got, err := Classify(day(2024, time.July, 10), 7, ERCOT)
	require.NoError(t, err)
	assert.Equal(t, Label5x16, got)

	got, err = Classify(day(2024, time.July, 10), 23, SPP)
	require.NoError(t, err)
	assert.Equal(t, Label7x8, got)
}

func TestClassifyCAISO(t *testing.T) {
	cases := []struct {
		name string
		d    time.Time
		hour int
		want Label
	}{
		{"weekday daytime", day(2024, time.July, 10), 12, Label6x16Weekday},
		{"saturday daytime on-peak", day(2024, time.July, 13), 12, Label6x16Saturday},
		{"sunday daytime", day(2024, time.July, 14), 12, LabelOffSunday},
		{"holiday daytime", day(2024, time.July, 4), 12, LabelOffSunday},
		{"weekday night", day(2024, time.July, 10), 3, LabelOffNight},
		{"saturday night", day(2024, time.July, 13), 24, LabelOffNight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(tc.d, tc.hour, CAISO)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Labels partition each market's 24 hours with no gaps across a multi-year
// span, and every produced label belongs to the declared label set.
func TestClassifyTotality(t *testing.T) {
	for _, m := range All() {
		desc, err := Lookup(m)
		require.NoError(t, err)

		known := make(map[Label]bool, len(desc.Labels))
		for _, l := range desc.Labels {
			known[l] = true
		}

		for d := day(2022, time.January, 1); d.Year() < 2025; d = d.AddDate(0, 0, 1) {
			for hour := 1; hour <= 24; hour++ {
				got, err := Classify(d, hour, m)
				require.NoError(t, err, "%s %s HE%d", m, d.Format("2006-01-02"), hour)
				require.True(t, known[got], "%s %s HE%d produced %q", m, d.Format("2006-01-02"), hour, got)
			}
		}
	}
}

func TestClassifyRejectsBadInput(t *testing.T) {
	_, err := Classify(day(2024, time.July, 4), 0, PJM)
	assert.Error(t, err)

	_, err = Classify(day(2024, time.July, 4), 10, Market("EEX"))
	assert.ErrorIs(t, err, ErrUnsupportedMarket)
}

func TestCollapse(t *testing.T) {
	got, err := Collapse(Label2x16, PJM)
	require.NoError(t, err)
	assert.Equal(t, LabelOff, got)

	got, err = Collapse(Label7x8, SPP)
	require.NoError(t, err)
	assert.Equal(t, LabelOff, got)

	got, err = Collapse(Label5x16, PJM)
	require.NoError(t, err)
	assert.Equal(t, Label5x16, got)

	got, err = Collapse(Label6x16Saturday, CAISO)
	require.NoError(t, err)
	assert.Equal(t, Label6x16, got)

	got, err = Collapse(LabelOffNight, CAISO)
	require.NoError(t, err)
	assert.Equal(t, LabelOff, got)

	_, err = Collapse(Label("bogus"), PJM)
	assert.ErrorIs(t, err, ErrUnrecognizedLabel)
}

func TestComplement(t *testing.T) {
	pairs := map[Label]Label{
		Label7x8:          Label2x16,
		Label2x16:         Label7x8,
		LabelOffNight:     LabelOffSunday,
		LabelOffSunday:    LabelOffNight,
		Label6x16Saturday: Label6x16Weekday,
		Label6x16Weekday:  Label6x16Saturday,
	}
	for l, want := range pairs {
		got, ok, err := Complement(l)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)

		// Involution: complement of complement returns the original.
		back, ok, err := Complement(got)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, l, back)
	}

	// 5x16 has no complement but is not an error.
	_, ok, err := Complement(Label5x16)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Complement(Label("bogus"))
	assert.ErrorIs(t, err, ErrUnrecognizedLabel)
}

func TestParse(t *testing.T) {
	m, err := Parse("PJM")
	require.NoError(t, err)
	assert.Equal(t, PJM, m)

	_, err = Parse("NEM")
	assert.ErrorIs(t, err, ErrUnsupportedMarket)
}
