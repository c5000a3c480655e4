package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
		{2024, time.Month(13), 0},
	}

	for _, tt := range tests {
		t.Run(time.Date(tt.year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")+"-"+tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestClampDayOfMonth(t *testing.T) {
	t.Run("DayWithinMonth", func(t *testing.T) {
		d, err := ClampDayOfMonth(2024, time.March, 15)
		assert.NoError(t, err)
		assert.Equal(t, "2024-03-15", d.String())
	})

	t.Run("ClampsToShortMonth", func(t *testing.T) {
		d, err := ClampDayOfMonth(2024, time.April, 31)
		assert.NoError(t, err)
		assert.Equal(t, "2024-04-30", d.String())
	})

	t.Run("LastDaySentinel", func(t *testing.T) {
		d, err := ClampDayOfMonth(2023, time.February, LastDay)
		assert.NoError(t, err)
		assert.Equal(t, "2023-02-28", d.String())

		d, err = ClampDayOfMonth(2024, time.February, LastDay)
		assert.NoError(t, err)
		assert.Equal(t, "2024-02-29", d.String())
	})

	t.Run("RejectsMonthOutOfRange", func(t *testing.T) {
		for _, month := range []time.Month{0, 13, 14, -1} {
			_, err := ClampDayOfMonth(2024, month, 5)
			var dateErr *InvalidDateError
			assert.True(t, errors.As(err, &dateErr), "month %d should be rejected", month)
			assert.Equal(t, "month out of range", dateErr.Reason)
		}
	})

	t.Run("RejectsInvalidDay", func(t *testing.T) {
		for _, day := range []int{0, -2, 32} {
			_, err := ClampDayOfMonth(2024, time.January, day)
			var dateErr *InvalidDateError
			assert.True(t, errors.As(err, &dateErr), "day %d should be rejected", day)
		}
	})
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		anchorDay int
		months    int
		expected  string
	}{
		{"SameYear", 2024, time.January, 15, 2, "2024-03-15"},
		{"CarriesIntoNextYear", 2023, time.November, 31, 3, "2024-02-29"},
		{"Negative", 2024, time.January, 5, -1, "2023-12-05"},
		{"NegativeAcrossYears", 2024, time.March, 31, -13, "2023-02-28"},
		{"LastDaySentinel", 2023, time.December, LastDay, 2, "2024-02-29"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := AddMonths(test.year, test.month, test.anchorDay, test.months)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, d.String())
		})
	}
}

func TestAddMonthsRejectsMonthOutOfRange(t *testing.T) {
	_, err := AddMonths(2024, time.Month(13), 1, 1)
	var dateErr *InvalidDateError
	assert.True(t, errors.As(err, &dateErr))
}

func TestAddInterval(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		frequency Frequency
		interval  int
		want      string
	}{
		{"Daily", "2024-01-30", Daily, 3, "2024-02-02"},
		{"Weekly", "2024-01-01", Weekly, 2, "2024-01-15"},
		{"MonthlyClamps", "2024-01-31", Monthly, 1, "2024-02-29"},
		{"MonthlyAcrossYear", "2024-11-30", Monthly, 3, "2025-02-28"},
		{"YearlyLeapDay", "2024-02-29", Yearly, 1, "2025-02-28"},
		{"YearlyLeapToLeap", "2024-02-29", Yearly, 4, "2028-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddInterval(MustParse(tt.date), tt.frequency, tt.interval)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	t.Run("RejectsNonPositiveInterval", func(t *testing.T) {
		_, err := AddInterval(MustParse("2024-01-01"), Daily, 0)
		var dateErr *InvalidDateError
		assert.True(t, errors.As(err, &dateErr))
	})

	t.Run("RejectsUnknownFrequency", func(t *testing.T) {
		_, err := AddInterval(MustParse("2024-01-01"), FrequencyUnknown, 1)
		assert.Error(t, err)
	})

	t.Run("RejectsZeroDate", func(t *testing.T) {
		_, err := AddInterval(Date{}, Daily, 1)
		assert.Error(t, err)
	})
}

func TestAddMonthsKeepsAnchor(t *testing.T) {
	// Each month is computed from the original anchor, so a short month never drags
	// later months down to its last day.
	want := []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30", "2024-05-31"}
	for i, w := range want {
		d, err := AddMonths(2024, time.January, 31, i)
		assert.NoError(t, err)
		assert.Equal(t, w, d.String())
	}
}

func TestNextWeekday(t *testing.T) {
	monday := MustParse("2024-01-01")
	assert.Equal(t, "2024-01-01", NextWeekday(monday, time.Monday).String())
	assert.Equal(t, "2024-01-05", NextWeekday(monday, time.Friday).String())
	assert.Equal(t, "2024-01-07", NextWeekday(monday, time.Sunday).String())
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2023))
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency(" Monthly ")
	assert.NoError(t, err)
	assert.Equal(t, Monthly, f)

	_, err = ParseFrequency("fortnightly")
	assert.Error(t, err)

	var unmarshalled Frequency
	assert.NoError(t, unmarshalled.UnmarshalText([]byte("yearly")))
	assert.Equal(t, Yearly, unmarshalled)
}
