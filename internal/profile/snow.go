package profile

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"bifacial-tilt/internal/model"
)

// DailyRecord is one day of weather-station history. SnowDepthMM is zero when
// the station reported no snow reading for the day.
type DailyRecord struct {
	Date        time.Time
	SnowDepthMM float64
}

// HeightProfile turns daily snow depths into a monthly row-height profile:
// for each month, the mean snow depth across all records of that month
// (converted from millimeters to site units) is subtracted from the nominal
// reveal height. Months with no records at all are left out of the profile,
// so lookups fall back to the nominal height.
func HeightProfile(records []DailyRecord, nominalHeight float64) model.MonthlyProfile {
	sums := map[time.Month]float64{}
	counts := map[time.Month]int{}
	for _, r := range records {
		m := r.Date.Month()
		sums[m] += r.SnowDepthMM
		counts[m]++
	}

	values := make(map[time.Month]float64, len(sums))
	for m, sum := range sums {
		meanDepth := sum / float64(counts[m]) / 1000.0 // mm → site units
		values[m] = nominalHeight - meanDepth
	}
	return model.NewMonthlyProfile(values)
}

// snowRow is one record of a daily weather CSV export. Snow is a pointer so
// blank cells decode as missing rather than zero. Missing readings are
// treated as "no snow".
type snowRow struct {
	Date string   `csv:"date"`
	Snow *float64 `csv:"snow"`
}

// LoadSnowCSV reads daily records from a CSV with "date" (YYYY-MM-DD) and
// "snow" (mm, may be blank) columns.
func LoadSnowCSV(path string) ([]DailyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []snowRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("decode snow CSV: %w", err)
	}

	records := make([]DailyRecord, 0, len(rows))
	for i, r := range rows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("snow CSV row %d: bad date %q: %w", i+1, r.Date, err)
		}
		rec := DailyRecord{Date: d}
		if r.Snow != nil {
			rec.SnowDepthMM = *r.Snow
		}
		records = append(records, rec)
	}
	return records, nil
}
