package simulate

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteSampleCSV writes the per-sample breakdown of an annual estimate.
// This is the primary artifact for "what happened" in one estimate.
func WriteSampleCSV(path string, samples []DayResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "row_height", "energy_kwh"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			s.Date.Format("2006-01-02"),
			fmtFloat(s.RowHeight),
			fmtFloat(s.EnergyKWh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
