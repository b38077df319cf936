package util

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cw-forecast/models"
)

// HistoryCSVHeader is the column layout of history files.
var HistoryCSVHeader = []string{"date", "temp_max", "rain", "wind", "humidity", "pressure", "demand"}

// ReadHistoryCSV parses a history file. Columns are matched by header name, so extra
// columns such as is_weekend are ignored.
func ReadHistoryCSV(r io.Reader) ([]models.ObservationDay, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range HistoryCSVHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var days []models.ObservationDay
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := models.ParseDay(rec[col["date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values := make([]float64, len(HistoryCSVHeader)-1)
		for i, name := range HistoryCSVHeader[1:] {
			values[i], err = strconv.ParseFloat(strings.TrimSpace(rec[col[name]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, name, err)
			}
		}
		days = append(days, models.ObservationDay{
			WeatherDay: models.WeatherDay{
				Date:     date,
				TempMax:  values[0],
				Rain:     values[1],
				Wind:     values[2],
				Humidity: values[3],
				Pressure: values[4],
			},
			Demand: values[5],
		})
	}
	return days, nil
}

// WriteHistoryCSV writes days with a header row.
func WriteHistoryCSV(w io.Writer, days []models.ObservationDay) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(HistoryCSVHeader); err != nil {
		return err
	}
	for _, d := range days {
		rec := []string{
			d.Date.Format(models.DateLayout),
			formatFloat(d.TempMax),
			formatFloat(d.Rain),
			formatFloat(d.Wind),
			formatFloat(d.Humidity),
			formatFloat(d.Pressure),
			formatFloat(d.Demand),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadHistoryCSVFile opens and parses a history file.
func ReadHistoryCSVFile(path string) ([]models.ObservationDay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()
	days, err := ReadHistoryCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return days, nil
}

// WriteHistoryCSVFile replaces path with days. The file is written next to its final
// location and renamed so readers never see a partial file.
func WriteHistoryCSVFile(path string, days []models.ObservationDay) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".history-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteHistoryCSV(tmp, days); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
