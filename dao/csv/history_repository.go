package csv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cw-forecast/models"
	"cw-forecast/util"
)

// ErrUnknownCity is returned for a city with no configured file.
var ErrUnknownCity = errors.New("no history file for city")

// HistoryRepository stores one CSV file per city.
type HistoryRepository struct {
	dir   string
	files map[string]string // lower-case city -> file name
	mu    sync.RWMutex
}

// NewHistoryRepository serves the given city files from dir. Relative file names are
// resolved against dir.
func NewHistoryRepository(dir string, files map[string]string) *HistoryRepository {
	normalized := make(map[string]string, len(files))
	for city, file := range files {
		normalized[strings.ToLower(city)] = file
	}
	return &HistoryRepository{dir: dir, files: normalized}
}

func (r *HistoryRepository) path(city string) (string, error) {
	file, ok := r.files[strings.ToLower(city)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCity, city)
	}
	if filepath.IsAbs(file) {
		return file, nil
	}
	return filepath.Join(r.dir, file), nil
}

// All returns the full series of city in date order. A missing file is an empty history.
func (r *HistoryRepository) All(_ context.Context, city string) ([]models.ObservationDay, error) {
	path, err := r.path(city)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.read(path)
}

// Tail returns the last n days of city.
func (r *HistoryRepository) Tail(ctx context.Context, city string, n int) ([]models.ObservationDay, error) {
	days, err := r.All(ctx, city)
	if err != nil {
		return nil, err
	}
	if len(days) > n {
		days = days[len(days)-n:]
	}
	return days, nil
}

// Append merges days into the city's file. A day already present is replaced.
func (r *HistoryRepository) Append(_ context.Context, city string, days []models.ObservationDay) error {
	path, err := r.path(city)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.read(path)
	if err != nil {
		return err
	}
	return util.WriteHistoryCSVFile(path, merge(existing, days))
}

func (r *HistoryRepository) read(path string) ([]models.ObservationDay, error) {
	days, err := util.ReadHistoryCSVFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

func merge(existing, incoming []models.ObservationDay) []models.ObservationDay {
	byDate := make(map[string]models.ObservationDay, len(existing)+len(incoming))
	for _, d := range existing {
		byDate[d.Date.Format(models.DateLayout)] = d
	}
	for _, d := range incoming {
		d.Date = models.Day(d.Date)
		byDate[d.Date.Format(models.DateLayout)] = d
	}
	out := make([]models.ObservationDay, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
