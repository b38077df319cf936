package util

import (
	"encoding/json"
	"fmt"
	"os"

	"cw-forecast/models"
	"cw-forecast/models/openmeteo"
)

// ReadOpenMeteoResponseFromJSON loads a DailyResponse from JSON on disk.
func ReadOpenMeteoResponseFromJSON(filePath string) (*openmeteo.DailyResponse, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp openmeteo.DailyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DailyResponse: %w", err)
	}
	return &resp, nil
}

// ReadForecastResponseFromJSON loads a ForecastResponse from JSON on disk.
func ReadForecastResponseFromJSON(filePath string) (*models.ForecastResponse, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp models.ForecastResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ForecastResponse: %w", err)
	}
	return &resp, nil
}
