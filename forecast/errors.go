package forecast

import "errors"

var (
	// ErrInsufficientHistory is returned when fewer than HistoryLength trailing days are available.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInsufficientWeather is returned when fewer than Horizon future weather days are supplied.
	ErrInsufficientWeather = errors.New("insufficient weather")

	// ErrNonContiguousDate is returned when a history or weather sequence has a gap,
	// a duplicate, or is out of order.
	ErrNonContiguousDate = errors.New("non-contiguous dates")

	// ErrModelInference wraps failures reported by a DemandModel.
	ErrModelInference = errors.New("model inference failed")
)
