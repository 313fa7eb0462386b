package timewindow

import (
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// Input is a requested window in its textual form ("YYYY-MM-DD", "HH:MM")
type Input struct {
	Date          string
	StartTime     string
	EndTime       string
	Recurring     bool
	RecurrenceEnd *string
}

// Parse validates the textual fields and builds a domain.RequestedWindow
func (in Input) Parse() (domain.RequestedWindow, error) {
	date, err := ParseDate(in.Date)
	if err != nil {
		return domain.RequestedWindow{}, err
	}

	start, err := types.NewTimeStringFromString(in.StartTime)
	if err != nil {
		return domain.RequestedWindow{}, fmt.Errorf("%w: start %q", ErrInvalidTime, in.StartTime)
	}

	end, err := types.NewTimeStringFromString(in.EndTime)
	if err != nil {
		return domain.RequestedWindow{}, fmt.Errorf("%w: end %q", ErrInvalidTime, in.EndTime)
	}

	w := domain.RequestedWindow{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Recurring: in.Recurring,
	}

	// Дата окончания имеет смысл только для повторяющегося окна
	if in.Recurring && in.RecurrenceEnd != nil && *in.RecurrenceEnd != "" {
		recurrenceEnd, err := ParseDate(*in.RecurrenceEnd)
		if err != nil {
			return domain.RequestedWindow{}, err
		}
		w.RecurrenceEnd = &recurrenceEnd
	}

	return w, nil
}

// ParseAndNormalize parses and normalizes a batch of inputs.
// The returned error names the index of the first invalid window.
func (n *Normalizer) ParseAndNormalize(inputs []Input) ([]domain.NormalizedWindow, error) {
	out := make([]domain.NormalizedWindow, 0, len(inputs))

	for i, in := range inputs {
		requested, err := in.Parse()
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}

		normalized, err := n.NormalizeWindow(requested)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}

		out = append(out, normalized)
	}

	return out, nil
}
