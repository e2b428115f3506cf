// Package catalog loads the static room catalog the scheduler places into.
package catalog

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/fsp-platform/timetable-api/internal/models"
	apperrors "github.com/fsp-platform/timetable-api/pkg/errors"
)

// LoadRooms returns the room catalog. With an empty path the built-in
// catalog is used; otherwise the CSV file (room_id, capacity, large_hall)
// replaces it entirely.
func LoadRooms(path string) ([]*models.Room, error) {
	if path == "" {
		return models.DefaultRooms(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rooms catalog: %w", err)
	}
	defer file.Close() //nolint:errcheck

	var rooms []*models.Room
	if err := gocsv.UnmarshalFile(file, &rooms); err != nil {
		return nil, fmt.Errorf("parse rooms catalog: %w", err)
	}
	if len(rooms) == 0 {
		return nil, apperrors.Clone(apperrors.ErrConfiguration, "rooms catalog is empty")
	}
	for _, room := range rooms {
		if room.ID == "" || room.Capacity <= 0 {
			return nil, apperrors.Clone(apperrors.ErrConfiguration,
				fmt.Sprintf("invalid catalog room %q", room.ID))
		}
	}
	return rooms, nil
}
