package validation

import (
	"fmt"
	"math"
)

// CoordinateError reports an invalid coordinate value.
type CoordinateError struct {
	Field   string
	Value   float64
	Message string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s: %s (value: %.6f)", e.Field, e.Message, e.Value)
}

// ValidateLatitude checks a latitude value.
func ValidateLatitude(lat float64, fieldName string) error {
	if math.IsNaN(lat) {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lat,
			Message: "NaN not allowed",
		}
	}

	if math.IsInf(lat, 0) {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lat,
			Message: "infinite value not allowed",
		}
	}

	if lat < -90 || lat > 90 {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lat,
			Message: "must be between -90 and 90",
		}
	}

	return nil
}

// ValidateLongitude checks a longitude value.
func ValidateLongitude(lon float64, fieldName string) error {
	if math.IsNaN(lon) {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lon,
			Message: "NaN not allowed",
		}
	}

	if math.IsInf(lon, 0) {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lon,
			Message: "infinite value not allowed",
		}
	}

	if lon < -180 || lon > 180 {
		return &CoordinateError{
			Field:   fieldName,
			Value:   lon,
			Message: "must be between -180 and 180",
		}
	}

	return nil
}

// ValidateCoordinatePair checks a (lat, lon) pair.
func ValidateCoordinatePair(lat, lon float64, prefix string) error {
	if err := ValidateLatitude(lat, prefix+"_lat"); err != nil {
		return err
	}

	if err := ValidateLongitude(lon, prefix+"_lon"); err != nil {
		return err
	}

	return nil
}

// IsZeroCoordinate reports whether a coordinate is (0, 0). Devices with a
// cold GPS fix occasionally report null island; we treat it as missing.
func IsZeroCoordinate(lat, lon float64) bool {
	return lat == 0 && lon == 0
}
