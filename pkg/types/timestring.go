package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimeLayout формат времени суток (HH:MM)
const TimeLayout = "15:04"

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

// TimeString время суток в формате HH:MM
type TimeString string

// NewTimeString создает TimeString из time.Time, отбрасывая секунды
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(TimeLayout))
}

// NewTimeStringFromString валидирует и создает TimeString из строки
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// String возвращает строковое представление
func (ts TimeString) String() string {
	return string(ts)
}

// Before сравнивает два времени (лексикографически для HH:MM это корректно)
func (ts TimeString) Before(other TimeString) bool {
	return string(ts) < string(other)
}

// UnmarshalJSON десериализует и валидирует время
func (ts *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeString, err)
	}
	if s == "" {
		*ts = ""
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Value реализует driver.Valuer (колонка TIME)
func (ts TimeString) Value() (driver.Value, error) {
	if ts == "" {
		return nil, nil
	}
	return string(ts), nil
}

// Scan реализует sql.Scanner. Postgres возвращает TIME как "HH:MM:SS"
func (ts *TimeString) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*ts = ""
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T into TimeString", ErrInvalidTimeString, value)
	}

	if len(s) > len(TimeLayout) {
		s = s[:len(TimeLayout)]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
