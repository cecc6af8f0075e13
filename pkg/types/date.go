package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout формат календарной даты (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// ErrInvalidDate возвращается при некорректном формате даты
var ErrInvalidDate = errors.New("invalid date string format")

// Date календарная дата без времени суток.
// Нулевое значение означает "дата не задана".
type Date struct {
	t time.Time
}

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf отбрасывает время суток, сохраняя календарный день в часовом поясе t
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate парсит строку формата YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t: t}, nil
}

// MustParseDate парсит дату и паникует при ошибке. Только для тестов и констант.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero возвращает true, если дата не задана
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time возвращает полночь этого дня в UTC
func (d Date) Time() time.Time {
	return d.t
}

// In возвращает полночь этого дня в указанной локации
func (d Date) In(loc *time.Location) time.Time {
	y, m, day := d.t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// Weekday возвращает день недели
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// IsWeekend возвращает true для субботы и воскресенья
func (d Date) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddDays сдвигает дату на n календарных дней (n может быть отрицательным)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before возвращает true, если d раньше other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After возвращает true, если d позже other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal сравнивает две даты
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// String возвращает дату в формате YYYY-MM-DD или пустую строку для нулевой даты
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON сериализует дату как строку YYYY-MM-DD (null для нулевой даты)
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON десериализует дату из строки YYYY-MM-DD
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer для записи в БД (колонка DATE)
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Scan реализует sql.Scanner для чтения из БД
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T into Date", ErrInvalidDate, value)
	}
}

func (d *Date) scanString(s string) error {
	// Postgres может вернуть DATE как "2024-06-10" или "2024-06-10T00:00:00Z"
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
