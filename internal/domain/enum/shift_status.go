package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ShiftStatus represents the state of a cash-register session
type ShiftStatus int

const (
	ShiftStatusOpen      ShiftStatus = 0
	ShiftStatusSuspended ShiftStatus = 1
	ShiftStatusClosed    ShiftStatus = 2
)

func (s ShiftStatus) String() string {
	names := [...]string{"Open", "Suspended", "Closed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Open"
	}
	return names[s]
}

func (s ShiftStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ShiftStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ShiftStatus(i)
		return nil
	}
	switch str {
	case "Open":
		*s = ShiftStatusOpen
	case "Suspended":
		*s = ShiftStatusSuspended
	case "Closed":
		*s = ShiftStatusClosed
	}
	return nil
}

func (s ShiftStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ShiftStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ShiftStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ShiftStatus(v)
	case int:
		*s = ShiftStatus(v)
	}
	return nil
}
