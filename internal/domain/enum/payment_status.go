package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus is the order-level payment position
type PaymentStatus int

const (
	PaymentStatusUnpaid  PaymentStatus = 0
	PaymentStatusPartial PaymentStatus = 1
	PaymentStatusPaid    PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	names := [...]string{"Unpaid", "Partial", "Paid"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unpaid"
	}
	return names[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "Unpaid":
		*s = PaymentStatusUnpaid
	case "Partial":
		*s = PaymentStatusPartial
	case "Paid":
		*s = PaymentStatusPaid
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}

// PaymentState is the state of a single payment record.
// A payment is immutable once created except for cancellation.
type PaymentState int

const (
	PaymentStatePaid      PaymentState = 0
	PaymentStateCredit    PaymentState = 1
	PaymentStateCancelled PaymentState = 2
)

func (s PaymentState) String() string {
	names := [...]string{"Paid", "Credit", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Paid"
	}
	return names[s]
}

// IsActive reports whether the payment still counts towards the order.
func (s PaymentState) IsActive() bool {
	return s != PaymentStateCancelled
}

func (s PaymentState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentState(i)
		return nil
	}
	switch str {
	case "Paid":
		*s = PaymentStatePaid
	case "Credit":
		*s = PaymentStateCredit
	case "Cancelled":
		*s = PaymentStateCancelled
	}
	return nil
}

func (s PaymentState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentState) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatePaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentState(v)
	case int:
		*s = PaymentState(v)
	}
	return nil
}
