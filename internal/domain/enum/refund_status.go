package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// RefundStatus represents the lifecycle status of a refund
type RefundStatus int

const (
	RefundStatusPending    RefundStatus = 0
	RefundStatusApproved   RefundStatus = 1
	RefundStatusProcessing RefundStatus = 2
	RefundStatusCompleted  RefundStatus = 3
	RefundStatusRejected   RefundStatus = 4
	RefundStatusCancelled  RefundStatus = 5
	RefundStatusFailed     RefundStatus = 6
)

func (s RefundStatus) String() string {
	names := [...]string{"Pending", "Approved", "Processing", "Completed", "Rejected", "Cancelled", "Failed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

// IsTerminal reports whether the refund is in a final state.
func (s RefundStatus) IsTerminal() bool {
	switch s {
	case RefundStatusCompleted, RefundStatusRejected, RefundStatusCancelled, RefundStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the forward transition is legal.
func (s RefundStatus) CanTransitionTo(next RefundStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case RefundStatusPending:
		return next == RefundStatusApproved || next == RefundStatusRejected || next == RefundStatusCancelled
	case RefundStatusApproved:
		return next == RefundStatusProcessing || next == RefundStatusCancelled
	case RefundStatusProcessing:
		return next == RefundStatusCompleted || next == RefundStatusFailed
	}
	return false
}

func (s RefundStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RefundStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = RefundStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = RefundStatusPending
	case "Approved":
		*s = RefundStatusApproved
	case "Processing":
		*s = RefundStatusProcessing
	case "Completed":
		*s = RefundStatusCompleted
	case "Rejected":
		*s = RefundStatusRejected
	case "Cancelled":
		*s = RefundStatusCancelled
	case "Failed":
		*s = RefundStatusFailed
	}
	return nil
}

func (s RefundStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *RefundStatus) Scan(value interface{}) error {
	if value == nil {
		*s = RefundStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = RefundStatus(v)
	case int:
		*s = RefundStatus(v)
	}
	return nil
}

// RefundType distinguishes how much of the order is refunded
type RefundType int

const (
	RefundTypeFull     RefundType = 0
	RefundTypePartial  RefundType = 1
	RefundTypeExchange RefundType = 2
)

func (t RefundType) String() string {
	names := [...]string{"Full", "Partial", "Exchange"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Full"
	}
	return names[t]
}

func (t RefundType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *RefundType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = RefundType(i)
		return nil
	}
	switch str {
	case "Full":
		*t = RefundTypeFull
	case "Partial":
		*t = RefundTypePartial
	case "Exchange":
		*t = RefundTypeExchange
	}
	return nil
}

func (t RefundType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *RefundType) Scan(value interface{}) error {
	if value == nil {
		*t = RefundTypeFull
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = RefundType(v)
	case int:
		*t = RefundType(v)
	}
	return nil
}
