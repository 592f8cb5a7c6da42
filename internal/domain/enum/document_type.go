package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DocumentType identifies a numbered business document
type DocumentType int

const (
	DocumentTypeTicket       DocumentType = 0
	DocumentTypeInvoice      DocumentType = 1
	DocumentTypeProforma     DocumentType = 2
	DocumentTypeRefund       DocumentType = 3
	DocumentTypeCreditNote   DocumentType = 4
	DocumentTypeDeliveryNote DocumentType = 5
)

func (t DocumentType) String() string {
	names := [...]string{"Ticket", "Invoice", "Proforma", "Refund", "CreditNote", "DeliveryNote"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Ticket"
	}
	return names[t]
}

// Prefix returns the numbering prefix embedded in the document number.
// The number format is a contract consumed by finance tooling.
func (t DocumentType) Prefix() string {
	prefixes := [...]string{"TKT", "INV", "PRO", "REF", "CN", "DN"}
	if int(t) < 0 || int(t) >= len(prefixes) {
		return "TKT"
	}
	return prefixes[t]
}

func (t DocumentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DocumentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DocumentType(i)
		return nil
	}
	switch str {
	case "Ticket":
		*t = DocumentTypeTicket
	case "Invoice":
		*t = DocumentTypeInvoice
	case "Proforma":
		*t = DocumentTypeProforma
	case "Refund":
		*t = DocumentTypeRefund
	case "CreditNote":
		*t = DocumentTypeCreditNote
	case "DeliveryNote":
		*t = DocumentTypeDeliveryNote
	}
	return nil
}

func (t DocumentType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *DocumentType) Scan(value interface{}) error {
	if value == nil {
		*t = DocumentTypeTicket
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = DocumentType(v)
	case int:
		*t = DocumentType(v)
	}
	return nil
}

// DocumentStatus is the validity state of an issued document
type DocumentStatus int

const (
	DocumentStatusActive DocumentStatus = 0
	DocumentStatusVoid   DocumentStatus = 1
)

func (s DocumentStatus) String() string {
	names := [...]string{"Active", "Void"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Active"
	}
	return names[s]
}

func (s DocumentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DocumentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = DocumentStatus(i)
		return nil
	}
	switch str {
	case "Active":
		*s = DocumentStatusActive
	case "Void":
		*s = DocumentStatusVoid
	}
	return nil
}

func (s DocumentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DocumentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = DocumentStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = DocumentStatus(v)
	case int:
		*s = DocumentStatus(v)
	}
	return nil
}
