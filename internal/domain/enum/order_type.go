package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderType selects the sale policy that governs an order's lifecycle
type OrderType int

const (
	OrderTypeCounterSale OrderType = 0
	OrderTypeCreditSale  OrderType = 1
	OrderTypeProforma    OrderType = 2
	OrderTypeOnlineSale  OrderType = 3
)

func (t OrderType) String() string {
	names := [...]string{"CounterSale", "CreditSale", "Proforma", "OnlineSale"}
	if int(t) < 0 || int(t) >= len(names) {
		return "CounterSale"
	}
	return names[t]
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = OrderType(i)
		return nil
	}
	switch str {
	case "CounterSale":
		*t = OrderTypeCounterSale
	case "CreditSale":
		*t = OrderTypeCreditSale
	case "Proforma":
		*t = OrderTypeProforma
	case "OnlineSale":
		*t = OrderTypeOnlineSale
	}
	return nil
}

func (t OrderType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *OrderType) Scan(value interface{}) error {
	if value == nil {
		*t = OrderTypeCounterSale
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = OrderType(v)
	case int:
		*t = OrderType(v)
	}
	return nil
}
