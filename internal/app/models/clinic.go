package models

import "time"

// Delivery methods a clinic may support.
const (
	DeliveryMethodPickup         = "pickup"
	DeliveryMethodHomeCollection = "home_collection"
	DeliveryMethodCourier        = "courier"
)

// DayWindow is an inclusive open and exclusive close wall-clock window for a
// single weekday, in the clinic's timezone.
type DayWindow struct {
	Open  string `json:"open" bson:"open"`   // "08:00"
	Close string `json:"close" bson:"close"` // "17:30"
}

// WeeklyHours lists zero or more windows per weekday; a day with no window is
// closed.
type WeeklyHours struct {
	Monday    []DayWindow `json:"monday,omitempty" bson:"monday,omitempty"`
	Tuesday   []DayWindow `json:"tuesday,omitempty" bson:"tuesday,omitempty"`
	Wednesday []DayWindow `json:"wednesday,omitempty" bson:"wednesday,omitempty"`
	Thursday  []DayWindow `json:"thursday,omitempty" bson:"thursday,omitempty"`
	Friday    []DayWindow `json:"friday,omitempty" bson:"friday,omitempty"`
	Saturday  []DayWindow `json:"saturday,omitempty" bson:"saturday,omitempty"`
	Sunday    []DayWindow `json:"sunday,omitempty" bson:"sunday,omitempty"`
}

// ForWeekday returns the windows configured for the given weekday.
func (wh WeeklyHours) ForWeekday(wd time.Weekday) []DayWindow {
	switch wd {
	case time.Monday:
		return wh.Monday
	case time.Tuesday:
		return wh.Tuesday
	case time.Wednesday:
		return wh.Wednesday
	case time.Thursday:
		return wh.Thursday
	case time.Friday:
		return wh.Friday
	case time.Saturday:
		return wh.Saturday
	case time.Sunday:
		return wh.Sunday
	default:
		return nil
	}
}

type Clinic struct {
	ID              string      `json:"id" bson:"_id,omitempty"`
	Name            string      `json:"name" bson:"name"`
	Email           string      `json:"email" bson:"email"`
	PhoneNumber     string      `json:"phoneNumber" bson:"phoneNumber"`
	Online          bool        `json:"online" bson:"online"`
	Balance         float64     `json:"balance" bson:"balance"`
	DeliveryMethods []string    `json:"deliveryMethods" bson:"deliveryMethods"`
	WeeklyHours     WeeklyHours `json:"weeklyHours" bson:"weeklyHours"`
	Timezone        string      `json:"timezone" bson:"timezone"`
	PushToken       string      `json:"pushToken,omitempty" bson:"pushToken,omitempty"`
	TimeModel       `bson:",inline"`
}

// SupportsDeliveryMethod reports whether the clinic accepts the given method.
func (c *Clinic) SupportsDeliveryMethod(method string) bool {
	for _, m := range c.DeliveryMethods {
		if m == method {
			return true
		}
	}
	return false
}
