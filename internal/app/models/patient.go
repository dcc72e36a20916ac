package models

type Patient struct {
	ID                   string  `json:"id" bson:"_id,omitempty"`
	FullName             string  `json:"fullName" bson:"fullName"`
	Email                string  `json:"email" bson:"email"`
	PhoneNumber          string  `json:"phoneNumber" bson:"phoneNumber"`
	PushToken            string  `json:"pushToken,omitempty" bson:"pushToken,omitempty"`
	SubscriptionCredits  int     `json:"subscriptionCredits" bson:"subscriptionCredits"`
	InsuranceProvider    string  `json:"insuranceProvider,omitempty" bson:"insuranceProvider,omitempty"`
	InsurancePolicyLimit float64 `json:"insurancePolicyLimit,omitempty" bson:"insurancePolicyLimit,omitempty"`
	TimeModel            `bson:",inline"`
}
