package models

import "time"

// DiscountCampaign is the authoritative definition a cart item's discount
// snapshot is revalidated against right before pricing consumes it.
type DiscountCampaign struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Code      string    `json:"code" bson:"code"`
	ClinicID  string    `json:"clinicId,omitempty" bson:"clinicId,omitempty"`
	Percent   float64   `json:"percent" bson:"percent"`
	Active    bool      `json:"active" bson:"active"`
	StartsAt  time.Time `json:"startsAt" bson:"startsAt"`
	EndsAt    time.Time `json:"endsAt" bson:"endsAt"`
	TimeModel `bson:",inline"`
}

// AppliesTo reports whether the campaign is usable at the given clinic; an
// empty ClinicID means platform-wide.
func (c *DiscountCampaign) AppliesTo(clinicID string) bool {
	return c.ClinicID == "" || c.ClinicID == clinicID
}
