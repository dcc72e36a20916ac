package models

type LabTest struct {
	ID          string  `json:"id" bson:"_id,omitempty"`
	ClinicID    string  `json:"clinicId" bson:"clinicId"`
	TestNumber  int     `json:"testNumber" bson:"testNumber"`
	Name        string  `json:"name" bson:"name"`
	Price       float64 `json:"price" bson:"price"`
	Turnaround  string  `json:"turnaround" bson:"turnaround"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
	TimeModel   `bson:",inline"`
}
