package store

// Person is a row of the people table.
type Person struct {
	ID    int64
	Name  string
	Birth string
}

// Record is one phone number joined to its owning person.
// Phone is nil when the number was stored as NULL.
type Record struct {
	Name  string `json:"name" yaml:"name"`
	Birth string `json:"birth" yaml:"birth"`
	Phone *int64 `json:"pnumber" yaml:"pnumber"`
}

// AddResult reports what AddPerson wrote.
type AddResult struct {
	PersonID int64 `json:"person_id" yaml:"person_id"`
	PhoneID  int64 `json:"pnumber_id" yaml:"pnumber_id"`
	Created  bool  `json:"created" yaml:"created"` // false when an existing person was reused
}
