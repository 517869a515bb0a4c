package domain

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// AvailabilityChange is a real-time notification that slot rows changed. Date is empty
// when the publisher could not tell which day was touched.
type AvailabilityChange struct {
	Table    string     `json:"table"`
	Type     ChangeType `json:"type"`
	Date     string     `json:"date,omitempty"`
	TimeSlot string     `json:"time_slot,omitempty"`
}
