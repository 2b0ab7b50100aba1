// Package requests defines procurement/service request records, the client-side
// draft a requester fills in, and presence validation of that draft.
package requests

// Classification values. Negotiable and Competitive are chosen by the requester;
// Pending and Completed are workflow states the dashboard counts.
const (
	ClassificationNegotiable  = "Negotiable"
	ClassificationCompetitive = "Competitive"
	ClassificationPending     = "Pending"
	ClassificationCompleted   = "Completed"
)

// Unassigned is shown when a record has no assignee.
const Unassigned = "Unassigned"

// Record is a server-persisted request. Identity fields (ID, ReferenceNumber,
// Timestamp, Status) are assigned by the backend and never set by this client.
type Record struct {
	ID                      Scalar `json:"id"`
	ReferenceNumber         string `json:"referenceNumber"`
	Timestamp               Scalar `json:"timestamp"`
	Email                   string `json:"email"`
	Name                    string `json:"name"`
	TypeOfClient            string `json:"typeOfClient"`
	Classification          string `json:"classification"`
	ProjectTitle            string `json:"projectTitle"`
	PhilgepsReferenceNumber string `json:"philgepsReferenceNumber"`
	ProductType             string `json:"productType"`
	RequestType             string `json:"requestType"`
	DateNeeded              string `json:"dateNeeded"`
	SpecialInstructions     string `json:"specialInstructions"`
	AssignedTo              string `json:"assignedTo,omitempty"`
	Status                  string `json:"status"`
}

// AssigneeLabel returns the assignee or Unassigned.
func (r Record) AssigneeLabel() string {
	if r.AssignedTo == "" {
		return Unassigned
	}
	return r.AssignedTo
}

// Find returns the first record whose id renders as id.
func Find(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID.String() == id {
			return r, true
		}
	}
	return Record{}, false
}
