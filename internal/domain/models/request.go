package models

// Request covers job, borrow, transport, venue and supply requests.
type Request struct {
	ID           string        `json:"id" db:"id"`
	Title        string        `json:"title" db:"title"`
	Type         RequestType   `json:"type" db:"type"`
	Status       RequestStatus `json:"status" db:"status"`
	DepartmentID string        `json:"departmentId" db:"department_id"`
	RequesterID  string        `json:"requesterId" db:"requester_id"`
	Notes        string        `json:"notes" db:"notes"`
	VehicleID    *string       `json:"vehicleId,omitempty" db:"vehicle_id"`
	VenueID      *string       `json:"venueId,omitempty" db:"venue_id"`
	ScheduledAt  *Timestamp    `json:"scheduledAt,omitempty" db:"scheduled_at"`
	CreatedAt    Timestamp     `json:"createdAt" db:"created_at"`
	UpdatedAt    Timestamp     `json:"updatedAt" db:"updated_at"`
}

type RequestInput struct {
	Title        string        `json:"title" validate:"required,max=255"`
	Type         RequestType   `json:"type"`
	Status       RequestStatus `json:"status"`
	DepartmentID string        `json:"departmentId" validate:"required"`
	RequesterID  string        `json:"requesterId" validate:"required"`
	Notes        string        `json:"notes" validate:"max=2000"`
	VehicleID    *string       `json:"vehicleId"`
	VenueID      *string       `json:"venueId"`
	ScheduledAt  *Timestamp    `json:"scheduledAt"`
}

type RequestPatch struct {
	Title        *string        `json:"title" validate:"omitnil,min=1,max=255"`
	Type         *RequestType   `json:"type"`
	Status       *RequestStatus `json:"status"`
	DepartmentID *string        `json:"departmentId" validate:"omitnil,min=1"`
	Notes        *string        `json:"notes" validate:"omitempty,max=2000"`
	VehicleID    *string        `json:"vehicleId"`
	VenueID      *string        `json:"venueId"`
	ScheduledAt  *Timestamp     `json:"scheduledAt"`
}

func (p RequestPatch) Apply(r *Request) {
	setIf(&r.Title, p.Title)
	setIf(&r.Type, p.Type)
	setIf(&r.Status, p.Status)
	setIf(&r.DepartmentID, p.DepartmentID)
	setIf(&r.Notes, p.Notes)
	setOptional(&r.VehicleID, p.VehicleID)
	setOptional(&r.VenueID, p.VenueID)
	if p.ScheduledAt != nil {
		if p.ScheduledAt.IsZero() {
			r.ScheduledAt = nil
		} else {
			v := *p.ScheduledAt
			r.ScheduledAt = &v
		}
	}
}
