package models

type Department struct {
	ID                   string    `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Description          string    `json:"description" db:"description"`
	AcceptsJobs          bool      `json:"acceptsJobs" db:"accepts_jobs"`
	ManagesTransport     bool      `json:"managesTransport" db:"manages_transport"`
	ManagesBorrowRequest bool      `json:"managesBorrowRequest" db:"manages_borrow_request"`
	ManagesSupplyRequest bool      `json:"managesSupplyRequest" db:"manages_supply_request"`
	ManagesFacility      bool      `json:"managesFacility" db:"manages_facility"`
	CreatedAt            Timestamp `json:"createdAt" db:"created_at"`
	UpdatedAt            Timestamp `json:"updatedAt" db:"updated_at"`
}

type DepartmentInput struct {
	Name                 string `json:"name" validate:"required,max=191"`
	Description          string `json:"description" validate:"max=1000"`
	AcceptsJobs          bool   `json:"acceptsJobs"`
	ManagesTransport     bool   `json:"managesTransport"`
	ManagesBorrowRequest bool   `json:"managesBorrowRequest"`
	ManagesSupplyRequest bool   `json:"managesSupplyRequest"`
	ManagesFacility      bool   `json:"managesFacility"`
}

type DepartmentPatch struct {
	Name                 *string `json:"name" validate:"omitnil,min=1,max=191"`
	Description          *string `json:"description" validate:"omitempty,max=1000"`
	AcceptsJobs          *bool   `json:"acceptsJobs"`
	ManagesTransport     *bool   `json:"managesTransport"`
	ManagesBorrowRequest *bool   `json:"managesBorrowRequest"`
	ManagesSupplyRequest *bool   `json:"managesSupplyRequest"`
	ManagesFacility      *bool   `json:"managesFacility"`
}

// Apply merges the present fields of the patch into d.
func (p DepartmentPatch) Apply(d *Department) {
	setIf(&d.Name, p.Name)
	setIf(&d.Description, p.Description)
	setIf(&d.AcceptsJobs, p.AcceptsJobs)
	setIf(&d.ManagesTransport, p.ManagesTransport)
	setIf(&d.ManagesBorrowRequest, p.ManagesBorrowRequest)
	setIf(&d.ManagesSupplyRequest, p.ManagesSupplyRequest)
	setIf(&d.ManagesFacility, p.ManagesFacility)
}

type Section struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DepartmentID string    `json:"departmentId" db:"department_id"`
	CreatedAt    Timestamp `json:"createdAt" db:"created_at"`
	UpdatedAt    Timestamp `json:"updatedAt" db:"updated_at"`
}

type SectionInput struct {
	Name         string `json:"name" validate:"required,max=191"`
	DepartmentID string `json:"departmentId" validate:"required"`
}

type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt Timestamp `json:"createdAt" db:"created_at"`
	UpdatedAt Timestamp `json:"updatedAt" db:"updated_at"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=191"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
