package models

type Vehicle struct {
	ID           string        `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Type         string        `json:"type" db:"type"`
	LicensePlate string        `json:"licensePlate" db:"license_plate"`
	Capacity     int           `json:"capacity" db:"capacity"`
	DepartmentID string        `json:"departmentId" db:"department_id"`
	Status       VehicleStatus `json:"status" db:"status"`
	ImageURL     string        `json:"imageUrl" db:"image_url"`
	CreatedAt    Timestamp     `json:"createdAt" db:"created_at"`
	UpdatedAt    Timestamp     `json:"updatedAt" db:"updated_at"`
}

type VehicleInput struct {
	Name         string        `json:"name" validate:"required,max=191"`
	Type         string        `json:"type" validate:"max=64"`
	LicensePlate string        `json:"licensePlate" validate:"required,max=32"`
	Capacity     int           `json:"capacity" validate:"gte=1"`
	DepartmentID string        `json:"departmentId" validate:"required"`
	Status       VehicleStatus `json:"status"`
	ImageURL     string        `json:"imageUrl" validate:"omitempty,url,max=1000"`
}

type VehiclePatch struct {
	Name         *string        `json:"name" validate:"omitnil,min=1,max=191"`
	Type         *string        `json:"type" validate:"omitempty,max=64"`
	LicensePlate *string        `json:"licensePlate" validate:"omitnil,min=1,max=32"`
	Capacity     *int           `json:"capacity" validate:"omitnil,gte=1"`
	DepartmentID *string        `json:"departmentId" validate:"omitnil,min=1"`
	Status       *VehicleStatus `json:"status"`
	ImageURL     *string        `json:"imageUrl" validate:"omitempty,url,max=1000"`
}

func (p VehiclePatch) Apply(v *Vehicle) {
	setIf(&v.Name, p.Name)
	setIf(&v.Type, p.Type)
	setIf(&v.LicensePlate, p.LicensePlate)
	setIf(&v.Capacity, p.Capacity)
	setIf(&v.DepartmentID, p.DepartmentID)
	setIf(&v.Status, p.Status)
	setIf(&v.ImageURL, p.ImageURL)
}

type Venue struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Location     string      `json:"location" db:"location"`
	Capacity     int         `json:"capacity" db:"capacity"`
	DepartmentID string      `json:"departmentId" db:"department_id"`
	Status       VenueStatus `json:"status" db:"status"`
	CreatedAt    Timestamp   `json:"createdAt" db:"created_at"`
	UpdatedAt    Timestamp   `json:"updatedAt" db:"updated_at"`
}

type VenueInput struct {
	Name         string      `json:"name" validate:"required,max=191"`
	Location     string      `json:"location" validate:"max=255"`
	Capacity     int         `json:"capacity" validate:"gte=1"`
	DepartmentID string      `json:"departmentId" validate:"required"`
	Status       VenueStatus `json:"status"`
}

type VenuePatch struct {
	Name         *string      `json:"name" validate:"omitnil,min=1,max=191"`
	Location     *string      `json:"location" validate:"omitempty,max=255"`
	Capacity     *int         `json:"capacity" validate:"omitnil,gte=1"`
	DepartmentID *string      `json:"departmentId" validate:"omitnil,min=1"`
	Status       *VenueStatus `json:"status"`
}

func (p VenuePatch) Apply(v *Venue) {
	setIf(&v.Name, p.Name)
	setIf(&v.Location, p.Location)
	setIf(&v.Capacity, p.Capacity)
	setIf(&v.DepartmentID, p.DepartmentID)
	setIf(&v.Status, p.Status)
}
