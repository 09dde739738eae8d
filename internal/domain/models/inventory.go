package models

// InventoryItem is a lendable item.
type InventoryItem struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	DepartmentID string     `json:"departmentId" db:"department_id"`
	CategoryID   *string    `json:"categoryId,omitempty" db:"category_id"`
	SerialNumber string     `json:"serialNumber" db:"serial_number"`
	Status       ItemStatus `json:"status" db:"status"`
	ImageURL     string     `json:"imageUrl" db:"image_url"`
	CreatedAt    Timestamp  `json:"createdAt" db:"created_at"`
	UpdatedAt    Timestamp  `json:"updatedAt" db:"updated_at"`
}

type InventoryItemInput struct {
	Name         string     `json:"name" validate:"required,max=191"`
	Description  string     `json:"description" validate:"max=1000"`
	DepartmentID string     `json:"departmentId" validate:"required"`
	CategoryID   *string    `json:"categoryId"`
	SerialNumber string     `json:"serialNumber" validate:"max=191"`
	Status       ItemStatus `json:"status"`
	ImageURL     string     `json:"imageUrl" validate:"omitempty,url,max=1000"`
}

type InventoryItemPatch struct {
	Name         *string     `json:"name" validate:"omitnil,min=1,max=191"`
	Description  *string     `json:"description" validate:"omitempty,max=1000"`
	DepartmentID *string     `json:"departmentId" validate:"omitnil,min=1"`
	CategoryID   *string     `json:"categoryId"`
	SerialNumber *string     `json:"serialNumber" validate:"omitempty,max=191"`
	Status       *ItemStatus `json:"status"`
	ImageURL     *string     `json:"imageUrl" validate:"omitempty,url,max=1000"`
}

func (p InventoryItemPatch) Apply(it *InventoryItem) {
	setIf(&it.Name, p.Name)
	setIf(&it.Description, p.Description)
	setIf(&it.DepartmentID, p.DepartmentID)
	setOptional(&it.CategoryID, p.CategoryID)
	setIf(&it.SerialNumber, p.SerialNumber)
	setIf(&it.Status, p.Status)
	setIf(&it.ImageURL, p.ImageURL)
}

type SupplyItem struct {
	ID               string           `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Description      string           `json:"description" db:"description"`
	DepartmentID     string           `json:"departmentId" db:"department_id"`
	CategoryID       *string          `json:"categoryId,omitempty" db:"category_id"`
	Quantity         int              `json:"quantity" db:"quantity"`
	Unit             string           `json:"unit" db:"unit"`
	ReorderThreshold int              `json:"reorderThreshold" db:"reorder_threshold"`
	ExpiresAt        *Timestamp       `json:"expiresAt,omitempty" db:"expires_at"`
	Status           SupplyItemStatus `json:"status" db:"status"`
	CreatedAt        Timestamp        `json:"createdAt" db:"created_at"`
	UpdatedAt        Timestamp        `json:"updatedAt" db:"updated_at"`
}

type SupplyItemInput struct {
	Name             string           `json:"name" validate:"required,max=191"`
	Description      string           `json:"description" validate:"max=1000"`
	DepartmentID     string           `json:"departmentId" validate:"required"`
	CategoryID       *string          `json:"categoryId"`
	Quantity         int              `json:"quantity" validate:"gte=0"`
	Unit             string           `json:"unit" validate:"max=64"`
	ReorderThreshold int              `json:"reorderThreshold" validate:"gte=0"`
	ExpiresAt        *Timestamp       `json:"expiresAt"`
	Status           SupplyItemStatus `json:"status"`
}

type SupplyItemPatch struct {
	Name             *string           `json:"name" validate:"omitnil,min=1,max=191"`
	Description      *string           `json:"description" validate:"omitempty,max=1000"`
	DepartmentID     *string           `json:"departmentId" validate:"omitnil,min=1"`
	CategoryID       *string           `json:"categoryId"`
	Quantity         *int              `json:"quantity" validate:"omitnil,gte=0"`
	Unit             *string           `json:"unit" validate:"omitempty,max=64"`
	ReorderThreshold *int              `json:"reorderThreshold" validate:"omitnil,gte=0"`
	ExpiresAt        *Timestamp        `json:"expiresAt"`
	Status           *SupplyItemStatus `json:"status"`
}

func (p SupplyItemPatch) Apply(it *SupplyItem) {
	setIf(&it.Name, p.Name)
	setIf(&it.Description, p.Description)
	setIf(&it.DepartmentID, p.DepartmentID)
	setOptional(&it.CategoryID, p.CategoryID)
	setIf(&it.Quantity, p.Quantity)
	setIf(&it.Unit, p.Unit)
	setIf(&it.ReorderThreshold, p.ReorderThreshold)
	if p.ExpiresAt != nil {
		if p.ExpiresAt.IsZero() {
			it.ExpiresAt = nil
		} else {
			v := *p.ExpiresAt
			it.ExpiresAt = &v
		}
	}
	setIf(&it.Status, p.Status)
}

// setOptional treats an empty string as "clear the reference".
func setOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	if *src == "" {
		*dst = nil
		return
	}
	v := *src
	*dst = &v
}
