package models

import "facilities/internal/domain"

type Role struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   Timestamp `json:"createdAt" db:"created_at"`
	UpdatedAt   Timestamp `json:"updatedAt" db:"updated_at"`
}

type RoleInput struct {
	Name        string `json:"name" validate:"required,max=191"`
	Description string `json:"description" validate:"max=1000"`
}

type RolePatch struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=191"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

func (p RolePatch) Apply(r *Role) {
	setIf(&r.Name, p.Name)
	setIf(&r.Description, p.Description)
}

type User struct {
	ID           string          `json:"id" db:"id"`
	Email        string          `json:"email" db:"email"`
	FirstName    string          `json:"firstName" db:"first_name"`
	LastName     string          `json:"lastName" db:"last_name"`
	DepartmentID string          `json:"departmentId" db:"department_id"`
	SectionID    *string         `json:"sectionId,omitempty" db:"section_id"`
	PasswordHash *string         `json:"-" db:"password_hash"` // never sent to the frontend
	Roles        []domain.Option `json:"roles" db:"-"`
	CreatedAt    Timestamp       `json:"createdAt" db:"created_at"`
	UpdatedAt    Timestamp       `json:"updatedAt" db:"updated_at"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

type UserInput struct {
	Email        string   `json:"email" validate:"required,email,max=191"`
	FirstName    string   `json:"firstName" validate:"required,max=191"`
	LastName     string   `json:"lastName" validate:"required,max=191"`
	DepartmentID string   `json:"departmentId" validate:"required"`
	SectionID    *string  `json:"sectionId"`
	RoleIDs      []string `json:"roleIds" validate:"omitempty,dive,required"`
	Password     string   `json:"password" validate:"omitempty,min=8,max=72"`
}

type UserPatch struct {
	Email        *string   `json:"email" validate:"omitnil,email,max=191"`
	FirstName    *string   `json:"firstName" validate:"omitnil,min=1,max=191"`
	LastName     *string   `json:"lastName" validate:"omitnil,min=1,max=191"`
	DepartmentID *string   `json:"departmentId" validate:"omitnil,min=1"`
	SectionID    *string   `json:"sectionId"`
	RoleIDs      *[]string `json:"roleIds" validate:"omitempty,dive,required"`
	Password     *string   `json:"password" validate:"omitnil,min=8,max=72"`
}

func (p UserPatch) Apply(u *User) {
	setIf(&u.Email, p.Email)
	setIf(&u.FirstName, p.FirstName)
	setIf(&u.LastName, p.LastName)
	setIf(&u.DepartmentID, p.DepartmentID)
	if p.SectionID != nil {
		if *p.SectionID == "" {
			u.SectionID = nil
		} else {
			v := *p.SectionID
			u.SectionID = &v
		}
	}
}
