package dto

type CreateDepartmentDTO struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Code        string `json:"code"        validate:"required,max=20"`
	Description string `json:"description" validate:"omitempty"`
}

type DepartmentDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}
