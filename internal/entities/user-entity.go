package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type User struct {
	ID           uint64      `json:"id"`
	Fio          string      `json:"fio"`
	Email        string      `json:"email"`
	Password     string      `json:"-"`
	Role         string      `json:"role"`
	DepartmentID null.Uint64 `json:"department_id"`
	CreatedAt    time.Time   `json:"created_at"`
}
