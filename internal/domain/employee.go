package domain

import "time"

// Employee is a registered employee. EmployeeID is the business key used by
// participants and attendance logs; ID is the server's row identity.
type Employee struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}
