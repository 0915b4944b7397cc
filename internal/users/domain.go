package users

import "time"

// User represents an employee account.
type User struct {
	ID                  string     `json:"id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	LoginID             string     `json:"login_id"`
	EmailWork           string     `json:"email_work"`
	EmailPersonal       *string    `json:"email_personal,omitempty"`
	PhoneNumberWork     *string    `json:"phone_number_work,omitempty"`
	PhoneNumberPersonal *string    `json:"phone_number_personal,omitempty"`
	IsActive            bool       `json:"is_active"`
	ActiveStartDate     time.Time  `json:"active_start_date"`
	ActiveEndDate       *time.Time `json:"active_end_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CreatedBy           *string    `json:"created_by,omitempty"`
	UpdatedBy           *string    `json:"updated_by,omitempty"`
}

// NewUser carries the fields accepted when creating a user.
type NewUser struct {
	FirstName           string
	LastName            string
	LoginID             string
	EmailWork           string
	EmailPersonal       *string
	PhoneNumberWork     *string
	PhoneNumberPersonal *string
	IsActive            bool
	ActiveStartDate     time.Time
	Password            string
	ActorID             string
}

// UpdateUser carries the fields accepted when updating a user.
type UpdateUser struct {
	FirstName           string
	LastName            string
	EmailWork           string
	EmailPersonal       *string
	PhoneNumberWork     *string
	PhoneNumberPersonal *string
	IsActive            bool
	ActiveEndDate       *time.Time
	ActorID             string
}
