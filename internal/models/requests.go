package models

// CreateCaseRequest is the request body for filing a new case. Status,
// FinalReportSubmitted and CreatedAt are pre-filled by the case service.
type CreateCaseRequest struct {
	Title                string       `json:"title" validate:"required"`
	Description          string       `json:"description" validate:"required"`
	CreatedBy            int64        `json:"createdBy" validate:"required"`
	DepartmentID         int64        `json:"departmentId" validate:"required"`
	Status               string       `json:"status,omitempty"`
	FinalReportSubmitted *bool        `json:"finalReportSubmitted,omitempty"`
	CreatedAt            string       `json:"createdAt,omitempty"`
	CaseDetails          []CaseDetail `json:"caseDetails,omitempty"`
}

// UpdateCaseRequest is a partial case update; nil fields are left unchanged
type UpdateCaseRequest struct {
	Status      *CaseStatus  `json:"status,omitempty" validate:"omitempty,oneof=REPORTED INVESTIGATING CLOSED"`
	CaseDetails []CaseDetail `json:"caseDetails,omitempty"`
}

// CreatePersonRequest is the request body for a new person. Password is
// write-only and is cleared by the person service once sent.
type CreatePersonRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         Role   `json:"role" validate:"required"`
	DepartmentID *ID    `json:"departmentId,omitempty"`
	Address      string `json:"address"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
	Gender       string `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
}

// UpdatePersonRequest is a partial person update
type UpdatePersonRequest struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Role         *Role   `json:"role,omitempty"`
	DepartmentID *ID     `json:"departmentId,omitempty"`
	Address      *string `json:"address,omitempty"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	Gender       *string `json:"gender,omitempty"`
}

// DepartmentRequest is used for both creating and updating departments
type DepartmentRequest struct {
	Name         string `json:"name,omitempty" validate:"required"`
	District     string `json:"district,omitempty" validate:"required"`
	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone string `json:"contactPhone,omitempty"`
}

// CreateReportRequest is the request body for a report against a case
type CreateReportRequest struct {
	CaseID   string `json:"caseId" validate:"required"`
	PersonID ID     `json:"personId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// UpdateReportRequest can only set feedback; it never clears it
type UpdateReportRequest struct {
	SDMFeedback string `json:"sdmFeedback" validate:"required"`
}

// TeamFormationRequest creates or replaces a case team
type TeamFormationRequest struct {
	CaseID    string `json:"caseId" validate:"required"`
	MemberIDs []ID   `json:"member_ids" validate:"required,min=1"`
}

// AdminUserRequest creates or updates an admin account
type AdminUserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// Credentials is a login attempt
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates an account through the auth endpoint
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role,omitempty"`
}

// AdminLoginResponse is the body of POST /api/admin/login
type AdminLoginResponse struct {
	Admin AdminUser `json:"admin"`
	Token string    `json:"token"`
}

// AuthLoginResponse is the body of POST /api/auth/login
type AuthLoginResponse struct {
	User  RawPerson `json:"user"`
	Token string    `json:"token"`
}
