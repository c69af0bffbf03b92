package api

import "qbit-backend/internal/models"

// FormRequest is the /submit-form body.
type FormRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	MiddleName string `json:"middleName" validate:"max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Gender     string `json:"gender" validate:"max=10"`
	DOB        string `json:"dob" validate:"max=20"`
	NationalID string `json:"nationalId" validate:"max=50"`
	Role       string `json:"role" validate:"max=50"`
	Email      string `json:"email" validate:"required,email,max=100"`
	Phone      string `json:"phone" validate:"max=20"`
	Street     string `json:"street" validate:"max=200"`
	City       string `json:"city" validate:"max=100"`
	State      string `json:"state" validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"max=20"`
	Country    string `json:"country" validate:"max=100"`
	Password   string `json:"password" validate:"required"`
}

func (f FormRequest) toModel(hash string) models.UserForm {
	return models.UserForm{
		FirstName:  f.FirstName,
		MiddleName: f.MiddleName,
		LastName:   f.LastName,
		Gender:     f.Gender,
		DOB:        f.DOB,
		NationalID: f.NationalID,
		Role:       f.Role,
		Email:      f.Email,
		Phone:      f.Phone,
		Street:     f.Street,
		City:       f.City,
		State:      f.State,
		PostalCode: f.PostalCode,
		Country:    f.Country,
		Password:   hash,
	}
}

// UserRequest is the POST /users body.
type UserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Gender    string `json:"gender" validate:"required,max=10"`
	DOB       string `json:"dob" validate:"required,max=20"`
	Role      string `json:"role" validate:"required,max=20"`
	Email     string `json:"email" validate:"required,email,max=120"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Password  string `json:"password" validate:"required"`
}

// UserUpdateRequest is the PUT /users/{id} body. An empty password keeps the current one.
type UserUpdateRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Gender    string `json:"gender" validate:"required,max=10"`
	DOB       string `json:"dob" validate:"required,max=20"`
	Role      string `json:"role" validate:"required,max=20"`
	Email     string `json:"email" validate:"required,email,max=120"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Password  string `json:"password"`
}

func userDetails(firstName, lastName, gender, dob, role, email, phone, hash string) models.UserDetails {
	return models.UserDetails{
		FirstName: firstName,
		LastName:  lastName,
		Gender:    gender,
		DOB:       dob,
		Role:      role,
		Email:     email,
		Phone:     phone,
		Password:  hash,
		IsActive:  true,
	}
}

// ReportCreateRequest is the POST /report-requests body. AssignedTo is a "First Last" name.
type ReportCreateRequest struct {
	RequestID  string  `json:"requestId" validate:"required,max=50"`
	Category   string  `json:"category" validate:"required,max=50"`
	Product    string  `json:"product" validate:"max=100"`
	Status     *string `json:"status" validate:"omitempty,max=50"`
	Report     string  `json:"report" validate:"max=100"`
	Download   bool    `json:"download"`
	AssignedTo string  `json:"assignedTo"`
}

func (r ReportCreateRequest) toModel() models.ReportRequest {
	status := models.ReportStatusUnassigned
	if r.Status != nil {
		status = *r.Status
	}
	return models.ReportRequest{
		RequestID: r.RequestID,
		Category:  r.Category,
		Product:   r.Product,
		Status:    status,
		Report:    r.Report,
		Download:  r.Download,
	}
}
