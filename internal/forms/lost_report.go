package forms

import "strings"

// LostReport is the public lost-item form.
type LostReport struct {
	Name        string `json:"name" validate:"required,nonblank,min=2,max=100"`
	NIM         string `json:"nim" validate:"required,min=3,max=20"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=10,max=20"`
	Category    string `json:"category" validate:"required,category"`
	LostDate    string `json:"lostDate" validate:"required,date"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
}

// Normalize trims surrounding whitespace from every field.
func (f *LostReport) Normalize() {
	for _, s := range []*string{&f.Name, &f.NIM, &f.Email, &f.Phone, &f.Category, &f.LostDate, &f.Description} {
		*s = strings.TrimSpace(*s)
	}
}

// Validate checks the report.
func (f LostReport) Validate() error {
	return check(f)
}

// Login is the admin sign-in form.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the credentials are present.
func (f Login) Validate() error {
	return check(f)
}

// Register is the admin sign-up form.
type Register struct {
	Name     string `json:"name" validate:"required,nonblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Validate checks the new account.
func (f Register) Validate() error {
	return check(f)
}
