package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EducationHighSchool = "High school"
	EducationCollege    = "College"
	EducationUniversity = "University"

	EmploymentStudent  = "Student"
	EmploymentFullTime = "Full time"
	EmploymentPartTime = "Part time"
)

// User is identified by its phone number. ScoresInitial and ScoresFinal are filled
// only when the user is loaded together with its scores.
type User struct {
	ID              int64
	PhoneNumber     string
	PasswordHash    string
	Email           *string
	Name            string
	FirstName       *string
	LastName        *string
	Age             *int
	Zipcode         *string
	Income          *decimal.Decimal
	Education       *string
	Employment      *string
	ScoresInitialID *int64
	ScoresFinalID   *int64
	ScoresInitial   *Score
	ScoresFinal     *Score
	DateJoined      time.Time
	Active          bool
	IsStaff         bool
	IsSuperuser     bool
}

func (u User) FullName() string {
	return strings.TrimSpace(deref(u.FirstName) + " " + deref(u.LastName))
}

func (u User) ShortName() string {
	return deref(u.FirstName)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
