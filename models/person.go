package models

import "strings"

// Living is the on/off campus residence flag on a Person. The zero value
// means unset.
type Living string

const (
	LivingOnCampus  Living = "On Campus"
	LivingOffCampus Living = "Off Campus"
)

// NormalizeLiving canonicalizes the free-form residence values that show up
// in spreadsheet uploads ("on campus", "oncampus", "on-campus", ...).
// Unrecognized non-empty values are kept as typed.
func NormalizeLiving(value string) Living {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	switch strings.ToLower(trimmed) {
	case "on campus", "oncampus", "on-campus":
		return LivingOnCampus
	case "off campus", "offcampus", "off-campus":
		return LivingOffCampus
	}
	return Living(trimmed)
}

// Person is a roster identity record. People are created through the manual
// form or the bulk spreadsheet import; import merges are keyed on
// firstName+surname.
type Person struct {
	ID         string `json:"id" firestore:"-"`
	FirstName  string `json:"firstName" firestore:"firstName"`
	MiddleName string `json:"middleName,omitempty" firestore:"middleName,omitempty"`
	Surname    string `json:"surname" firestore:"surname"`
	Department string `json:"department" firestore:"department"`
	Gender     string `json:"gender" firestore:"gender"`
	Class      string `json:"class" firestore:"class"`
	Living     Living `json:"living,omitempty" firestore:"living,omitempty"`
}

// FullName returns the display name used in attendance lists.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.Surname)
}
