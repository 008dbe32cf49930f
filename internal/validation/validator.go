package validation

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"

	"github.com/userdir/directory-service/internal/domain"
)

// Field names as reported in FieldErrors.
const (
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldRole       = "role"
	FieldLocation   = "location"
	FieldDepartment = "department"
)

const (
	MsgFirstNameRequired  = "First name is required"
	MsgFirstNameAlpha     = "First name should contain only alphabets"
	MsgLastNameRequired   = "Last name is required"
	MsgLastNameAlpha      = "Last name should contain only alphabets"
	MsgEmailRequired      = "Email is required"
	MsgEmailInvalid       = "Invalid email format"
	MsgEmailTaken         = "Email is already taken"
	MsgPhoneRequired      = "Phone number is required"
	MsgPhoneFormat        = "Phone number should be exactly 10 digits"
	MsgRoleRequired       = "Role is required"
	MsgRoleInvalid        = "Role is invalid"
	MsgLocationRequired   = "Location is required"
	MsgDepartmentRequired = "Department is required"
	MsgDepartmentInvalid  = "Department is invalid"
)

var (
	alphaPattern = regexp.MustCompile(`^[A-Za-z]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Input carries raw form values as submitted.
type Input struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Location   string `json:"location"`
	Department string `json:"department"`
}

// InputFromRecord converts a stored record back into form values.
func InputFromRecord(rec domain.UserRecord) Input {
	return Input{
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Email:      rec.Email,
		Phone:      rec.Phone,
		Role:       string(rec.Role),
		Location:   rec.Location,
		Department: string(rec.Department),
	}
}

// FieldErrors maps a field name to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fe[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks every field of in independently and returns either a typed
// record or the full set of failing fields. editing is the record being
// edited, or nil on create; it may keep its own email.
func Validate(in Input, existing []domain.UserRecord, editing *domain.UserRecord) (domain.UserRecord, FieldErrors) {
	errs := FieldErrors{}

	if msg := checkName(in.FirstName, MsgFirstNameRequired, MsgFirstNameAlpha); msg != "" {
		errs[FieldFirstName] = msg
	}
	if msg := checkName(in.LastName, MsgLastNameRequired, MsgLastNameAlpha); msg != "" {
		errs[FieldLastName] = msg
	}
	if msg := checkEmail(in.Email, existing, editing); msg != "" {
		errs[FieldEmail] = msg
	}
	if msg := checkPhone(in.Phone); msg != "" {
		errs[FieldPhone] = msg
	}
	if msg := checkRole(in.Role); msg != "" {
		errs[FieldRole] = msg
	}
	if strings.TrimSpace(in.Location) == "" {
		errs[FieldLocation] = MsgLocationRequired
	}
	if msg := checkDepartment(in.Department); msg != "" {
		errs[FieldDepartment] = msg
	}

	if len(errs) > 0 {
		return domain.UserRecord{}, errs
	}
	return domain.UserRecord{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		Role:       domain.Role(in.Role),
		Location:   in.Location,
		Department: domain.Department(in.Department),
	}, nil
}

func checkName(value, required, alpha string) string {
	if value == "" {
		return required
	}
	if !alphaPattern.MatchString(value) {
		return alpha
	}
	return ""
}

func checkEmail(email string, existing []domain.UserRecord, editing *domain.UserRecord) string {
	if email == "" {
		return MsgEmailRequired
	}
	if !ValidEmail(email) {
		return MsgEmailInvalid
	}
	if editing != nil && editing.Email == email {
		return ""
	}
	for _, rec := range existing {
		if rec.Email == email {
			return MsgEmailTaken
		}
	}
	return ""
}

// ValidEmail reports whether email is a bare RFC 5322 address. Display-name
// forms such as "Bob <bob@x.com>" are rejected.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == email
}

func checkPhone(phone string) string {
	if phone == "" {
		return MsgPhoneRequired
	}
	if !phonePattern.MatchString(phone) {
		return MsgPhoneFormat
	}
	return ""
}

func checkRole(role string) string {
	if role == "" {
		return MsgRoleRequired
	}
	if !domain.Role(role).Valid() {
		return MsgRoleInvalid
	}
	return ""
}

func checkDepartment(dept string) string {
	if dept == "" {
		return MsgDepartmentRequired
	}
	if !domain.Department(dept).Valid() {
		return MsgDepartmentInvalid
	}
	return ""
}
