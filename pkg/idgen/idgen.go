// Package idgen formats and validates the department-coded identifiers used
// across the hospital services, e.g. CARD-DOC-202506-001 or PAT-202506-001.
//
// The numeric sequence itself is allocated by the database (see the
// id_sequences table); this package only builds the counter prefix and the
// final string.
package idgen

import (
	"fmt"
	"regexp"
	"time"
)

// Kind is the <TYPE> segment of an identifier.
type Kind string

const (
	KindDoctor        Kind = "DOC"
	KindAppointment   Kind = "APT"
	KindPatient       Kind = "PAT"
	KindMedicalRecord Kind = "MR"
	KindPayment       Kind = "PAY"
	KindReceptionist  Kind = "REC"
)

// departmentScoped kinds carry a leading department code.
var departmentScoped = map[Kind]bool{
	KindDoctor:      true,
	KindAppointment: true,
}

var (
	deptCodePattern = regexp.MustCompile(`^[A-Z]{2,6}$`)

	patterns = map[Kind]*regexp.Regexp{
		KindDoctor:        regexp.MustCompile(`^[A-Z]{2,6}-DOC-\d{6}-\d{3,}$`),
		KindAppointment:   regexp.MustCompile(`^[A-Z]{2,6}-APT-\d{6}-\d{3,}$`),
		KindPatient:       regexp.MustCompile(`^PAT-\d{6}-\d{3,}$`),
		KindMedicalRecord: regexp.MustCompile(`^MR-\d{6}-\d{3,}$`),
		KindPayment:       regexp.MustCompile(`^PAY-\d{6}-\d{3,}$`),
		KindReceptionist:  regexp.MustCompile(`^REC-\d{6}-\d{3,}$`),
	}
)

// IsDepartmentScoped reports whether ids of this kind start with a department code.
func IsDepartmentScoped(kind Kind) bool {
	return departmentScoped[kind]
}

// ParseKind maps a lower or upper case name ("doctor", "DOC") to a Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "doctor", "DOC":
		return KindDoctor, true
	case "appointment", "APT":
		return KindAppointment, true
	case "patient", "PAT":
		return KindPatient, true
	case "medical_record", "MR":
		return KindMedicalRecord, true
	case "payment", "PAY":
		return KindPayment, true
	case "receptionist", "REC":
		return KindReceptionist, true
	}
	return "", false
}

// Prefix returns the sequence counter key, e.g. "CARD-DOC-202506" or "PAT-202506".
// deptCode is ignored for kinds that are not department scoped.
func Prefix(kind Kind, deptCode string, t time.Time) string {
	period := t.Format("200601")
	if IsDepartmentScoped(kind) {
		return fmt.Sprintf("%s-%s-%s", deptCode, kind, period)
	}
	return fmt.Sprintf("%s-%s", kind, period)
}

// FormatWithPrefix appends the zero padded sequence to a prefix from Prefix.
func FormatWithPrefix(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// Format builds a full identifier.
func Format(kind Kind, deptCode string, t time.Time, seq int64) (string, error) {
	if seq < 1 {
		return "", fmt.Errorf("sequence must be positive, got %d", seq)
	}
	if IsDepartmentScoped(kind) && !IsDepartmentCode(deptCode) {
		return "", fmt.Errorf("invalid department code %q", deptCode)
	}
	return FormatWithPrefix(Prefix(kind, deptCode, t), seq), nil
}

// Validate reports whether id is well formed for kind.
func Validate(kind Kind, id string) bool {
	pattern, ok := patterns[kind]
	if !ok {
		return false
	}
	return pattern.MatchString(id)
}

// IsDepartmentCode validates a bare department code such as CARD.
func IsDepartmentCode(code string) bool {
	return deptCodePattern.MatchString(code)
}

func IsDoctorID(id string) bool        { return Validate(KindDoctor, id) }
func IsAppointmentID(id string) bool   { return Validate(KindAppointment, id) }
func IsPatientID(id string) bool       { return Validate(KindPatient, id) }
func IsMedicalRecordID(id string) bool { return Validate(KindMedicalRecord, id) }
func IsPaymentID(id string) bool       { return Validate(KindPayment, id) }
func IsReceptionistID(id string) bool  { return Validate(KindReceptionist, id) }
