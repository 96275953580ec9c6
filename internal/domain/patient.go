package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength   = 2
	MaxNumberDigits = 8
)

var patientNumberPattern = regexp.MustCompile(`^[0-9]{1,8}$`)

// PatientRecord identifies the patient a barcode is generated for.
type PatientRecord struct {
	Name   string `json:"patient_name"`
	Number string `json:"patient_number"`
}

// NewPatientRecord trims both fields and validates the result.
func NewPatientRecord(name, number string) (PatientRecord, error) {
	r := PatientRecord{
		Name:   strings.TrimSpace(name),
		Number: strings.TrimSpace(number),
	}
	if err := r.Validate(); err != nil {
		return PatientRecord{}, err
	}
	return r, nil
}

func (r PatientRecord) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" || utf8.RuneCountInString(name) < MinNameLength {
		return fmt.Errorf("%w: patient name must be at least %d characters", ErrValidation, MinNameLength)
	}
	if !patientNumberPattern.MatchString(r.Number) {
		return fmt.Errorf("%w: patient number must be 1 to %d digits", ErrValidation, MaxNumberDigits)
	}
	return nil
}

func (r PatientRecord) String() string {
	return fmt.Sprintf("%s - %s", r.Name, r.Number)
}

// DownloadFilename builds the suggested file name for a downloaded barcode.
// Only the first space of the name is replaced.
func DownloadFilename(number, name string) string {
	return fmt.Sprintf("%s_%s.png", number, strings.Replace(name, " ", "_", 1))
}
