package medrec

import (
	"fmt"

	"github.com/pkg/errors"
)

// Record is one patient's field set. Name identifies the patient and orders the
// name index, Age orders the age index.
type Record struct {
	Name           string
	Age            int
	Gender         string
	MedicalHistory string
	Diagnosis      string
	Prescription   string
}

// NewRecord creates a record from already parsed fields. It performs no
// validation, see Validate.
func NewRecord(name string, age int, gender, history, diagnosis, prescription string) *Record {
	return &Record{
		Name:           name,
		Age:            age,
		Gender:         gender,
		MedicalHistory: history,
		Diagnosis:      diagnosis,
		Prescription:   prescription,
	}
}

// Clone returns a detached copy of rec.
func (rec *Record) Clone() *Record {
	if rec == nil {
		return nil
	}

	c := *rec
	return &c
}

func (rec *Record) String() string {
	return fmt.Sprintf("Record{Name: %s, Age: %d, Gender: %s}", rec.Name, rec.Age, rec.Gender)
}

// Limits bounds the byte length of every field, zero means unlimited.
type Limits struct {
	Name   int
	Gender int
	Text   int // medical history, diagnosis and prescription
}

// DefaultLimits mirrors the fixed size buffers of the legacy record files.
func DefaultLimits() Limits {
	return Limits{
		Name:   maxNameSize,
		Gender: maxGenderSize,
		Text:   maxTextSize,
	}
}

// Validate checks the record against the given limits. An empty name or a
// negative age is ErrInvalidRecord, an oversize field is ErrFieldTooLong.
func (rec *Record) Validate(limits Limits) error {
	if rec == nil {
		return errors.Wrap(ErrInvalidRecord, "nil record")
	}
	if rec.Name == "" {
		return errors.Wrap(ErrInvalidRecord, "empty name")
	}
	if rec.Age < 0 {
		return errors.Wrapf(ErrInvalidRecord, "negative age %d", rec.Age)
	}

	if oversize(rec.Name, limits.Name) {
		return errors.Wrapf(ErrFieldTooLong, "name exceeds %d bytes", limits.Name)
	}
	if oversize(rec.Gender, limits.Gender) {
		return errors.Wrapf(ErrFieldTooLong, "gender exceeds %d bytes", limits.Gender)
	}

	return validateText(limits.Text, rec.MedicalHistory, rec.Diagnosis, rec.Prescription)
}

func validateText(limit int, fields ...string) error {
	for _, field := range fields {
		if oversize(field, limit) {
			return errors.Wrapf(ErrFieldTooLong, "free text exceeds %d bytes", limit)
		}
	}

	return nil
}

func oversize(field string, limit int) bool {
	return limit > 0 && len(field) > limit
}
