package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cell is one header/value pair of a raw row.
type Cell struct {
	Header string
	Value  string
}

// RawRow holds a data row's cells in header order.
type RawRow []Cell

// Get returns the cell under header h. A repeated header yields its last cell.
func (r RawRow) Get(h string) (string, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Header == h {
			return r[i].Value, true
		}
	}
	return "", false
}

// Chunk is one push of bytes from a streaming source. A Chunk with Err set
// ends the stream with a failure.
type Chunk struct {
	Data []byte
	Err  error
}

// Kind identifies one of the four record variants.
type Kind int

const (
	KindStudent Kind = iota + 1
	KindAttendance
	KindAssessment
	KindFee
)

func (k Kind) String() string {
	switch k {
	case KindStudent:
		return "student"
	case KindAttendance:
		return "attendance"
	case KindAssessment:
		return "assessment"
	case KindFee:
		return "fee"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind maps a declared data type onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "students":
		return KindStudent, nil
	case "attendance":
		return KindAttendance, nil
	case "assessment", "assessments", "grade", "grades", "marks":
		return KindAssessment, nil
	case "fee", "fees", "payment", "payments":
		return KindFee, nil
	default:
		return 0, fmt.Errorf("unknown data type %q", s)
	}
}

// Record is a validated row. Only the four record structs in this package
// implement it.
type Record interface {
	Kind() Kind
	// NaturalKey returns the field tuple used to detect duplicates.
	NaturalKey() []string
	StudentKey() string
	isRecord()
}

// StudentRecord is a validated student row.
type StudentRecord struct {
	StudentID     string `json:"studentId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Course        string `json:"course"`
	Year          int    `json:"year"`
	Semester      int    `json:"semester"`
	GuardianName  string `json:"guardianName,omitempty"`
	GuardianEmail string `json:"guardianEmail,omitempty"`
	GuardianPhone string `json:"guardianPhone,omitempty"`
}

func (StudentRecord) Kind() Kind             { return KindStudent }
func (r StudentRecord) NaturalKey() []string { return []string{r.StudentID} }
func (r StudentRecord) StudentKey() string   { return r.StudentID }
func (StudentRecord) isRecord()              {}

// AttendanceRecord is a validated monthly attendance row.
type AttendanceRecord struct {
	StudentID       string `json:"studentId"`
	Subject         string `json:"subject"`
	TotalClasses    int    `json:"totalClasses"`
	AttendedClasses int    `json:"attendedClasses"`
	Month           int    `json:"month"`
	Year            int    `json:"year"`
}

func (AttendanceRecord) Kind() Kind { return KindAttendance }
func (r AttendanceRecord) NaturalKey() []string {
	return []string{r.StudentID, r.Subject, strconv.Itoa(r.Month), strconv.Itoa(r.Year)}
}
func (r AttendanceRecord) StudentKey() string { return r.StudentID }
func (AttendanceRecord) isRecord()            {}

// Percentage returns attended/total as a percentage.
func (r AttendanceRecord) Percentage() float64 {
	if r.TotalClasses <= 0 {
		return 0
	}
	return float64(r.AttendedClasses) / float64(r.TotalClasses) * 100
}

// AssessmentType enumerates the recognized assessment kinds.
type AssessmentType string

const (
	AssessmentQuiz       AssessmentType = "quiz"
	AssessmentAssignment AssessmentType = "assignment"
	AssessmentMidterm    AssessmentType = "midterm"
	AssessmentFinal      AssessmentType = "final"
	AssessmentProject    AssessmentType = "project"
)

// AssessmentRecord is a validated assessment row.
type AssessmentRecord struct {
	StudentID      string         `json:"studentId"`
	Subject        string         `json:"subject"`
	Type           AssessmentType `json:"assessmentType"`
	MaxScore       float64        `json:"maxScore"`
	ObtainedScore  float64        `json:"obtainedScore"`
	Attempts       int            `json:"attempts"`
	SubmissionDate time.Time      `json:"submissionDate"`
}

func (AssessmentRecord) Kind() Kind { return KindAssessment }
func (r AssessmentRecord) NaturalKey() []string {
	return []string{r.StudentID, r.Subject, string(r.Type), r.SubmissionDate.UTC().Format(time.RFC3339)}
}
func (r AssessmentRecord) StudentKey() string { return r.StudentID }
func (AssessmentRecord) isRecord()            {}

// Percentage returns obtained/max as a percentage.
func (r AssessmentRecord) Percentage() float64 {
	if r.MaxScore <= 0 {
		return 0
	}
	return r.ObtainedScore / r.MaxScore * 100
}

// FeeRecord is a validated fee row.
type FeeRecord struct {
	StudentID string     `json:"studentId"`
	Amount    float64    `json:"amount"`
	DueDate   time.Time  `json:"dueDate"`
	PaidDate  *time.Time `json:"paidDate,omitempty"`
	Status    FeeStatus  `json:"status"`
	Semester  int        `json:"semester"`
	Year      int        `json:"year"`
}

func (FeeRecord) Kind() Kind { return KindFee }
func (r FeeRecord) NaturalKey() []string {
	return []string{r.StudentID, strconv.Itoa(r.Semester), strconv.Itoa(r.Year)}
}
func (r FeeRecord) StudentKey() string { return r.StudentID }
func (FeeRecord) isRecord()            {}
