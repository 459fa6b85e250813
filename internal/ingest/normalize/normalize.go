// Package normalize maps arbitrary header spellings onto canonical field
// names.
package normalize

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/edurisk/internal/model"
)

// Field is a canonical field name understood by the validators.
type Field string

const (
	FieldStudentID      Field = "student_id"
	FieldName           Field = "name"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldCourse         Field = "course"
	FieldYear           Field = "year"
	FieldSemester       Field = "semester"
	FieldGuardianName   Field = "guardian_name"
	FieldGuardianEmail  Field = "guardian_email"
	FieldGuardianPhone  Field = "guardian_phone"
	FieldSubject        Field = "subject"
	FieldTotalClasses   Field = "total_classes"
	FieldAttended       Field = "attended_classes"
	FieldMonth          Field = "month"
	FieldMaxScore       Field = "max_score"
	FieldObtainedScore  Field = "obtained_score"
	FieldAssessmentType Field = "assessment_type"
	FieldAttempts       Field = "attempts"
	FieldSubmissionDate Field = "submission_date"
	FieldAmount         Field = "amount"
	FieldDueDate        Field = "due_date"
	FieldPaidDate       Field = "paid_date"
	FieldStatus         Field = "status"
)

// defaultAliases lists, per field, the spellings tried in order. Each alias
// is matched both literally and by its canonical form.
var defaultAliases = map[Field][]string{
	FieldStudentID:      {"student_id", "studentId", "Student ID", "id", "roll_no", "roll_number", "enrollment_no"},
	FieldName:           {"name", "student_name", "full_name"},
	FieldEmail:          {"email", "email_address", "student_email"},
	FieldPhone:          {"phone", "phone_number", "mobile"},
	FieldCourse:         {"course", "program", "programme", "course_name"},
	FieldYear:           {"year", "academic_year", "study_year"},
	FieldSemester:       {"semester", "sem", "term"},
	FieldGuardianName:   {"guardian_name", "guardianName", "parent_name"},
	FieldGuardianEmail:  {"guardian_email", "guardianEmail", "parent_email"},
	FieldGuardianPhone:  {"guardian_phone", "guardianPhone", "parent_phone"},
	FieldSubject:        {"subject", "subject_name", "subject_code"},
	FieldTotalClasses:   {"total_classes", "totalClasses", "classes_held", "total"},
	FieldAttended:       {"attended_classes", "attendedClasses", "classes_attended", "attended", "present"},
	FieldMonth:          {"month"},
	FieldMaxScore:       {"max_score", "maxScore", "max_marks", "total_marks", "out_of"},
	FieldObtainedScore:  {"obtained_score", "obtainedScore", "marks_obtained", "score", "marks"},
	FieldAssessmentType: {"assessment_type", "assessmentType", "type"},
	FieldAttempts:       {"attempts", "attempt_count", "number_of_attempts"},
	FieldSubmissionDate: {"submission_date", "submissionDate", "submitted_at", "date"},
	FieldAmount:         {"amount", "fee_amount"},
	FieldDueDate:        {"due_date", "dueDate"},
	FieldPaidDate:       {"paid_date", "paidDate", "payment_date"},
	FieldStatus:         {"status", "payment_status"},
}

// Table is an alias table. The zero value is not usable; use DefaultTable.
type Table struct {
	aliases map[Field][]string
}

// DefaultTable returns the built-in alias table.
func DefaultTable() *Table {
	t := &Table{aliases: make(map[Field][]string, len(defaultAliases))}
	for f, a := range defaultAliases {
		t.aliases[f] = slices.Clone(a)
	}
	return t
}

// Extend returns a copy of t with extra spellings appended after the
// existing ones. Keys of extra must be canonical field names.
func (t *Table) Extend(extra map[string][]string) (*Table, error) {
	out := &Table{aliases: make(map[Field][]string, len(t.aliases))}
	for f, a := range t.aliases {
		out.aliases[f] = slices.Clone(a)
	}
	for name, spellings := range extra {
		f := Field(name)
		if _, ok := out.aliases[f]; !ok {
			return nil, fmt.Errorf("normalize: unknown field %q", name)
		}
		out.aliases[f] = append(out.aliases[f], spellings...)
	}
	return out, nil
}

// Row is a normalized raw row. Fields are resolved once, at construction.
type Row struct {
	originals map[string]string
	canonical map[string]string
	fields    map[Field]string
}

// Get returns the non-empty value of a canonical field.
func (r Row) Get(f Field) (string, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Key looks a header up by its original spelling, then by its canonical
// form.
func (r Row) Key(k string) (string, bool) {
	if v, ok := r.originals[k]; ok {
		return v, true
	}
	v, ok := r.canonical[k]
	return v, ok
}

// Normalize retains every original key and adds its canonical form, then
// resolves each field through the alias table. Cells are visited in header
// order, so when two originals collapse to one canonical key the later one
// owns the canonical slot. Empty cells are absent and claim no slot.
func (t *Table) Normalize(raw model.RawRow) Row {
	lower := cases.Lower(language.Und)
	originals := make(map[string]string, len(raw))
	canon := make(map[string]string, len(raw))

	for _, c := range raw {
		v := strings.TrimSpace(norm.NFC.String(c.Value))
		if v == "" {
			continue
		}
		originals[c.Header] = v
		canon[canonical(lower, c.Header)] = v
	}

	fields := make(map[Field]string)
	for f, aliases := range t.aliases {
		for _, a := range aliases {
			if v, ok := canon[canonical(lower, a)]; ok {
				fields[f] = v
				break
			}
		}
	}
	return Row{originals: originals, canonical: canon, fields: fields}
}

// Canonical lowercases key and replaces every rune outside [a-z0-9] with '_'.
func Canonical(key string) string {
	return canonical(cases.Lower(language.Und), key)
}

func canonical(lower cases.Caser, key string) string {
	s := lower.String(key)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
