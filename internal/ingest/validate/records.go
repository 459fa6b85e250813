package validate

import (
	"strings"
	"time"

	"github.com/crimson-sun/edurisk/internal/ingest/normalize"
	"github.com/crimson-sun/edurisk/internal/model"
)

func student(row normalize.Row) (model.Record, Rejection, bool) {
	vals, rej, ok := requireFields(row,
		normalize.FieldStudentID, normalize.FieldName, normalize.FieldEmail,
		normalize.FieldCourse, normalize.FieldYear, normalize.FieldSemester)
	if !ok {
		return nil, rej, false
	}

	rec := model.StudentRecord{
		StudentID: vals[normalize.FieldStudentID],
		Name:      vals[normalize.FieldName],
		Email:     strings.ToLower(strings.TrimSpace(vals[normalize.FieldEmail])),
		Course:    vals[normalize.FieldCourse],
		Year:      intOr(vals[normalize.FieldYear], 1),
		Semester:  intOr(vals[normalize.FieldSemester], 1),
	}
	rec.Phone, _ = row.Get(normalize.FieldPhone)
	rec.GuardianName, _ = row.Get(normalize.FieldGuardianName)
	rec.GuardianPhone, _ = row.Get(normalize.FieldGuardianPhone)
	if g, ok := row.Get(normalize.FieldGuardianEmail); ok {
		rec.GuardianEmail = strings.ToLower(g)
	}
	return rec, Rejection{}, true
}

func attendance(row normalize.Row, now time.Time) (model.Record, Rejection, bool) {
	vals, rej, ok := requireFields(row, normalize.FieldStudentID, normalize.FieldSubject, normalize.FieldTotalClasses)
	if !ok {
		return nil, rej, false
	}
	total, ok := parseInt(vals[normalize.FieldTotalClasses])
	if !ok || total <= 0 {
		return nil, Rejection{Reason: ReasonNonPositiveTotal}, false
	}

	attended := 0
	if s, ok := row.Get(normalize.FieldAttended); ok {
		attended, _ = parseInt(s)
	}
	attended = min(max(attended, 0), total)

	month := int(now.Month())
	if s, ok := row.Get(normalize.FieldMonth); ok {
		if m, ok := parseMonth(s); ok {
			month = m
		}
	}
	year := now.Year()
	if s, ok := row.Get(normalize.FieldYear); ok {
		if y, ok := parseInt(s); ok && y > 0 {
			year = y
		}
	}

	return model.AttendanceRecord{
		StudentID:       vals[normalize.FieldStudentID],
		Subject:         vals[normalize.FieldSubject],
		TotalClasses:    total,
		AttendedClasses: attended,
		Month:           month,
		Year:            year,
	}, Rejection{}, true
}

var assessmentTypes = map[string]model.AssessmentType{
	"quiz":       model.AssessmentQuiz,
	"assignment": model.AssessmentAssignment,
	"midterm":    model.AssessmentMidterm,
	"final":      model.AssessmentFinal,
	"project":    model.AssessmentProject,
}

func assessment(row normalize.Row, now time.Time) (model.Record, Rejection, bool) {
	vals, rej, ok := requireFields(row, normalize.FieldStudentID, normalize.FieldSubject, normalize.FieldMaxScore)
	if !ok {
		return nil, rej, false
	}
	maxScore, ok := parseNumber(vals[normalize.FieldMaxScore])
	if !ok || maxScore <= 0 {
		return nil, Rejection{Reason: ReasonNonPositiveMax}, false
	}

	var obtained float64
	if s, ok := row.Get(normalize.FieldObtainedScore); ok {
		obtained, _ = parseNumber(s)
	}
	obtained = min(max(obtained, 0), maxScore)

	typ := model.AssessmentAssignment
	if s, ok := row.Get(normalize.FieldAssessmentType); ok {
		if t, known := assessmentTypes[strings.ToLower(s)]; known {
			typ = t
		}
	}

	attempts := 1
	if s, ok := row.Get(normalize.FieldAttempts); ok {
		if n, ok := parseInt(s); ok && n >= 1 {
			attempts = n
		}
	}

	submitted := now
	if s, ok := row.Get(normalize.FieldSubmissionDate); ok {
		if d, ok := ParseDate(s); ok {
			submitted = d
		}
	}

	return model.AssessmentRecord{
		StudentID:      vals[normalize.FieldStudentID],
		Subject:        vals[normalize.FieldSubject],
		Type:           typ,
		MaxScore:       maxScore,
		ObtainedScore:  obtained,
		Attempts:       attempts,
		SubmissionDate: submitted,
	}, Rejection{}, true
}

func fee(row normalize.Row, now time.Time) (model.Record, Rejection, bool) {
	vals, rej, ok := requireFields(row, normalize.FieldStudentID, normalize.FieldAmount, normalize.FieldDueDate)
	if !ok {
		return nil, rej, false
	}
	amount, ok := parseNumber(vals[normalize.FieldAmount])
	if !ok || amount <= 0 {
		return nil, Rejection{Reason: ReasonNonPositiveAmount}, false
	}
	due, ok := ParseDate(vals[normalize.FieldDueDate])
	if !ok {
		return nil, Rejection{Reason: ReasonInvalidDueDate}, false
	}

	rec := model.FeeRecord{
		StudentID: vals[normalize.FieldStudentID],
		Amount:    amount,
		DueDate:   due,
		Semester:  1,
		Year:      now.Year(),
	}
	if s, ok := row.Get(normalize.FieldPaidDate); ok {
		if d, ok := ParseDate(s); ok {
			rec.PaidDate = &d
		}
	}
	if s, ok := row.Get(normalize.FieldSemester); ok {
		rec.Semester = intOr(s, 1)
	}
	if s, ok := row.Get(normalize.FieldYear); ok {
		if y, ok := parseInt(s); ok && y > 0 {
			rec.Year = y
		}
	}
	rec.Status = feeStatus(row, rec, now)
	return rec, Rejection{}, true
}

// feeStatus prefers an explicit status column and otherwise derives one from
// the payment and due dates.
func feeStatus(row normalize.Row, rec model.FeeRecord, now time.Time) model.FeeStatus {
	if s, ok := row.Get(normalize.FieldStatus); ok {
		switch st := model.ParseFeeStatus(s); st {
		case model.FeePaid, model.FeePending, model.FeeOverdue:
			return st
		}
	}
	switch {
	case rec.PaidDate != nil:
		return model.FeePaid
	case now.After(rec.DueDate):
		return model.FeeOverdue
	default:
		return model.FeePending
	}
}
