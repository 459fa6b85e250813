package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"students":    KindStudent,
		" Attendance": KindAttendance,
		"grades":      KindAssessment,
		"FEES":        KindFee,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("transcripts")
	assert.Error(t, err)
}

func TestKindMarshalsByName(t *testing.T) {
	b, err := json.Marshal(struct{ K Kind }{KindFee})
	require.NoError(t, err)
	assert.JSONEq(t, `{"K":"fee"}`, string(b))
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestParseFeeStatus(t *testing.T) {
	assert.Equal(t, FeePaid, ParseFeeStatus(" Completed "))
	assert.Equal(t, FeePending, ParseFeeStatus("partial"))
	assert.Equal(t, FeeOverdue, ParseFeeStatus("LATE"))
	assert.Equal(t, FeeStatus("waived"), ParseFeeStatus("waived"))
}

func TestValidate(t *testing.T) {
	ok := StudentFeatureVector{
		AttendancePercentage:     100,
		AverageGrade:             0,
		AssignmentSubmissionRate: 50,
		NumberOfAttempts:         3,
		FeePaymentStatus:         FeePaid,
		EngagementScore:          75,
	}
	require.NoError(t, ok.Validate())

	bad := []func(*StudentFeatureVector){
		func(v *StudentFeatureVector) { v.AttendancePercentage = 100.5 },
		func(v *StudentFeatureVector) { v.AverageGrade = -1 },
		func(v *StudentFeatureVector) { v.EngagementScore = math.NaN() },
		func(v *StudentFeatureVector) { v.AssignmentSubmissionRate = math.Inf(1) },
		func(v *StudentFeatureVector) { v.NumberOfAttempts = math.Inf(1) },
		func(v *StudentFeatureVector) { v.DaysSinceLastPayment = -3 },
	}
	for i, mutate := range bad {
		v := ok
		mutate(&v)
		assert.ErrorIs(t, v.Validate(), ErrInvalidFeatures, "case %d", i)
	}
}

func TestNaturalKeys(t *testing.T) {
	sub := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []struct {
		rec  Record
		want []string
	}{
		{StudentRecord{StudentID: "S1"}, []string{"S1"}},
		{AttendanceRecord{StudentID: "S1", Subject: "Math", Month: 3, Year: 2024}, []string{"S1", "Math", "3", "2024"}},
		{AssessmentRecord{StudentID: "S1", Subject: "Math", Type: AssessmentQuiz, SubmissionDate: sub},
			[]string{"S1", "Math", "quiz", "2024-03-01T09:00:00Z"}},
		{FeeRecord{StudentID: "S1", Semester: 2, Year: 2024}, []string{"S1", "2", "2024"}},
	}
	for _, tt := range records {
		assert.Equal(t, tt.want, tt.rec.NaturalKey(), tt.rec.Kind().String())
		assert.Equal(t, "S1", tt.rec.StudentKey())
	}
}

func TestPercentages(t *testing.T) {
	assert.InDelta(t, 75.0, AttendanceRecord{TotalClasses: 20, AttendedClasses: 15}.Percentage(), 1e-9)
	assert.Zero(t, AttendanceRecord{}.Percentage())
	assert.InDelta(t, 40.0, AssessmentRecord{MaxScore: 50, ObtainedScore: 20}.Percentage(), 1e-9)
	assert.Zero(t, AssessmentRecord{ObtainedScore: 5}.Percentage())
}

func TestRawRowGetLastWins(t *testing.T) {
	row := RawRow{
		{Header: "id", Value: "S1"},
		{Header: "note", Value: "first"},
		{Header: "note", Value: "second"},
	}
	v, ok := row.Get("note")
	assert.True(t, ok)
	assert.Equal(t, "second", v)
	_, ok = row.Get("missing")
	assert.False(t, ok)
}
