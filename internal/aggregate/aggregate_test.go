package aggregate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/edurisk/internal/model"
)

var now = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildNoRecords(t *testing.T) {
	_, ok := Build("S1", []model.Record{model.StudentRecord{StudentID: "S2"}}, now)
	assert.False(t, ok)
}

func TestBuildStudentOnlyDefaults(t *testing.T) {
	fv, ok := Build("S1", []model.Record{model.StudentRecord{StudentID: "S1"}}, now)
	require.True(t, ok)

	want := model.StudentFeatureVector{
		AttendancePercentage:     100,
		AverageGrade:             0,
		AssignmentSubmissionRate: 100,
		NumberOfAttempts:         0,
		FeePaymentStatus:         model.FeePaid,
		DaysSinceLastPayment:     0,
		EngagementScore:          100,
	}
	if diff := cmp.Diff(want, fv); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFull(t *testing.T) {
	paid := date(2026, 4, 21)
	records := []model.Record{
		model.StudentRecord{StudentID: "S1"},
		model.AttendanceRecord{StudentID: "S1", Subject: "Math", TotalClasses: 20, AttendedClasses: 15, Month: 3, Year: 2026},
		model.AttendanceRecord{StudentID: "S1", Subject: "Physics", TotalClasses: 20, AttendedClasses: 17, Month: 3, Year: 2026},
		model.AttendanceRecord{StudentID: "S2", Subject: "Math", TotalClasses: 20, AttendedClasses: 0, Month: 3, Year: 2026},
		model.AssessmentRecord{StudentID: "S1", Subject: "Math", MaxScore: 50, ObtainedScore: 40, Attempts: 1},
		model.AssessmentRecord{StudentID: "S1", Subject: "Physics", MaxScore: 100, ObtainedScore: 0, Attempts: 3},
		model.FeeRecord{StudentID: "S1", DueDate: date(2025, 9, 1), Status: model.FeeOverdue, Semester: 1, Year: 2025},
		model.FeeRecord{StudentID: "S1", DueDate: date(2026, 2, 1), PaidDate: &paid, Status: model.FeePaid, Semester: 2, Year: 2026},
	}

	fv, ok := Build("S1", records, now)
	require.True(t, ok)

	want := model.StudentFeatureVector{
		AttendancePercentage:     80,
		AverageGrade:             40,
		AssignmentSubmissionRate: 50,
		NumberOfAttempts:         2,
		FeePaymentStatus:         model.FeePaid,
		DaysSinceLastPayment:     10,
		EngagementScore:          65,
	}
	if diff := cmp.Diff(want, fv); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestFeeState(t *testing.T) {
	paid := date(2026, 1, 1)
	tests := []struct {
		name       string
		fee        model.FeeRecord
		wantStatus model.FeeStatus
		wantDays   int
	}{
		{"paid", model.FeeRecord{DueDate: date(2025, 12, 1), PaidDate: &paid, Status: model.FeePaid}, model.FeePaid, 120},
		{"overdue", model.FeeRecord{DueDate: date(2026, 4, 1), Status: model.FeeOverdue}, model.FeeOverdue, 30},
		{"pending not yet due", model.FeeRecord{DueDate: date(2026, 6, 1), Status: model.FeePending}, model.FeePending, 0},
		{"blank status", model.FeeRecord{DueDate: date(2026, 4, 30)}, model.FeePending, 1},
		{"paid without date", model.FeeRecord{DueDate: date(2026, 3, 1), Status: model.FeePaid}, model.FeePaid, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, days := feeState(tt.fee, now)
			if status != tt.wantStatus || days != tt.wantDays {
				t.Errorf("feeState() = (%q, %d), want (%q, %d)", status, days, tt.wantStatus, tt.wantDays)
			}
		})
	}
}

func TestBuildPicksLatestFeeByDueDate(t *testing.T) {
	records := []model.Record{
		model.FeeRecord{StudentID: "S1", DueDate: date(2026, 4, 1), Status: model.FeeOverdue, Semester: 2},
		model.FeeRecord{StudentID: "S1", DueDate: date(2025, 10, 1), Status: model.FeePending, Semester: 1},
	}
	fv, ok := Build("S1", records, now)
	require.True(t, ok)
	assert.Equal(t, model.FeeOverdue, fv.FeePaymentStatus)
	assert.Equal(t, 30, fv.DaysSinceLastPayment)
}

func TestBuildAllSortedAndValid(t *testing.T) {
	records := []model.Record{
		model.StudentRecord{StudentID: "S3"},
		model.AttendanceRecord{StudentID: "S1", Subject: "Math", TotalClasses: 10, AttendedClasses: 5, Month: 1, Year: 2026},
		model.AssessmentRecord{StudentID: "S2", Subject: "Math", MaxScore: 10, ObtainedScore: 10, Attempts: 1},
	}
	got := BuildAll(records, now)
	require.Len(t, got, 3)

	var ids []string
	for _, r := range got {
		ids = append(ids, r.StudentID)
		assert.NoError(t, r.Features.Validate(), r.StudentID)
	}
	assert.Equal(t, []string{"S1", "S2", "S3"}, ids)
	assert.Equal(t, 50.0, got[0].Features.AttendancePercentage)
	assert.Equal(t, 100.0, got[1].Features.AverageGrade)
}

func TestGroup(t *testing.T) {
	records := []model.Record{
		model.StudentRecord{StudentID: "A"},
		model.StudentRecord{StudentID: "B"},
		model.FeeRecord{StudentID: "A"},
	}
	g := Group(records)
	assert.Len(t, g, 2)
	assert.Len(t, g["A"], 2)
	assert.Len(t, g["B"], 1)
}
