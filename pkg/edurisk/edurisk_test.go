package edurisk

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(append([]Option{WithClock(func() time.Time { return testNow })}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

const (
	studentsCSV = "student_id,name,email,course,year,semester\n" +
		"S1,Asha Rao,ASHA@example.edu,CS,2,3\n" +
		",No Id,noid@example.edu,CS,1,1\n" +
		"S2,Ben Ode,ben@example.edu,EE,1,2\n"
	attendanceCSV = "student_id,subject,total_classes,attended_classes,month,year\n" +
		"S1,Math,20,10,3,2026\n" +
		"S2,Math,20,19,3,2026\n"
	assessmentsCSV = "student_id,subject,max_score,obtained_score,assessment_type,attempts,submission_date\n" +
		"S1,Math,100,30,quiz,4,2026-03-01\n" +
		"S2,Math,100,90,final,1,2026-03-02\n" +
		"S2,Math,100,90,final,1,2026-03-02\n"
	feesCSV = "student_id,amount,due_date,paid_date,semester,year\n" +
		"S1,\"1,500\",2025-12-01,,1,2025\n" +
		"S2,1500,2026-01-15,2026-01-10,1,2026\n"
)

var allHigh = FeatureVector{
	AttendancePercentage:     50,
	AverageGrade:             30,
	AssignmentSubmissionRate: 40,
	NumberOfAttempts:         4,
	FeePaymentStatus:         FeeOverdue,
	DaysSinceLastPayment:     120,
	EngagementScore:          10,
}

func TestProcessFileDropsRowWithoutID(t *testing.T) {
	c := newTestClient(t)

	res, err := c.ProcessFile([]byte(studentsCSV), "students.csv", "students")
	require.NoError(t, err)

	assert.Len(t, res.Records, 2)
	assert.Equal(t, 3, res.Quality.TotalRecords)
	assert.Equal(t, 2, res.Quality.ValidRecords)
	assert.Equal(t, 1, res.Quality.InvalidRecords)
	require.Len(t, res.Quality.Issues, 1)
	assert.Contains(t, res.Quality.Issues[0], "row 2")
}

func TestProcessFileCollapsesDuplicateAssessments(t *testing.T) {
	c := newTestClient(t)

	res, err := c.ProcessFile([]byte(assessmentsCSV), "marks.csv", "assessments")
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Quality.DuplicateRows)
}

func TestProcessFileErrors(t *testing.T) {
	c := newTestClient(t)

	_, err := c.ProcessFile([]byte(studentsCSV), "students.csv", "alumni")
	assert.ErrorIs(t, err, ErrUnknownDataType)

	_, err = c.ProcessFile([]byte(studentsCSV), "students.pdf", "students")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = c.ProcessFile(nil, "students.csv", "students")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestPredictRisk(t *testing.T) {
	c := newTestClient(t)

	a, err := c.PredictRisk(allHigh)
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.RiskScore)
	assert.Equal(t, RiskHigh, a.RiskLevel)
	assert.Len(t, a.Recommendations, 8)
	assert.True(t, a.AssessedAt.Equal(testNow))

	bad := allHigh
	bad.EngagementScore = -1
	_, err = c.PredictRisk(bad)
	assert.ErrorIs(t, err, ErrInvalidFeatures)
}

func TestPredictBatchRisk(t *testing.T) {
	c := newTestClient(t, WithConcurrency(2))
	bad := allHigh
	bad.AverageGrade = 101

	got := c.PredictBatchRisk([]FeatureVector{allHigh, bad, allHigh})
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0].RiskScore)
	assert.Equal(t, 0.8, got[1].RiskScore)
	assert.Equal(t, []string{"Manual review required"}, got[1].Recommendations)
	assert.Equal(t, RiskHigh, got[1].RiskLevel)
}

func TestAssessEndToEnd(t *testing.T) {
	c := newTestClient(t)

	var records []Record
	for _, f := range []struct{ body, name, kind string }{
		{studentsCSV, "students.csv", "students"},
		{attendanceCSV, "attendance.csv", "attendance"},
		{assessmentsCSV, "assessments.csv", "assessments"},
		{feesCSV, "fees.csv", "fees"},
	} {
		res, err := c.ProcessFile([]byte(f.body), f.name, f.kind)
		require.NoError(t, err, f.name)
		records = append(records, res.Records...)
	}

	got := c.Assess(records)
	require.Len(t, got, 2)

	assert.Equal(t, "S1", got[0].StudentID)
	assert.Equal(t, RiskFactors{Attendance: 1, Academic: 0.7, Financial: 1, Engagement: 0.3}, got[0].Assessment.Factors)
	assert.Equal(t, 0.81, got[0].Assessment.RiskScore)
	assert.Equal(t, RiskHigh, got[0].Assessment.RiskLevel)

	assert.Equal(t, "S2", got[1].StudentID)
	assert.Equal(t, 0.1, got[1].Assessment.RiskScore)
	assert.Equal(t, RiskLow, got[1].Assessment.RiskLevel)
	assert.Empty(t, got[1].Error)
}

type fixedAugmentor struct{ p float64 }

func (f fixedAugmentor) Predict(AugmentorInput) (float64, error) { return f.p, nil }
func (f fixedAugmentor) Close() error                            { return nil }

func TestWithAugmentor(t *testing.T) {
	c := newTestClient(t, WithAugmentor(fixedAugmentor{p: 0}))
	assert.True(t, c.AugmentationReady())

	a, err := c.PredictRisk(allHigh)
	require.NoError(t, err)
	assert.Equal(t, 0.7, a.RiskScore)
	assert.True(t, a.Augmented)
	assert.Equal(t, RiskHigh, a.RiskLevel)
}

func TestMissingAugmentModelFallsBack(t *testing.T) {
	c := newTestClient(t, WithAugmentModel("/nonexistent/risk.safetensors"))

	a, err := c.PredictRisk(allHigh)
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.RiskScore)
	assert.False(t, a.Augmented)
	assert.False(t, c.AugmentationReady())
}

func TestWithHeaderAliases(t *testing.T) {
	c := newTestClient(t, WithHeaderAliases(map[string][]string{"student_id": {"learner_no"}}))

	res, err := c.ProcessFile([]byte("learner_no,subject,total_classes,attended_classes\nL9,Art,10,9\n"), "att.csv", "attendance")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "L9", res.Records[0].StudentKey())
}

func TestInvalidHeaderAliases(t *testing.T) {
	_, err := New(WithHeaderAliases(map[string][]string{"shoe_size": {"size"}}))
	assert.Error(t, err)
}

func TestConcurrentUse(t *testing.T) {
	c := newTestClient(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.PredictRisk(allHigh); err != nil {
				errs <- err
			}
			if _, err := c.ProcessFile([]byte(attendanceCSV), "a.csv", "attendance"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, 4)
	assert.Equal(t, "attendance", cat[0].Factor)
	assert.Equal(t, "engagement", cat[3].Factor)

	cat[0].Recommendations[0] = "changed"
	assert.NotEqual(t, "changed", Catalog()[0].Recommendations[0])
	assert.Equal(t, 0.5, RecommendationThreshold)
}

func TestErrorsAreDistinct(t *testing.T) {
	errs := []error{ErrUnknownFormat, ErrUnknownDataType, ErrEmptyInput, ErrNoWorksheet, ErrDecode, ErrInvalidFeatures}
	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}
