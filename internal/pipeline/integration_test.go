package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/edurisk/internal/engine"
	"github.com/crimson-sun/edurisk/internal/model"
	"github.com/crimson-sun/edurisk/internal/output"
	"github.com/crimson-sun/edurisk/internal/output/stdout"
)

func TestIntegration_EngineThroughPipeline(t *testing.T) {
	var buf bytes.Buffer
	eng := engine.Default(engine.WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	}))
	p := New(eng, stdout.NewWriter(&buf, output.Standard, false), WithMaxBatch(2))

	reqs := []model.ScoreRequest{
		{StudentID: "S1", Features: model.StudentFeatureVector{
			AttendancePercentage: 50, AverageGrade: 30, AssignmentSubmissionRate: 40,
			NumberOfAttempts: 4, FeePaymentStatus: model.FeeOverdue, DaysSinceLastPayment: 120, EngagementScore: 10,
		}},
		{StudentID: "S2", Features: model.StudentFeatureVector{AttendancePercentage: 150}},
		{StudentID: "S3", Features: model.StudentFeatureVector{
			AttendancePercentage: 95, AverageGrade: 90, AssignmentSubmissionRate: 95,
			NumberOfAttempts: 1, FeePaymentStatus: model.FeePaid, EngagementScore: 85,
		}},
	}
	require.NoError(t, p.Stream(context.Background(), feed(reqs)))
	require.NoError(t, p.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	results := make([]output.Result, len(lines))
	for i, line := range lines {
		require.NoError(t, json.Unmarshal([]byte(line), &results[i]), "line %d", i)
	}

	assert.Equal(t, "S1", results[0].StudentID)
	assert.Equal(t, 1.0, results[0].RiskScore)
	assert.Equal(t, model.RiskHigh, results[0].RiskLevel)

	assert.Equal(t, "S2", results[1].StudentID)
	assert.Equal(t, 0.8, results[1].RiskScore)
	assert.Equal(t, []string{engine.ManualReview}, results[1].Recommendations)
	assert.NotEmpty(t, results[1].Error)

	assert.Equal(t, model.RiskLow, results[2].RiskLevel)
	assert.Equal(t, int64(1), p.Failed())
}
