package recommend

// DefaultCatalog returns the built-in recommendation catalog, one entry per
// factor in reporting order.
func DefaultCatalog() []Entry {
	return []Entry{
		{
			Factor: FactorAttendance,
			Desc:   "Low or declining class attendance",
			Recommendations: []string{
				"Schedule a counseling session to address attendance issues",
				"Enroll the student in attendance tracking with regular reminders",
			},
		},
		{
			Factor: FactorAcademic,
			Desc:   "Weak grades, missed submissions or repeated attempts",
			Recommendations: []string{
				"Arrange additional tutoring support in weak subjects",
				"Recommend a study skills workshop",
			},
		},
		{
			Factor: FactorFinancial,
			Desc:   "Pending or overdue fee payments",
			Recommendations: []string{
				"Contact the student about fee payment options",
				"Share information about financial aid and scholarships",
			},
		},
		{
			Factor: FactorEngagement,
			Desc:   "Low participation in learning activities",
			Recommendations: []string{
				"Encourage participation in extracurricular activities",
				"Assign a mentor for regular check-ins",
			},
		},
	}
}

// DefaultFallback is emitted when no factor crosses the threshold.
func DefaultFallback() []string {
	return []string{
		"Continue regular monitoring of student progress",
		"Maintain the current level of support",
	}
}
