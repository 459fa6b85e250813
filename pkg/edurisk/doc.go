// Package edurisk ingests student data files and scores each student's
// dropout risk.
//
// Quick start:
//
//	c, err := edurisk.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, _ := c.ProcessFile(csvBytes, "attendance.csv", "attendance")
//	fmt.Println(res.Quality.ValidRecords, res.Quality.Issues)
//
//	for _, s := range c.Assess(res.Records) {
//	    fmt.Println(s.StudentID, s.Assessment.RiskScore, s.Assessment.RiskLevel)
//	}
//
// Scores are rule-based. A model file given with WithAugmentModel is loaded
// on first use and blended into the score; if it cannot be loaded the
// client keeps scoring with the rules alone.
//
// A Client is safe for concurrent use. Create once, reuse across requests.
package edurisk
