package format

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"students.csv", Delimited},
		{"STUDENTS.CSV", Delimited},
		{"dir/with.dots/attendance.csv", Delimited},
		{"fees.xlsx", Spreadsheet},
		{"fees.XLS", Spreadsheet},
		{"grades.json", Unknown},
		{"noext", Unknown},
		{"", Unknown},
		{"archive.csv.gz", Unknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.name); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	if Delimited.String() != "csv" || Spreadsheet.String() != "excel" || Unknown.String() != "unknown" {
		t.Fatalf("unexpected names: %s %s %s", Delimited, Spreadsheet, Unknown)
	}
}
