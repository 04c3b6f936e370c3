package export

import "testing"

func TestNewRosterWorkbook(t *testing.T) {
	wb, err := NewRosterWorkbook([]SheetSpec{
		{
			Title:  "Members",
			Header: []string{"Last name", "First name"},
			Rows:   [][]string{{"Avery", "Noel"}, {"Reyes", "Dana"}},
		},
		{
			Title:  "Readiness",
			Header: []string{"Member", "Position"},
			Rows:   [][]string{{"Avery Noel", "GSAR"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	sheets := wb.File.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Members" || sheets[1] != "Readiness" {
		t.Fatalf("sheets: %v", sheets)
	}

	got, err := wb.File.GetCellValue("Members", "A3")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Reyes" {
		t.Errorf("A3 = %q, want Reyes", got)
	}

	head, err := wb.File.GetCellValue("Readiness", "B1")
	if err != nil {
		t.Fatal(err)
	}
	if head != "Position" {
		t.Errorf("B1 = %q, want Position", head)
	}
}

func TestColName(t *testing.T) {
	for n, want := range map[int]string{1: "A", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"} {
		if got := colName(n); got != want {
			t.Errorf("colName(%d) = %q, want %q", n, got, want)
		}
	}
}
