package payroll

import (
	"fmt"
	"strings"
	"testing"
)

func tableWith(rows ...Row) *Table {
	return &Table{Columns: RequiredColumns, Rows: rows}
}

func validRow(num, name, email string) Row {
	return Row{
		EmployeeNumber: num,
		Name:           name,
		Email:          email,
		PayrollPeriod:  "Jan 2024",
		NetPay:         1000,
	}
}

func TestValidateEmptyTable(t *testing.T) {
	ok, errs := Validate(&Table{Columns: RequiredColumns}, RequiredColumns)
	if ok {
		t.Fatal("expected empty table to fail validation")
	}
	if len(errs) != 1 {
		t.Fatalf("expected single error, got %v", errs)
	}
}

func TestValidateMissingColumnsAggregated(t *testing.T) {
	table := &Table{
		Columns: []string{"EmployeeNumber", "Name"},
		Rows:    []Row{validRow("E1", "Ana", "ana@co.com")},
	}
	ok, errs := Validate(table, []string{"EmployeeNumber", "Name", "NetPay", "PayrollPeriod"})
	if ok {
		t.Fatal("expected validation failure")
	}
	var found string
	for _, e := range errs {
		if strings.HasPrefix(e, "Missing required columns:") {
			found = e
		}
	}
	if found == "" {
		t.Fatalf("expected aggregated missing-columns error, got %v", errs)
	}
	if !strings.Contains(found, "NetPay") || !strings.Contains(found, "PayrollPeriod") {
		t.Fatalf("expected all missing columns named, got %q", found)
	}
}

func TestValidateEmailGrammar(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"a.b@co.io", true},
		{"ana_1%x@pay-roll.example.com", true},
		{"not-an-email", false},
		{"x@y", false},
		{"@co.io", false},
		{"a@b.c", false},
	}
	for _, tc := range cases {
		if got := ValidEmail(tc.email); got != tc.valid {
			t.Fatalf("ValidEmail(%q) = %v, want %v", tc.email, got, tc.valid)
		}
	}
}

func TestValidateInvalidEmailsSummarized(t *testing.T) {
	rows := make([]Row, 0, 7)
	for i := 0; i < 7; i++ {
		rows = append(rows, validRow(fmt.Sprintf("E%d", i), fmt.Sprintf("Emp%d", i), "bad-address"))
	}
	ok, errs := Validate(tableWith(rows...), RequiredColumns)
	if ok {
		t.Fatal("expected validation failure")
	}
	var msg string
	for _, e := range errs {
		if strings.HasPrefix(e, "Invalid email format for 7 employee(s):") {
			msg = e
		}
	}
	if msg == "" {
		t.Fatalf("expected aggregated invalid-email error, got %v", errs)
	}
	if !strings.Contains(msg, "and 2 more") {
		t.Fatalf("expected 5+remainder summary, got %q", msg)
	}
}

func TestValidateMissingEmails(t *testing.T) {
	table := tableWith(
		validRow("E1", "Ana", ""),
		validRow("E2", "Ben", "ben@co.com"),
	)
	ok, errs := Validate(table, RequiredColumns)
	if ok {
		t.Fatal("expected validation failure")
	}
	want := "Missing email addresses for 1 employee(s): Ana"
	if len(errs) != 1 || errs[0] != want {
		t.Fatalf("expected %q, got %v", want, errs)
	}
}

func TestValidateMissingNetPayFromBlankCell(t *testing.T) {
	buf := buildWorkbook(t, "Sheet1", [][]any{
		{"EmployeeNumber", "Name", "Email", "PayrollPeriod", "NetPay"},
		{"E1", "Ana", "ana@co.com", "Jan 2024", ""},
		{"E2", "Ben", "ben@co.com", "Jan 2024", 0},
		{"E3", "Cal", "cal@co.com", "Jan 2024", 1000},
	})
	table, err := Load(buf, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ok, errs := Validate(table, table.Columns)
	if ok {
		t.Fatal("expected validation failure")
	}
	// Only the blank cell counts; a literal zero net pay is a value, not a
	// missing one.
	want := "Missing NetPay for 1 employee(s)"
	if len(errs) != 1 || errs[0] != want {
		t.Fatalf("expected %q, got %v", want, errs)
	}
}

func TestValidateDuplicateEmployeeNumbers(t *testing.T) {
	table := tableWith(
		validRow("1", "A", "a@co.io"),
		validRow("2", "B", "b@co.io"),
		validRow("2", "C", "c@co.io"),
		validRow("3", "D", "d@co.io"),
	)
	ok, errs := Validate(table, RequiredColumns)
	if ok {
		t.Fatal("expected validation failure")
	}
	want := "Duplicate employee numbers found: 2"
	if len(errs) != 1 || errs[0] != want {
		t.Fatalf("expected %q, got %v", want, errs)
	}
}

func TestValidateCategoriesAreOrderIndependent(t *testing.T) {
	forward := tableWith(
		validRow("E1", "", "a@co.io"),    // missing name
		validRow("E2", "Ben", "bad"),     // invalid email
		validRow("E2", "Cal", "c@co.io"), // duplicate number
	)
	reversed := tableWith(
		validRow("E2", "Cal", "c@co.io"),
		validRow("E2", "Ben", "bad"),
		validRow("E1", "", "a@co.io"),
	)

	_, fwd := Validate(forward, RequiredColumns)
	_, rev := Validate(reversed, RequiredColumns)
	if len(fwd) != 3 {
		t.Fatalf("expected exactly 3 aggregated errors, got %v", fwd)
	}
	if len(fwd) != len(rev) {
		t.Fatalf("expected same categories regardless of order: %v vs %v", fwd, rev)
	}
}

func TestValidatePasses(t *testing.T) {
	ok, errs := Validate(tableWith(validRow("E1", "Ana", "ana@co.com")), RequiredColumns)
	if !ok {
		t.Fatalf("expected valid table, got %v", errs)
	}
}
