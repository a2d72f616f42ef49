package payroll

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether addr matches the local@domain.tld grammar.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// Validate checks a normalized table against the required-field schema and the
// semantic rules for a payslip batch. Every violation category is collected
// into one aggregated message; validation passes only when the returned list
// is empty. A batch with any error is rejected whole.
func Validate(t *Table, required []string) (bool, []string) {
	var errs []string

	if len(t.Rows) == 0 {
		errs = append(errs, "Excel file contains no data rows")
		return false, errs
	}

	var missingCols []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missingCols = append(missingCols, col)
		}
	}
	if len(missingCols) > 0 {
		errs = append(errs, fmt.Sprintf("Missing required columns: %s", strings.Join(missingCols, ", ")))
	}

	if t.HasColumn("Email") {
		var missing []string
		var invalid []string
		for i, row := range t.Rows {
			if row.Email == "" {
				missing = append(missing, row.Name)
				continue
			}
			if !ValidEmail(row.Email) {
				name := row.Name
				if name == "" {
					name = fmt.Sprintf("Row %d", i+1)
				}
				invalid = append(invalid, fmt.Sprintf("%s (%s)", name, row.Email))
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("Missing email addresses for %d employee(s): %s",
				len(missing), summarize(missing)))
		}
		if len(invalid) > 0 {
			errs = append(errs, fmt.Sprintf("Invalid email format for %d employee(s): %s",
				len(invalid), summarize(invalid)))
		}
	}

	criticalFields := []struct {
		name    string
		missing func(Row) bool
	}{
		{"EmployeeNumber", func(r Row) bool { return r.EmployeeNumber == "" }},
		{"Name", func(r Row) bool { return r.Name == "" }},
		{"PayrollPeriod", func(r Row) bool { return r.PayrollPeriod == "" }},
		{"NetPay", func(r Row) bool { return r.netPayBlank }},
	}
	for _, field := range criticalFields {
		if !t.HasColumn(field.name) {
			continue
		}
		count := 0
		for _, row := range t.Rows {
			if field.missing(row) {
				count++
			}
		}
		if count > 0 {
			errs = append(errs, fmt.Sprintf("Missing %s for %d employee(s)", field.name, count))
		}
	}

	if t.HasColumn("EmployeeNumber") {
		if dups := duplicateEmployeeNumbers(t.Rows); len(dups) > 0 {
			if len(dups) > 5 {
				dups = dups[:5]
			}
			errs = append(errs, fmt.Sprintf("Duplicate employee numbers found: %s", strings.Join(dups, ", ")))
		}
	}

	return len(errs) == 0, errs
}

// summarize lists the first five entries and folds the rest into a count.
func summarize(items []string) string {
	if len(items) <= 5 {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:5], ", "), len(items)-5)
}

// duplicateEmployeeNumbers returns the distinct duplicated values in
// first-seen order.
func duplicateEmployeeNumbers(rows []Row) []string {
	seen := make(map[string]int)
	for _, row := range rows {
		if row.EmployeeNumber == "" {
			continue
		}
		seen[row.EmployeeNumber]++
	}
	var dups []string
	reported := make(map[string]bool)
	for _, row := range rows {
		if seen[row.EmployeeNumber] > 1 && !reported[row.EmployeeNumber] {
			reported[row.EmployeeNumber] = true
			dups = append(dups, row.EmployeeNumber)
		}
	}
	return dups
}
