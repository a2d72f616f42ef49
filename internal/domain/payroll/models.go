package payroll

// Row is one employee's payroll record for one period. Numeric fields are
// defaulted to zero at the load boundary; by the time a Row reaches the
// renderer or the dispatcher no field is ever "missing".
type Row struct {
	EmployeeNumber string
	Name           string
	Position       string
	Email          string
	PayrollPeriod  string

	BasicSalary      float64
	MonthlyAllowance float64
	Allowance        float64

	RegularHours    float64
	RegularAmount   float64
	RegularOTHours  float64
	RegularOTAmount float64

	LegalHolidayHours    float64
	LegalHolidayAmount   float64
	SpecialHolidayHours  float64
	SpecialHolidayAmount float64

	NightDiffHours  float64
	NightDiffAmount float64
	OffsetHours     float64
	OffsetAmount    float64
	PaidLeaveHours  float64
	PaidLeaveAmount float64

	AdjustmentEarnings float64
	ThirteenthMonthPay float64
	OthersEarnings     float64

	GrossIncome float64

	SSSContribution        float64
	PhilhealthContribution float64
	PagibigContribution    float64
	PagibigLoan            float64
	SSSLoan                float64
	WithholdingTax         float64
	AdjustmentDeductions   float64
	OthersDeductions       float64

	TotalDeductions float64
	NetPay          float64

	// Extra carries unknown spreadsheet columns through unchanged.
	Extra map[string]string

	// netPayBlank remembers that the NetPay cell was empty before numeric
	// coercion turned it into 0. Validation needs the distinction; a genuine
	// zero net pay is not a missing value.
	netPayBlank bool
}

// Table is an ordered set of rows plus the header columns found in the sheet.
type Table struct {
	Columns []string
	Rows    []Row
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RequiredColumns is the header contract for an uploaded payroll sheet.
// Names are matched verbatim, case-sensitive.
var RequiredColumns = []string{
	"EmployeeNumber", "Name", "Position", "Email", "PayrollPeriod",

	"BasicSalary", "MonthlyAllowance", "Allowance",

	"RegularHours", "RegularAmount",
	"RegularOTHours", "RegularOTAmount",

	"LegalHolidayHours", "LegalHolidayAmount",
	"SpecialHolidayHours", "SpecialHolidayAmount",

	"NightDiffHours", "NightDiffAmount",
	"OffsetHours", "OffsetAmount",
	"PaidLeaveHours", "PaidLeaveAmount",
	"AdjustmentEarnings", "ThirteenthMonthPay", "OthersEarnings",

	"GrossIncome",

	"SSSContribution", "PhilhealthContribution", "PagibigContribution",
	"PagibigLoan", "SSSLoan", "WithholdingTax",
	"AdjustmentDeductions", "OthersDeductions",
	"TotalDeductions", "NetPay",
}

// numericFields maps the coerced numeric columns onto a row's fields.
func numericFields(r *Row) map[string]*float64 {
	return map[string]*float64{
		"BasicSalary":            &r.BasicSalary,
		"MonthlyAllowance":       &r.MonthlyAllowance,
		"Allowance":              &r.Allowance,
		"RegularHours":           &r.RegularHours,
		"RegularAmount":          &r.RegularAmount,
		"RegularOTHours":         &r.RegularOTHours,
		"RegularOTAmount":        &r.RegularOTAmount,
		"LegalHolidayHours":      &r.LegalHolidayHours,
		"LegalHolidayAmount":     &r.LegalHolidayAmount,
		"SpecialHolidayHours":    &r.SpecialHolidayHours,
		"SpecialHolidayAmount":   &r.SpecialHolidayAmount,
		"NightDiffHours":         &r.NightDiffHours,
		"NightDiffAmount":        &r.NightDiffAmount,
		"OffsetHours":            &r.OffsetHours,
		"OffsetAmount":           &r.OffsetAmount,
		"PaidLeaveHours":         &r.PaidLeaveHours,
		"PaidLeaveAmount":        &r.PaidLeaveAmount,
		"AdjustmentEarnings":     &r.AdjustmentEarnings,
		"ThirteenthMonthPay":     &r.ThirteenthMonthPay,
		"OthersEarnings":         &r.OthersEarnings,
		"GrossIncome":            &r.GrossIncome,
		"SSSContribution":        &r.SSSContribution,
		"PhilhealthContribution": &r.PhilhealthContribution,
		"PagibigContribution":    &r.PagibigContribution,
		"PagibigLoan":            &r.PagibigLoan,
		"SSSLoan":                &r.SSSLoan,
		"WithholdingTax":         &r.WithholdingTax,
		"AdjustmentDeductions":   &r.AdjustmentDeductions,
		"OthersDeductions":       &r.OthersDeductions,
		"TotalDeductions":        &r.TotalDeductions,
		"NetPay":                 &r.NetPay,
	}
}

// stringFields maps the trimmed string columns onto a row's fields.
func stringFields(r *Row) map[string]*string {
	return map[string]*string{
		"EmployeeNumber": &r.EmployeeNumber,
		"Name":           &r.Name,
		"Position":       &r.Position,
		"Email":          &r.Email,
		"PayrollPeriod":  &r.PayrollPeriod,
	}
}
