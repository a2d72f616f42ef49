package payroll

import "errors"

var (
	ErrParse         = errors.New("payroll sheet could not be parsed")
	ErrSheetNotFound = errors.New("payroll sheet not found in workbook")
)
