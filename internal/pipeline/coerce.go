package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
	"github.com/joseph-ayodele/sales-tracker/internal/schema"
)

// Day-first layouts; "2" and "1" also accept two-digit day and month.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2006/1/2",
	"20060102",
}

// Excel serials beyond this are past 9999-12-31.
const maxExcelSerial = 2958465

// ParseDate converts a cell into a calendar date at UTC midnight. Text dates are tried first,
// then Excel serial numbers in the 1900 date system.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civilDate(t), true
		}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 1 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return civilDate(t), true
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseVolume converts a cell into a finite, non-negative number. Either '.' or ',' may be the
// decimal separator; when both appear the rightmost one is.
func ParseVolume(raw string) (float64, string) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return 0, "is empty"
	}
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, "is not a number"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "is not a finite number"
	}
	if v < 0 {
		return 0, "must not be negative"
	}
	return v + 0, "" // folds -0 into 0
}

// DisplayName joins the non-empty trimmed name parts with one space.
func DisplayName(first, last string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Coerce types every record or fails on the first bad cell. Output order and length match input.
func Coerce(records []entity.RawRecord, cols schema.Columns) ([]entity.TypedRecord, error) {
	out := make([]entity.TypedRecord, 0, len(records))
	for _, rec := range records {
		tr, err := coerceRecord(rec, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

func coerceRecord(rec entity.RawRecord, cols schema.Columns) (entity.TypedRecord, error) {
	get := func(f constants.Field) string {
		key, ok := cols[f]
		if !ok {
			return ""
		}
		return strings.TrimSpace(rec.Values[key])
	}

	tr := entity.TypedRecord{Row: rec.Row}

	tr.CustomerID = get(constants.FieldCustomer)
	if tr.CustomerID == "" {
		return tr, &TypeCoercionError{Field: cols[constants.FieldCustomer], Row: rec.Row, Reason: "is empty"}
	}
	tr.Province = get(constants.FieldProvince)
	if tr.Province == "" {
		return tr, &TypeCoercionError{Field: cols[constants.FieldProvince], Row: rec.Row, Reason: "is empty"}
	}

	rawDate := rec.Values[cols[constants.FieldDate]]
	date, ok := ParseDate(rawDate)
	if !ok {
		return tr, &DateParseError{Field: cols[constants.FieldDate], Row: rec.Row, RawValue: rawDate}
	}
	tr.Date = date

	rawVolume := rec.Values[cols[constants.FieldVolume]]
	vol, reason := ParseVolume(rawVolume)
	if reason != "" {
		return tr, &TypeCoercionError{Field: cols[constants.FieldVolume], Row: rec.Row, RawValue: rawVolume, Reason: reason}
	}
	tr.Volume = vol

	tr.FirstName = get(constants.FieldFirstName)
	tr.LastName = get(constants.FieldLastName)
	tr.DisplayName = DisplayName(tr.FirstName, tr.LastName)
	tr.Email = get(constants.FieldEmail)
	tr.Phone = get(constants.FieldPhone)
	return tr, nil
}
