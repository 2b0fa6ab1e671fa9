// Package validation holds the field rule library shared by every request
// payload and the per-resource rule tables built from it.
//
// A rule returns "" when the value passes and a human readable message when
// it fails. Empty values pass every rule except Required, RequiredIf and
// FilePresent, so optional fields skip format checks when left blank.
package validation

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

// Data is a decoded request payload.
type Data map[string]interface{}

type Rule struct {
	Name  string
	Check func(value interface{}, data Data) string
}

// Now is the clock used by the relative date rules.
var Now = time.Now

var formats = validator.New()

var (
	usPhonePattern   = regexp.MustCompile(`^(\+?1[\s.-]?)?(\(\d{3}\)\s?|\d{3}[\s.-]?)\d{3}[\s.-]?\d{4}$`)
	intlPhonePattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	timePattern      = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

const (
	ruleRequired  = "required"
	ruleSometimes = "sometimes"
	ruleFilled    = "filled"
)

func Required() Rule {
	return Rule{Name: ruleRequired, Check: func(v interface{}, _ Data) string {
		if IsEmpty(v) {
			return "This field is required"
		}
		return ""
	}}
}

// Filled rejects a key that is present but blank.
func Filled() Rule {
	return Rule{Name: ruleFilled, Check: func(v interface{}, _ Data) string {
		if IsEmpty(v) {
			return "This field must have a value"
		}
		return ""
	}}
}

// Sometimes marks a field that is only validated when its key is present.
func Sometimes() Rule {
	return Rule{Name: ruleSometimes, Check: func(interface{}, Data) string { return "" }}
}

func RequiredIf(field string, values ...string) Rule {
	return Rule{Name: "required_if", Check: func(v interface{}, data Data) string {
		other, ok := asString(data[field])
		if !ok || !IsEmpty(v) {
			return ""
		}
		for _, want := range values {
			if other == want {
				return "This field is required"
			}
		}
		return ""
	}}
}

func Email() Rule {
	return optional("email", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if !ok || formats.Var(s, "email") != nil {
			return "Must be a valid email address"
		}
		return ""
	})
}

// Phone accepts US numbers such as (555) 555-1234 or 555-555-1234 and
// international numbers in E.164 form.
func Phone() Rule {
	return optional("phone", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if !ok {
			return "Must be a valid phone number"
		}
		s = strings.TrimSpace(s)
		if usPhonePattern.MatchString(s) {
			return ""
		}
		compact := strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "").Replace(s)
		if intlPhonePattern.MatchString(compact) {
			return ""
		}
		return "Must be a valid phone number"
	})
}

func String() Rule {
	return optional("string", func(v interface{}, _ Data) string {
		if _, ok := v.(string); !ok {
			return "Must be text"
		}
		return ""
	})
}

func Numeric() Rule {
	return optional("numeric", func(v interface{}, _ Data) string {
		if _, ok := asDecimal(v); !ok {
			return "Must be a number"
		}
		return ""
	})
}

func Integer() Rule {
	return optional("integer", func(v interface{}, _ Data) string {
		d, ok := asDecimal(v)
		if !ok || !d.Equal(d.Truncate(0)) {
			return "Must be a whole number"
		}
		return ""
	})
}

func Min(min float64) Rule {
	limit := decimal.NewFromFloat(min)
	return optional("min", func(v interface{}, _ Data) string {
		d, ok := asDecimal(v)
		if !ok {
			return "Must be a number"
		}
		if d.LessThan(limit) {
			return fmt.Sprintf("Must be at least %s", limit.String())
		}
		return ""
	})
}

func Max(max float64) Rule {
	limit := decimal.NewFromFloat(max)
	return optional("max", func(v interface{}, _ Data) string {
		d, ok := asDecimal(v)
		if !ok {
			return "Must be a number"
		}
		if d.GreaterThan(limit) {
			return fmt.Sprintf("Must not be greater than %s", limit.String())
		}
		return ""
	})
}

func Between(min, max float64) Rule {
	lo, hi := decimal.NewFromFloat(min), decimal.NewFromFloat(max)
	return optional("between", func(v interface{}, _ Data) string {
		d, ok := asDecimal(v)
		if !ok {
			return "Must be a number"
		}
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return fmt.Sprintf("Must be between %s and %s", lo.String(), hi.String())
		}
		return ""
	})
}

func MinLength(n int) Rule {
	return optional("min_length", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if !ok || utf8.RuneCountInString(s) < n {
			return fmt.Sprintf("Must be at least %d characters", n)
		}
		return ""
	})
}

func MaxLength(n int) Rule {
	return optional("max_length", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if !ok || utf8.RuneCountInString(s) > n {
			return fmt.Sprintf("Must not exceed %d characters", n)
		}
		return ""
	})
}

func Date() Rule {
	return optional("date", func(v interface{}, _ Data) string {
		if _, ok := asDate(v); !ok {
			return "Must be a valid date"
		}
		return ""
	})
}

// After compares against another field of the payload when ref names one,
// against the current date for "today", otherwise ref is parsed as a date.
func After(ref string) Rule {
	return compareDate("after", ref, "after", func(c int) bool { return c > 0 })
}

func Before(ref string) Rule {
	return compareDate("before", ref, "before", func(c int) bool { return c < 0 })
}

func AfterOrEqual(ref string) Rule {
	return compareDate("after_or_equal", ref, "on or after", func(c int) bool { return c >= 0 })
}

func BeforeOrEqual(ref string) Rule {
	return compareDate("before_or_equal", ref, "on or before", func(c int) bool { return c <= 0 })
}

func AfterToday() Rule {
	return optional("after_today", func(v interface{}, _ Data) string {
		d, ok := asDate(v)
		if !ok {
			return "Must be a valid date"
		}
		if !d.After(models.NewDate(Now()).Time) {
			return "Must be a date after today"
		}
		return ""
	})
}

func AfterOrEqualToday() Rule {
	return optional("after_or_equal_today", func(v interface{}, _ Data) string {
		d, ok := asDate(v)
		if !ok {
			return "Must be a valid date"
		}
		if d.Before(models.NewDate(Now()).Time) {
			return "Must be today or a later date"
		}
		return ""
	})
}

func URL() Rule {
	return optional("url", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if !ok || formats.Var(s, "url") != nil {
			return "Must be a valid URL"
		}
		return ""
	})
}

func UUID() Rule {
	return optional("uuid", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if !ok || formats.Var(s, "uuid") != nil {
			return "Must be a valid identifier"
		}
		return ""
	})
}

func Boolean() Rule {
	return optional("boolean", func(v interface{}, _ Data) string {
		switch b := v.(type) {
		case bool:
			return ""
		case string:
			if _, err := strconv.ParseBool(b); err == nil {
				return ""
			}
		case float64:
			if b == 0 || b == 1 {
				return ""
			}
		}
		return "Must be true or false"
	})
}

func Array() Rule {
	return optional("array", func(v interface{}, _ Data) string {
		switch v.(type) {
		case []interface{}, []string:
			return ""
		}
		return "Must be a list"
	})
}

func InArray(options ...string) Rule {
	return optional("in", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if ok {
			for _, o := range options {
				if s == o {
					return ""
				}
			}
		}
		return "Must be one of: " + strings.Join(options, ", ")
	})
}

// OneOf is InArray over a models.Options group.
func OneOf(group string) Rule {
	return InArray(models.Options[group]...)
}

func Regex(pattern, message string) Rule {
	re := regexp.MustCompile(pattern)
	return optional("regex", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if !ok || !re.MatchString(s) {
			return message
		}
		return ""
	})
}

func TimeFormat() Rule {
	return optional("time", func(v interface{}, _ Data) string {
		s, ok := asString(v)
		if !ok || !timePattern.MatchString(s) {
			return "Must be a valid time (HH:MM)"
		}
		return ""
	})
}

func FilePresent() Rule {
	return Rule{Name: "file", Check: func(v interface{}, _ Data) string {
		if fh, ok := v.(*multipart.FileHeader); !ok || fh == nil {
			return "A file is required"
		}
		return ""
	}}
}

// FileType accepts extensions (".pdf") and MIME types ("application/pdf").
func FileType(allowed ...string) Rule {
	return optional("file_type", func(v interface{}, _ Data) string {
		fh, ok := v.(*multipart.FileHeader)
		if !ok {
			return "A file is required"
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		mime := strings.ToLower(fh.Header.Get("Content-Type"))
		for _, a := range allowed {
			a = strings.ToLower(a)
			if a == ext || (mime != "" && a == mime) {
				return ""
			}
		}
		return "File type must be one of: " + strings.Join(allowed, ", ")
	})
}

func FileSize(maxMB float64) Rule {
	return optional("file_size", func(v interface{}, _ Data) string {
		fh, ok := v.(*multipart.FileHeader)
		if !ok {
			return "A file is required"
		}
		if float64(fh.Size) > maxMB*1024*1024 {
			return fmt.Sprintf("File must not be larger than %s MB", strconv.FormatFloat(maxMB, 'f', -1, 64))
		}
		return ""
	})
}

// Confirmed requires the value to equal the payload's confirmation field.
func Confirmed(confirmationField string) Rule {
	return optional("confirmed", func(v interface{}, data Data) string {
		if fmt.Sprint(v) != fmt.Sprint(data[confirmationField]) {
			return "Confirmation does not match"
		}
		return ""
	})
}

func optional(name string, check func(interface{}, Data) string) Rule {
	return Rule{Name: name, Check: func(v interface{}, data Data) string {
		if IsEmpty(v) {
			return ""
		}
		return check(v, data)
	}}
}

func compareDate(name, ref, word string, ok func(int) bool) Rule {
	return optional(name, func(v interface{}, data Data) string {
		d, valid := asDate(v)
		if !valid {
			return "Must be a valid date"
		}
		var other models.Date
		label := ref
		if raw, isField := data[ref]; isField {
			if IsEmpty(raw) {
				return ""
			}
			if other, valid = asDate(raw); !valid {
				return ""
			}
			label = strings.ReplaceAll(ref, "_", " ")
		} else if ref == "today" {
			other = models.NewDate(Now())
		} else {
			parsed, err := models.ParseDate(ref)
			if err != nil {
				return ""
			}
			other = parsed
		}
		if !ok(d.Compare(other.Time)) {
			return fmt.Sprintf("Must be a date %s %s", word, label)
		}
		return ""
	})
}

// IsEmpty reports whether a payload value counts as absent.
func IsEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	case *multipart.FileHeader:
		return t == nil
	}
	return false
}

func asString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func asDecimal(v interface{}) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case decimal.Decimal:
		return t, true
	}
	return decimal.Decimal{}, false
}

func asDate(v interface{}) (models.Date, bool) {
	switch t := v.(type) {
	case string:
		d, err := models.ParseDate(t)
		return d, err == nil
	case time.Time:
		return models.NewDate(t), true
	case models.Date:
		return t, !t.IsZero()
	}
	return models.Date{}, false
}
