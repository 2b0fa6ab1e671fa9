// internal/validation/rules_test.go
package validation

import (
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func check(r Rule, v interface{}) string {
	return r.Check(v, Data{})
}

func TestEmptyValuesPassOptionalRules(t *testing.T) {
	rules := []Rule{
		Email(), Phone(), String(), Numeric(), Integer(), Min(1), Max(1), Between(1, 2),
		MinLength(3), MaxLength(3), Date(), After("2020-01-01"), Before("2020-01-01"),
		AfterToday(), AfterOrEqualToday(), URL(), Array(), InArray("a"), TimeFormat(),
		UUID(), Boolean(), FileType(".pdf"), FileSize(1), Confirmed("other"),
		Regex(`^x$`, "bad"),
	}
	for _, r := range rules {
		for _, empty := range []interface{}{nil, "", "   ", []interface{}{}} {
			assert.Empty(t, check(r, empty), "rule %s with %v", r.Name, empty)
		}
	}
}

func TestRequired(t *testing.T) {
	assert.Equal(t, "This field is required", check(Required(), nil))
	assert.Equal(t, "This field is required", check(Required(), "  "))
	assert.Empty(t, check(Required(), "x"))
	assert.Empty(t, check(Required(), float64(0)))
}

func TestRequiredIf(t *testing.T) {
	r := RequiredIf("status", "closed_lost")
	assert.NotEmpty(t, r.Check(nil, Data{"status": "closed_lost"}))
	assert.Empty(t, r.Check(nil, Data{"status": "new"}))
	assert.Empty(t, r.Check("too expensive", Data{"status": "closed_lost"}))
}

func TestEmailAndURL(t *testing.T) {
	assert.Empty(t, check(Email(), "owner@example.com"))
	assert.NotEmpty(t, check(Email(), "owner@"))
	assert.NotEmpty(t, check(Email(), 42.0))
	assert.Empty(t, check(URL(), "https://example.com/brand"))
	assert.NotEmpty(t, check(URL(), "example"))
}

func TestPhone(t *testing.T) {
	for _, ok := range []string{"(555) 555-1234", "555-555-1234", "5555551234", "+1 555 555 1234", "+447911123456", "+886 912 345 678"} {
		assert.Empty(t, check(Phone(), ok), ok)
	}
	for _, bad := range []string{"555-1234", "phone", "+0123", "12345678901234567"} {
		assert.NotEmpty(t, check(Phone(), bad), bad)
	}
}

func TestNumericRules(t *testing.T) {
	assert.Empty(t, check(Numeric(), 12.5))
	assert.Empty(t, check(Numeric(), "12.50"))
	assert.NotEmpty(t, check(Numeric(), "twelve"))

	assert.Empty(t, check(Integer(), 3.0))
	assert.Empty(t, check(Integer(), "7"))
	assert.NotEmpty(t, check(Integer(), 3.5))

	assert.Equal(t, "Must be at least 1", check(Min(1), 0.5))
	assert.Empty(t, check(Min(0), 0.0))
	assert.Equal(t, "Must not be greater than 100", check(Max(100), 100.01))
	assert.Equal(t, "Must be between 1 and 5", check(Between(1, 5), 6.0))
	assert.Empty(t, check(Between(1, 5), "5"))
}

func TestLengthRules(t *testing.T) {
	assert.Equal(t, "Must be at least 3 characters", check(MinLength(3), "ab"))
	assert.Empty(t, check(MinLength(3), "abc"))
	assert.Equal(t, "Must not exceed 3 characters", check(MaxLength(3), "abcd"))
	assert.Empty(t, check(MaxLength(3), "日本語"))
}

func TestDateRules(t *testing.T) {
	orig := Now
	Now = func() time.Time { return time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC) }
	defer func() { Now = orig }()

	assert.Empty(t, check(Date(), "2024-02-29"))
	assert.NotEmpty(t, check(Date(), "2024-02-30"))

	assert.Empty(t, check(AfterToday(), "2024-05-11"))
	assert.NotEmpty(t, check(AfterToday(), "2024-05-10"))
	assert.Empty(t, check(AfterOrEqualToday(), "2024-05-10"))
	assert.NotEmpty(t, check(AfterOrEqualToday(), "2024-05-09"))

	assert.Empty(t, check(BeforeOrEqual("today"), "2024-05-10"))
	assert.NotEmpty(t, check(BeforeOrEqual("today"), "2024-05-11"))

	after := After("start_date")
	assert.Empty(t, after.Check("2024-06-02", Data{"start_date": "2024-06-01"}))
	assert.Equal(t, "Must be a date after start date", after.Check("2024-06-01", Data{"start_date": "2024-06-01"}))
	assert.Empty(t, after.Check("2024-06-01", Data{"start_date": ""}))

	assert.Empty(t, check(Before("2024-01-01"), "2023-12-31"))
	assert.NotEmpty(t, check(Before("2024-01-01"), "2024-01-01"))
	assert.Empty(t, check(AfterOrEqual("2024-01-01"), "2024-01-01"))
}

func TestChoiceAndFormatRules(t *testing.T) {
	assert.Empty(t, check(InArray("low", "high"), "low"))
	assert.Equal(t, "Must be one of: low, high", check(InArray("low", "high"), "medium"))
	assert.Empty(t, check(TimeFormat(), "23:59"))
	assert.NotEmpty(t, check(TimeFormat(), "24:00"))
	assert.Empty(t, check(UUID(), "2f1a3c1e-8d4b-4e59-9a3f-0c7a1e2b3c4d"))
	assert.NotEmpty(t, check(UUID(), "not-a-uuid"))
	assert.Empty(t, check(Boolean(), true))
	assert.Empty(t, check(Boolean(), "false"))
	assert.NotEmpty(t, check(Boolean(), "maybe"))
	assert.Empty(t, check(Array(), []interface{}{"a"}))
	assert.NotEmpty(t, check(Array(), "a"))
	assert.Empty(t, check(String(), "a"))
	assert.NotEmpty(t, check(String(), 1.0))
	assert.Equal(t, "bad", check(Regex(`^[A-Z]+$`, "bad"), "abc"))
}

func TestConfirmed(t *testing.T) {
	r := Confirmed("password_confirmation")
	assert.Empty(t, r.Check("secret123", Data{"password_confirmation": "secret123"}))
	assert.Equal(t, "Confirmation does not match", r.Check("secret123", Data{"password_confirmation": "other"}))
}

func fileHeader(name, mime string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if mime != "" {
		h.Set("Content-Type", mime)
	}
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestFileRules(t *testing.T) {
	assert.Equal(t, "A file is required", check(FilePresent(), nil))
	assert.Empty(t, check(FilePresent(), fileHeader("a.pdf", "", 1)))

	types := FileType(".pdf", "image/png")
	assert.Empty(t, check(types, fileHeader("contract.PDF", "", 1)))
	assert.Empty(t, check(types, fileHeader("scan", "image/png", 1)))
	assert.NotEmpty(t, check(types, fileHeader("virus.exe", "application/octet-stream", 1)))

	assert.Empty(t, check(FileSize(1), fileHeader("a.pdf", "", 1024*1024)))
	assert.Equal(t, "File must not be larger than 1 MB", check(FileSize(1), fileHeader("a.pdf", "", 1024*1024+1)))
}

func TestPanickingRuleBecomesMessage(t *testing.T) {
	boom := Rule{Name: "boom", Check: func(interface{}, Data) string { panic("nope") }}
	errs := Validate(Data{"x": "1"}, RuleSet{"x": {boom}})
	assert.Equal(t, []string{"Invalid value (boom)"}, errs["x"])
}
