// internal/models/models_test.go
package models

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestAllModelsParse(t *testing.T) {
	cache := &sync.Map{}
	for _, model := range AllModels() {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err, "%T", model)
		assert.NotEmpty(t, s.Table)
	}
}

func TestStringArrayFields(t *testing.T) {
	cache := &sync.Map{}

	ticket, err := schema.Parse(&TechnicalRequest{}, cache, schema.NamingStrategy{})
	require.NoError(t, err)
	attachments := ticket.LookUpField("Attachments")
	require.NotNil(t, attachments)
	assert.Equal(t, schema.DataType("text"), attachments.DataType)

	product, err := schema.Parse(&Product{}, cache, schema.NamingStrategy{})
	require.NoError(t, err)
	images := product.LookUpField("Images")
	require.NotNil(t, images)
	assert.Equal(t, schema.DataType("text"), images.DataType)
}

func TestStringArrayRoundTrip(t *testing.T) {
	in := StringArray{"a.pdf", "b, c.png"}
	v, err := in.Value()
	require.NoError(t, err)

	var out StringArray
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestNewDateUsesUTCDay(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)
	// 01:30 on the 10th in Taipei is still the 9th in UTC.
	d := NewDate(time.Date(2024, 5, 10, 1, 30, 0, 0, taipei))
	assert.Equal(t, "2024-05-09", d.String())
	assert.Equal(t, time.UTC, d.Location())
}

func TestDateScanKeepsCalendarDay(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 10, 0, 0, 0, 0, taipei)))
	assert.Equal(t, "2024-05-10", d.String())

	require.NoError(t, d.Scan("2024-05-11T00:00:00Z"))
	assert.Equal(t, "2024-05-11", d.String())
}
