// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Lead not found", T("en", KeyNotFound, "Lead"))
	assert.Equal(t, "3 royalty statements generated", T("en", KeyRoyaltiesGenerated, 3))
	assert.Equal(t, "登入成功", T("zh_TW", KeyAuthLoginSuccess))
	assert.Equal(t, "Login successful", T("fr", KeyAuthLoginSuccess))
	assert.Equal(t, "missing.key", T("en", "missing.key"))
	assert.Equal(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}

func TestLocalesShareKeys(t *testing.T) {
	require.NoError(t, Initialize())

	en := instance.translations["en"]
	for lang, table := range instance.translations {
		assert.Len(t, table, len(en), lang)
		for key := range en {
			assert.Contains(t, table, key, lang)
		}
	}
}
