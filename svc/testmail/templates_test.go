package testmail_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg, err := testmail.DefaultRegistry()
	require.NoError(t, err)

	locales := reg.Locales()
	require.Len(t, locales, 10)
	assert.Equal(t, "English", reg.Default().Name)
	assert.True(t, reg.Default().Default)

	names := make([]string, len(locales))
	for i, l := range locales {
		names[i] = l.Name
	}
	assert.Equal(t, []string{
		"Polski", "English", "Español", "Français", "Deutsch",
		"Italiano", "Nederlands", "Čeština", "Slovenčina", "Română",
	}, names)
}

func TestRegistry_EveryTemplateHasPlaceholders(t *testing.T) {
	t.Parallel()

	reg := testmail.MustDefaultRegistry()
	for _, l := range reg.Locales() {
		t.Run(l.Name, func(t *testing.T) {
			t.Parallel()

			tpl := string(reg.Template(l.Name))
			for _, p := range []string{"{store_name}", "{order_number}", "{num_emails}", "{policy_text}"} {
				assert.Contains(t, tpl, p)
			}
		})
	}
}

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	reg := testmail.MustDefaultRegistry()

	tests := []struct {
		name     string
		locale   string
		want     string
		resolved bool
	}{
		{"exact name", "Deutsch", "Deutsch", true},
		{"case insensitive", "english", "English", true},
		{"surrounding whitespace", "  Polski ", "Polski", true},
		{"decomposed diacritics", "C\u030Ce\u0161tina", "Čeština", true},
		{"language tag", "fr", "Français", true},
		{"regional tag", "de-AT", "Deutsch", true},
		{"unsupported name", "Klingon", "English", false},
		{"unsupported tag", "ja", "English", false},
		{"empty", "", "English", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, ok := reg.Resolve(tt.locale)
			assert.Equal(t, tt.want, info.Name)
			assert.Equal(t, tt.resolved, ok)
		})
	}
}

func TestRegistry_TemplateFallsBackToDefault(t *testing.T) {
	t.Parallel()

	reg := testmail.MustDefaultRegistry()
	assert.Equal(t, reg.Template("English"), reg.Template("Klingon"))
	assert.NotEqual(t, reg.Template("English"), reg.Template("Polski"))
}

func TestNewRegistry_Rejects(t *testing.T) {
	t.Parallel()

	const good = "{store_name} {order_number} {num_emails} {policy_text}"

	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unparsable",
			yaml:    "locales: [",
			wantErr: testmail.ErrConfiguration,
		},
		{
			name:    "empty table",
			yaml:    "default: English\n",
			wantErr: testmail.ErrConfiguration,
		},
		{
			name:    "missing placeholder",
			yaml:    "default: English\nlocales:\n  - name: English\n    tag: en\n    template: \"{store_name} only\"\n",
			wantErr: testmail.ErrFormatting,
		},
		{
			name:    "duplicate locale",
			yaml:    "default: English\nlocales:\n  - name: English\n    tag: en\n    template: \"" + good + "\"\n  - name: english\n    tag: en\n    template: \"" + good + "\"\n",
			wantErr: testmail.ErrConfiguration,
		},
		{
			name:    "malformed tag",
			yaml:    "default: English\nlocales:\n  - name: English\n    tag: \"???\"\n    template: \"" + good + "\"\n",
			wantErr: testmail.ErrConfiguration,
		},
		{
			name:    "default without template",
			yaml:    "default: Polski\nlocales:\n  - name: English\n    tag: en\n    template: \"" + good + "\"\n",
			wantErr: testmail.ErrConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg, err := testmail.NewRegistry([]byte(tt.yaml))
			assert.Nil(t, reg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRegistry_MissingPlaceholderDetails(t *testing.T) {
	t.Parallel()

	_, err := testmail.NewRegistry([]byte("default: English\nlocales:\n  - name: English\n    tag: en\n    template: \"{store_name} {policy_text}\"\n"))

	var fe *testmail.FormattingError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "English", fe.Locale)
	assert.Equal(t, []string{"{order_number}", "{num_emails}"}, fe.Missing)
	assert.True(t, strings.Contains(err.Error(), "{num_emails}"))
}
