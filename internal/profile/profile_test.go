package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize(map[string]string{
		"  Email ":  " dev@example.com ",
		"PHONE":     "5550100",
		"":          "dropped",
		"no-value":  "   ",
		"Last Name": "Doe",
	})

	require.Equal(t, map[string]string{
		"email":     "dev@example.com",
		"phone":     "5550100",
		"last name": "Doe",
	}, got)
}

func TestMatch(t *testing.T) {
	m := Normalize(map[string]string{
		"email":       "dev@example.com",
		"sponsorship": "No",
		"relocate":    "Yes",
	})

	tests := []struct {
		name  string
		label string
		want  string
		ok    bool
	}{
		{name: "substring hit", label: "Email address", want: "dev@example.com", ok: true},
		{name: "case insensitive", label: "Do you require SPONSORSHIP?", want: "No", ok: true},
		{name: "no keyword", label: "Favorite color", ok: false},
		{name: "empty label", label: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(m, tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchDeterministic(t *testing.T) {
	// Both keys are contained in the label; sorted key order picks "inter".
	m := map[string]string{
		"intern": "a",
		"inter":  "b",
	}
	for i := 0; i < 20; i++ {
		got, ok := Match(m, "internship program")
		require.True(t, ok)
		require.Equal(t, "b", got)
	}
}

func TestDefaultAnswers(t *testing.T) {
	answers := Normalize(DefaultAnswers())

	got, ok := Match(answers, "Will you now or in the future require sponsorship?")
	require.True(t, ok)
	assert.Equal(t, "No", got)

	got, ok = Match(answers, "Are you legally authorized to work in the United States?")
	require.True(t, ok)
	assert.Equal(t, "Yes", got)
}
