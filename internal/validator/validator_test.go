package validator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

func TestValidatePlate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"simple", "A123BC77", "A123BC77", true},
		{"lowercase", "a123bc77", "A123BC77", true},
		{"spaces", "  B900AA ", "B900AA", true},
		{"cyrillic", "а123вс77", "A123BC77", true},
		{"min length", "X001", "X001", true},
		{"max length", "ABCDEF123456", "ABCDEF123456", true},
		{"empty", "", "", false},
		{"only spaces", "   ", "", false},
		{"too short", "A12", "", false},
		{"too long", "ABCDEF1234567", "", false},
		{"dash", "A123-BC", "", false},
		{"space inside", "A123 BC", "", false},
		{"unicode", "Ж123ВС77", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidatePlate(tc.raw)
			if !tc.valid {
				require.Error(t, err)
				require.True(t, domain.IsValidation(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValidatePlateIdempotent(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"a123bc77", " х777хх177 ", "B900AA"} {
		first, err := ValidatePlate(raw)
		require.NoError(t, err)
		second, err := ValidatePlate(first)
		require.NoError(t, err)
		require.Equal(t, first, second)
	}
}
