package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *int
	}{
		{"gedcom date", "20 MAR 1918", intPtr(1918)},
		{"bare year", "1880", intPtr(1880)},
		{"approximate", "ABT 1654", intPtr(1654)},
		{"twenty-first century", "5 JAN 2003", intPtr(2003)},
		{"no year", "MAR", nil},
		{"out of range", "876", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractYear(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Jan", FirstName("Jan Walenty"))
	assert.Equal(t, "Jan", FirstName("  Jan  "))
	assert.Equal(t, "Maria", FirstName("Maria"))
	assert.Equal(t, "", FirstName(""))
	assert.Equal(t, "", FirstName("   "))
}

func TestPersonValid(t *testing.T) {
	assert.True(t, (&Person{GivenName: "Jan"}).Valid())
	assert.True(t, (&Person{Surname: "Nowak"}).Valid())
	assert.False(t, (&Person{}).Valid())
	assert.False(t, (&Person{GivenName: "  "}).Valid())
}

func TestHasDomesticConnection(t *testing.T) {
	t.Run("region set", func(t *testing.T) {
		p := &Person{BirthRegion: "małopolskie"}
		assert.True(t, p.HasDomesticConnection())
	})

	t.Run("death region set", func(t *testing.T) {
		p := &Person{DeathRegion: "śląskie"}
		assert.True(t, p.HasDomesticConnection())
	})

	t.Run("no location at all defaults to domestic", func(t *testing.T) {
		p := &Person{GivenName: "Jan", Surname: "Nowak"}
		assert.True(t, p.HasDomesticConnection())
	})

	t.Run("place naming Poland", func(t *testing.T) {
		p := &Person{BirthPlace: "Kraków, Polska"}
		assert.True(t, p.HasDomesticConnection())
	})

	t.Run("known foreign place", func(t *testing.T) {
		p := &Person{BirthPlace: "Berlin, Germany"}
		assert.False(t, p.HasDomesticConnection())
	})
}

func intPtr(v int) *int { return &v }
