package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordID_Deterministic(t *testing.T) {
	a := RecordID("adzuna_api", "12345")
	b := RecordID("adzuna_api", "12345")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, RecordID("jooble_api", "12345"))
	assert.NotEqual(t, a, RecordID("adzuna_api", "12346"))
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		display string
		city    string
		state   string
	}{
		{"Dallas, TX", "Dallas", "TX"},
		{"Dallas, tx", "Dallas", "TX"},
		{"Fort Worth, TX, US", "Fort Worth", "US"},
		{"Remote", "Remote", ""},
		{"Austin, Texas", "Austin", ""},
		{"", "", ""},
		{"  ", "", ""},
	}

	for _, tt := range tests {
		city, state := SplitLocation(tt.display)
		assert.Equal(t, tt.city, city, "city for %q", tt.display)
		assert.Equal(t, tt.state, state, "state for %q", tt.display)
	}
}

func TestOptionalSalary(t *testing.T) {
	assert.Nil(t, optionalSalary(0))
	assert.Nil(t, optionalSalary(-1))

	v := optionalSalary(85000)
	if assert.NotNil(t, v) {
		assert.Equal(t, 85000.0, *v)
	}
}
