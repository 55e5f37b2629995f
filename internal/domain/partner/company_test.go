package partner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	company, err := NewCompany("元請建設", true)
	require.NoError(t, err)
	assert.Equal(t, "元請建設", company.Name)
	assert.True(t, company.UseAgency)
	assert.Equal(t, 1, company.Version)

	events := company.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeCompanyCreated, events[0].EventType())
}

func TestNewCompany_TrimsWhitespace(t *testing.T) {
	company, err := NewCompany("  下請工務店  ", false)
	require.NoError(t, err)
	assert.Equal(t, "下請工務店", company.Name)
	assert.False(t, company.UseAgency)
}

func TestNewCompany_Validation(t *testing.T) {
	tests := []struct {
		name        string
		companyName string
	}{
		{"empty name", ""},
		{"whitespace only", "   "},
		{"too long", strings.Repeat("a", 201)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompany(tt.companyName, true)
			assert.Error(t, err)
		})
	}
}
