package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadOrSeed(t *testing.T) {
	testCases := []struct {
		name       string
		records    []map[string]string
		wantNames  []string
		wantSeeded bool
	}{
		{name: "empty list", records: nil, wantNames: Defaults, wantSeeded: true},
		{
			name:       "missing account column",
			records:    []map[string]string{{"name": "vinted"}, {"name": "leboncoin"}},
			wantNames:  Defaults,
			wantSeeded: true,
		},
		{
			name:       "only blank names",
			records:    []map[string]string{{NameField: ""}, {NameField: "  "}},
			wantNames:  Defaults,
			wantSeeded: true,
		},
		{
			name: "distinct names keep order",
			records: []map[string]string{
				{NameField: "vinted"},
				{NameField: "leboncoin"},
				{NameField: ""},
				{NameField: "vinted"},
				{NameField: "vestiaire pro"},
			},
			wantNames:  []string{"vinted", "leboncoin", "vestiaire pro"},
			wantSeeded: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg, seeded := LoadOrSeed(tc.records)
			assert.Equal(t, tc.wantSeeded, seeded)
			assert.Equal(t, tc.wantNames, reg.List())
		})
	}
}

func TestDefaultsHaveSixAccounts(t *testing.T) {
	reg, seeded := LoadOrSeed(nil)
	assert.True(t, seeded)
	assert.Len(t, reg.List(), 6)
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry([]string{"vinted"})

	assert.True(t, reg.Contains("vinted"))
	assert.False(t, reg.Contains("ebay"))

	assert.True(t, reg.Register("ebay"))
	assert.False(t, reg.Register(" ebay "))
	assert.False(t, reg.Register(""))
	assert.Equal(t, []string{"vinted", "ebay"}, reg.List())
}

func TestRegistry_ListIsACopy(t *testing.T) {
	reg := NewRegistry([]string{"vinted"})
	list := reg.List()
	list[0] = "changed"
	assert.Equal(t, []string{"vinted"}, reg.List())
}
