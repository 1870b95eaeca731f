package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHistorical(t *testing.T) {
	tests := []struct {
		in      string
		want    Historical
		wantErr bool
	}{
		{in: "", want: Active},
		{in: "false", want: Active},
		{in: "False", want: Active},
		{in: "true", want: Inactive},
		{in: "All", want: All},
		{in: "all", want: All},
		{in: "archived", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHistorical(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistorical_Matches(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name   string
		filter Historical
		flag   *bool
		want   bool
	}{
		{"active/false", Active, &no, true},
		{"active/true", Active, &yes, false},
		{"active/absent", Active, nil, false},
		{"inactive/true", Inactive, &yes, true},
		{"inactive/false", Inactive, &no, false},
		{"all/true", All, &yes, true},
		{"all/false", All, &no, true},
		{"all/absent", All, nil, false},
		{"unknown", Historical("x"), &no, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.flag))
		})
	}
}

func TestHistorical_Value(t *testing.T) {
	v, ok := Inactive.Value()
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = All.Value()
	assert.False(t, ok)
	assert.True(t, All.Valid())
	assert.False(t, Historical("").Valid())
}
