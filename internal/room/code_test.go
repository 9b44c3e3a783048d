package room

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/roomez/pkg/cerr"
)

func TestGenerateCode(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z0-9]+$`)

	c, err := GenerateCode(0)
	require.NoError(t, err)
	assert.Len(t, c, DefaultCodeLength)
	assert.Regexp(t, re, c)

	c, err = GenerateCode(8)
	require.NoError(t, err)
	assert.Len(t, c, 8)
	assert.NoError(t, ValidateCode(c))
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "p1nk", want: "P1NK"},
		{in: "  ab12cd ", want: "AB12CD"},
		{in: "abc", wantErr: true},
		{in: "ABCDEFGHIJKLM", wantErr: true},
		{in: "AB-12", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCode(tt.in)
			if tt.wantErr {
				assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
