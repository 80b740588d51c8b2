package quickbook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickbook/pkg/quickbook"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		want    int
		wantErr bool
	}{
		{text: "1.1", want: 101},
		{text: "1.5", want: 105},
		{text: " 1.7 ", want: 107},
		{text: "1.8", want: 108, wantErr: true},
		{text: "2.0", want: 200, wantErr: true},
		{text: "1", wantErr: true},
		{text: "one.two", wantErr: true},
		{text: "0.9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			got, err := quickbook.ParseVersion(tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, quickbook.ErrUnknownVersion)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.6", quickbook.FormatVersion(106))
	assert.Equal(t, "1.7", quickbook.FormatVersion(quickbook.LatestVersion))
	assert.Equal(t, "1.1", quickbook.FormatVersion(quickbook.DefaultVersion))
}
