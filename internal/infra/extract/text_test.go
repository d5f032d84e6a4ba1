package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/cv-analyzer/internal/domain/intake"
)

func TestText_Plain(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("React TypeScript"), "React TypeScript"},
		{"bom stripped", []byte("\xef\xbb\xbfSQL"), "SQL"},
		{"invalid utf8 replaced", []byte("Go\xffLang"), "Go�Lang"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(domain.MediaTypeText, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText_PDFNotAPDF(t *testing.T) {
	_, err := Text(domain.MediaTypePDF, []byte("plain words, no pdf header"))
	assert.Error(t, err)
}

func TestText_Unsupported(t *testing.T) {
	_, err := Text(domain.MediaType("image/png"), []byte{1})
	assert.Error(t, err)
}
