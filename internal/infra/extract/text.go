package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	domain "github.com/bryanwahyu/cv-analyzer/internal/domain/intake"
)

// Text pulls readable text out of a document of the given media type.
func Text(mediaType domain.MediaType, data []byte) (string, error) {
	switch mediaType {
	case domain.MediaTypeText:
		return plainText(data), nil
	case domain.MediaTypePDF:
		return pdfText(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", mediaType)
	}
}

// plainText decodes UTF-8, dropping a BOM and replacing invalid sequences.
func plainText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
