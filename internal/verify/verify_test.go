// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a PDF with the given number of blank letter pages and
// a correct cross-reference table.
func buildPDF(pages int) []byte {
	var objects []string
	kids := make([]string, pages)
	for i := 0; i < pages; i++ {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
	)
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

// noXrefPDF has a catalog and a trailer but no cross-reference table.
const noXrefPDF = `%PDF-1.4
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
2 0 obj
<< /Type /Pages /Kids [] /Count 0 >>
endobj
trailer
<< /Size 3 /Root 1 0 R >>
%%EOF
`

func writePDF(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestPDFValidatorAcceptsValidFiles(t *testing.T) {
	dir := t.TempDir()
	v := NewPDFValidator()

	for _, n := range []int{1, 3} {
		t.Run(fmt.Sprintf("%d pages", n), func(t *testing.T) {
			path := writePDF(t, dir, fmt.Sprintf("deck-%d.pdf", n), buildPDF(n))
			pages, err := v.Verify(path)
			require.NoError(t, err)
			assert.Equal(t, n, pages)
		})
	}
}

func TestPDFValidatorRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		setup func() string
	}{
		{
			name:  "missing file",
			setup: func() string { return filepath.Join(dir, "missing.pdf") },
		},
		{
			name:  "not a pdf",
			setup: func() string { return writePDF(t, dir, "deck.pdf", []byte("PK\x03\x04 this is a zip")) },
		},
		{
			name:  "truncated header",
			setup: func() string { return writePDF(t, dir, "short.pdf", []byte("%PDF-1.7\n")) },
		},
		{
			name:  "no cross-reference table",
			setup: func() string { return writePDF(t, dir, "noxref.pdf", []byte(noXrefPDF)) },
		},
		{
			name:  "no pages",
			setup: func() string { return writePDF(t, dir, "empty.pdf", buildPDF(0)) },
		},
	}

	v := NewPDFValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				pages int
				err   error
			)
			require.NotPanics(t, func() { pages, err = v.Verify(tt.setup()) })
			assert.Error(t, err)
			assert.Zero(t, pages)
		})
	}
}
