// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package automation

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pptx2pdf/internal/logging"
)

// fakeCommander imitates soffice: --version prints a banner and
// --convert-to writes <base>.pdf into --outdir.
type fakeCommander struct {
	bins       map[string]bool
	versionErr error
	failFor    map[string]error // base name -> conversion error
	calls      [][]string
}

func (f *fakeCommander) LookPath(file string) (string, error) {
	if f.bins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (f *fakeCommander) Run(name string, args []string, stdout io.Writer) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	for i, a := range args {
		switch a {
		case "--version":
			if f.versionErr != nil {
				return f.versionErr
			}
			_, _ = io.WriteString(stdout, "LibreOffice 7.6.4.1\n")
			return nil
		case "--outdir":
			outDir := args[i+1]
			src := args[len(args)-1]
			if err, ok := f.failFor[filepath.Base(src)]; ok {
				return err
			}
			base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			return os.WriteFile(filepath.Join(outDir, base+".pdf"), []byte("%PDF-1.7\n"), 0o644)
		}
	}
	return errors.New("unexpected invocation")
}

func newTestLibreOffice(t *testing.T, exec *fakeCommander) (*LibreOffice, string) {
	t.Helper()
	tmp := t.TempDir()
	return &LibreOffice{exec: exec, tempDir: tmp, log: logging.NoOp()}, tmp
}

func writeDeck(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04 fake deck"), 0o644))
	return path
}

func TestLibreOfficeConnect(t *testing.T) {
	t.Run("binary missing", func(t *testing.T) {
		lo, _ := newTestLibreOffice(t, &fakeCommander{})
		assert.False(t, lo.Available())
		_, err := lo.Connect()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LibreOffice not found")
	})

	t.Run("falls back to libreoffice binary", func(t *testing.T) {
		exec := &fakeCommander{bins: map[string]bool{"libreoffice": true}}
		lo, _ := newTestLibreOffice(t, exec)
		require.True(t, lo.Available())
		s, err := lo.Connect()
		require.NoError(t, err)
		defer s.Quit()
		assert.Equal(t, "/usr/bin/libreoffice", exec.calls[0][0])
	})

	t.Run("start failure removes profile", func(t *testing.T) {
		exec := &fakeCommander{
			bins:       map[string]bool{"soffice": true},
			versionErr: errors.New("exit status 81"),
		}
		lo, tmp := newTestLibreOffice(t, exec)
		_, err := lo.Connect()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exit status 81")

		entries, err := os.ReadDir(tmp)
		require.NoError(t, err)
		assert.Empty(t, entries, "profile directory should be cleaned up")
	})

	t.Run("quit removes profile once", func(t *testing.T) {
		exec := &fakeCommander{bins: map[string]bool{"soffice": true}}
		lo, tmp := newTestLibreOffice(t, exec)
		s, err := lo.Connect()
		require.NoError(t, err)

		entries, _ := os.ReadDir(tmp)
		require.Len(t, entries, 1)
		assert.True(t, strings.HasPrefix(entries[0].Name(), "pptx2pdf-profile-"))

		require.NoError(t, s.Quit())
		require.NoError(t, s.Quit())
		entries, _ = os.ReadDir(tmp)
		assert.Empty(t, entries)

		_, err = s.Open(filepath.Join(tmp, "deck.pptx"))
		assert.Error(t, err)
	})
}

func TestLibreOfficeSaveAs(t *testing.T) {
	exec := &fakeCommander{
		bins:    map[string]bool{"soffice": true},
		failFor: map[string]error{"broken.pptx": errors.New("source file could not be loaded")},
	}
	lo, _ := newTestLibreOffice(t, exec)
	s, err := lo.Connect()
	require.NoError(t, err)
	defer s.Quit()

	in := t.TempDir()
	out := t.TempDir()

	t.Run("writes target and marks saved", func(t *testing.T) {
		doc, err := s.Open(writeDeck(t, in, "q3 review.pptx"))
		require.NoError(t, err)
		assert.False(t, doc.Saved())

		target := filepath.Join(out, "q3 review.pdf")
		require.NoError(t, doc.SaveAs(target, FormatPDF))
		assert.True(t, doc.Saved())
		require.NoError(t, doc.Close())

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "%PDF"))

		last := strings.Join(exec.calls[len(exec.calls)-1], " ")
		assert.Contains(t, last, "--headless")
		assert.Contains(t, last, "-env:UserInstallation=file://")
		assert.Contains(t, last, "--convert-to pdf")
	})

	t.Run("failed conversion leaves no output", func(t *testing.T) {
		doc, err := s.Open(writeDeck(t, in, "broken.pptx"))
		require.NoError(t, err)

		err = doc.SaveAs(filepath.Join(out, "broken.pdf"), FormatPDF)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not be loaded")
		assert.False(t, doc.Saved())
		assert.NoFileExists(t, filepath.Join(out, "broken.pdf"))
	})

	t.Run("scratch directories are removed", func(t *testing.T) {
		entries, err := os.ReadDir(out)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, e.IsDir(), "unexpected leftover %s", e.Name())
		}
	})

	t.Run("rejects other formats", func(t *testing.T) {
		doc, err := s.Open(writeDeck(t, in, "other.pptx"))
		require.NoError(t, err)
		err = doc.SaveAs(filepath.Join(out, "other.xps"), FormatCode(33))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("closed document cannot be saved", func(t *testing.T) {
		doc, err := s.Open(writeDeck(t, in, "closed.pptx"))
		require.NoError(t, err)
		require.NoError(t, doc.Close())
		assert.ErrorIs(t, doc.SaveAs(filepath.Join(out, "closed.pdf"), FormatPDF), ErrDocumentClosed)
	})

	t.Run("open rejects missing and directory sources", func(t *testing.T) {
		_, err := s.Open(filepath.Join(in, "missing.pptx"))
		assert.Error(t, err)
		_, err = s.Open(in)
		assert.Error(t, err)
	})
}

func TestFileURL(t *testing.T) {
	got := fileURL("/tmp/profile")
	assert.Equal(t, "file:///tmp/profile", got)
}
