package attachment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestInspectSniffsPDFHeader(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "report.pdf", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"))
	f, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, "report.pdf", f.Name)
	require.Equal(t, path, f.Path)
	require.Equal(t, "pdf", f.Ext)
	require.Equal(t, "application/pdf", f.MIME)
	require.Positive(t, f.Size)
}

func TestInspectHeaderWinsOverExtension(t *testing.T) {
	t.Parallel()

	// A PDF saved with the wrong extension is still a PDF.
	path := writeFile(t, "resume.txt", []byte("%PDF-1.7\n"))
	f, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, "pdf", f.Ext)
}

func TestInspectFallsBackToExtension(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "notes.json", []byte(`{"skills":["go"]}`))
	f, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, "json", f.Ext)
	require.Equal(t, "application/json", f.MIME)
}

func TestInspectRejectsDirectory(t *testing.T) {
	t.Parallel()

	_, err := Inspect(t.TempDir())
	require.ErrorIs(t, err, ErrDirectory)
}

func TestInspectMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Inspect(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPolicyAllows(t *testing.T) {
	t.Parallel()

	p := Policy{Accept: []string{".PDF"}}
	require.NoError(t, p.Allows(File{Name: "cv.pdf", Ext: "pdf"}))
	require.ErrorIs(t, p.Allows(File{Name: "cv.docx", Ext: "docx"}), ErrNotAllowed)
	require.NoError(t, Policy{}.Allows(File{Name: "any.bin", Ext: "bin"}))
}

func TestInspectUppercaseExtensionPassesPolicy(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "CV.PDF", []byte("%PDF-1.4\n"))
	f, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, "CV.PDF", f.Name)
	require.Equal(t, "pdf", f.Ext)
	require.NoError(t, Policy{Accept: []string{"pdf"}}.Allows(f))

	// no sniffable header: the lower-cased extension still matches
	require.NoError(t, Policy{Accept: []string{"pdf"}}.Allows(File{Name: "CV.PDF", Ext: "pdf"}))
}
