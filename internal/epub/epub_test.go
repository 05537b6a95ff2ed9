package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testBuilder() *Builder {
	book := Book{Title: "My Book", Language: "en"}
	chapters := []Chapter{
		{Stem: "ch01", Title: "Intro", Markdown: "# Intro\n\nSee [pic](../assets/diagram.png) and the [next chapter](chapters/ch02.md).\n\n![alt](../assets/diagram.png)"},
		{Stem: "ch02", Title: "Details", Markdown: "# Details\n\nMore `code` here.\n\n---\n"},
	}
	assets := []Asset{{Rel: "diagram.png", Data: []byte("fake-png-bytes")}}
	return NewBuilder(book, chapters, assets)
}

func TestMimetypeIsFirstAndStored(t *testing.T) {
	buf, err := testBuilder().BuildToBuffer()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.NotEmpty(t, zr.File)

	first := zr.File[0]
	require.Equal(t, "mimetype", first.Name)
	require.Equal(t, zip.Store, first.Method)

	rc, err := first.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "application/epub+zip", string(data))
}

func TestZipLayoutIncludesExpectedEntries(t *testing.T) {
	buf, err := testBuilder().BuildToBuffer()
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.Contains(t, names, "META-INF/container.xml")
	require.Contains(t, names, "OEBPS/content.opf")
	require.Contains(t, names, "OEBPS/nav.xhtml")
	require.Contains(t, names, "OEBPS/toc.ncx")
	require.Contains(t, names, "OEBPS/style.css")
	require.Contains(t, names, "OEBPS/ch01.xhtml")
	require.Contains(t, names, "OEBPS/ch02.xhtml")
	require.Contains(t, names, "OEBPS/assets/diagram.png")
}

func readZipFile(t *testing.T, buf *bytes.Buffer, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func TestChapterXHTMLRewritesURLsAndSelfClosesVoidElements(t *testing.T) {
	buf, err := testBuilder().BuildToBuffer()
	require.NoError(t, err)

	ch1 := readZipFile(t, buf, "OEBPS/ch01.xhtml")
	require.Contains(t, ch1, `href="assets/diagram.png"`)
	require.Contains(t, ch1, `href="ch02.xhtml"`)
	require.Contains(t, ch1, `<img src="assets/diagram.png" alt="alt" />`)
	require.NotContains(t, ch1, `alt="alt">`)

	ch2 := readZipFile(t, buf, "OEBPS/ch02.xhtml")
	require.Contains(t, ch2, "<hr />")
	require.Contains(t, ch2, "<code>code</code>")
}

func TestContentOPFReferencesChaptersAndAssets(t *testing.T) {
	buf, err := testBuilder().BuildToBuffer()
	require.NoError(t, err)
	opf := readZipFile(t, buf, "OEBPS/content.opf")

	require.Contains(t, opf, `href="ch01.xhtml"`)
	require.Contains(t, opf, `href="ch02.xhtml"`)
	require.Contains(t, opf, `href="assets/diagram.png" media-type="image/png"`)
	require.Contains(t, opf, "urn:uuid:")
}

func TestLanguageTagDerivation(t *testing.T) {
	require.Equal(t, "ja", LanguageTag("日本語"))
	require.Equal(t, "ja", LanguageTag("Japanese"))
	require.Equal(t, "ja", LanguageTag("ja"))
	require.Equal(t, "en", LanguageTag("english"))
	require.Equal(t, "fr-FR", LanguageTag("fr-FR"))
	require.Equal(t, "zh-Hans", LanguageTag("zh_Hans"))
	require.Equal(t, "und", LanguageTag("Klingon"))
}

func TestSelfCloseVoidElementsLeavesEndTagsAndCommentsAlone(t *testing.T) {
	in := `<p>text</p><br><img src="a.png"><!-- a > b --><hr/>`
	out := selfCloseVoidElements(in)
	require.Contains(t, out, "<br />")
	require.Contains(t, out, `<img src="a.png" />`)
	require.Contains(t, out, "<!-- a > b -->")
	require.Contains(t, out, "<hr/>")
	require.Contains(t, out, "</p>")
}

func TestLoadBookDirReadsChaptersInOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "book.toml"), []byte("[book]\ntitle = \"Loaded Book\"\n"), 0o644))
	chaptersDir := filepath.Join(dir, "src", "chapters")
	require.NoError(t, os.MkdirAll(chaptersDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(chaptersDir, "ch02.md"), []byte("# Second\n\nbody\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(chaptersDir, "ch01.md"), []byte("# First\n\nbody\n"), 0o644))

	book, chapters, err := LoadBookDir(dir, "en")
	require.NoError(t, err)
	require.Equal(t, "Loaded Book", book.Title)
	require.Equal(t, "en", book.Language)
	require.Len(t, chapters, 2)
	require.Equal(t, "ch01", chapters[0].Stem)
	require.Equal(t, "First", chapters[0].Title)
	require.Equal(t, "ch02", chapters[1].Stem)
}

func TestPackageRefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "book.toml"), []byte("[book]\ntitle = \"X\"\n"), 0o644))
	chaptersDir := filepath.Join(dir, "src", "chapters")
	require.NoError(t, os.MkdirAll(chaptersDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(chaptersDir, "ch01.md"), []byte("# X\n\nbody\n"), 0o644))

	out := filepath.Join(dir, "out.epub")
	require.NoError(t, os.WriteFile(out, []byte("existing"), 0o644))

	err := Package(Options{BookDir: dir, OutputPath: out, Language: "en"})
	require.Error(t, err)

	err = Package(Options{BookDir: dir, OutputPath: out, Language: "en", Force: true})
	require.NoError(t, err)
}
