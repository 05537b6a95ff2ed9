// Package epub packages a rendered book directory into an EPUB 3 archive:
// an exact ZIP layout (mimetype stored first, container.xml, content.opf,
// nav.xhtml, toc.ncx, stylesheet, one XHTML file per chapter, and any
// bundled assets), built from goldmark-rendered CommonMark.
package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Book carries the package-level metadata for one EPUB.
type Book struct {
	Title    string
	Language string // BCP-47 tag, already resolved by LanguageTag
}

// Chapter is one chapter to package: Stem becomes OEBPS/<Stem>.xhtml.
type Chapter struct {
	Stem     string
	Title    string
	Markdown string
}

// Asset is a binary file bundled alongside the chapters, written to
// OEBPS/assets/<Rel>.
type Asset struct {
	Rel  string
	Data []byte
}

// Builder packages a Book, its Chapters, and any Assets into an EPUB.
type Builder struct {
	book       Book
	chapters   []Chapter
	assets     []Asset
	identifier string
	modified   time.Time
}

// NewBuilder returns a Builder. A fresh UUID and the current UTC time are
// captured at construction so every write of one Builder produces an
// identical archive.
func NewBuilder(book Book, chapters []Chapter, assets []Asset) *Builder {
	sorted := make([]Asset, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rel < sorted[j].Rel })

	return &Builder{
		book:       book,
		chapters:   chapters,
		assets:     sorted,
		identifier: "urn:uuid:" + uuid.New().String(),
		modified:   time.Now().UTC(),
	}
}

// Build generates the EPUB and writes it to outputPath.
func (b *Builder) Build(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("epub: create output directory: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("epub: create output file: %w", err)
	}
	defer f.Close()

	return b.WriteTo(f)
}

// BuildToBuffer generates the EPUB into an in-memory buffer.
func (b *Builder) BuildToBuffer() (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := b.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteTo writes the EPUB archive to w, in the order the format requires:
// mimetype first, stored, followed by container, package, navigation
// documents, stylesheet, chapters, and assets.
func (b *Builder) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	if err := b.writeMimetype(zw); err != nil {
		return err
	}
	if err := b.writeContainer(zw); err != nil {
		return err
	}
	if err := b.writePackage(zw); err != nil {
		return err
	}
	if err := b.writeNavigation(zw); err != nil {
		return err
	}
	if err := b.writeNCX(zw); err != nil {
		return err
	}
	if err := b.writeStylesheet(zw); err != nil {
		return err
	}
	for _, ch := range b.chapters {
		if err := b.writeChapter(zw, ch); err != nil {
			return fmt.Errorf("epub: write chapter %s: %w", ch.Stem, err)
		}
	}
	for _, a := range b.assets {
		if err := b.writeAsset(zw, a); err != nil {
			return fmt.Errorf("epub: write asset %s: %w", a.Rel, err)
		}
	}
	return nil
}

func (b *Builder) writeMimetype(zw *zip.Writer) error {
	header := &zip.FileHeader{Name: "mimetype", Method: zip.Store}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("epub: create mimetype entry: %w", err)
	}
	_, err = w.Write([]byte("application/epub+zip"))
	return err
}

func (b *Builder) writeContainer(zw *zip.Writer) error {
	const content = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
	w, err := zw.Create("META-INF/container.xml")
	if err != nil {
		return fmt.Errorf("epub: create container.xml: %w", err)
	}
	_, err = w.Write([]byte(content))
	return err
}

func (b *Builder) writePackage(zw *zip.Writer) error {
	w, err := zw.Create("OEBPS/content.opf")
	if err != nil {
		return fmt.Errorf("epub: create content.opf: %w", err)
	}
	_, err = w.Write([]byte(b.generatePackage()))
	return err
}

func (b *Builder) writeNavigation(zw *zip.Writer) error {
	w, err := zw.Create("OEBPS/nav.xhtml")
	if err != nil {
		return fmt.Errorf("epub: create nav.xhtml: %w", err)
	}
	_, err = w.Write([]byte(b.generateNavigation()))
	return err
}

func (b *Builder) writeNCX(zw *zip.Writer) error {
	w, err := zw.Create("OEBPS/toc.ncx")
	if err != nil {
		return fmt.Errorf("epub: create toc.ncx: %w", err)
	}
	_, err = w.Write([]byte(b.generateNCX()))
	return err
}

func (b *Builder) writeStylesheet(zw *zip.Writer) error {
	w, err := zw.Create("OEBPS/style.css")
	if err != nil {
		return fmt.Errorf("epub: create style.css: %w", err)
	}
	_, err = w.Write([]byte(defaultStylesheet))
	return err
}

func (b *Builder) writeChapter(zw *zip.Writer, ch Chapter) error {
	filename := fmt.Sprintf("OEBPS/%s.xhtml", ch.Stem)
	w, err := zw.Create(filename)
	if err != nil {
		return fmt.Errorf("epub: create %s: %w", filename, err)
	}
	content, err := b.generateChapterXHTML(ch)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(content))
	return err
}

func (b *Builder) writeAsset(zw *zip.Writer, a Asset) error {
	filename := "OEBPS/assets/" + a.Rel
	w, err := zw.Create(filename)
	if err != nil {
		return fmt.Errorf("epub: create %s: %w", filename, err)
	}
	_, err = w.Write(a.Data)
	return err
}

const defaultStylesheet = `body {
  font-family: Georgia, "Times New Roman", serif;
  font-size: 1em;
  line-height: 1.6;
  margin: 1em;
}

h1, h2, h3, h4, h5, h6 {
  font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
  font-weight: bold;
  margin-top: 1.5em;
  margin-bottom: 0.5em;
}

h1 {
  font-size: 1.8em;
  border-bottom: 1px solid #ccc;
  padding-bottom: 0.3em;
}

h2 { font-size: 1.4em; }
h3 { font-size: 1.2em; }

p { margin: 0.5em 0; }

blockquote {
  margin: 1em 2em;
  font-style: italic;
  border-left: 3px solid #ccc;
  padding-left: 1em;
}

code, pre {
  font-family: "Courier New", monospace;
}

pre {
  background: #f4f4f4;
  padding: 0.5em;
  overflow-x: auto;
}
`
