package ingest

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	FILE_KIND_TEXT    = "text"
	FILE_KIND_PDF     = "pdf"
	FILE_KIND_WORD    = "word"
	FILE_KIND_JSON    = "json"
	FILE_KIND_HTML    = "html"
	FILE_KIND_ZIP     = "zip"
	FILE_KIND_TAR     = "tar"
	FILE_KIND_GZIP    = "gzip"
	FILE_KIND_BZIP2   = "bzip2"
	FILE_KIND_UNKNOWN = "unknown"
)

var kinds = map[string]string{
	"pdf":  FILE_KIND_PDF,
	"docx": FILE_KIND_WORD,
	"doc":  FILE_KIND_WORD,
	"json": FILE_KIND_JSON,
	"html": FILE_KIND_HTML,
	"htm":  FILE_KIND_HTML,
	"zip":  FILE_KIND_ZIP,
	"tar":  FILE_KIND_TAR,
	"gz":   FILE_KIND_GZIP,
	"tgz":  FILE_KIND_GZIP,
	"bz2":  FILE_KIND_BZIP2,
}

func init() {
	text := []string{
		"txt", "md", "markdown", "log", "csv", "tsv", "xml", "yaml", "yml", "ini", "conf", "config",
		// código-fonte
		"js", "jsx", "ts", "tsx", "css", "scss", "sass", "less", "py", "java", "c", "cpp", "h", "hpp",
		"cs", "php", "rb", "go", "rs", "swift", "kt", "sql", "sh", "bash", "r", "m", "scala", "perl", "lua",
	}
	for _, ext := range text {
		kinds[ext] = FILE_KIND_TEXT
	}
}

// Extension returns the lowercased extension of filename without the dot.
func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
}

// KindOf maps a filename to its extraction strategy.
func KindOf(filename string) string {
	if k, ok := kinds[Extension(filename)]; ok {
		return k
	}
	return FILE_KIND_UNKNOWN
}

// Extractor turns uploaded bytes into plain text.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract never fails: a broken file yields a placeholder naming it.
func (e *Extractor) Extract(data []byte, filename string) string {
	kind := KindOf(filename)

	var (
		text string
		err  error
	)
	switch kind {
	case FILE_KIND_TEXT:
		text = CleanText(string(data))
	case FILE_KIND_PDF:
		text, err = extractPDF(data)
	case FILE_KIND_WORD:
		text, err = extractWord(data)
	case FILE_KIND_JSON:
		text, err = extractJSON(data)
	case FILE_KIND_HTML:
		text, err = extractHTML(data)
	case FILE_KIND_ZIP:
		text, err = e.extractZip(data)
	case FILE_KIND_TAR:
		text, err = e.extractTar(bytes.NewReader(data))
	case FILE_KIND_GZIP:
		text, err = e.extractGzip(data, filename)
	case FILE_KIND_BZIP2:
		text, err = e.extractCompressed(bzip2.NewReader(bytes.NewReader(data)), strings.TrimSuffix(filename, path.Ext(filename)))
	default:
		if utf8.Valid(data) {
			text = CleanText(string(data))
		} else {
			text = "Archivo procesado: " + filename
		}
	}

	if err != nil {
		e.logger.Warn("ingest: extraction failed", zap.String("file", filename), zap.String("kind", kind), zap.Error(err))
		return "Contenido de: " + filename
	}
	return text
}

func extractPDF(data []byte) (text string, err error) {
	// o parser de pdf pode entrar em pânico com arquivos malformados
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return CleanText(buf.String()), nil
}

// extractWord reads the raw text runs of word/document.xml.
func extractWord(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("docx without word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var b strings.Builder
	dec := xml.NewDecoder(rc)
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
			switch t.Name.Local {
			case "tab":
				b.WriteString(" ")
			case "br", "cr":
				b.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" {
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return CleanText(b.String()), nil
}

// extractJSON parses and re-serializes with two-space indent. Key order is
// kept; escapes and numbers come out decoded.
func extractJSON(data []byte) (string, error) {
	out, err := prettyJSON(data)
	if err != nil {
		return "", fmt.Errorf("invalid json: %w", err)
	}
	return CleanText(out), nil
}

type jsonFrame struct {
	object bool
	items  int
}

func prettyJSON(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		b        strings.Builder
		stack    []jsonFrame
		afterKey bool
		values   int
	)
	newline := func() {
		b.WriteString("\n")
		b.WriteString(strings.Repeat("  ", len(stack)))
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.items > 0 {
				newline()
			}
			b.WriteRune(rune(d))
			continue
		}

		isKey := false
		switch {
		case afterKey:
			afterKey = false
		case len(stack) > 0:
			top := &stack[len(stack)-1]
			if top.items > 0 {
				b.WriteString(",")
			}
			top.items++
			newline()
			isKey = top.object
		default:
			// um único valor no topo
			if values > 0 {
				return "", errors.New("multiple top-level values")
			}
			values++
		}

		switch v := tok.(type) {
		case json.Delim:
			b.WriteRune(rune(v))
			stack = append(stack, jsonFrame{object: v == '{'})
		case string:
			b.WriteString(quoteJSON(v))
			if isKey {
				b.WriteString(": ")
				afterKey = true
			}
		case json.Number:
			b.WriteString(formatNumber(v))
		case bool:
			b.WriteString(strconv.FormatBool(v))
		case nil:
			b.WriteString("null")
		}
	}

	if values == 0 || len(stack) > 0 || afterKey {
		return "", io.ErrUnexpectedEOF
	}
	return b.String(), nil
}

func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// formatNumber prints the shortest form, so 1.50 becomes 1.5 and 1e2 becomes 100.
func formatNumber(n json.Number) string {
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if a := math.Abs(f); a != 0 && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func extractHTML(data []byte) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(data))

	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return CleanText(b.String()), nil
			}
			return "", z.Err()
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteString(" ")
			}
		}
	}
}

// archiveEntry formats one archive member. Binary members are skipped.
func (e *Extractor) archiveEntry(name string, data []byte) string {
	if !utf8.Valid(data) {
		e.logger.Debug("ingest: skipping binary entry", zap.String("entry", name))
		return ""
	}
	return "\n[" + name + "]\n" + CleanText(string(data)) + "\n"
}

func (e *Extractor) extractZip(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	var b strings.Builder
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			e.logger.Warn("ingest: zip entry unreadable", zap.String("entry", f.Name), zap.Error(err))
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			e.logger.Warn("ingest: zip entry unreadable", zap.String("entry", f.Name), zap.Error(err))
			continue
		}
		b.WriteString(e.archiveEntry(f.Name, content))
	}
	return b.String(), nil
}

func (e *Extractor) extractTar(r io.Reader) (string, error) {
	tr := tar.NewReader(r)

	var b strings.Builder
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return "", fmt.Errorf("read tar entry %s: %w", hdr.Name, err)
		}
		b.WriteString(e.archiveEntry(hdr.Name, content))
	}
	return b.String(), nil
}

func (e *Extractor) extractGzip(data []byte, filename string) (string, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	name := gz.Name
	if name == "" {
		name = strings.TrimSuffix(filename, path.Ext(filename))
	}
	return e.extractCompressed(gz, name)
}

// extractCompressed handles a decompressed stream: a tar inside, or a single member.
func (e *Extractor) extractCompressed(r io.Reader, member string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decompress: %w", err)
	}

	if _, err := tar.NewReader(bytes.NewReader(raw)).Next(); err == nil {
		return e.extractTar(bytes.NewReader(raw))
	}
	return e.archiveEntry(member, raw), nil
}
