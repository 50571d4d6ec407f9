package ingest

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Hola, mundo!", CleanText("  Hola,\t\n mundo!  "))
	assert.Equal(t, "año café", CleanText("año\x00café"))
	assert.Equal(t, "a b", CleanText("a<b"))
	assert.Equal(t, "", CleanText("\x01\x02"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, FILE_KIND_TEXT, KindOf("notas.MD"))
	assert.Equal(t, FILE_KIND_TEXT, KindOf("main.go"))
	assert.Equal(t, FILE_KIND_PDF, KindOf("libro.pdf"))
	assert.Equal(t, FILE_KIND_GZIP, KindOf("backup.tar.gz"))
	assert.Equal(t, FILE_KIND_UNKNOWN, KindOf("foto.heic"))
	assert.Equal(t, FILE_KIND_UNKNOWN, KindOf("sin-extension"))
}

func TestExtract_JSON(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	assert.Equal(t, "a : 1", e.Extract([]byte(`{"a":1}`), "data.json"))
}

func TestExtract_JSONDecodesEscapesAndNumbers(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	assert.Equal(t, "tema : éxito , n : 1.5", e.Extract([]byte(`{"tema":"\u00e9xito","n":1.50}`), "d.json"))
	assert.Equal(t, "100, a b", e.Extract([]byte(`[1e2, "a\"b"]`), "d.json"))
}

func TestPrettyJSON(t *testing.T) {
	out, err := prettyJSON([]byte(`{"b":[true,null],"a":{},"c":"<x>"}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": [\n    true,\n    null\n  ],\n  \"a\": {},\n  \"c\": \"<x>\"\n}", out)
}

func TestExtract_InvalidJSONUsesPlaceholder(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	assert.Equal(t, "Contenido de: data.json", e.Extract([]byte(`{"a":`), "data.json"))
	assert.Equal(t, "Contenido de: data.json", e.Extract([]byte(`{"a":1} {"b":2}`), "data.json"))
	assert.Equal(t, "Contenido de: data.json", e.Extract([]byte(`   `), "data.json"))
}

func TestExtract_HTML(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	doc := `<html><head><style>body{color:red}</style><script>alert("x")</script></head>
<body><h1>Fotosíntesis</h1><p>Proceso de las plantas.</p></body></html>`

	out := e.Extract([]byte(doc), "page.html")
	assert.Equal(t, "Fotosíntesis Proceso de las plantas.", out)
}

func TestExtract_ZipMarkers(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{"uno.txt": "primer archivo", "dos.md": "segundo archivo"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	w, err := zw.Create("bin.dat")
	require.NoError(t, err)
	_, err = w.Write([]byte{0xff, 0xfe, 0x00})
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	out := NewExtractor(zap.NewNop()).Extract(buf.Bytes(), "pack.zip")
	assert.Contains(t, out, "\n[uno.txt]\nprimer archivo\n")
	assert.Contains(t, out, "\n[dos.md]\nsegundo archivo\n")
	assert.NotContains(t, out, "[bin.dat]")
}

func TestExtract_TarGz(t *testing.T) {
	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	body := []byte("contenido del tar")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "dentro.txt", Mode: 0o600, Size: int64(len(body)), Typeflag: tar.TypeReg}))
	_, err := tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err = gw.Write(tarBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	out := NewExtractor(zap.NewNop()).Extract(gzBuf.Bytes(), "backup.tgz")
	assert.Equal(t, "\n[dentro.txt]\ncontenido del tar\n", out)
}

func TestExtract_GzipSingleMember(t *testing.T) {
	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err := gw.Write([]byte("solo texto"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	out := NewExtractor(zap.NewNop()).Extract(gzBuf.Bytes(), "notas.txt.gz")
	assert.Equal(t, "\n[notas.txt]\nsolo texto\n", out)
}

func docx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_Docx(t *testing.T) {
	data := docx(t, `<w:p><w:r><w:t>Leyes de</w:t></w:r><w:r><w:t xml:space="preserve"> Newton</w:t></w:r></w:p><w:p><w:r><w:t>Inercia</w:t></w:r></w:p>`)
	out := NewExtractor(zap.NewNop()).Extract(data, "clase.docx")
	assert.Equal(t, "Leyes de Newton Inercia", out)
}

func TestExtract_DocxTabsAndBreaksSeparateWords(t *testing.T) {
	data := docx(t, `<w:p><w:r><w:t>Hola</w:t><w:tab/><w:t>Mundo</w:t><w:br/><w:t>Adios</w:t><w:cr/><w:t>Fin</w:t></w:r></w:p>`)
	out := NewExtractor(zap.NewNop()).Extract(data, "clase.docx")
	assert.Equal(t, "Hola Mundo Adios Fin", out)
}

func TestExtract_Unknown(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	assert.Equal(t, "texto plano", e.Extract([]byte("texto plano"), "archivo.xyz"))
	assert.Equal(t, "Archivo procesado: foto.bin", e.Extract([]byte{0xff, 0xd8, 0xff, 0x00}, "foto.bin"))
}

func TestExtract_BrokenPDFUsesPlaceholder(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	assert.Equal(t, "Contenido de: roto.pdf", e.Extract([]byte("no es un pdf"), "roto.pdf"))
}

func TestParseAnalysis(t *testing.T) {
	reply := "```json\n{\"topics\": [\" Átomo \", \"\", \"Enlace\"], \"categories\": [\"Química\"], \"summary\": \"Resumen <b>corto</b>\"}\n```"

	a, err := ParseAnalysis(reply)
	require.NoError(t, err)
	assert.Equal(t, []string{"Átomo", "Enlace"}, a.Topics)
	assert.Equal(t, []string{"Química"}, a.Categories)
	assert.Equal(t, "Resumen b corto b", a.Summary)

	_, err = ParseAnalysis("no json here")
	assert.Error(t, err)
}
