package loader

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Text(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	body := "  Le Soleil   est une étoile.  \r\n\n\tLa Lune orbite autour de la Terre.\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "Le Soleil est une étoile.\nLa Lune orbite autour de la Terre."
	if doc.Text != want {
		t.Errorf("text = %q, want %q", doc.Text, want)
	}
	if doc.Title != "notes" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestLoad_DOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "essai.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("word/document.xml")
	w.Write([]byte(`<?xml version="1.0"?><w:document xmlns:w="x"><w:body>` +
		`<w:p><w:r><w:t>Les planètes tournent.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Le Soleil </w:t></w:r><w:r><w:t>brille.</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	zw.Close()
	f.Close()

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := "Les planètes tournent.\nLe Soleil brille."; doc.Text != want {
		t.Errorf("text = %q, want %q", doc.Text, want)
	}
}

func TestLoad_Unsupported(t *testing.T) {
	if _, err := Load("image.png"); err == nil {
		t.Fatal("expected unsupported type error")
	}
}

func TestLoad_BrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	os.WriteFile(path, []byte("not a pdf"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"a.txt": true, "b.MD": true, "c.pdf": true, "d.docx": true,
		"e.png": false, "f": false,
	}
	for path, want := range cases {
		if got := Supported(path); got != want {
			t.Errorf("Supported(%q) = %v, want %v", path, got, want)
		}
	}
}
