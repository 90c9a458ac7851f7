// Package resources loads the face's bitmap and font assets. Defaults are
// embedded; a directory of same-named files can override any of them.
package resources

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed assets
var embedded embed.FS

// Resource identifiers.
const (
	ImageBackground  = "IMAGE_BACKGROUND"
	FontPerfectDOS48 = "FONT_PERFECT_DOS_48"
	FontPerfectDOS20 = "FONT_PERFECT_DOS_20"
)

var files = map[string]string{
	ImageBackground:  "background.txt",
	FontPerfectDOS48: "perfect_dos_48.yaml",
	FontPerfectDOS20: "perfect_dos_20.yaml",
}

var ErrNotFound = errors.New("resource not found")

// Store resolves resource ids to files.
type Store struct {
	layers []fs.FS
}

// Embedded serves only the built-in assets.
func Embedded() *Store {
	sub, _ := fs.Sub(embedded, "assets")
	return &Store{layers: []fs.FS{sub}}
}

// WithDir serves files from dir first and falls back to the built-in assets.
// An empty dir is the same as Embedded.
func WithDir(dir string) *Store {
	s := Embedded()
	if dir != "" {
		s.layers = append([]fs.FS{os.DirFS(dir)}, s.layers...)
	}
	return s
}

func (s *Store) read(id string) ([]byte, error) {
	name, ok := files[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	for _, fsys := range s.layers {
		b, err := fs.ReadFile(fsys, name)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%s (%s): %w", id, name, ErrNotFound)
}

// Bitmap is a text-art image. Rows are padded to a common width.
type Bitmap struct {
	rows  [][]rune
	Width int
}

func (b *Bitmap) Height() int { return len(b.rows) }

// At returns the rune at (x, y), repeating the image in both directions.
func (b *Bitmap) At(x, y int) rune {
	if b.Width == 0 || len(b.rows) == 0 {
		return ' '
	}
	row := b.rows[mod(y, len(b.rows))]
	return row[mod(x, b.Width)]
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// LoadBitmap reads a bitmap resource.
func (s *Store) LoadBitmap(id string) (*Bitmap, error) {
	data, err := s.read(id)
	if err != nil {
		return nil, err
	}
	return ParseBitmap(string(data))
}

func ParseBitmap(src string) (*Bitmap, error) {
	lines := strings.Split(strings.TrimRight(strings.ReplaceAll(src, "\r\n", "\n"), "\n"), "\n")
	b := &Bitmap{}
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > b.Width {
			b.Width = n
		}
	}
	if b.Width == 0 {
		return nil, errors.New("bitmap: empty image")
	}
	for _, l := range lines {
		row := []rune(l)
		for len(row) < b.Width {
			row = append(row, ' ')
		}
		b.rows = append(b.rows, row)
	}
	return b, nil
}

// Font maps runes to fixed-height glyphs.
type Font struct {
	Name    string
	Height  int
	Spacing int

	fallback []string
	glyphs   map[rune][]string
}

type fontFile struct {
	Name     string              `yaml:"name"`
	Height   int                 `yaml:"height"`
	Spacing  int                 `yaml:"spacing"`
	Fallback string              `yaml:"fallback"`
	Glyphs   map[string][]string `yaml:"glyphs"`
}

// LoadFont reads a font resource.
func (s *Store) LoadFont(id string) (*Font, error) {
	data, err := s.read(id)
	if err != nil {
		return nil, err
	}
	f, err := ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return f, nil
}

func ParseFont(data []byte) (*Font, error) {
	var ff fontFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	if ff.Height <= 0 {
		return nil, fmt.Errorf("font %q: height must be positive", ff.Name)
	}
	f := &Font{Name: ff.Name, Height: ff.Height, Spacing: ff.Spacing, glyphs: make(map[rune][]string, len(ff.Glyphs))}
	for key, rows := range ff.Glyphs {
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, fmt.Errorf("font %q: glyph key %q is not a single rune", ff.Name, key)
		}
		if len(rows) != ff.Height {
			return nil, fmt.Errorf("font %q: glyph %q has %d rows, want %d", ff.Name, key, len(rows), ff.Height)
		}
		f.glyphs[r] = padRows(rows)
	}
	if ff.Fallback != "" {
		r, _ := utf8.DecodeRuneInString(ff.Fallback)
		f.fallback = f.glyphs[r]
	}
	return f, nil
}

func padRows(rows []string) []string {
	w := 0
	for _, r := range rows {
		if n := utf8.RuneCountInString(r); n > w {
			w = n
		}
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r + strings.Repeat(" ", w-utf8.RuneCountInString(r))
	}
	return out
}

func (f *Font) glyph(r rune) []string {
	if g, ok := f.glyphs[r]; ok {
		return g
	}
	if f.fallback != nil {
		return f.fallback
	}
	// draw the rune itself on the bottom row
	g := make([]string, f.Height)
	for i := range g {
		g[i] = " "
	}
	g[f.Height-1] = string(r)
	return g
}

// Render lays text out into Height rows.
func (f *Font) Render(text string) []string {
	rows := make([]strings.Builder, f.Height)
	first := true
	for _, r := range text {
		g := f.glyph(r)
		for i := range rows {
			if !first && f.Spacing > 0 {
				rows[i].WriteString(strings.Repeat(" ", f.Spacing))
			}
			rows[i].WriteString(g[i])
		}
		first = false
	}
	out := make([]string, f.Height)
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out
}
