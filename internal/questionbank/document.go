package questionbank

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/placeprep/internal/assessment"
)

//go:embed default.yaml
var defaultBank []byte

type bankDoc struct {
	Version string   `yaml:"version"`
	Sets    []setDoc `yaml:"sets"`
}

type setDoc struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description,omitempty"`
	Questions   []questionDoc `yaml:"questions"`
}

type questionDoc struct {
	ID           string   `yaml:"id"`
	Prompt       string   `yaml:"prompt"`
	Options      []string `yaml:"options,flow"`
	CorrectIndex int      `yaml:"correct_index"`
	Explanation  string   `yaml:"explanation,omitempty"`
}

// Default returns the bank compiled into the binary.
func Default() (*Bank, error) {
	b, err := Parse(defaultBank)
	if err != nil {
		return nil, fmt.Errorf("embedded question bank: %w", err)
	}
	return b, nil
}

// Parse decodes and validates a YAML bank document. Unknown fields are
// rejected. A failed validation returns a *ValidationError listing every
// problem found.
func Parse(data []byte) (*Bank, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc bankDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode question bank: empty document")
		}
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	if problems := validateDoc(&doc); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return doc.toBank(), nil
}

// LoadFile reads and parses a bank from path.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Load returns the default bank, with the bank at path merged over it when
// path is non-empty.
func Load(path string) (*Bank, error) {
	b, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return b, nil
	}
	user, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return b.Merge(user), nil
}

// Export writes b as a YAML bank document.
func Export(w io.Writer, b *Bank) error {
	doc := bankDoc{Version: b.Version}
	for _, s := range b.sets {
		sd := setDoc{ID: s.ID, Title: s.Title, Description: s.Description}
		for _, q := range s.Questions {
			sd.Questions = append(sd.Questions, questionDoc{
				ID:           q.ID,
				Prompt:       q.Prompt,
				Options:      q.Options,
				CorrectIndex: q.CorrectIndex,
				Explanation:  q.Explanation,
			})
		}
		doc.Sets = append(doc.Sets, sd)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode question bank: %w", err)
	}
	return enc.Close()
}

func (d *bankDoc) toBank() *Bank {
	b := NewBank(d.Version)
	for _, sd := range d.Sets {
		s := Set{ID: sd.ID, Title: sd.Title, Description: sd.Description}
		for _, qd := range sd.Questions {
			s.Questions = append(s.Questions, assessment.Question{
				ID:           qd.ID,
				Prompt:       qd.Prompt,
				Options:      qd.Options,
				CorrectIndex: qd.CorrectIndex,
				Explanation:  qd.Explanation,
			})
		}
		b.Put(s)
	}
	return b
}

// Slug lowercases s and replaces every run of non-alphanumeric characters
// with a single hyphen.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
