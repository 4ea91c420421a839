package questionbank

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/placeprep/internal/assessment"
)

// SupportedMajor is the bank document major version this build reads.
const SupportedMajor = "v1"

// ValidationError lists every structural problem found in a bank.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question bank validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// CanonicalVersion returns version with a leading "v", as semver expects.
func CanonicalVersion(version string) string {
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

func validateDoc(d *bankDoc) []string {
	var errs []string

	v := CanonicalVersion(d.Version)
	switch {
	case d.Version == "":
		errs = append(errs, "missing version")
	case !semver.IsValid(v):
		errs = append(errs, fmt.Sprintf("version %q is not a semantic version", d.Version))
	case semver.Major(v) != SupportedMajor:
		errs = append(errs, fmt.Sprintf("unsupported version %q (want %s.x.x)", d.Version, SupportedMajor))
	}

	if len(d.Sets) == 0 {
		errs = append(errs, "bank has no sets")
	}

	seen := make(map[string]bool, len(d.Sets))
	for i, s := range d.Sets {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("set #%d has no id", i+1))
		} else if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate set ID: %q", s.ID))
		}
		seen[s.ID] = true

		qs := make([]assessment.Question, 0, len(s.Questions))
		for _, qd := range s.Questions {
			qs = append(qs, assessment.Question{
				ID:           qd.ID,
				Prompt:       qd.Prompt,
				Options:      qd.Options,
				CorrectIndex: qd.CorrectIndex,
			})
		}
		errs = append(errs, ValidateQuestions(s.ID, qs)...)
	}
	return errs
}

// ValidateQuestions checks one set's questions and returns a description
// of each problem. A nil result means the set is usable.
func ValidateQuestions(setID string, qs []assessment.Question) []string {
	var errs []string
	if len(qs) == 0 {
		errs = append(errs, fmt.Sprintf("set %q has no questions", setID))
	}

	ids := make(map[string]bool, len(qs))
	for i, q := range qs {
		prefix := fmt.Sprintf("set %q question #%d", setID, i+1)
		if q.ID != "" {
			prefix = fmt.Sprintf("set %q question %q", setID, q.ID)
		}

		switch {
		case q.ID == "":
			errs = append(errs, prefix+": missing id")
		case ids[q.ID]:
			errs = append(errs, fmt.Sprintf("set %q: duplicate question ID %q", setID, q.ID))
		}
		ids[q.ID] = true

		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, prefix+": prompt is empty")
		}
		if len(q.Options) < 2 {
			errs = append(errs, fmt.Sprintf("%s: needs at least 2 options, got %d", prefix, len(q.Options)))
		}
		if !q.ValidOption(q.CorrectIndex) {
			errs = append(errs, fmt.Sprintf("%s: correct_index %d out of range [0, %d)", prefix, q.CorrectIndex, len(q.Options)))
		}
	}
	return errs
}
