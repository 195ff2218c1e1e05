package verification

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Corrections carries the deployment-specific OCR correction tables: known
// institutions to normalize toward, known misreads of the college-ID prefix,
// and the department codes extracted values get snapped to. Defaults mirror
// the single deployment this was written for; override via CORRECTIONS_FILE.
type Corrections struct {
	CanonicalColleges []CanonicalCollege `json:"canonical_colleges"`
	IDPrefixFixes     []IDPrefixFix      `json:"id_prefix_fixes"`
	DepartmentCodes   []string           `json:"department_codes"`

	compiledFixes []compiledFix
}

// CanonicalCollege describes one institution: every keyword present in an
// extracted name (or an exact alias hit anywhere in the text) snaps the name
// to the canonical form.
type CanonicalCollege struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Aliases  []string `json:"aliases"`
}

// IDPrefixFix rewrites a known OCR misread of the college-ID prefix.
type IDPrefixFix struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

type compiledFix struct {
	re          *regexp.Regexp
	replacement string
}

// DefaultCorrections returns the built-in table. The inline literals of the
// first deployment live here and nowhere else.
func DefaultCorrections() *Corrections {
	c := &Corrections{
		CanonicalColleges: []CanonicalCollege{
			{
				Name:     "Academy of Technology",
				Keywords: []string{"ACADEMY", "TECHNOLOGY"},
				Aliases:  []string{"AOT"},
			},
		},
		IDPrefixFixes: []IDPrefixFix{
			// "AOTICSE/..." is a misread of "AOT/CSE/..."
			{Pattern: `^AOTIC([A-Z]+)/`, Replacement: `AOT/${1}/`},
			// "AOT/SE/" drops the C of CSE
			{Pattern: `^AOT/SE/`, Replacement: `AOT/CSE/`},
		},
		DepartmentCodes: []string{"CSE", "ECE", "EEE", "EE", "IT", "ME", "CE", "AIML", "MCA", "BCA"},
	}
	if err := c.compile(); err != nil {
		panic(err) // built-in table must compile
	}
	return c
}

// LoadCorrections reads a correction table from path, falling back to the
// built-in table when path is empty.
func LoadCorrections(path string) (*Corrections, error) {
	if path == "" {
		return DefaultCorrections(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections file: %w", err)
	}
	var c Corrections
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corrections file: %w", err)
	}
	if err := c.compile(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Corrections) compile() error {
	c.compiledFixes = c.compiledFixes[:0]
	for _, f := range c.IDPrefixFixes {
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return fmt.Errorf("invalid id prefix fix %q: %w", f.Pattern, err)
		}
		c.compiledFixes = append(c.compiledFixes, compiledFix{re: re, replacement: f.Replacement})
	}
	return nil
}

// FixCollegeID applies the known prefix misread rewrites.
func (c *Corrections) FixCollegeID(id string) string {
	for _, f := range c.compiledFixes {
		id = f.re.ReplaceAllString(id, f.replacement)
	}
	return id
}

// jaroWinkler threshold below which a name is considered a different
// institution rather than a misspelling of a known one.
const collegeSimilarityThreshold = 0.85

// CanonicalizeCollege snaps raw (an extracted, upper-cased institution name)
// to a canonical form. Keyword containment handles truncated OCR output;
// Jaro-Winkler similarity catches misspellings. Unrecognized institutions are
// returned in title case, untouched.
func (c *Corrections) CanonicalizeCollege(raw string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "" {
		return "", false
	}

	metric := metrics.NewJaroWinkler()
	for _, col := range c.CanonicalColleges {
		if strings.EqualFold(raw, col.Name) {
			return col.Name, true
		}
		if len(col.Keywords) > 0 && containsAll(upper, col.Keywords) {
			return col.Name, true
		}
		if strutil.Similarity(strings.ToLower(raw), strings.ToLower(col.Name), metric) >= collegeSimilarityThreshold {
			return col.Name, true
		}
	}
	return toTitleCase(raw), false
}

// CollegeFromAliases scans full document text for an institution mention by
// canonical name or alias token.
func (c *Corrections) CollegeFromAliases(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, col := range c.CanonicalColleges {
		if strings.Contains(lower, strings.ToLower(col.Name)) {
			return col.Name, true
		}
		for _, alias := range col.Aliases {
			if strings.Contains(text, alias) {
				return col.Name, true
			}
		}
	}
	return "", false
}

// SnapDepartment reduces a raw department string to a known code when the
// value starts with one. Longer codes are tried first so EEE does not snap
// to EE.
func (c *Corrections) SnapDepartment(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	codes := make([]string, len(c.DepartmentCodes))
	copy(codes, c.DepartmentCodes)
	for i := 0; i < len(codes); i++ {
		for j := i + 1; j < len(codes); j++ {
			if len(codes[j]) > len(codes[i]) {
				codes[i], codes[j] = codes[j], codes[i]
			}
		}
	}
	for _, code := range codes {
		if strings.HasPrefix(upper, strings.ToUpper(code)) {
			return strings.ToUpper(code)
		}
	}
	return upper
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, strings.ToUpper(sub)) {
			return false
		}
	}
	return true
}
