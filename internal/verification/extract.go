package verification

import (
	"regexp"
	"strconv"
	"strings"

	"setu/internal/models"
)

// The certificate and ID-card rulesets below are ordered lists of
// increasingly permissive patterns. OCR output is noisy and label placement
// varies by issuer, so each field tries its strict shape first and falls back
// to line-scanning heuristics only when no positional label is found.

var (
	// Provisional certificate: "...certify that ARATRIK BANDYOPADHYAY (RolIN0:..."
	certNameRe = regexp.MustCompile(`(?i)(?:certify that|that)\s+([A-Z][A-Z\s]+?)\s*\(`)

	// Roll number label with OCR confusions between l/I/1 and o/O/0
	// ("RollNo" often renders as "RolIN0").
	certRollRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Ro[l1I][l1I]?[Nn]?[o0O]?\s*:?\s*([0-9]{8,15})`),
		regexp.MustCompile(`(?i)\(Ro[l1I][l1I]?[Nn]?[o0O]?\s*:?\s*([0-9]{8,15})`),
		// last resort: a long digit group right after an opening parenthesis
		regexp.MustCompile(`\([^0-9]*([0-9]{10,12})`),
	}

	// "Reg No:" frequently splits across lines and the O becomes a zero.
	certRegRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Reg\s*[Nn]?[o0O]?\s*:?\s*([0-9]{10,15})`),
		regexp.MustCompile(`(?i)Reg[\s]+[Nn][o0O][o0O]?\s*:?\s*([0-9]{10,15})`),
		regexp.MustCompile(`of\s+\d{4}-\d{2}\)[^0-9]*([0-9]{14,15})`),
	}

	// "of 2021-25) ACADEMY OF TECHNOLOGY, has successfully"
	certCollegeRe = regexp.MustCompile(`(?i)of\s+\d{4}-\d{2}\)\s+([A-Z][A-Z\s&]+?),\s+has\s+successfully`)
	certDeptRe    = regexp.MustCompile(`(?i)(?:in|Technology in)\s+([A-Za-z\s&]+?)\s+degree`)
	certYearRe    = regexp.MustCompile(`(?i)in\s+(202\d)-(\d{2})`)

	// ID card ruleset.
	idNameLabelRe   = regexp.MustCompile(`(?i)(?:Name|Student Name)[:\s]+([a-zA-Z\s.]+)`)
	idBoilerplateRe = regexp.MustCompile(`(?i)^(College|Dept|Department|Blood|Valid|Phone|Address|AOT|G\.T\.|AICTE|Approved|Engineering|Affiliated)`)
	idDigitsRe      = regexp.MustCompile(`\d{2,4}`)
	idAllCapsRe     = regexp.MustCompile(`^[A-Z\s.]+$`)
	idRollRe        = regexp.MustCompile(`(?i)(?:Roll|Roll No|Registration No)[:\s]+([a-zA-Z0-9/\-]+)`)
	// Structured identifier shaped ORG/DEPT/YEAR/SEQ.
	idCollegeIDRe    = regexp.MustCompile(`([A-Z]{2,6}/[A-Z]{2,6}/\d{4}/\d{2,4})`)
	idBloodSuffixRe  = regexp.MustCompile(`(?i)\s*[ABO][+-]?\s*$`)
	idCollegeLabelRe = regexp.MustCompile(`(?i)(?:College|Institute)[:\s]+([a-zA-Z\s]+)`)
	idDeptRe         = regexp.MustCompile(`(?i)(?:Dept|Department|Branch)[:\s]+([a-zA-Z\s]+)`)
	idYearRe         = regexp.MustCompile(`(?i)(?:Year|Passing Year|Batch)[:\s]+([0-9]{4})`)

	deptLabelPrefixRe = regexp.MustCompile(`(?i)^Department\s*[:.\-]?\s*`)
	deptAddressRe     = regexp.MustCompile(`(?i)\s+Address.*`)
)

// Extract parses OCR output into ExtractedFields. Structured JSON from a
// cloud strategy bypasses the regex rulesets entirely; raw text is routed by
// document type.
func Extract(text string, role models.Role, corr *Corrections) models.ExtractedFields {
	if obj, ok := asJSONObject(text); ok {
		return extractFromJSON(obj, corr)
	}
	if Classify(text) == DocProvisionalCert {
		return extractFromProvisionalCert(text, corr)
	}
	return extractFromIDCard(text, role, corr)
}

// extractFromJSON maps the seven-key schema directly onto ExtractedFields.
// Missing keys default to empty strings.
func extractFromJSON(obj map[string]any, corr *Corrections) models.ExtractedFields {
	f := models.ExtractedFields{
		FullName:           stringValue(obj["full_name"]),
		RollNumber:         stringValue(obj["roll_number"]),
		CollegeID:          stringValue(obj["college_id"]),
		CollegeName:        stringValue(obj["college_name"]),
		Department:         stringValue(obj["department"]),
		PassingYear:        stringValue(obj["passing_year"]),
		RegistrationNumber: stringValue(obj["registration_number"]),
	}
	if f.Department != "" {
		f.Department = cleanDepartment(f.Department, corr)
	}
	return f
}

// extractFromProvisionalCert handles the alumni-only certificate layout.
func extractFromProvisionalCert(text string, corr *Corrections) models.ExtractedFields {
	var f models.ExtractedFields

	if m := certNameRe.FindStringSubmatch(text); m != nil {
		f.FullName = toTitleCase(m[1])
	}
	for _, re := range certRollRes {
		if m := re.FindStringSubmatch(text); m != nil {
			f.RollNumber = strings.TrimSpace(m[1])
			break
		}
	}
	for _, re := range certRegRes {
		if m := re.FindStringSubmatch(text); m != nil {
			f.RegistrationNumber = strings.TrimSpace(m[1])
			break
		}
	}

	if m := certCollegeRe.FindStringSubmatch(text); m != nil {
		f.CollegeName, _ = corr.CanonicalizeCollege(m[1])
	} else if name, ok := corr.CollegeFromAliases(text); ok {
		f.CollegeName = name
	}

	if m := certDeptRe.FindStringSubmatch(text); m != nil {
		f.Department = strings.TrimSpace(m[1])
	}

	// "in 2024-25" reads as a program range; passing year is the end of it.
	if m := certYearRe.FindStringSubmatch(text); m != nil {
		if first, err := strconv.Atoi(m[1]); err == nil {
			f.PassingYear = strconv.Itoa(first + 1)
		}
	}
	return f
}

// extractFromIDCard handles the generic card layout used by both roles.
func extractFromIDCard(text string, role models.Role, corr *Corrections) models.ExtractedFields {
	var f models.ExtractedFields
	lines := splitLines(text)

	if m := idNameLabelRe.FindStringSubmatch(text); m != nil {
		f.FullName = toTitleCase(firstLine(m[1]))
	} else if name := likelyPrintedName(lines); name != "" {
		f.FullName = toTitleCase(name)
	}

	if m := idRollRe.FindStringSubmatch(text); m != nil {
		f.RollNumber = strings.ToUpper(strings.TrimSpace(m[1]))
	}

	// The whole-text pattern search is the most reliable; the label scan only
	// runs when the structured identifier never surfaced.
	if m := idCollegeIDRe.FindStringSubmatch(text); m != nil {
		f.CollegeID = m[1]
	} else {
		f.CollegeID = collegeIDFromLabelLines(lines)
	}
	if f.CollegeID != "" {
		f.CollegeID = cleanCollegeID(f.CollegeID, corr)
	}

	if name, ok := corr.CollegeFromAliases(text); ok {
		f.CollegeName = strings.ToUpper(name)
	} else if m := idCollegeLabelRe.FindStringSubmatch(text); m != nil {
		f.CollegeName = strings.ToUpper(strings.TrimSpace(m[1]))
	}

	if m := idDeptRe.FindStringSubmatch(text); m != nil {
		f.Department = cleanDepartment(m[1], corr)
	}

	if role == models.RoleAlumni {
		if m := idYearRe.FindStringSubmatch(text); m != nil {
			f.PassingYear = m[1]
		}
	}
	return f
}

// likelyPrintedName scans for the longest all-caps multi-word line that is
// not boilerplate and carries no digits: on cards without a "Name:" label the
// printed name is usually exactly that line.
func likelyPrintedName(lines []string) string {
	best := ""
	for _, line := range lines {
		if idBoilerplateRe.MatchString(line) {
			continue
		}
		if idDigitsRe.MatchString(line) {
			continue
		}
		if len(line) > 5 && idAllCapsRe.MatchString(line) &&
			!strings.Contains(line, "TECHNOLOGY") && strings.Contains(line, " ") {
			if len(line) > len(best) {
				best = line
			}
		}
	}
	return best
}

// collegeIDFromLabelLines looks for a "College ID" label and inspects the
// couple of lines after it. The blood group is printed adjacent to the label
// on some cards, so contaminated lines are skipped outright.
func collegeIDFromLabelLines(lines []string) string {
	for i := range lines {
		if !strings.Contains(strings.ToLower(lines[i]), "college id") {
			continue
		}
		for j := i + 1; j < len(lines) && j <= i+2; j++ {
			next := strings.TrimSpace(lines[j])
			lower := strings.ToLower(next)
			if len(next) > 4 &&
				!strings.Contains(lower, "blood") &&
				!strings.Contains(lower, "valid") &&
				!strings.Contains(lower, "date") {
				return next
			}
		}
		return ""
	}
	return ""
}

// cleanCollegeID strips a trailing blood-group suffix and applies the known
// prefix misread fixes.
func cleanCollegeID(id string, corr *Corrections) string {
	cleaned := idBloodSuffixRe.ReplaceAllString(id, "")
	cleaned = corr.FixCollegeID(cleaned)
	return strings.ToUpper(strings.TrimSpace(cleaned))
}

// cleanDepartment keeps only the first line, drops a stray label prefix and
// any trailing address text, then snaps to a known department code.
func cleanDepartment(raw string, corr *Corrections) string {
	d := firstLine(raw)
	d = deptLabelPrefixRe.ReplaceAllString(d, "")
	d = deptAddressRe.ReplaceAllString(d, "")
	return corr.SnapDepartment(d)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i != -1 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func toTitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
