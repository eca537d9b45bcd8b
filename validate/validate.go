// Package validate produces a best-effort document markup quality report
// for interview documents: it is a diagnostic, not a gate. Parse always
// succeeds on malformed markup by falling back to
// permissive defaults; validate is how a caller finds out that it did.
//
// The checks run directly against the same line patterns parser.Parse
// uses (parser.TitlePattern, parser.MetadataPattern, and so on), plus a
// pass over the parsed Document for structural issues: duplicate or
// out-of-order question numbers, empty answers, unknown metadata keys.
//
// Two API layers are provided:
//
//   - Structured: [Validate] returns a [Report] with a quality score
//     (0-100) and an issue list ordered by source line.
//   - Convenience: [IsValid] returns true when no error-severity issues
//     exist.
//
// The quality score starts at 100 and deducts points per issue: error
// -10, warning -3, info -1, floored at 0.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - This is a markup diagnostic, not a content quality check: it says
//     nothing about whether an answer is on-topic or well-formed prose.
//   - Orphan text detection only catches body lines before the first
//     Q<n> header; it cannot detect a missing question in the middle of
//     a well-formed document (that text simply joins the prior answer).
package validate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/insightseries/pivot-insight/internal/lexicon"
	"github.com/insightseries/pivot-insight/parser"
)

// IssueType classifies a validation issue.
type IssueType int

const (
	MissingTitle             IssueType = iota // no `# ` title line found
	MissingDate                               // no date metadata field set
	UnparseableMetadataLine                    // line in a metadata block matches neither key:value nor blank
	UnknownMetadataKey                         // metadata key has no alias, routed to Extra
	OrphanText                                 // body line appears before any Q<n> header
	DuplicateQuestionNumber                    // two sections share the same question number
	OutOfOrderQuestionNumber                   // question number decreases from the previous section
	EmptyAnswer                                // a Q&A section has no answer text
)

var issueTypeNames = [...]string{
	MissingTitle:              "missing_title",
	MissingDate:                "missing_date",
	UnparseableMetadataLine:    "unparseable_metadata_line",
	UnknownMetadataKey:         "unknown_metadata_key",
	OrphanText:                 "orphan_text",
	DuplicateQuestionNumber:    "duplicate_question_number",
	OutOfOrderQuestionNumber:   "out_of_order_question_number",
	EmptyAnswer:                "empty_answer",
}

var issueTypeFromName = map[string]IssueType{
	"missing_title":                 MissingTitle,
	"missing_date":                  MissingDate,
	"unparseable_metadata_line":     UnparseableMetadataLine,
	"unknown_metadata_key":          UnknownMetadataKey,
	"orphan_text":                   OrphanText,
	"duplicate_question_number":     DuplicateQuestionNumber,
	"out_of_order_question_number":  OutOfOrderQuestionNumber,
	"empty_answer":                  EmptyAnswer,
}

// String returns the name of the issue type.
func (t IssueType) String() string {
	if int(t) >= 0 && int(t) < len(issueTypeNames) {
		return issueTypeNames[t]
	}
	return fmt.Sprintf("IssueType(%d)", int(t))
}

// MarshalJSON encodes the issue type as a JSON string (e.g. "missing_title").
func (t IssueType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a JSON string into an IssueType.
func (t *IssueType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	it, ok := issueTypeFromName[s]
	if !ok {
		return fmt.Errorf("validate: unknown issue type: %q", s)
	}
	*t = it
	return nil
}

// Severity indicates the severity of a validation issue. Higher numeric
// values mean higher severity.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

var severityNames = [...]string{Info: "info", Warning: "warning", Error: "error"}

var severityFromName = map[string]Severity{"info": Info, "warning": Warning, "error": Error}

// String returns the name of the severity.
func (s Severity) String() string {
	if int(s) >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalJSON encodes the severity as a JSON string (e.g. "warning").
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a JSON string into a Severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sv, ok := severityFromName[str]
	if !ok {
		return fmt.Errorf("validate: unknown severity: %q", str)
	}
	*s = sv
	return nil
}

// Issue is a single validation finding.
type Issue struct {
	Line       int       `json:"line"` // 1-based source line, 0 for document-level issues
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// Report is the validation result: a quality score and issue list.
type Report struct {
	Score  int     `json:"score"` // 0-100, higher is better
	Issues []Issue `json:"issues"`
}

const (
	maxInputBytes = 1 << 20 // 1 MiB, same ceiling as normalize/keywords
	maxIssues     = 1000
	deductError   = 10
	deductWarning = 3
	deductInfo    = 1
	maxScore      = 100
)

// Validator checks document markup using an injected alias table, so it
// stays in sync with whatever Parser it was built alongside.
type Validator struct {
	lex *lexicon.Lexicon
	p   *parser.Parser
}

// New constructs a Validator backed by lex.
func New(lex *lexicon.Lexicon) *Validator {
	return &Validator{lex: lex, p: parser.New(lex)}
}

var defaultValidator = New(lexicon.MustLoad())

// Validate checks text using the embedded default alias table.
func Validate(text string) (Report, error) {
	return defaultValidator.Validate(text)
}

// IsValid reports whether text has no error-severity issues, using the
// embedded default alias table. A parse error counts as invalid.
func IsValid(text string) bool {
	report, err := Validate(text)
	if err != nil {
		return false
	}
	for _, issue := range report.Issues {
		if issue.Severity == Error {
			return false
		}
	}
	return true
}

// Validate builds a quality Report for text. Oversized input (>1 MiB)
// returns a perfect score without scanning it. A parse error (invalid
// UTF-8) is returned as-is; validate does not recover encoding issues,
// consistent with the parser's own error contract.
func (v *Validator) Validate(text string) (Report, error) {
	if len(text) > maxInputBytes {
		return Report{Score: maxScore}, nil
	}

	doc, err := v.p.Parse(text)
	if err != nil {
		return Report{}, err
	}

	issues := make([]Issue, 0, 4)
	issues = append(issues, v.scanLines(text)...)
	issues = append(issues, checkDocument(doc)...)

	if len(issues) > maxIssues {
		issues = issues[:maxIssues]
	}

	slices.SortStableFunc(issues, func(a, b Issue) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return int(b.Severity) - int(a.Severity)
	})

	return Report{Score: calculateScore(issues), Issues: issues}, nil
}

// scanLines re-runs the parser's own line classification to find lines
// that don't fit the markup contract: metadata-block lines that are
// neither blank nor key:value, and keyed lines whose key has no alias.
func (v *Validator) scanLines(text string) []Issue {
	var issues []Issue

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	inMetadataBlock := false
	titleSeen := false
	sectionSeen := false

	for sc.Scan() {
		lineNo++
		line := sc.Text()

		if !titleSeen && parser.TitlePattern.MatchString(line) {
			titleSeen = true
			continue
		}
		if parser.QuestionPattern.MatchString(line) {
			inMetadataBlock = false
			sectionSeen = true
			continue
		}
		if parser.MetadataPattern.MatchString(line) {
			inMetadataBlock = true
			continue
		}
		if parser.HeaderPattern.MatchString(line) {
			inMetadataBlock = false
			continue
		}

		// Mirrors parser.Parse's own recovery: a non-blank, non-key:value
		// line inside a metadata block ends the block right there. That
		// line is reported only as unparseable, not also as orphan text.
		if inMetadataBlock {
			if strings.TrimSpace(line) == "" {
				continue
			}
			m := parser.MetaKVPattern.FindStringSubmatch(line)
			if m == nil {
				issues = append(issues, Issue{
					Line: lineNo, Type: UnparseableMetadataLine, Severity: Warning,
					Message: "metadata line is neither blank nor key:value, ends the metadata block",
				})
				inMetadataBlock = false
				continue
			}
			key := strings.ToLower(strings.TrimSpace(m[1]))
			if _, ok := v.lex.MetadataAliases[key]; !ok {
				issues = append(issues, Issue{
					Line: lineNo, Type: UnknownMetadataKey, Severity: Info,
					Message:    fmt.Sprintf("metadata key %q has no alias, routed to extra", m[1]),
					Suggestion: "add this key to metadata_aliases.tsv if it should map to a known field",
				})
			}
			continue
		}

		if !sectionSeen && strings.TrimSpace(line) != "" {
			issues = append(issues, Issue{
				Line: lineNo, Type: OrphanText, Severity: Warning,
				Message: "body text appears before any Q<n> header and is dropped",
			})
		}
	}

	return issues
}

// checkDocument inspects a parsed Document for structural issues that
// only become visible after splitting into sections.
func checkDocument(doc parser.Document) []Issue {
	var issues []Issue

	if doc.Title == "" {
		issues = append(issues, Issue{Type: MissingTitle, Severity: Info, Message: "document has no `# ` title line"})
	}
	if doc.Metadata.Date == "" {
		issues = append(issues, Issue{Type: MissingDate, Severity: Info, Message: "no date metadata field set"})
	}

	seen := map[int]bool{}
	prevNo := -1
	for _, sec := range doc.Sections {
		if seen[sec.QuestionNo] {
			issues = append(issues, Issue{
				Line: sec.LineNo, Type: DuplicateQuestionNumber, Severity: Warning,
				Message: fmt.Sprintf("question number %d appears more than once", sec.QuestionNo),
			})
		}
		seen[sec.QuestionNo] = true

		if prevNo >= 0 && sec.QuestionNo < prevNo {
			issues = append(issues, Issue{
				Line: sec.LineNo, Type: OutOfOrderQuestionNumber, Severity: Info,
				Message: fmt.Sprintf("question number %d follows %d", sec.QuestionNo, prevNo),
			})
		}
		prevNo = sec.QuestionNo

		if strings.TrimSpace(sec.AnswerText) == "" {
			issues = append(issues, Issue{
				Line: sec.LineNo, Type: EmptyAnswer, Severity: Warning,
				Message: fmt.Sprintf("question %d has no answer text", sec.QuestionNo),
			})
		}
	}

	return issues
}

func calculateScore(issues []Issue) int {
	score := maxScore
	for _, issue := range issues {
		switch issue.Severity {
		case Error:
			score -= deductError
		case Warning:
			score -= deductWarning
		case Info:
			score -= deductInfo
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}
