// Package parser scans an interview document's line-oriented markup into a
// title, a metadata record, and a list of question/answer sections. It is a
// pure line classifier: no morphology, no scoring, just recognizing `# `, a
// metadata block, and `Q<n>` headers.
//
// Uses the same priority-ordered regex-table idiom as datetime's pattern
// table: each line is tried against a fixed, ordered set of line
// classifiers, and the first match wins.
package parser

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/insightseries/pivot-insight/datetime"
	"github.com/insightseries/pivot-insight/internal/lexicon"
)

// Metadata holds the header fields extracted from a document's metadata
// block. Extra holds key/value pairs whose key matched no alias.
type Metadata struct {
	InterviewID string `json:"interview_id"`
	Respondent  string `json:"respondent,omitempty"`
	Company     string `json:"company,omitempty"`
	Role        string `json:"role,omitempty"`
	Department  string `json:"department,omitempty"`
	Date        string `json:"date,omitempty"`
	Interviewer string `json:"interviewer,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// QASection is one question with its concatenated answer block.
type QASection struct {
	QuestionNo   int    `json:"question_no"`
	QuestionText string `json:"question_text"`
	AnswerText   string `json:"answer_text"`
	LineNo       int    `json:"line_no"`
}

// Document is the parsed form of one interview document.
type Document struct {
	Title    string
	Metadata Metadata
	Sections []QASection
}

// These patterns are the document markup contract: they are the exact
// lines Parse recognizes, exported so other packages (validate) can
// diagnose markup against the same rules instead of duplicating them.
var (
	TitlePattern    = regexp.MustCompile(`^#\s+(.+)$`)
	MetadataPattern = regexp.MustCompile(`(?i)メタデータ|metadata`)
	HeaderPattern   = regexp.MustCompile(`^#{1,2}\s`)
	MetaKVPattern   = regexp.MustCompile(`^[-・]\s*([^:：]+)[:：]\s*(.*)$`)
	QuestionPattern = regexp.MustCompile(`^(?:#{2,3}\s*)?Q(\d+)[.．]?\s*(.*)$`)
)

// Parser parses documents using an injected metadata alias table.
type Parser struct {
	lex *lexicon.Lexicon
}

// New constructs a Parser backed by lex.
func New(lex *lexicon.Lexicon) *Parser {
	return &Parser{lex: lex}
}

var defaultParser = New(lexicon.MustLoad())

// Parse parses text using the embedded default alias table.
func Parse(text string) (Document, error) {
	return defaultParser.Parse(text)
}

// Parse scans text line by line and builds a Document. Parsing never fails
// on malformed markup — unrecognized lines are treated as answer-body
// continuation — but returns an error if text is not valid UTF-8.
func (p *Parser) Parse(text string) (Document, error) {
	if !utf8.ValidString(text) {
		return Document{}, fmt.Errorf("parser: input is not valid UTF-8")
	}

	doc := Document{Metadata: Metadata{Extra: map[string]string{}}}

	var currentSection *QASection
	var answerLines []string
	inMetadataBlock := false

	flushSection := func() {
		if currentSection != nil {
			currentSection.AnswerText = strings.TrimSpace(strings.Join(answerLines, "\n"))
			doc.Sections = append(doc.Sections, *currentSection)
			currentSection = nil
		}
		answerLines = nil
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		if doc.Title == "" {
			if m := TitlePattern.FindStringSubmatch(line); m != nil {
				doc.Title = strings.TrimSpace(m[1])
				continue
			}
		}

		if m := QuestionPattern.FindStringSubmatch(line); m != nil {
			flushSection()
			n, _ := strconv.Atoi(m[1])
			currentSection = &QASection{QuestionNo: n, QuestionText: strings.TrimSpace(m[2]), LineNo: lineNo}
			inMetadataBlock = false
			continue
		}

		if MetadataPattern.MatchString(line) {
			flushSection()
			inMetadataBlock = true
			continue
		}

		if HeaderPattern.MatchString(line) {
			// Any other top/second-level header ends both a metadata block
			// and the current Q&A section.
			flushSection()
			inMetadataBlock = false
			continue
		}

		if inMetadataBlock {
			if m := MetaKVPattern.FindStringSubmatch(line); m != nil {
				p.assignMetadata(&doc.Metadata, strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			// A non-blank, non-kv line inside the metadata region ends it.
			inMetadataBlock = false
		}

		if currentSection != nil {
			answerLines = append(answerLines, line)
		}
	}
	flushSection()

	if doc.Metadata.InterviewID == "" {
		doc.Metadata.InterviewID = generateInterviewID(doc.Metadata.Date)
	}

	return doc, nil
}

// assignMetadata routes one parsed key/value pair to its canonical
// Metadata field, or to Extra when the key matches no alias.
func (p *Parser) assignMetadata(m *Metadata, key, value string) {
	canonical, ok := p.lex.MetadataAliases[strings.ToLower(key)]
	if !ok {
		m.Extra[key] = value
		return
	}
	switch canonical {
	case "interview_id":
		m.InterviewID = value
	case "respondent":
		m.Respondent = value
	case "company":
		m.Company = value
	case "role":
		m.Role = value
	case "department":
		m.Department = value
	case "date":
		m.Date = value
	case "interviewer":
		m.Interviewer = value
	case "duration":
		m.Duration = value
	default:
		m.Extra[key] = value
	}
}

// generateInterviewID produces INT_<YYYYMMDD>_<6-hex>, using date if
// parseDateLoose can read it, else today.
func generateInterviewID(date string) string {
	day := time.Now()
	if parsed, ok := parseDateLoose(date); ok {
		day = parsed
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("INT_%s_%s", day.Format("20060102"), suffix)
}

// parseDateLoose tries fixed layouts first, then falls back to the
// Japanese natural-language parser for values like "3月5日" or "昨日".
func parseDateLoose(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	if r, err := datetime.Parse(date, time.Now()); err == nil {
		return r.Time, true
	}
	return time.Time{}, false
}
