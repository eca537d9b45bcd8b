package validate

import (
	"strings"
	"testing"
)

func FuzzValidate(f *testing.F) {
	f.Add("# タイトル\n\n## メタデータ\n- 回答者: 山田太郎\n\n## Q1 質問？\n回答。\n")
	f.Add("")
	f.Add("a")
	f.Add("## メタデータ\n壊れた行\n\n## Q1 質問？\n")
	f.Add("## Q2 質問\n答え\n## Q1 質問\n")
	f.Add("\xff\xfe")
	f.Add("\x00")
	f.Add(strings.Repeat("# タイトル\n", 5000))

	f.Fuzz(func(t *testing.T, text string) {
		a, errA := Validate(text)
		b, errB := Validate(text)

		if (errA == nil) != (errB == nil) {
			t.Fatalf("non-deterministic error: %v vs %v", errA, errB)
		}
		if errA != nil {
			return
		}

		if a.Score != b.Score {
			t.Errorf("non-deterministic score: %d vs %d", a.Score, b.Score)
		}
		if len(a.Issues) != len(b.Issues) {
			t.Errorf("non-deterministic issue count: %d vs %d", len(a.Issues), len(b.Issues))
		}

		if a.Score < 0 || a.Score > maxScore {
			t.Errorf("score %d out of [0, %d] range", a.Score, maxScore)
		}
		if len(a.Issues) > maxIssues {
			t.Errorf("issue count %d exceeds cap %d", len(a.Issues), maxIssues)
		}

		lineCount := strings.Count(text, "\n") + 1
		for i, issue := range a.Issues {
			if issue.Line < 0 || issue.Line > lineCount {
				t.Errorf("issue[%d]: line %d out of [0, %d] range", i, issue.Line, lineCount)
			}
		}

		// Issues must stay sorted by line, then by severity descending.
		for i := 1; i < len(a.Issues); i++ {
			prev, cur := a.Issues[i-1], a.Issues[i]
			if cur.Line < prev.Line {
				t.Errorf("issues out of line order at %d: %d before %d", i, prev.Line, cur.Line)
			}
			if cur.Line == prev.Line && cur.Severity > prev.Severity {
				t.Errorf("issues out of severity order at line %d", cur.Line)
			}
		}
	})
}
