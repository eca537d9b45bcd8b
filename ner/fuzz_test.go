package ner

import "testing"

func FuzzRecognize(f *testing.F) {
	f.Add("090-1234-5678")
	f.Add("info@example.com")
	f.Add("https://example.co.jp")
	f.Add("¥12,000")
	f.Add("12,000円")
	f.Add("")
	f.Add("\xff\xfe")
	f.Add("090 090 090 090 090")
	f.Add("電話 03-1234-5678、メール info@example.com、金額 ¥5,000")

	f.Fuzz(func(t *testing.T, s string) {
		entities := Recognize(s)
		for _, e := range entities {
			if e.Start < 0 || e.End > len(s) || e.Start > e.End {
				t.Fatalf("invalid offsets: start=%d end=%d len=%d", e.Start, e.End, len(s))
			}
			if s[e.Start:e.End] != e.Text {
				t.Fatalf("invariant broken: s[%d:%d]=%q != Text=%q",
					e.Start, e.End, s[e.Start:e.End], e.Text)
			}
		}
	})
}
