package normalize

import "testing"

func FuzzNormalize(f *testing.F) {
	f.Add("ｖｅｒｓｉｏｎ２　です")
	f.Add("工程管理が遅い")
	f.Add("")
	f.Add("   ")
	f.Add("\xff\xfe")
	f.Add("\x00")
	f.Add("ｶﾀｶﾅ")
	f.Add("！？。、")

	f.Fuzz(func(t *testing.T, s string) {
		result := Normalize(s)

		if second := Normalize(result); second != result {
			t.Errorf("not idempotent:\ninput:  %q\nfirst:  %q\nsecond: %q", s, result, second)
		}
	})
}

func FuzzFoldRune(f *testing.F) {
	f.Add('Ａ')
	f.Add('５')
	f.Add('　')
	f.Add('工')
	f.Add('ｶ')

	f.Fuzz(func(t *testing.T, r rune) {
		folded := FoldRune(r)
		if refolded := FoldRune(folded); refolded != folded {
			t.Errorf("not idempotent: %q -> %q -> %q", r, folded, refolded)
		}
	})
}
