package ner

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecognizePhones(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Entity
	}{
		{
			name: "local format with hyphens",
			in:   "電話: 03-1234-5678",
			want: []Entity{{Text: "03-1234-5678", Start: 8, End: 20, Type: Phone}},
		},
		{
			name: "mobile format with hyphens",
			in:   "090-1234-5678",
			want: []Entity{{Text: "090-1234-5678", Start: 0, End: 13, Type: Phone}},
		},
		{
			name: "international format",
			in:   "+81-90-1234-5678",
			want: []Entity{{Text: "+81-90-1234-5678", Start: 0, End: 16, Type: Phone}},
		},
		{
			name: "no phone in plain text",
			in:   "これは普通の文章です",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recognize(tt.in)
			compareEntities(t, tt.want, got)
		})
	}
}

func TestRecognizeEmails(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Entity
	}{
		{
			name: "simple email",
			in:   "info@example.com",
			want: []Entity{{Text: "info@example.com", Start: 0, End: 16, Type: Email}},
		},
		{
			name: "email in Japanese text",
			in:   "連絡先: user.name+tag@mail.co.jp です",
			// "連絡先" is 3 kanji x 3 bytes = 9, ": " = 2 bytes -> prefix 11 bytes
			want: []Entity{{Text: "user.name+tag@mail.co.jp", Start: 11, End: 35, Type: Email}},
		},
		{
			name: "multiple emails",
			in:   "a@b.co と c@d.jp",
			// "と" is 3 bytes -> second email starts at byte 7+3+1=11
			want: []Entity{
				{Text: "a@b.co", Start: 0, End: 6, Type: Email},
				{Text: "c@d.jp", Start: 11, End: 17, Type: Email},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recognize(tt.in)
			compareEntities(t, tt.want, got)
		})
	}
}

func TestRecognizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Entity
	}{
		{
			name: "https URL",
			in:   "サイト: https://example.co.jp/services",
			// "サイト" 3 chars x 3 bytes = 9, ": " = 2 bytes -> prefix 11
			want: []Entity{{Text: "https://example.co.jp/services", Start: 11, End: 41, Type: URL}},
		},
		{
			name: "http URL",
			in:   "見てください http://example.com",
			want: []Entity{{Text: "http://example.com", Start: 19, End: 37, Type: URL}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recognize(tt.in)
			compareEntities(t, tt.want, got)
		})
	}
}

func TestRecognizeYenAmounts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Entity
	}{
		{
			name: "yen symbol prefix",
			in:   "¥12,000",
			want: []Entity{{Text: "¥12,000", Start: 0, End: 8, Type: YenAmount}},
		},
		{
			name: "円 suffix",
			in:   "12,000円",
			want: []Entity{{Text: "12,000円", Start: 0, End: 9, Type: YenAmount}},
		},
		{
			name: "man-unit 円 suffix",
			in:   "1万2000円",
			want: []Entity{{Text: "1万2000円", Start: 0, End: 11, Type: YenAmount}},
		},
		{
			name: "no amount in plain text",
			in:   "値段については話していません",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recognize(tt.in)
			compareEntities(t, tt.want, got)
		})
	}
}

func TestRecognizeMixed(t *testing.T) {
	in := "電話 03-1234-5678、メール info@example.com、金額 ¥5,000"
	got := Recognize(in)

	if len(got) != 3 {
		t.Fatalf("want 3 entities, got %d: %v", len(got), got)
	}

	wantTypes := []EntityType{Phone, Email, YenAmount}
	for i, e := range got {
		if e.Type != wantTypes[i] {
			t.Errorf("entity[%d]: want type %s, got %s", i, wantTypes[i], e.Type)
		}
		if in[e.Start:e.End] != e.Text {
			t.Errorf("entity[%d]: invariant broken: s[%d:%d]=%q != Text=%q",
				i, e.Start, e.End, in[e.Start:e.End], e.Text)
		}
	}
}

func TestRecognizeEmpty(t *testing.T) {
	if got := Recognize(""); got != nil {
		t.Errorf("Recognize empty: want nil, got %v", got)
	}
}

func TestRecognizeNoEntities(t *testing.T) {
	if got := Recognize("これは単純な文です。"); got != nil {
		t.Errorf("want nil, got %v", got)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	in := "tel 090-1234-5678, mail info@example.com, url https://example.com, price ¥3,000"

	assertStrings(t, "Phones", Phones(in), []string{"090-1234-5678"})
	assertStrings(t, "Emails", Emails(in), []string{"info@example.com"})
	assertStrings(t, "URLs", URLs(in), []string{"https://example.com"})
	assertStrings(t, "YenAmounts", YenAmounts(in), []string{"¥3,000"})
}

func TestEntityTypeJSON(t *testing.T) {
	e := Entity{Text: "test", Start: 0, End: 4, Type: Phone}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Entity
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Type != Phone {
		t.Errorf("round-trip: want Phone, got %s", decoded.Type)
	}
}

func TestEntityTypeStringUnknown(t *testing.T) {
	var et EntityType = 99
	got := et.String()
	want := "EntityType(99)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEntityTypeUnmarshalUnknown(t *testing.T) {
	var et EntityType
	err := et.UnmarshalJSON([]byte(`"Bogus"`))
	if err == nil {
		t.Error("want error for unknown type, got nil")
	}
}

func TestEntityTypeUnmarshalNonString(t *testing.T) {
	var et EntityType
	err := et.UnmarshalJSON([]byte("123"))
	if err == nil {
		t.Error("want error for non-string JSON, got nil")
	}
}

func TestOverlapResolutionPrefersLongerMatch(t *testing.T) {
	// A bare 10-digit run is consumed entirely by the phone pattern via
	// backtracking rather than splitting into a shorter partial match.
	in := "0312345678"
	got := Recognize(in)
	if len(got) != 1 {
		t.Fatalf("want 1 entity, got %d: %v", len(got), got)
	}
	if got[0].Type != Phone || got[0].Text != in {
		t.Errorf("want whole-string Phone match, got %v", got[0])
	}
}

func TestOffsetInvariant(t *testing.T) {
	inputs := []string{
		"03-1234-5678",
		"+81-90-1234-5678",
		"info@example.com",
		"https://example.co.jp",
		"¥12,000",
		"12,000円",
	}
	for _, in := range inputs {
		for _, e := range Recognize(in) {
			if in[e.Start:e.End] != e.Text {
				t.Errorf("invariant broken for %s: s[%d:%d]=%q != %q",
					e.Type, e.Start, e.End, in[e.Start:e.End], e.Text)
			}
		}
	}
}

func TestEntityString(t *testing.T) {
	e := Entity{Text: "090-1234-5678", Start: 0, End: 13, Type: Phone}
	got := e.String()
	want := `Phone("090-1234-5678")[0:13]`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEntityTypeMapsComplete(t *testing.T) {
	for i := EntityType(0); i <= YenAmount; i++ {
		name := i.String()
		if strings.HasPrefix(name, "EntityType(") {
			t.Errorf("EntityType %d has no name in entityTypeNames", i)
		}
		if _, ok := entityTypeFromName[name]; !ok {
			t.Errorf("entityTypeFromName missing entry for %q", name)
		}
	}
}

// compareEntities compares two entity slices with helpful error messages.
func compareEntities(t *testing.T, want, got []Entity) {
	t.Helper()

	if len(want) == 0 && len(got) == 0 {
		return
	}
	if len(want) == 0 && got == nil {
		return
	}

	if len(got) != len(want) {
		t.Errorf("got %d entities, want %d\n  got:  %v\n  want: %v", len(got), len(want), got, want)
		return
	}

	for i := range want {
		if got[i].Text != want[i].Text {
			t.Errorf("[%d] Text: got %q, want %q", i, got[i].Text, want[i].Text)
		}
		if got[i].Start != want[i].Start {
			t.Errorf("[%d] Start: got %d, want %d", i, got[i].Start, want[i].Start)
		}
		if got[i].End != want[i].End {
			t.Errorf("[%d] End: got %d, want %d", i, got[i].End, want[i].End)
		}
		if got[i].Type != want[i].Type {
			t.Errorf("[%d] Type: got %s, want %s", i, got[i].Type, want[i].Type)
		}
	}
}

// assertStrings compares string slices.
func assertStrings(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: got %d items %v, want %d items %v", label, len(got), got, len(want), want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: got %q, want %q", label, i, got[i], want[i])
		}
	}
}
