package datetime

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

// ref is the fixed reference time used across all tests: Friday, 2026-02-20 10:30 UTC.
var ref = time.Date(2026, 2, 20, 10, 30, 0, 0, time.UTC)

// d builds a UTC date-only time.
func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// dt builds a UTC date+time.
func dt(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

// compareResults compares two Result slices with per-field error messages.
func compareResults(t *testing.T, want, got []Result) {
	t.Helper()

	if len(want) == 0 && len(got) == 0 {
		return
	}

	if len(got) != len(want) {
		t.Errorf("got %d results, want %d\n  got:  %v\n  want: %v", len(got), len(want), got, want)
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
		wantTrunc := want[i].Time.Truncate(time.Second)
		gotTrunc := got[i].Time.Truncate(time.Second)
		if !gotTrunc.Equal(wantTrunc) {
			t.Errorf("[%d] Time: got %v, want %v", i, gotTrunc, wantTrunc)
		}
		if got[i].Explicit != want[i].Explicit {
			t.Errorf("[%d] Explicit: got %s, want %s", i, got[i].Explicit, want[i].Explicit)
		}
	}
}

// TestExtractNumeric tests ISO, slash, dot date formats and HH:MM(:SS) time formats.
func TestExtractNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ref  time.Time
		want []Result
	}{
		{
			name: "ISO date",
			in:   "2026-03-05",
			ref:  ref,
			want: []Result{{
				Text:     "2026-03-05",
				Start:    0,
				End:      10,
				Type:     TypeDate,
				Time:     d(2026, time.March, 5),
				Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			name: "slash date",
			in:   "2026/03/05",
			ref:  ref,
			want: []Result{{
				Text:     "2026/03/05",
				Start:    0,
				End:      10,
				Type:     TypeDate,
				Time:     d(2026, time.March, 5),
				Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			name: "dot date",
			in:   "2026.03.05",
			ref:  ref,
			want: []Result{{
				Text:     "2026.03.05",
				Start:    0,
				End:      10,
				Type:     TypeDate,
				Time:     d(2026, time.March, 5),
				Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			name: "time HH:MM",
			in:   "14:30",
			ref:  ref,
			want: []Result{{
				Text:     "14:30",
				Start:    0,
				End:      5,
				Type:     TypeTime,
				Time:     dt(ref.Year(), ref.Month(), ref.Day(), 14, 30, 0),
				Explicit: HasHour | HasMinute,
			}},
		},
		{
			name: "time HH:MM:SS",
			in:   "09:05:22",
			ref:  ref,
			want: []Result{{
				Text:     "09:05:22",
				Start:    0,
				End:      8,
				Type:     TypeTime,
				Time:     dt(ref.Year(), ref.Month(), ref.Day(), 9, 5, 22),
				Explicit: HasHour | HasMinute | HasSecond,
			}},
		},
		{
			// "日付は" = 9 bytes (3 kanji x 3 bytes); "2026-03-05" = 10 bytes -> start=9, end=19
			name: "ISO in text",
			in:   "日付は2026-03-05です",
			ref:  ref,
			want: []Result{{
				Text:     "2026-03-05",
				Start:    9,
				End:      19,
				Type:     TypeDate,
				Time:     d(2026, time.March, 5),
				Explicit: HasYear | HasMonth | HasDay,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.in, tt.ref)
			compareResults(t, tt.want, got)
		})
	}
}

// TestExtractKanjiDate tests kanji-numeral date patterns: full date, month+day
// with inferred year, and bare month with inferred day.
func TestExtractKanjiDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ref  time.Time
		want []Result
	}{
		{
			name: "full date",
			in:   "2026年3月5日",
			ref:  ref,
			want: []Result{{
				Text:     "2026年3月5日",
				Start:    0,
				End:      15,
				Type:     TypeDate,
				Time:     d(2026, time.March, 5),
				Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			// year inferred from ref (2026)
			name: "month and day",
			in:   "3月5日",
			ref:  ref,
			want: []Result{{
				Text:     "3月5日",
				Start:    0,
				End:      8,
				Type:     TypeDate,
				Time:     d(2026, time.March, 5),
				Explicit: HasMonth | HasDay,
			}},
		},
		{
			// day defaults to 1 when only month is given
			name: "month only",
			in:   "3月",
			ref:  ref,
			want: []Result{{
				Text:     "3月",
				Start:    0,
				End:      4,
				Type:     TypeDate,
				Time:     d(2026, time.March, 1),
				Explicit: HasMonth,
			}},
		},
		{
			// day 32 is invalid for month+day; "5月" still matches as month-only
			name: "invalid day falls back to month only",
			in:   "5月32日",
			ref:  ref,
			want: []Result{{
				Text:     "5月",
				Start:    0,
				End:      4,
				Type:     TypeDate,
				Time:     d(2026, time.May, 1),
				Explicit: HasMonth,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.in, tt.ref)
			compareResults(t, tt.want, got)
		})
	}
}

// TestExtractWeekday tests bare and week-prefixed weekday name recognition.
// ref = Friday 2026-02-20.
func TestExtractWeekday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ref  time.Time
		want []Result
	}{
		{
			// next Monday from Friday 2026-02-20 -> 2026-02-23
			name: "月曜日 Monday",
			in:   "月曜日",
			ref:  ref,
			want: []Result{{
				Text: "月曜日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 23), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			name: "火曜日 Tuesday",
			in:   "火曜日",
			ref:  ref,
			want: []Result{{
				Text: "火曜日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 24), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			name: "水曜日 Wednesday",
			in:   "水曜日",
			ref:  ref,
			want: []Result{{
				Text: "水曜日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 25), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			name: "木曜日 Thursday",
			in:   "木曜日",
			ref:  ref,
			want: []Result{{
				Text: "木曜日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 26), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			// today is Friday -> nextWeekday returns today when not skipping
			name: "金曜日 Friday today",
			in:   "金曜日",
			ref:  ref,
			want: []Result{{
				Text: "金曜日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 20), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			name: "土曜日 Saturday",
			in:   "土曜日",
			ref:  ref,
			want: []Result{{
				Text: "土曜日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 21), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			name: "日曜日 Sunday",
			in:   "日曜日",
			ref:  ref,
			want: []Result{{
				Text: "日曜日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 22), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			// short form (no trailing 日) resolves the same as the full form
			name: "水曜 short form",
			in:   "水曜",
			ref:  ref,
			want: []Result{{
				Text: "水曜", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 25), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			// Monday of ref's own week is 2026-02-16, 4 days before ref
			name: "先週の月曜日 previous Monday",
			in:   "先週の月曜日",
			ref:  ref,
			want: []Result{{
				Text: "先週の月曜日", Start: 0, End: 18, Type: TypeDate,
				Time: d(2026, time.February, 16), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
		{
			// on a Friday, "next Friday" must skip today -> 2026-02-27
			name: "来週の金曜日 next Friday",
			in:   "来週の金曜日",
			ref:  ref,
			want: []Result{{
				Text: "来週の金曜日", Start: 0, End: 18, Type: TypeDate,
				Time: d(2026, time.February, 27), Explicit: HasYear | HasMonth | HasDay,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.in, tt.ref)
			compareResults(t, tt.want, got)
		})
	}
}

// TestExtractRelative tests relative date/time expressions.
// ref = Friday 2026-02-20.
func TestExtractRelative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ref  time.Time
		want []Result
	}{
		{
			name: "今日 today",
			in:   "今日",
			ref:  ref,
			want: []Result{{Text: "今日", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 20), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "本日 today formal",
			in:   "本日",
			ref:  ref,
			want: []Result{{Text: "本日", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 20), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "明日 tomorrow",
			in:   "明日",
			ref:  ref,
			want: []Result{{Text: "明日", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 21), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "昨日 yesterday",
			in:   "昨日",
			ref:  ref,
			want: []Result{{Text: "昨日", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 19), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "明後日 day after tomorrow",
			in:   "明後日",
			ref:  ref,
			want: []Result{{Text: "明後日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 22), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "一昨日 two days ago",
			in:   "一昨日",
			ref:  ref,
			want: []Result{{Text: "一昨日", Start: 0, End: 9, Type: TypeDate,
				Time: d(2026, time.February, 18), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			// Monday of ref's own week
			name: "今週 this week",
			in:   "今週",
			ref:  ref,
			want: []Result{{Text: "今週", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 16), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "来週 next week",
			in:   "来週",
			ref:  ref,
			want: []Result{{Text: "来週", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 23), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "先週 previous week",
			in:   "先週",
			ref:  ref,
			want: []Result{{Text: "先週", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 9), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "今月 this month",
			in:   "今月",
			ref:  ref,
			want: []Result{{Text: "今月", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.February, 1), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "来月 next month",
			in:   "来月",
			ref:  ref,
			want: []Result{{Text: "来月", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.March, 1), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "先月 previous month",
			in:   "先月",
			ref:  ref,
			want: []Result{{Text: "先月", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.January, 1), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "今年 this year",
			in:   "今年",
			ref:  ref,
			want: []Result{{Text: "今年", Start: 0, End: 6, Type: TypeDate,
				Time: d(2026, time.January, 1), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "来年 next year",
			in:   "来年",
			ref:  ref,
			want: []Result{{Text: "来年", Start: 0, End: 6, Type: TypeDate,
				Time: d(2027, time.January, 1), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "去年 previous year",
			in:   "去年",
			ref:  ref,
			want: []Result{{Text: "去年", Start: 0, End: 6, Type: TypeDate,
				Time: d(2025, time.January, 1), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			// applyQuantityOffset uses AddDate, which preserves ref's time-of-day
			name: "3日前 3 days ago",
			in:   "3日前",
			ref:  ref,
			want: []Result{{Text: "3日前", Start: 0, End: 7, Type: TypeDate,
				Time: dt(2026, time.February, 17, 10, 30, 0), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "2週間後 2 weeks later",
			in:   "2週間後",
			ref:  ref,
			want: []Result{{Text: "2週間後", Start: 0, End: 10, Type: TypeDate,
				Time: dt(2026, time.March, 6, 10, 30, 0), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "3ヶ月前 3 months ago",
			in:   "3ヶ月前",
			ref:  ref,
			want: []Result{{Text: "3ヶ月前", Start: 0, End: 10, Type: TypeDate,
				Time: dt(2025, time.November, 20, 10, 30, 0), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "1年後 1 year later",
			in:   "1年後",
			ref:  ref,
			want: []Result{{Text: "1年後", Start: 0, End: 7, Type: TypeDate,
				Time: dt(2027, time.February, 20, 10, 30, 0), Explicit: HasYear | HasMonth | HasDay}},
		},
		{
			name: "3時間前 3 hours ago becomes a datetime",
			in:   "3時間前",
			ref:  ref,
			want: []Result{{Text: "3時間前", Start: 0, End: 10, Type: TypeDateTime,
				Time: dt(2026, time.February, 20, 7, 30, 0), Explicit: HasYear | HasMonth | HasDay | HasHour | HasMinute}},
		},
		{
			name: "30分後 30 minutes later",
			in:   "30分後",
			ref:  ref,
			want: []Result{{Text: "30分後", Start: 0, End: 8, Type: TypeDateTime,
				Time: dt(2026, time.February, 20, 11, 0, 0), Explicit: HasYear | HasMonth | HasDay | HasHour | HasMinute}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.in, tt.ref)
			compareResults(t, tt.want, got)
		})
	}
}

// TestExtractKanjiTime tests kanji hour/minute/second patterns with optional
// 午前/午後 (AM/PM) modifiers.
func TestExtractKanjiTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ref  time.Time
		want []Result
	}{
		{
			name: "3時 bare hour",
			in:   "3時",
			ref:  ref,
			want: []Result{{Text: "3時", Start: 0, End: 4, Type: TypeTime,
				Time: dt(ref.Year(), ref.Month(), ref.Day(), 3, 0, 0), Explicit: HasHour}},
		},
		{
			name: "午後7時 PM shift",
			in:   "午後7時",
			ref:  ref,
			want: []Result{{Text: "午後7時", Start: 0, End: 10, Type: TypeTime,
				Time: dt(ref.Year(), ref.Month(), ref.Day(), 19, 0, 0), Explicit: HasHour}},
		},
		{
			name: "午前7時 AM no shift",
			in:   "午前7時",
			ref:  ref,
			want: []Result{{Text: "午前7時", Start: 0, End: 10, Type: TypeTime,
				Time: dt(ref.Year(), ref.Month(), ref.Day(), 7, 0, 0), Explicit: HasHour}},
		},
		{
			// hour 12 with a PM modifier stays 12 (noon), not 24
			name: "午後12時 noon edge",
			in:   "午後12時",
			ref:  ref,
			want: []Result{{Text: "午後12時", Start: 0, End: 11, Type: TypeTime,
				Time: dt(ref.Year(), ref.Month(), ref.Day(), 12, 0, 0), Explicit: HasHour}},
		},
		{
			// hour 12 with an AM modifier is midnight
			name: "午前12時 midnight edge",
			in:   "午前12時",
			ref:  ref,
			want: []Result{{Text: "午前12時", Start: 0, End: 11, Type: TypeTime,
				Time: dt(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0), Explicit: HasHour}},
		},
		{
			name: "10時30分 hour and minute",
			in:   "10時30分",
			ref:  ref,
			want: []Result{{Text: "10時30分", Start: 0, End: 10, Type: TypeTime,
				Time: dt(ref.Year(), ref.Month(), ref.Day(), 10, 30, 0), Explicit: HasHour | HasMinute}},
		},
		{
			name: "10時30分15秒 hour minute second",
			in:   "10時30分15秒",
			ref:  ref,
			want: []Result{{Text: "10時30分15秒", Start: 0, End: 15, Type: TypeTime,
				Time: dt(ref.Year(), ref.Month(), ref.Day(), 10, 30, 15), Explicit: HasHour | HasMinute | HasSecond}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.in, tt.ref)
			compareResults(t, tt.want, got)
		})
	}
}

// TestExtractMerge tests that adjacent date + time spans merge into TypeDateTime.
func TestExtractMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ref  time.Time
		want []Result
	}{
		{
			// "2026年3月5日" = 15 bytes, gap=1 (space), "10時30分" = 10 bytes -> 0..26
			name: "kanji date then kanji time",
			in:   "2026年3月5日 10時30分",
			ref:  ref,
			want: []Result{{Text: "2026年3月5日 10時30分", Start: 0, End: 26, Type: TypeDateTime,
				Time: dt(2026, time.March, 5, 10, 30, 0), Explicit: HasYear | HasMonth | HasDay | HasHour | HasMinute}},
		},
		{
			name: "ISO date then clock time",
			in:   "2026-03-05 09:15",
			ref:  ref,
			want: []Result{{Text: "2026-03-05 09:15", Start: 0, End: 16, Type: TypeDateTime,
				Time: dt(2026, time.March, 5, 9, 15, 0), Explicit: HasYear | HasMonth | HasDay | HasHour | HasMinute}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.in, tt.ref)
			compareResults(t, tt.want, got)
		})
	}
}

// TestExtractMultiple tests that multiple disjoint spans are returned, including
// one pair that merges and one date further away that stays separate.
func TestExtractMultiple(t *testing.T) {
	t.Parallel()

	// "明日 午後3時" merges into a DateTime ([0:17]).
	// "そして" is a 9-byte bridge word with a space on each side.
	// "3月5日" is a separate date ([28:36]).
	in := "明日 午後3時 そして 3月5日"
	got := Extract(in, ref)

	if len(got) < 2 {
		t.Fatalf("want at least 2 results, got %d: %v", len(got), got)
	}

	var foundDate, foundMerged bool
	for _, r := range got {
		if r.Text == "3月5日" && r.Type == TypeDate {
			foundDate = true
			if r.Start != 28 || r.End != 36 {
				t.Errorf("'3月5日' offsets: got [%d:%d], want [28:36]", r.Start, r.End)
			}
			if want := d(2026, time.March, 5); !r.Time.Equal(want) {
				t.Errorf("'3月5日' time: got %v, want %v", r.Time, want)
			}
		}
		if r.Type == TypeDateTime && r.Start == 0 {
			foundMerged = true
			if want := dt(2026, time.February, 21, 15, 0, 0); !r.Time.Equal(want) {
				t.Errorf("merged datetime: got %v, want %v", r.Time, want)
			}
		}
	}
	if !foundDate {
		t.Errorf("missing result for '3月5日': got %v", got)
	}
	if !foundMerged {
		t.Errorf("missing merged datetime result: got %v", got)
	}

	for _, r := range got {
		if in[r.Start:r.End] != r.Text {
			t.Errorf("invariant: s[%d:%d]=%q != Text=%q", r.Start, r.End, in[r.Start:r.End], r.Text)
		}
	}
}

// TestParse tests the Parse API: success, empty input, unrecognized input, oversized input.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("positive", func(t *testing.T) {
		t.Parallel()
		r, err := Parse("2026年3月5日", ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Type != TypeDate {
			t.Errorf("Type: got %s, want Date", r.Type)
		}
		if want := d(2026, time.March, 5); !r.Time.Equal(want) {
			t.Errorf("Time: got %v, want %v", r.Time, want)
		}
		if r.Text != "2026年3月5日" {
			t.Errorf("Text: got %q, want %q", r.Text, "2026年3月5日")
		}
	})

	t.Run("error empty", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("", ref)
		if err == nil {
			t.Fatal("want error for empty input, got nil")
		}
		if !strings.Contains(err.Error(), "empty") {
			t.Errorf("error %q does not contain 'empty'", err.Error())
		}
	})

	t.Run("error unrecognized", func(t *testing.T) {
		t.Parallel()
		_, err := Parse("abc xyz", ref)
		if err == nil {
			t.Fatal("want error for unrecognized input, got nil")
		}
		if !strings.Contains(err.Error(), "unrecognized") {
			t.Errorf("error %q does not contain 'unrecognized'", err.Error())
		}
	})

	t.Run("error oversized", func(t *testing.T) {
		t.Parallel()
		big := strings.Repeat("a", maxInputBytes+1)
		_, err := Parse(big, ref)
		if err == nil {
			t.Fatal("want error for oversized input, got nil")
		}
		if !strings.Contains(err.Error(), "exceeds") {
			t.Errorf("error %q does not contain 'exceeds'", err.Error())
		}
	})
}

// TestExtractNegative tests that invalid or unrecognizable inputs return nil or
// no result carrying an impossible calendar value.
func TestExtractNegative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		ref     time.Time
		wantNil bool
	}{
		{
			// day 32 is invalid; "5月" still matches as month-only (day defaults to 1)
			name: "invalid day falls back to month", in: "5月32日", ref: ref, wantNil: false,
		},
		{name: "unrecognized text", in: "こんにちは", ref: ref, wantNil: true},
		{name: "invalid time 25:99", in: "25:99", ref: ref, wantNil: true},
		{name: "empty string", in: "", ref: ref, wantNil: true},
		{name: "no date or time", in: "abc xyz", ref: ref, wantNil: true},
		{name: "impossible date Feb 30", in: "2026.02.30", ref: ref, wantNil: true},
		{name: "impossible date Apr 31", in: "2026.04.31", ref: ref, wantNil: true},
		{name: "impossible date Feb 29 non-leap", in: "2026.02.29", ref: ref, wantNil: true},
		{name: "valid date Feb 29 leap year", in: "2024.02.29", ref: ref, wantNil: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.in, tt.ref)
			if tt.wantNil {
				if got != nil {
					t.Errorf("want nil, got %v", got)
				}
				return
			}
			for _, r := range got {
				if r.Time.Day() > 31 {
					t.Errorf("result has impossible day %d: %v", r.Time.Day(), r)
				}
			}
		})
	}
}

// TestTypeEnum tests Type.String(), MarshalJSON, and UnmarshalJSON.
func TestTypeEnum(t *testing.T) {
	t.Parallel()

	t.Run("String TypeDate", func(t *testing.T) {
		t.Parallel()
		if got := TypeDate.String(); got != "Date" {
			t.Errorf("got %q, want %q", got, "Date")
		}
	})

	t.Run("String TypeTime", func(t *testing.T) {
		t.Parallel()
		if got := TypeTime.String(); got != "Time" {
			t.Errorf("got %q, want %q", got, "Time")
		}
	})

	t.Run("String TypeDateTime", func(t *testing.T) {
		t.Parallel()
		if got := TypeDateTime.String(); got != "DateTime" {
			t.Errorf("got %q, want %q", got, "DateTime")
		}
	})

	t.Run("String unknown", func(t *testing.T) {
		t.Parallel()
		unknown := Type(99)
		got := unknown.String()
		if !strings.HasPrefix(got, "Type(") {
			t.Errorf("got %q, want Type(...) format", got)
		}
	})

	t.Run("MarshalJSON UnmarshalJSON round-trip", func(t *testing.T) {
		t.Parallel()
		for _, typ := range []Type{TypeDate, TypeTime, TypeDateTime, TypeDuration} {
			data, err := json.Marshal(typ)
			if err != nil {
				t.Fatalf("Marshal %s: %v", typ, err)
			}
			var got Type
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal %s: %v", typ, err)
			}
			if got != typ {
				t.Errorf("round-trip: got %s, want %s", got, typ)
			}
		}
	})

	t.Run("UnmarshalJSON unknown string error", func(t *testing.T) {
		t.Parallel()
		var typ Type
		err := json.Unmarshal([]byte(`"Bogus"`), &typ)
		if err == nil {
			t.Error("want error for unknown type string, got nil")
		}
	})

	t.Run("UnmarshalJSON non-string error", func(t *testing.T) {
		t.Parallel()
		var typ Type
		err := json.Unmarshal([]byte(`123`), &typ)
		if err == nil {
			t.Error("want error for non-string JSON, got nil")
		}
	})
}

// TestComponentsString tests Components.String() output.
func TestComponentsString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Components
		want string
	}{
		{name: "YMD", c: HasYear | HasMonth | HasDay, want: "YMD"},
		{name: "hm", c: HasHour | HasMinute, want: "hm"},
		{name: "all", c: HasYear | HasMonth | HasDay | HasHour | HasMinute | HasSecond, want: "YMDhms"},
		{name: "none", c: Components(0), want: "none"},
		{name: "year only", c: HasYear, want: "Y"},
		{name: "second only", c: HasSecond, want: "s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.c.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestResultString tests Result.String() format.
func TestResultString(t *testing.T) {
	t.Parallel()

	r := Result{Text: "2026年3月5日", Start: 3, End: 18, Type: TypeDate}
	got := r.String()
	want := `Date("2026年3月5日")[3:18]`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestTypeMapsComplete is an enum-sync guard: every Type value must have a name
// in typeNames and a reverse entry in typeFromName.
func TestTypeMapsComplete(t *testing.T) {
	t.Parallel()

	for i := Type(0); i <= TypeDuration; i++ {
		name := i.String()
		if strings.HasPrefix(name, "Type(") {
			t.Errorf("Type %d has no name in typeNames", i)
		}
		if _, ok := typeFromName[name]; !ok {
			t.Errorf("typeFromName missing entry for %q (Type %d)", name, i)
		}
	}
}

// TestOffsetInvariant verifies that s[r.Start:r.End] == r.Text for all results.
func TestOffsetInvariant(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"2026-03-05",
		"2026年3月5日",
		"明日",
		"先週",
		"月曜日",
		"火曜日",
		"3日前",
		"午後7時",
		"2026年3月5日 10時30分",
		"日付は2026-03-05です",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			for _, r := range Extract(in, ref) {
				if in[r.Start:r.End] != r.Text {
					t.Errorf("invariant broken: s[%d:%d]=%q != Text=%q",
						r.Start, r.End, in[r.Start:r.End], r.Text)
				}
			}
		})
	}
}

// TestRefZeroUsesNow verifies that a zero ref time causes Extract to use time.Now().
func TestRefZeroUsesNow(t *testing.T) {
	t.Parallel()

	got := Extract("明日", time.Time{})
	if len(got) == 0 {
		t.Fatal("want result for '明日' with zero ref, got nil")
	}
	if got[0].Time.IsZero() {
		t.Error("result time is zero; expected time.Now()+1 day")
	}
}

// ExampleExtract demonstrates extracting date/time spans from Japanese text.
func ExampleExtract() {
	r := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	results := Extract("2026年3月5日 午後2時30分", r)
	for _, res := range results {
		fmt.Println(res)
	}
	// Output: DateTime("2026年3月5日 午後2時30分")[0:31]
}

// ExampleParse demonstrates parsing a single relative date expression.
func ExampleParse() {
	r := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	res, _ := Parse("明日", r)
	fmt.Println(res.Time.Format("2006-01-02"))
	// Output: 2026-02-21
}

// BenchmarkExtract benchmarks Extract on a mixed natural + numeric expression.
func BenchmarkExtract(b *testing.B) {
	r := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < b.N; i++ {
		Extract("2026年3月5日 午後2時30分、明日も確認", r)
	}
}

// BenchmarkExtractLong benchmarks Extract on a long multi-match input.
func BenchmarkExtractLong(b *testing.B) {
	r := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	input := strings.Repeat("面談は3月5日の午後2時30分から、明日10時にも続く予定。", 20)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Extract(input, r)
	}
}

// BenchmarkExtractRelative benchmarks Extract on relative expressions only.
func BenchmarkExtractRelative(b *testing.B) {
	r := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	input := "明日の午後に会う、明後日も予定がある"
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Extract(input, r)
	}
}

// BenchmarkExtractNumeric benchmarks Extract on numeric date/time formats only.
func BenchmarkExtractNumeric(b *testing.B) {
	r := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	input := "2026-03-05 14:30、2026.06.21、2027/01/01"
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Extract(input, r)
	}
}

// BenchmarkParse benchmarks Parse on a simple full date.
func BenchmarkParse(b *testing.B) {
	r := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < b.N; i++ {
		Parse("2026年3月5日", r) //nolint:errcheck
	}
}
