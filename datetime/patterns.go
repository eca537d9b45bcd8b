package datetime

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"time"
)

// Size and safety limits. Japanese date text has no word boundaries to
// anchor a scan on, so these bound the cost of running every pattern
// against the whole input.
const (
	maxInputBytes = 4096
	maxResults    = 64
	maxMergeGap   = 3 // bytes allowed between an adjacent date span and time span

	minYear = 1900
	maxYear = 2200

	minMonth, maxMonth = 1, 12
	minDay, maxDay     = 1, 31
	minHour, maxHour   = 0, 23
	maxMinute          = 59
	maxSecond          = 59

	daysPerWeek = 7
)

// extract is the internal implementation of Extract.
func extract(s string, ref time.Time) []Result {
	const minCap = 4
	all := make([]Result, 0, len(s)/100+minCap)

	all = appendNumeric(all, s, ref)
	all = appendKanjiDate(all, s, ref)
	all = appendKanjiTime(all, s, ref)
	all = appendWeekday(all, s, ref)
	all = appendRelative(all, s, ref)

	if len(all) == 0 {
		return nil
	}

	all = resolveOverlaps(all)
	all = mergeAdjacent(all, s)
	return all
}

// ---------- numeric formats ----------

var (
	reISODate   = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	reSlashDate = regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`)
	reDotDate   = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`)
	reClockTime = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::(\d{2}))?`)
)

// appendNumeric matches ISO, slash, and dot date formats and HH:MM(:SS) times.
func appendNumeric(all []Result, s string, ref time.Time) []Result {
	all = appendRegexYMD(all, s, reISODate)
	all = appendRegexYMD(all, s, reSlashDate)
	all = appendRegexYMD(all, s, reDotDate)
	all = appendClockTime(all, s, ref)
	return all
}

// appendRegexYMD extracts dates from s using re, whose three capture groups
// hold year, month, and day strings in that order.
func appendRegexYMD(all []Result, s string, re *regexp.Regexp) []Result {
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		year, month, day, ok := parseDateParts(s[m[2]:m[3]], s[m[4]:m[5]], s[m[6]:m[7]])
		if !ok {
			continue
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     TypeDate,
			Time:     t,
			Explicit: HasYear | HasMonth | HasDay,
		})
	}
	return all
}

func appendClockTime(all []Result, s string, ref time.Time) []Result {
	for _, m := range reClockTime.FindAllStringSubmatchIndex(s, -1) {
		hour, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil || hour < minHour || hour > maxHour {
			continue
		}
		mn, err := strconv.Atoi(s[m[4]:m[5]])
		if err != nil || mn > maxMinute {
			continue
		}

		sec := 0
		explicit := HasHour | HasMinute
		if m[6] != -1 {
			sec, err = strconv.Atoi(s[m[6]:m[7]])
			if err != nil || sec > maxSecond {
				continue
			}
			explicit |= HasSecond
		}

		t := time.Date(ref.Year(), ref.Month(), ref.Day(), hour, mn, sec, 0, time.UTC)
		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     TypeTime,
			Time:     t,
			Explicit: explicit,
		})
	}
	return all
}

// parseDateParts validates and converts year/month/day strings to integers.
// Rejects impossible calendar dates like Feb 30 by checking time.Date normalization.
func parseDateParts(yearStr, monthStr, dayStr string) (year, month, day int, ok bool) {
	var err error
	year, err = strconv.Atoi(yearStr)
	if err != nil || year < minYear || year > maxYear {
		return 0, 0, 0, false
	}
	month, err = strconv.Atoi(monthStr)
	if err != nil || month < minMonth || month > maxMonth {
		return 0, 0, 0, false
	}
	day, err = strconv.Atoi(dayStr)
	if err != nil || day < minDay || day > maxDay {
		return 0, 0, 0, false
	}
	// Reject impossible calendar dates (e.g. Feb 30): time.Date normalizes
	// overflows, so a mismatch means the input date does not exist.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// ---------- kanji-numeral dates ----------

var (
	// reKanjiFullDate matches "2026年3月5日" with all three components.
	reKanjiFullDate = regexp.MustCompile(`(\d{1,4})年(\d{1,2})月(\d{1,2})日`)
	// reKanjiMonthDay matches "3月5日" without an explicit year.
	reKanjiMonthDay = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日`)
	// reKanjiMonthOnly matches a bare "3月" (month only, day defaults to 1).
	reKanjiMonthOnly = regexp.MustCompile(`(\d{1,2})月`)
)

// appendKanjiDate matches Japanese kanji-numeral date expressions, trying
// the most specific pattern first so resolveOverlaps keeps the fullest match.
func appendKanjiDate(all []Result, s string, ref time.Time) []Result {
	for _, m := range reKanjiFullDate.FindAllStringSubmatchIndex(s, -1) {
		year, month, day, ok := parseDateParts(s[m[2]:m[3]], s[m[4]:m[5]], s[m[6]:m[7]])
		if !ok {
			continue
		}
		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     TypeDate,
			Time:     time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
			Explicit: HasYear | HasMonth | HasDay,
		})
	}

	for _, m := range reKanjiMonthDay.FindAllStringSubmatchIndex(s, -1) {
		month, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil || month < minMonth || month > maxMonth {
			continue
		}
		day, err := strconv.Atoi(s[m[4]:m[5]])
		if err != nil || day < minDay || day > maxDay {
			continue
		}
		t := time.Date(ref.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day || t.Month() != time.Month(month) {
			continue
		}
		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     TypeDate,
			Time:     t,
			Explicit: HasMonth | HasDay,
		})
	}

	for _, m := range reKanjiMonthOnly.FindAllStringSubmatchIndex(s, -1) {
		month, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil || month < minMonth || month > maxMonth {
			continue
		}
		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     TypeDate,
			Time:     time.Date(ref.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC),
			Explicit: HasMonth,
		})
	}

	return all
}

// ---------- kanji time-of-day ----------

// reKanjiTime matches "午後3時30分", "3時30分15秒", or a bare "3時",
// with an optional 午前/午後 (AM/PM) prefix.
var reKanjiTime = regexp.MustCompile(`(午前|午後)?(\d{1,2})時(?:(\d{1,2})分(?:(\d{1,2})秒)?)?`)

func appendKanjiTime(all []Result, s string, ref time.Time) []Result {
	for _, m := range reKanjiTime.FindAllStringSubmatchIndex(s, -1) {
		hour, err := strconv.Atoi(s[m[4]:m[5]])
		if err != nil || hour < minHour || hour > maxHour {
			continue
		}

		explicit := HasHour
		minute, second := 0, 0
		if m[6] != -1 {
			minute, err = strconv.Atoi(s[m[6]:m[7]])
			if err != nil || minute > maxMinute {
				continue
			}
			explicit |= HasMinute
			if m[8] != -1 {
				second, err = strconv.Atoi(s[m[8]:m[9]])
				if err != nil || second > maxSecond {
					continue
				}
				explicit |= HasSecond
			}
		}

		if m[2] != -1 {
			switch s[m[2]:m[3]] {
			case "午後":
				if hour < 12 && hour > 0 {
					hour += 12
				}
			case "午前":
				if hour == 12 {
					hour = 0
				}
			}
		}

		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     TypeTime,
			Time:     time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, second, 0, time.UTC),
			Explicit: explicit,
		})
	}
	return all
}

// ---------- weekday names ----------

type weekdayWord struct {
	name    string
	weekday time.Weekday
	re      *regexp.Regexp
}

// weekdays lists both the full ("月曜日") and short ("月曜") forms; the
// full form is listed first per day so resolveOverlaps keeps it over the
// short form's overlapping match.
var weekdays = newWeekdayWords([]struct {
	name string
	wd   time.Weekday
}{
	{"月曜日", time.Monday}, {"月曜", time.Monday},
	{"火曜日", time.Tuesday}, {"火曜", time.Tuesday},
	{"水曜日", time.Wednesday}, {"水曜", time.Wednesday},
	{"木曜日", time.Thursday}, {"木曜", time.Thursday},
	{"金曜日", time.Friday}, {"金曜", time.Friday},
	{"土曜日", time.Saturday}, {"土曜", time.Saturday},
	{"日曜日", time.Sunday}, {"日曜", time.Sunday},
})

func newWeekdayWords(defs []struct {
	name string
	wd   time.Weekday
}) []weekdayWord {
	out := make([]weekdayWord, len(defs))
	for i, d := range defs {
		out[i] = weekdayWord{name: d.name, weekday: d.wd, re: regexp.MustCompile(regexp.QuoteMeta(d.name))}
	}
	return out
}

// weekdayPrefix pairs a relative-week prefix with the precompiled regex for
// each weekday (with an optional bridging "の"), and the week offset applied
// before resolving the weekday.
type weekdayPrefix struct {
	offset int
	re     *regexp.Regexp
	wd     time.Weekday
}

var weekdayPrefixes = newWeekdayPrefixes()

func newWeekdayPrefixes() []weekdayPrefix {
	raw := []struct {
		prefix string
		offset int
	}{
		{"来週", 1},
		{"先週", -1},
	}
	var out []weekdayPrefix
	for _, r := range raw {
		for _, wd := range weekdays {
			out = append(out, weekdayPrefix{
				offset: r.offset,
				re:     regexp.MustCompile(regexp.QuoteMeta(r.prefix) + `の?` + regexp.QuoteMeta(wd.name)),
				wd:     wd.weekday,
			})
		}
	}
	return out
}

// appendWeekday matches bare weekday names ("水曜日", next occurrence
// including today) and week-prefixed weekday names ("来週の水曜日",
// "先週の月曜日"; the bridging "の" is optional).
func appendWeekday(all []Result, s string, ref time.Time) []Result {
	for _, wp := range weekdayPrefixes {
		for _, loc := range wp.re.FindAllStringIndex(s, -1) {
			var t time.Time
			if wp.offset < 0 {
				t = prevWeekday(ref, wp.wd)
			} else {
				t = nextWeekday(ref, wp.wd, true)
			}
			all = append(all, Result{
				Text:     s[loc[0]:loc[1]],
				Start:    loc[0],
				End:      loc[1],
				Type:     TypeDate,
				Time:     t,
				Explicit: HasYear | HasMonth | HasDay,
			})
		}
	}

	for _, wd := range weekdays {
		for _, loc := range wd.re.FindAllStringIndex(s, -1) {
			all = append(all, Result{
				Text:     s[loc[0]:loc[1]],
				Start:    loc[0],
				End:      loc[1],
				Type:     TypeDate,
				Time:     nextWeekday(ref, wd.weekday, false),
				Explicit: HasYear | HasMonth | HasDay,
			})
		}
	}

	return all
}

// ---------- relative expressions ----------

// dayOffsets maps single-word relative-day expressions to a day offset
// from ref, longest keys first so a scan never matches a substring of a
// longer keyword (e.g. "明後日" must win over "明日").
var dayOffsets = newWordOffsets([]struct {
	word   string
	offset int
}{
	{"一昨日", -2},
	{"明後日", 2},
	{"今日", 0},
	{"本日", 0},
	{"明日", 1},
	{"昨日", -1},
})

type wordOffset struct {
	offset int
	re     *regexp.Regexp
}

func newWordOffsets(defs []struct {
	word   string
	offset int
}) []wordOffset {
	out := make([]wordOffset, len(defs))
	for i, d := range defs {
		out[i] = wordOffset{offset: d.offset, re: regexp.MustCompile(regexp.QuoteMeta(d.word))}
	}
	return out
}

type periodKind int

const (
	periodWeek periodKind = iota
	periodMonth
	periodYear
)

// periodWords maps two-character period-relative expressions directly to
// their offset and unit, e.g. "先月" = -1 month.
var periodWords = newPeriodWords([]struct {
	word   string
	offset int
	kind   periodKind
}{
	{"今週", 0, periodWeek},
	{"来週", 1, periodWeek},
	{"先週", -1, periodWeek},
	{"今月", 0, periodMonth},
	{"来月", 1, periodMonth},
	{"先月", -1, periodMonth},
	{"今年", 0, periodYear},
	{"来年", 1, periodYear},
	{"去年", -1, periodYear},
	{"昨年", -1, periodYear},
})

type periodWord struct {
	offset int
	kind   periodKind
	re     *regexp.Regexp
}

func newPeriodWords(defs []struct {
	word   string
	offset int
	kind   periodKind
}) []periodWord {
	out := make([]periodWord, len(defs))
	for i, d := range defs {
		out[i] = periodWord{offset: d.offset, kind: d.kind, re: regexp.MustCompile(regexp.QuoteMeta(d.word))}
	}
	return out
}

type qtyUnit int

const (
	qtyDay qtyUnit = iota
	qtyWeek
	qtyMonth
	qtyYear
	qtyHour
	qtyMinute
)

// qtyUnitWords maps a counter suffix to its unit. Longer forms ("ヶ月")
// must be tried before shorter ones that could partially overlap.
var qtyUnitWords = []struct {
	word string
	unit qtyUnit
}{
	{"週間", qtyWeek},
	{"ヶ月", qtyMonth},
	{"か月", qtyMonth},
	{"カ月", qtyMonth},
	{"時間", qtyHour},
	{"日", qtyDay},
	{"年", qtyYear},
	{"分", qtyMinute},
}

// reQuantity captures a leading integer immediately followed by one of the
// qtyUnitWords and a direction marker (前 = before/ago, 後 = after/later).
var reQuantity = regexp.MustCompile(`(\d{1,4})(週間|ヶ月|か月|カ月|時間|日|年|分)(前|後)`)

// appendRelative matches relative date expressions: quantity+unit+direction
// ("3日前"), period words ("先週", "来月"), and single-word day offsets
// ("今日", "明後日").
func appendRelative(all []Result, s string, ref time.Time) []Result {
	for _, m := range reQuantity.FindAllStringSubmatchIndex(s, -1) {
		qty, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil || qty <= 0 {
			continue
		}
		unit := unitFromWord(s[m[4]:m[5]])
		dir := s[m[6]:m[7]]

		t := applyQuantityOffset(ref, qty, unit, dir == "前")
		explicit := HasYear | HasMonth | HasDay
		typ := TypeDate
		if unit == qtyHour || unit == qtyMinute {
			explicit |= HasHour | HasMinute
			typ = TypeDateTime
		}

		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     typ,
			Time:     t,
			Explicit: explicit,
		})
	}

	for _, pw := range periodWords {
		for _, loc := range pw.re.FindAllStringIndex(s, -1) {
			all = append(all, Result{
				Text:     s[loc[0]:loc[1]],
				Start:    loc[0],
				End:      loc[1],
				Type:     TypeDate,
				Time:     resolvePeriod(ref, pw.offset, pw.kind),
				Explicit: HasYear | HasMonth | HasDay,
			})
		}
	}

	for _, dw := range dayOffsets {
		for _, loc := range dw.re.FindAllStringIndex(s, -1) {
			t := ref.AddDate(0, 0, dw.offset)
			all = append(all, Result{
				Text:     s[loc[0]:loc[1]],
				Start:    loc[0],
				End:      loc[1],
				Type:     TypeDate,
				Time:     time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
				Explicit: HasYear | HasMonth | HasDay,
			})
		}
	}

	return all
}

func unitFromWord(w string) qtyUnit {
	for _, qu := range qtyUnitWords {
		if qu.word == w {
			return qu.unit
		}
	}
	return qtyDay
}

// ---------- overlap resolution and merging ----------

// resolveOverlaps removes overlapping results. When two results overlap,
// the longer (more specific) match wins. Ties broken by earlier start position.
// Returns results sorted by Start offset.
func resolveOverlaps(results []Result) []Result {
	if len(results) <= 1 {
		return results
	}

	slices.SortFunc(results, func(a, b Result) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		la := a.End - a.Start
		lb := b.End - b.Start
		return cmp.Compare(lb, la)
	})

	out := make([]Result, 0, len(results))
	maxEnd := 0
	for _, r := range results {
		if r.Start >= maxEnd {
			out = append(out, r)
			if len(out) >= maxResults {
				break
			}
			maxEnd = r.End
		}
	}
	return out
}

// mergeAdjacent combines adjacent TypeDate + TypeTime results into TypeDateTime
// when they are separated by at most maxMergeGap bytes.
func mergeAdjacent(results []Result, s string) []Result {
	if len(results) < 2 { //nolint:mnd
		return results
	}

	out := make([]Result, 0, len(results))
	i := 0
	for i < len(results) {
		if i+1 < len(results) {
			a, b := results[i], results[i+1]
			gap := b.Start - a.End
			if gap >= 0 && gap <= maxMergeGap {
				if merged, ok := tryMerge(a, b, s); ok {
					out = append(out, merged)
					i += 2
					continue
				}
			}
		}
		out = append(out, results[i])
		i++
	}
	return out
}

// tryMerge merges a date result and a time result into a datetime result.
func tryMerge(a, b Result, s string) (Result, bool) {
	var dateR, timeR Result
	switch {
	case a.Type == TypeDate && b.Type == TypeTime:
		dateR, timeR = a, b
	case a.Type == TypeTime && b.Type == TypeDate:
		timeR, dateR = a, b
	default:
		return Result{}, false
	}

	start := min(dateR.Start, timeR.Start)
	end := max(dateR.End, timeR.End)

	merged := Result{
		Text:     s[start:end],
		Start:    start,
		End:      end,
		Type:     TypeDateTime,
		Explicit: dateR.Explicit | timeR.Explicit,
	}

	merged.Time = time.Date(
		dateR.Time.Year(), dateR.Time.Month(), dateR.Time.Day(),
		timeR.Time.Hour(), timeR.Time.Minute(), timeR.Time.Second(),
		0, time.UTC,
	)

	return merged, true
}

// ---------- time computation helpers ----------

// nextWeekday returns the next occurrence of the given weekday.
// When skipToday is false, today is returned if it matches.
// When skipToday is true (e.g. "来週の金曜日" on a Friday), today is skipped.
func nextWeekday(ref time.Time, wd time.Weekday, skipToday bool) time.Time {
	days := int(wd) - int(ref.Weekday())
	if days < 0 {
		days += daysPerWeek
	}
	if days == 0 {
		if skipToday {
			days = daysPerWeek
		} else {
			return time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	t := ref.AddDate(0, 0, days)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// prevWeekday returns the most recent past occurrence of the given weekday before ref.
func prevWeekday(ref time.Time, wd time.Weekday) time.Time {
	days := int(ref.Weekday()) - int(wd)
	if days <= 0 {
		days += daysPerWeek
	}
	t := ref.AddDate(0, 0, -days)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// resolvePeriod computes the start of a period offset from ref.
func resolvePeriod(ref time.Time, offset int, pk periodKind) time.Time {
	switch pk {
	case periodWeek:
		// Go to Monday of the current week, then add offset weeks.
		daysToMonday := int(ref.Weekday()) - int(time.Monday)
		if daysToMonday < 0 {
			daysToMonday += daysPerWeek
		}
		monday := ref.AddDate(0, 0, -daysToMonday)
		t := monday.AddDate(0, 0, offset*daysPerWeek)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	case periodMonth:
		t := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		return t.AddDate(0, offset, 0)

	case periodYear:
		return time.Date(ref.Year()+offset, time.January, 1, 0, 0, 0, 0, time.UTC)

	default:
		return ref
	}
}

// applyQuantityOffset applies a quantity+unit+direction offset to ref.
// before reports whether the direction marker was 前 (ago); 後 (later)
// otherwise.
func applyQuantityOffset(ref time.Time, qty int, unit qtyUnit, before bool) time.Time {
	if before {
		qty = -qty
	}
	switch unit {
	case qtyDay:
		return ref.AddDate(0, 0, qty)
	case qtyWeek:
		return ref.AddDate(0, 0, qty*daysPerWeek)
	case qtyMonth:
		return ref.AddDate(0, qty, 0)
	case qtyYear:
		return ref.AddDate(qty, 0, 0)
	case qtyHour:
		return ref.Add(time.Duration(qty) * time.Hour)
	case qtyMinute:
		return ref.Add(time.Duration(qty) * time.Minute)
	default:
		return ref
	}
}
