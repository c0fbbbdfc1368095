// builtin_time.go — the datetime builtin area.
//
// Dates and clock times travel as plain strings in canonical form:
// dates as "YYYY-MM-DD", times as "HH:MM:SS". The parse builtins accept a
// handful of common layouts (or an explicit format) and normalize to the
// canonical form; the arithmetic builtins take and return canonical form.
//
// Formats use strftime-style directives (%Y %m %d %H %M %S and friends),
// translated to Go reference layouts before calling the time package.

package easybite

import (
	"strings"
	"time"
)

const (
	canonDate = "2006-01-02"
	canonTime = "15:04:05"
)

func registerTimeBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("today", 0, 0, func(ip *Interpreter, args []Value) Value {
		return Str(time.Now().Format(canonDate))
	}, `today() -> the current local date as "YYYY-MM-DD".`)

	reg("timenow", 0, 0, func(ip *Interpreter, args []Value) Value {
		return Str(time.Now().Format(canonTime))
	}, `timenow() -> the current local time as "HH:MM:SS".`)

	reg("dateadd", 3, 3, func(ip *Interpreter, args []Value) Value {
		t := parseCanonDate("dateadd", argStr("dateadd", args, 0))
		n := argInt("dateadd", args, 1)
		switch dateUnit("dateadd", argStr("dateadd", args, 2)) {
		case "year":
			t = t.AddDate(n, 0, 0)
		case "month":
			t = t.AddDate(0, n, 0)
		case "week":
			t = t.AddDate(0, 0, 7*n)
		default:
			t = t.AddDate(0, 0, n)
		}
		return Str(t.Format(canonDate))
	}, `dateadd(date, n, unit) -> "YYYY-MM-DD"

Adds n units to a date. Unit is one of "days", "weeks", "months", "years"
(singular accepted). n may be negative.`)

	reg("datediff", 2, 3, func(ip *Interpreter, args []Value) Value {
		a := parseCanonDate("datediff", argStr("datediff", args, 0))
		b := parseCanonDate("datediff", argStr("datediff", args, 1))
		unit := "day"
		if len(args) == 3 {
			unit = dateUnit("datediff", argStr("datediff", args, 2))
		}
		days := int(b.Sub(a).Hours() / 24)
		switch unit {
		case "year":
			return Num(float64(b.Year() - a.Year()))
		case "month":
			return Num(float64((b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())))
		case "week":
			return Num(float64(days / 7))
		default:
			return Num(float64(days))
		}
	}, `datediff(from, to, unit?) -> number

Whole units from the first date to the second (negative when from is later).
Unit defaults to "days"; "weeks", "months", and "years" count calendar
boundaries crossed.`)

	reg("dateformat", 2, 2, func(ip *Interpreter, args []Value) Value {
		t := parseCanonDate("dateformat", argStr("dateformat", args, 0))
		layout := strftimeLayout("dateformat", argStr("dateformat", args, 1))
		return Str(t.Format(layout))
	}, `dateformat(date, format) -> string

Renders a "YYYY-MM-DD" date using strftime directives, e.g.
dateformat("2024-06-18", "%d/%m/%Y") -> "18/06/2024".`)

	reg("dateparse", 1, 2, func(ip *Interpreter, args []Value) Value {
		s := argStr("dateparse", args, 0)
		if len(args) == 2 {
			layout := strftimeLayout("dateparse", argStr("dateparse", args, 1))
			t, err := time.Parse(layout, s)
			if err != nil {
				fail(ErrExternal, "dateparse(): cannot parse '%s' with the given format", s)
			}
			return Str(t.Format(canonDate))
		}
		for _, layout := range []string{canonDate, "2006/01/02", "02 Jan 2006", "January 2, 2006"} {
			if t, err := time.Parse(layout, s); err == nil {
				return Str(t.Format(canonDate))
			}
		}
		fail(ErrExternal, "dateparse(): cannot parse date '%s'", s)
		return Null
	}, `dateparse(text, format?) -> "YYYY-MM-DD"

Without a format, accepts "YYYY-MM-DD", "YYYY/MM/DD", "18 Jun 2024", and
"June 18, 2024". With a format, parses exactly that strftime layout.`)

	reg("timeadd", 3, 3, func(ip *Interpreter, args []Value) Value {
		t := parseCanonTime("timeadd", argStr("timeadd", args, 0))
		n := argInt("timeadd", args, 1)
		switch timeUnit("timeadd", argStr("timeadd", args, 2)) {
		case "hour":
			t = t.Add(time.Duration(n) * time.Hour)
		case "minute":
			t = t.Add(time.Duration(n) * time.Minute)
		default:
			t = t.Add(time.Duration(n) * time.Second)
		}
		return Str(t.Format(canonTime))
	}, `timeadd(time, n, unit) -> "HH:MM:SS"

Adds n units ("seconds", "minutes", "hours") to a clock time, wrapping
around midnight.`)

	reg("timediff", 2, 3, func(ip *Interpreter, args []Value) Value {
		a := parseCanonTime("timediff", argStr("timediff", args, 0))
		b := parseCanonTime("timediff", argStr("timediff", args, 1))
		unit := "second"
		if len(args) == 3 {
			unit = timeUnit("timediff", argStr("timediff", args, 2))
		}
		d := b.Sub(a)
		switch unit {
		case "hour":
			return Num(float64(int(d.Hours())))
		case "minute":
			return Num(float64(int(d.Minutes())))
		default:
			return Num(d.Seconds())
		}
	}, `timediff(from, to, unit?) -> number

Difference between two clock times in "seconds" (default), "minutes", or
"hours"; negative when from is later within the day.`)

	reg("timeformat", 2, 2, func(ip *Interpreter, args []Value) Value {
		t := parseCanonTime("timeformat", argStr("timeformat", args, 0))
		layout := strftimeLayout("timeformat", argStr("timeformat", args, 1))
		return Str(t.Format(layout))
	}, `timeformat(time, format) -> string

Renders an "HH:MM:SS" time using strftime directives, e.g.
timeformat("14:30:00", "%I:%M %p") -> "02:30 PM".`)

	reg("timeparse", 1, 2, func(ip *Interpreter, args []Value) Value {
		s := argStr("timeparse", args, 0)
		if len(args) == 2 {
			layout := strftimeLayout("timeparse", argStr("timeparse", args, 1))
			t, err := time.Parse(layout, s)
			if err != nil {
				fail(ErrExternal, "timeparse(): cannot parse '%s' with the given format", s)
			}
			return Str(t.Format(canonTime))
		}
		for _, layout := range []string{canonTime, "15:04", "3:04 PM", "3:04:05 PM"} {
			if t, err := time.Parse(layout, s); err == nil {
				return Str(t.Format(canonTime))
			}
		}
		fail(ErrExternal, "timeparse(): cannot parse time '%s'", s)
		return Null
	}, `timeparse(text, format?) -> "HH:MM:SS"

Without a format, accepts "HH:MM:SS", "HH:MM", and 12-hour forms like
"2:30 PM". With a format, parses exactly that strftime layout.`)
}

func parseCanonDate(name, s string) time.Time {
	t, err := time.Parse(canonDate, s)
	if err != nil {
		fail(ErrExternal, "%s(): '%s' is not a YYYY-MM-DD date", name, s)
	}
	return t
}

func parseCanonTime(name, s string) time.Time {
	t, err := time.Parse(canonTime, s)
	if err != nil {
		fail(ErrExternal, "%s(): '%s' is not an HH:MM:SS time", name, s)
	}
	return t
}

func dateUnit(name, unit string) string {
	switch strings.TrimSuffix(strings.ToLower(unit), "s") {
	case "day":
		return "day"
	case "week":
		return "week"
	case "month":
		return "month"
	case "year":
		return "year"
	default:
		fail(ErrType, "%s(): unknown unit '%s' (want days, weeks, months, or years)", name, unit)
		return ""
	}
}

func timeUnit(name, unit string) string {
	switch strings.TrimSuffix(strings.ToLower(unit), "s") {
	case "second", "sec":
		return "second"
	case "minute", "min":
		return "minute"
	case "hour", "hr":
		return "hour"
	default:
		fail(ErrType, "%s(): unknown unit '%s' (want seconds, minutes, or hours)", name, unit)
		return ""
	}
}

// strftimeLayout translates strftime directives into a Go reference layout.
// Text outside directives passes through verbatim.
func strftimeLayout(name, format string) string {
	var b strings.Builder
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' {
			b.WriteRune(runes[i])
			continue
		}
		i++
		if i >= len(runes) {
			fail(ErrType, "%s(): dangling '%%' in format", name)
		}
		switch runes[i] {
		case 'Y':
			b.WriteString("2006")
		case 'y':
			b.WriteString("06")
		case 'm':
			b.WriteString("01")
		case 'd':
			b.WriteString("02")
		case 'H':
			b.WriteString("15")
		case 'I':
			b.WriteString("03")
		case 'M':
			b.WriteString("04")
		case 'S':
			b.WriteString("05")
		case 'p':
			b.WriteString("PM")
		case 'a':
			b.WriteString("Mon")
		case 'A':
			b.WriteString("Monday")
		case 'b':
			b.WriteString("Jan")
		case 'B':
			b.WriteString("January")
		case 'j':
			b.WriteString("002")
		case '%':
			b.WriteByte('%')
		default:
			fail(ErrType, "%s(): unsupported format directive '%%%c'", name, runes[i])
		}
	}
	return b.String()
}
