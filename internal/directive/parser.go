package directive

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	scheduleTag     = regexp.MustCompile(`(?i)\[SET_SCHEDULE:\s*(\d{4}-\d{2}-\d{2})\s*\]`)
	addHabitPattern = regexp.MustCompile(`(?i)\[ADD_HABIT:\s*([^:\]]+?)\s*:\s*([^:\]]+?)\s*(?::\s*([^\]]*?)\s*)?\]`)
	completePattern = regexp.MustCompile(`(?i)\[COMPLETE_HABIT:\s*([^\]]+?)\s*\]`)
	residualPattern = regexp.MustCompile(`\[\w+:[^\]]*\]`)
	spaceRun        = regexp.MustCompile(`[ \t]{2,}`)
)

type rule struct {
	pattern *regexp.Regexp
	build   func(groups []string) (Directive, bool)
}

// inlineRules are tags that stand on their own inside a line. They are
// checked in this order after the schedule tags of the line.
var inlineRules = []rule{
	{pattern: addHabitPattern, build: buildAddHabit},
	{pattern: completePattern, build: buildComplete},
}

// Extract scans text line by line for directive tags. Every recognised tag is
// removed from the prose; unrecognised or invalid [WORD:...] tokens are
// stripped as well so no raw tag reaches the user. Lines left empty by the
// stripping are dropped and the result is trimmed.
//
// A schedule tag takes the rest of its line, up to the next schedule tag, as
// its content. Inline tags inside that content are still extracted and cut
// from it; any other text is kept verbatim.
func Extract(text string) Result {
	var res Result
	var kept []string

	for _, line := range strings.Split(text, "\n") {
		prose, entries := splitSchedule(line)

		segments := make([]string, 0, len(entries)+1)
		segments = append(segments, prose)
		for _, e := range entries {
			segments = append(segments, e.Content)
		}
		var inline []Directive
		for _, r := range inlineRules {
			for i := range segments {
				var found []Directive
				segments[i], found = applyRule(segments[i], r)
				inline = append(inline, found...)
			}
		}
		for i, e := range entries {
			e.Content = collapse(segments[i+1])
			res.Directives = append(res.Directives, e)
		}
		res.Directives = append(res.Directives, inline...)

		out := residualPattern.ReplaceAllString(segments[0], "")
		if out == line {
			kept = append(kept, line)
			continue
		}
		if out = collapse(out); out != "" {
			kept = append(kept, out)
		}
	}

	res.Text = strings.TrimSpace(strings.Join(kept, "\n"))
	return res
}

// splitSchedule cuts line at its first valid schedule tag. The text before it
// is prose; each valid tag owns the text up to the next valid tag or the end
// of the line. Tags with an impossible date are left in the text.
func splitSchedule(line string) (string, []ScheduleEntry) {
	var valid [][]int
	for _, m := range scheduleTag.FindAllStringSubmatchIndex(line, -1) {
		if _, err := time.Parse(dateLayout, line[m[2]:m[3]]); err == nil {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return line, nil
	}

	entries := make([]ScheduleEntry, len(valid))
	for i, m := range valid {
		end := len(line)
		if i+1 < len(valid) {
			end = valid[i+1][0]
		}
		entries[i] = ScheduleEntry{Date: line[m[2]:m[3]], Content: line[m[1]:end]}
	}
	return line[:valid[0][0]], entries
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// applyRule extracts every valid match of r from line and cuts it out.
// Invalid matches stay in place for the residual cleanup.
func applyRule(line string, r rule) (string, []Directive) {
	matches := r.pattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return line, nil
	}

	var b strings.Builder
	var found []Directive
	last := 0
	for _, m := range matches {
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = line[m[2*i]:m[2*i+1]]
			}
		}
		d, ok := r.build(groups)
		if !ok {
			continue
		}
		found = append(found, d)
		b.WriteString(line[last:m[0]])
		b.WriteByte(' ')
		last = m[1]
	}
	b.WriteString(line[last:])
	return b.String(), found
}

func buildAddHabit(g []string) (Directive, bool) {
	name := strings.TrimSpace(g[1])
	if name == "" {
		return nil, false
	}
	return AddHabit{
		Name:     name,
		Priority: strings.ToLower(strings.TrimSpace(g[2])),
		Time:     strings.TrimSpace(g[3]),
	}, true
}

func buildComplete(g []string) (Directive, bool) {
	q := strings.TrimSpace(g[1])
	if q == "" {
		return nil, false
	}
	return CompleteHabit{Query: q}, true
}
