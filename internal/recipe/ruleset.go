package recipe

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"recut/internal/store"
)

// builtinRevision stamps recipes compiled by the deterministic ruleset.
// Bump the suffix whenever a pattern change alters compilation output.
const builtinRevision = "builtin-v1"

// Ruleset turns natural-language instructions into an ordered operation list.
type Ruleset interface {
	Revision() string
	Plan(ctx context.Context, instructions string, transcript *store.Transcript) ([]store.Operation, error)
}

// builtinRuleset is a deterministic pattern matcher over instruction clauses.
// It recognizes a fixed phrase vocabulary; clauses it cannot express are
// skipped rather than failing the whole compile.
type builtinRuleset struct {
	fillers []string
	minGap  float64
}

func newBuiltinRuleset(fillers []string, minGap float64) *builtinRuleset {
	return &builtinRuleset{fillers: fillers, minGap: minGap}
}

func (r *builtinRuleset) Revision() string { return builtinRevision }

// timecode matches "90", "12.5", and "1:30" style positions.
const timecode = `(\d+(?::\d{1,2})?(?:\.\d+)?)`

var (
	reCut     = regexp.MustCompile(`(?i)\b(?:cut|remove|delete|drop)\b(?:\s+out)?(?:\s+the)?(?:\s+(?:part|section|bit|range))?\s+(?:from\s+)?` + timecode + `\s*(?:to|through|until|-)\s*` + timecode)
	reTrim    = regexp.MustCompile(`(?i)\b(?:keep|trim)\b(?:\s+only)?(?:\s+the)?(?:\s+(?:part|section|range))?\s+(?:from\s+|to\s+)?` + timecode + `\s*(?:to|through|until|-)\s*` + timecode)
	reReorder = regexp.MustCompile(`(?i)\bmove\b\s+(?:segment|part|clip|section)\s+(\d+)\s+(?:to|before)\s+(?:position\s+)?(\d+)`)
	reOverlay = regexp.MustCompile(`(?i)\b(?:overlay|add)\b(?:\s+(?:the\s+)?(?:text|title|caption))?\s+["'“”](.+?)["'“”]\s+(?:from\s+)?` + timecode + `\s*(?:to|through|until|-)\s*` + timecode)
	reSilence = regexp.MustCompile(`(?i)\bremove\b(?:\s+the)?(?:\s+long)?\s+(?:silences?|pauses?|dead\s+air)(?:\s+(?:longer|greater)\s+than\s+(\d+(?:\.\d+)?)\s*(?:s|sec|secs|seconds?)?)?`)
	reFiller  = regexp.MustCompile(`(?i)\b(?:remove|cut|strip|drop)\b(?:\s+the)?(?:\s+all)?\s+filler(?:\s+words?)?(?:\s+like\s+([\w\s,'’]+))?`)
	reSpeedUp = regexp.MustCompile(`(?i)\bspeed\s+up\b(?:\s+(?:from\s+)?` + timecode + `\s*(?:to|-)\s*` + timecode + `)?(?:\s+by)?\s+(\d+(?:\.\d+)?)\s*x?`)
	reSlow    = regexp.MustCompile(`(?i)\bslow\s+down\b(?:\s+(?:from\s+)?` + timecode + `\s*(?:to|-)\s*` + timecode + `)?(?:\s+by)?\s+(\d+(?:\.\d+)?)\s*x?`)
	reClause  = regexp.MustCompile(`(?i)[.;\n]+|,?\s+(?:and\s+)?then\s+`)
)

func (r *builtinRuleset) Plan(_ context.Context, instructions string, _ *store.Transcript) ([]store.Operation, error) {
	var ops []store.Operation
	for _, clause := range reClause.Split(instructions, -1) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if op, ok := r.planClause(clause); ok {
			ops = append(ops, op)
		}
	}
	return ops, nil
}

// planClause matches one clause against the phrase vocabulary. Specific
// patterns run before general ones so "remove silences" is not swallowed by
// the cut matcher.
func (r *builtinRuleset) planClause(clause string) (store.Operation, bool) {
	if m := reSilence.FindStringSubmatch(clause); m != nil {
		gap := r.minGap
		if m[1] != "" {
			if parsed, err := strconv.ParseFloat(m[1], 64); err == nil && parsed > 0 {
				gap = parsed
			}
		}
		return store.Operation{Kind: store.OpRemoveSilence, MinGap: gap}, true
	}
	if m := reFiller.FindStringSubmatch(clause); m != nil {
		words := r.fillers
		if m[1] != "" {
			if listed := splitWordList(m[1]); len(listed) > 0 {
				words = listed
			}
		}
		return store.Operation{Kind: store.OpRemoveFiller, Words: words}, true
	}
	if m := reOverlay.FindStringSubmatch(clause); m != nil {
		start, ok1 := parseTimecode(m[2])
		end, ok2 := parseTimecode(m[3])
		if ok1 && ok2 && end > start {
			return store.Operation{Kind: store.OpOverlay, Start: start, End: end, Text: m[1]}, true
		}
		return store.Operation{}, false
	}
	if m := reReorder.FindStringSubmatch(clause); m != nil {
		from, err1 := strconv.Atoi(m[1])
		to, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return store.Operation{Kind: store.OpReorder, From: from, To: to}, true
		}
		return store.Operation{}, false
	}
	if m := reSpeedUp.FindStringSubmatch(clause); m != nil {
		return pacingOp(m, false)
	}
	if m := reSlow.FindStringSubmatch(clause); m != nil {
		return pacingOp(m, true)
	}
	if m := reTrim.FindStringSubmatch(clause); m != nil {
		start, ok1 := parseTimecode(m[1])
		end, ok2 := parseTimecode(m[2])
		if ok1 && ok2 && end > start {
			return store.Operation{Kind: store.OpTrim, Start: start, End: end}, true
		}
		return store.Operation{}, false
	}
	if m := reCut.FindStringSubmatch(clause); m != nil {
		start, ok1 := parseTimecode(m[1])
		end, ok2 := parseTimecode(m[2])
		if ok1 && ok2 && end > start {
			return store.Operation{Kind: store.OpCut, Start: start, End: end}, true
		}
		return store.Operation{}, false
	}
	return store.Operation{}, false
}

func pacingOp(m []string, slow bool) (store.Operation, bool) {
	factor, err := strconv.ParseFloat(m[3], 64)
	if err != nil || factor <= 0 {
		return store.Operation{}, false
	}
	if slow {
		factor = 1 / factor
	}
	op := store.Operation{Kind: store.OpAdjustPacing, Factor: factor}
	if m[1] != "" && m[2] != "" {
		start, ok1 := parseTimecode(m[1])
		end, ok2 := parseTimecode(m[2])
		if !ok1 || !ok2 || end <= start {
			return store.Operation{}, false
		}
		op.Start, op.End = start, end
	}
	return op, true
}

// parseTimecode converts "90", "12.5", or "1:30" into seconds.
func parseTimecode(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if minutes, seconds, found := strings.Cut(raw, ":"); found {
		m, err1 := strconv.ParseFloat(minutes, 64)
		s, err2 := strconv.ParseFloat(seconds, 64)
		if err1 != nil || err2 != nil || s >= 60 {
			return 0, false
		}
		return m*60 + s, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func splitWordList(raw string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	}) {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part == "" || strings.EqualFold(part, "and") || strings.EqualFold(part, "or") {
			continue
		}
		words = append(words, strings.ToLower(part))
	}
	return words
}
