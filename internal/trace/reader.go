// Package trace implements trace ingestion (spec.md §6): the textual
// record format consumed by the engine. This is an external collaborator
// per spec.md §1, built to the minimum the core needs — the line-
// classification scanner is grounded on the teacher's character-scanning
// idiom (internal/parser/scanner.go), adapted from character to line
// granularity since this format is blank-line/indentation delimited
// rather than token delimited.
package trace

import (
	"fmt"
	"regexp"
	"strings"

	"dinv/internal/derive"
	"dinv/internal/errors"
	"dinv/internal/model"
)

// rawEntry is one parsed "name<TAB>value" line, before it is resolved
// against a program point's registry.
type rawEntry struct {
	name  string
	value model.Value
	seq   bool // name carried a "[]" suffix
}

// rawRecord is one fully-read record: a label plus its entries, not yet
// matched against any previously seen program point.
type rawRecord struct {
	point  string // "TAG:::SUFFIX"
	fn     string
	suffix string
	params []*ParamAST // declared parameter list, nil if label had none
	entries []rawEntry
	line    int
}

// Options carries the ingestion-level knobs from spec.md §6 that are
// external-interface concerns rather than core tuning knobs.
type Options struct {
	// Select, when non-nil, is matched as compiled against each record's
	// program-point name (spec.md §6.2); points that don't match are
	// never ingested. Case-insensitivity comes from the (?i) prefix that
	// cmd/dinv adds; Ingest adds none.
	Select *regexp.Regexp

	// InjectInvocationCounts mirrors !engine.Options.NoInvocationCounts
	// (SPEC_FULL.md §12): when true, a "num_calls" derived scalar is
	// appended at each program point's creation.
	InjectInvocationCounts bool
}

// Ingest reads one trace file's contents and returns one *model.
// ProgramPoint per distinct, selected label, in first-seen order.
// Malformed input (spec.md §7) aborts ingestion of this file with a
// errors.EngineError value; non-fatal conditions (missing values, unusual
// but well-formed data) never reach this layer.
func Ingest(filename, source string, opts Options) ([]*model.ProgramPoint, error) {
	records, err := scanRecords(filename, source)
	if err != nil {
		return nil, err
	}

	ing := &ingestor{
		filename:    filename,
		opts:        opts,
		points:      map[string]*model.ProgramPoint{},
		schemas:     map[string][]string{},
		numCallsIdx: map[string]int{},
		origIdx:     map[string][]int{},
		origStacks:  newOrigStacks(),
		invocation:  map[string]*derive.InvocationCounter{},
	}
	var order []string
	for _, rec := range records {
		if opts.Select != nil && !opts.Select.MatchString(rec.point) {
			continue
		}
		if err := ing.apply(rec); err != nil {
			return nil, err
		}
		if _, ok := seenSet(order, rec.point); !ok {
			order = append(order, rec.point)
		}
	}

	out := make([]*model.ProgramPoint, 0, len(order))
	for _, name := range order {
		out = append(out, ing.points[name])
	}
	return out, nil
}

func seenSet(order []string, name string) (int, bool) {
	for i, n := range order {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// scanRecords classifies every line as a label line, an indented entry
// line, or blank, and groups entries under their preceding label into
// rawRecords (spec.md §6: "terminated by a blank line or EOF").
func scanRecords(filename, source string) ([]*rawRecord, error) {
	lines := strings.Split(source, "\n")
	var records []*rawRecord
	var cur *rawRecord

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			cur = nil
			continue
		}

		isIndented := len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
		if isIndented {
			if len(records) == 0 {
				return nil, errors.MissingLeadingLabel(errors.Position{Filename: filename, Line: lineNo})
			}
			if cur == nil {
				return nil, errors.OrphanEntry(errors.Position{Filename: filename, Line: lineNo}, trimmed)
			}
			entry, err := parseEntryLine(filename, lineNo, trimmed)
			if err != nil {
				return nil, err
			}
			cur.entries = append(cur.entries, entry)
			continue
		}

		// A non-indented, non-blank line starts a new record.
		rec, err := parseLabel(filename, lineNo, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		cur = rec
	}

	return records, nil
}

// parseLabel parses a label line: "TAG:::SUFFIX" optionally followed by
// "(params)" (spec.md §6). A literal tab in the label is malformed
// (spec.md §7).
func parseLabel(filename string, line int, text string) (*rawRecord, error) {
	pos := errors.Position{Filename: filename, Line: line}
	if strings.ContainsRune(text, '\t') {
		return nil, errors.MalformedHeader(pos, "program point label must not contain a tab")
	}

	body := text
	var params []*ParamAST
	if open := strings.IndexByte(text, '('); open >= 0 {
		if !strings.HasSuffix(text, ")") {
			return nil, errors.MalformedHeader(pos, "unterminated parameter list")
		}
		body = text[:open]
		paramSrc := text[open+1 : len(text)-1]
		if strings.TrimSpace(paramSrc) != "" {
			ast, err := ParseParamList(paramSrc)
			if err != nil {
				return nil, errors.MalformedHeader(pos, fmt.Sprintf("invalid parameter list: %s", err))
			}
			params = ast.Params
		}
	}

	fn, suffix, ok := strings.Cut(body, ":::")
	if !ok || fn == "" || suffix == "" {
		return nil, errors.MalformedHeader(pos, fmt.Sprintf("label %q is not of the form TAG:::SUFFIX", body))
	}

	return &rawRecord{point: body, fn: fn, suffix: suffix, params: params, line: line}, nil
}

// parseEntryLine parses one "name<TAB>value" entry (spec.md §6).
func parseEntryLine(filename string, line int, text string) (rawEntry, error) {
	pos := errors.Position{Filename: filename, Line: line}
	name, rawVal, ok := strings.Cut(text, "\t")
	if !ok {
		return rawEntry{}, errors.MalformedValue(pos, fmt.Sprintf("entry %q has no tab-separated value", text))
	}
	seq := strings.HasSuffix(name, "[]")
	cleanName := strings.TrimSuffix(name, "[]")

	val, ok := ParseEntryValue(rawVal)
	if !ok {
		return rawEntry{}, errors.MalformedValue(pos, fmt.Sprintf("unrecognized value lexeme %q", rawVal))
	}
	return rawEntry{name: cleanName, value: val, seq: seq || val.Seq}, nil
}

// kindOf reports the model.Kind implied by an entry's parsed value and
// its name's "[]" suffix (spec.md §6).
func (e rawEntry) kindOf() model.Kind {
	if e.seq {
		return model.Sequence
	}
	return model.Scalar
}
