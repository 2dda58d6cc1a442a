package timeline

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"

	"gopkg.in/ini.v1"
)

var loadOptions = ini.LoadOptions{
	KeyValueDelimiters:  "=",
	IgnoreInlineComment: true,
}

// Load reads and validates the timeline file at path. Invalid groups are
// logged and skipped. A file that parses but yields no valid group returns
// ErrNoSegments.
func Load(path string, logger *slog.Logger) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("timeline: read %s: %w", path, err)
	}
	t, err := parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	t.source = path
	return t, nil
}

// Parse builds a timeline from INI text.
func Parse(data []byte, logger *slog.Logger) (*Timeline, error) {
	return parse(data, logger)
}

func parse(data []byte, logger *slog.Logger) (*Timeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var entries []Entry
	for _, sec := range f.Sections() {
		// ini merges a [DEFAULT] group into the unnamed section. It is a
		// segment when it carries segment keys.
		if sec.Name() == ini.DefaultSection && !hasSegmentKeys(sec) {
			if len(sec.Keys()) > 0 {
				logger.Warn("timeline: ignoring keys outside a group", "keys", len(sec.Keys()))
			}
			continue
		}
		e, err := entryFromSection(sec)
		if err != nil {
			logger.Warn("timeline: dropping invalid group", "group", sec.Name(), "reason", err)
			continue
		}
		entries = append(entries, e)
	}

	t, err := New(entries)
	if err != nil {
		return nil, err
	}
	logger.Debug("timeline: loaded", "segments", t.Len())
	return t, nil
}

func entryFromSection(sec *ini.Section) (Entry, error) {
	e := Entry{Name: sec.Name()}

	start, err := floatKey(sec, "start")
	if err != nil {
		return e, err
	}
	if start < 0 {
		return e, fmt.Errorf("negative start %g", start)
	}
	e.Start = start

	duration, err := floatKey(sec, "duration")
	if err != nil {
		return e, err
	}
	if duration <= 0 {
		return e, fmt.Errorf("non-positive duration %g", duration)
	}
	e.Duration = duration

	preset, ok := ownKey(sec, "preset")
	if !ok {
		return e, errors.New("missing preset")
	}
	e.Preset = strings.TrimSpace(preset.String())
	if e.Preset == "" {
		return e, errors.New("empty preset")
	}

	if complexity, ok := ownKey(sec, "complexity"); ok {
		e.Complexity = strings.TrimSpace(complexity.String())
	}
	return e, nil
}

// ownKey returns a key set in sec itself. Section.Key falls back to the
// parent of a dotted group name, which timeline groups never inherit from.
func ownKey(sec *ini.Section, name string) (*ini.Key, bool) {
	if !slices.Contains(sec.KeyStrings(), name) {
		return nil, false
	}
	return sec.Key(name), true
}

func hasSegmentKeys(sec *ini.Section) bool {
	for _, name := range []string{"start", "duration", "preset"} {
		if _, ok := ownKey(sec, name); ok {
			return true
		}
	}
	return false
}

func floatKey(sec *ini.Section, name string) (float64, error) {
	k, ok := ownKey(sec, name)
	if !ok {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := k.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s: not finite", name)
	}
	return v, nil
}
