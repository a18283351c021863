package rule

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/DaxxTrias/ProximityAlert/core"
)

// Record layout: <key>;<text>;<color>;<distance>;<sound>
const (
	fieldKey = iota
	fieldText
	fieldColor
	fieldDistance
	fieldSound
	fieldCount
)

// Sentinel errors for rejected records
var (
	ErrTooFewFields = errors.New("rule: too few fields")
	ErrEmptyKey     = errors.New("rule: empty match key")
	ErrDuplicateKey = errors.New("rule: duplicate match key")
)

// ParseRecord parses one rule line
// Returns ok=false with no error for blank and comment lines
// Unparseable color falls back to opaque white, unparseable distance to DistanceAlways
func ParseRecord(line string) (key string, w *Warning, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", nil, false, nil
	}
	if !strings.Contains(trimmed, ";") {
		return "", nil, false, ErrTooFewFields
	}

	parts := strings.SplitN(trimmed, ";", fieldCount)
	if len(parts) < fieldCount {
		return "", nil, false, ErrTooFewFields
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[fieldKey] == "" {
		return "", nil, false, ErrEmptyKey
	}

	distance := DistanceAlways
	if d, perr := strconv.Atoi(parts[fieldDistance]); perr == nil {
		distance = d
	}

	return parts[fieldKey], &Warning{
		Text:            parts[fieldText],
		Color:           core.ParseHex(parts[fieldColor]),
		TriggerDistance: distance,
		SoundRef:        parts[fieldSound],
	}, true, nil
}

// Load builds a table from raw records, skipping malformed ones
// Never fails; rejected records are logged at debug level
func Load(kind Kind, lines []string, log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}

	t := NewTable(kind)
	for i, line := range lines {
		key, w, ok, err := ParseRecord(line)
		if err != nil {
			log.Debug("rule record skipped", zap.Int("line", i+1), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		if !t.add(key, w) {
			log.Debug("rule record skipped",
				zap.Int("line", i+1),
				zap.String("key", key),
				zap.Error(ErrDuplicateKey),
			)
		}
	}
	return t
}

// LoadReader reads records line by line from r
func LoadReader(kind Kind, r io.Reader, log *zap.Logger) (*Table, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return Load(kind, lines, log), nil
}

// LoadFile reads a rule file from disk
func LoadFile(kind Kind, path string, log *zap.Logger) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()

	t, err := LoadReader(kind, f, log)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", path, err)
	}
	return t, nil
}
