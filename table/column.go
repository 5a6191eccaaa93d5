// Package table holds the state and render logic of the paginated,
// searchable data table shared by the web and terminal front-ends.
// A Table never fetches; its owner feeds it rows and a loading flag.
package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jmespath/go-jmespath"
)

// Column maps a display heading to a dotted field path within a row.
type Column struct {
	Label string
	Field string
	Width string // rendering hint, e.g. "200px"
}

// Row is one server-returned record. Its shape belongs to the API.
type Row map[string]any

var (
	pathMu    sync.Mutex
	pathCache = make(map[string]*jmespath.JMESPath)
)

// compilePath turns "author.firstName" into the quoted JMESPath
// expression "author"."firstName" so that keys like "_id" or "meta-tags"
// need no escaping by the caller.
func compilePath(field string) (*jmespath.JMESPath, error) {
	pathMu.Lock()
	defer pathMu.Unlock()
	if jp, ok := pathCache[field]; ok {
		return jp, nil
	}
	segments := strings.Split(field, ".")
	quoted := make([]string, len(segments))
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("table: empty segment in field path %q", field)
		}
		b, err := json.Marshal(seg)
		if err != nil {
			return nil, err
		}
		quoted[i] = string(b)
	}
	jp, err := jmespath.Compile(strings.Join(quoted, "."))
	if err != nil {
		return nil, fmt.Errorf("table: compile field path %q: %w", field, err)
	}
	pathCache[field] = jp
	return jp, nil
}

// Resolve walks the dotted field path through row. Any missing segment,
// or a segment that lands on a non-object, yields ok == false.
// Nested objects must be map[string]any, as produced by encoding/json.
func Resolve(row Row, field string) (any, bool) {
	if row == nil || field == "" {
		return nil, false
	}
	jp, err := compilePath(field)
	if err != nil {
		return nil, false
	}
	v, err := jp.Search(map[string]any(row))
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// Cell returns the display text for col in row. Absent values are empty.
func Cell(row Row, col Column) string {
	v, ok := Resolve(row, col.Field)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// FormatValue renders a decoded JSON value as display text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
