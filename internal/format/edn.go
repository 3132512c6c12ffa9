package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Values go through JSON first so struct tags decide
// the key names; object keys become keywords (:menuId) and arrays become vectors.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}

	p := ednPrinter{pretty: pretty}
	p.value(generic, 0)
	p.sb.WriteByte('\n')
	_, err = io.WriteString(w, p.sb.String())
	return err
}

type ednPrinter struct {
	sb     strings.Builder
	pretty bool
}

func (p *ednPrinter) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		p.sb.WriteString("nil")
	case bool:
		p.sb.WriteString(strconv.FormatBool(t))
	case string:
		p.sb.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			p.sb.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			p.sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		p.sb.WriteByte('[')
		for i, el := range t {
			p.sep(i, level+1)
			p.value(el, level+1)
		}
		p.close(len(t), level)
		p.sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		p.sb.WriteByte('{')
		for i, k := range keys {
			p.sep(i, level+1)
			p.sb.WriteString(keyword(k))
			p.sb.WriteByte(' ')
			p.value(t[k], level+1)
		}
		p.close(len(keys), level)
		p.sb.WriteByte('}')
	default:
		p.sb.WriteString(strconv.Quote(fmt.Sprint(t)))
	}
}

// sep writes what goes before the i-th element of a collection.
func (p *ednPrinter) sep(i, level int) {
	switch {
	case p.pretty:
		p.sb.WriteByte('\n')
		p.sb.WriteString(strings.Repeat("  ", level))
	case i > 0:
		p.sb.WriteByte(' ')
	}
}

func (p *ednPrinter) close(n, level int) {
	if p.pretty && n > 0 {
		p.sb.WriteByte('\n')
		p.sb.WriteString(strings.Repeat("  ", level))
	}
}

func keyword(k string) string {
	return ":" + strings.ReplaceAll(strings.TrimSpace(k), " ", "-")
}
