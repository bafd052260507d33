package static

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

var headClose = regexp.MustCompile(`(?i)</head>`)

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// Injector embeds the allow-listed environment values into HTML documents
// as window.ENV. Keys that are not set are left out.
type Injector struct {
	keys   []string
	lookup LookupFunc
}

func NewInjector(keys []string, lookup LookupFunc) *Injector {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Injector{keys: keys, lookup: lookup}
}

// Values returns the allow-listed keys that are currently set
func (i *Injector) Values() map[string]string {
	values := make(map[string]string, len(i.keys))
	for _, key := range i.keys {
		if v, ok := i.lookup(key); ok {
			values[key] = v
		}
	}
	return values
}

// Script renders the tag. encoding/json escapes <, > and & so a value cannot
// close the script element.
func (i *Injector) Script() ([]byte, error) {
	payload, err := json.Marshal(i.Values())
	if err != nil {
		return nil, fmt.Errorf("encode public config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<script>window.ENV = ")
	buf.Write(payload)
	buf.WriteString(";</script>")
	return buf.Bytes(), nil
}

// Inject puts the script right before the first </head>, matched without
// regard to case. A document without one gets the script prepended.
func (i *Injector) Inject(doc []byte) ([]byte, error) {
	script, err := i.Script()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(doc)+len(script))
	loc := headClose.FindIndex(doc)
	if loc == nil {
		out = append(out, script...)
		return append(out, doc...), nil
	}

	out = append(out, doc[:loc[0]]...)
	out = append(out, script...)
	return append(out, doc[loc[0]:]...), nil
}
