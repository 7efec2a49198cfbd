// Package prompts holds the LLM prompt templates of the proposal generator.
// Templates are JSON key maps embedded at compile time; a key may carry a
// ".<lang>" suffix for a translated variant.
package prompts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var templateFS embed.FS

// NotFoundError reports a missing template file or key.
type NotFoundError struct {
	File string
	Key  string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("prompt file %s not found", e.File)
	}
	return fmt.Sprintf("prompt key %q not found in %s", e.Key, e.File)
}

var (
	loadOnce sync.Once
	library  map[string]map[string]string
	loadErr  error
)

// load parses every embedded file once
func load() (map[string]map[string]string, error) {
	loadOnce.Do(func() {
		library, loadErr = parseAll(templateFS)
	})
	return library, loadErr
}

func parseAll(fsys fs.FS) (map[string]map[string]string, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]string, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read prompt file %s: %w", name, err)
		}
		var keys map[string]string
		if err := json.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("parse prompt file %s: %w", name, err)
		}
		out[path.Base(name)] = keys
	}
	return out, nil
}

func file(name string) (map[string]string, error) {
	lib, err := load()
	if err != nil {
		return nil, err
	}
	keys, ok := lib[name]
	if !ok {
		return nil, &NotFoundError{File: name}
	}
	return keys, nil
}

// Get returns the template stored under key in the named file (e.g. "proposal.json").
func Get(filename, key string) (string, error) {
	keys, err := file(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := keys[key]
	if !ok {
		return "", &NotFoundError{File: filename, Key: key}
	}
	return tmpl, nil
}

// GetLocalized prefers "key.lang" and falls back to "key".
func GetLocalized(filename, key, lang string) (string, error) {
	if lang != "" {
		tmpl, err := Get(filename, key+"."+lang)
		var nf *NotFoundError
		if err == nil || !errors.As(err, &nf) || nf.Key == "" {
			return tmpl, err
		}
	}
	return Get(filename, key)
}

// MustGet panics when the template is missing. Only for embedded templates.
func MustGet(filename, key string) string {
	return must(Get(filename, key))
}

// MustGetLocalized panics when neither the translation nor the base key exists.
func MustGetLocalized(filename, key, lang string) string {
	return must(GetLocalized(filename, key, lang))
}

func must(tmpl string, err error) string {
	if err != nil {
		panic("prompts: " + err.Error())
	}
	return tmpl
}

// Format substitutes {{.Name}} placeholders. Unknown placeholders are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for name, value := range data {
		pairs = append(pairs, "{{."+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the keys of a file in sorted order.
func List(filename string) ([]string, error) {
	keys, err := file(filename)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
