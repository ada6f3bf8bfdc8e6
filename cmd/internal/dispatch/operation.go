// Package dispatch classifies an incoming request (method, path and
// canonical field map) into exactly one appointment operation, and
// resolves that field map from whichever transport shape the request
// used.
package dispatch

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindIndex
	KindList
	KindGetOne
	KindCreate
	KindUpdate
	KindDelete
)

type Filters struct {
	Date   string
	Status string
	Email  string
}

// Operation is the single classified intent of a request. Which fields
// are meaningful depends on Kind: ID for GetOne, Filters for List,
// Fields for Create/Update/Delete, Path/Method for NotFound.
type Operation struct {
	Kind    Kind
	ID      int
	Filters Filters
	Fields  FieldMap
	Path    string
	Method  string
}

// FieldMap is the canonical representation of request input, shared by
// all operations regardless of the original transport encoding.
type FieldMap map[string]any

func (f FieldMap) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Str returns the value for key as a trimmed string. JSON numbers are
// rendered without an exponent so an id sent as 5 reads as "5".
func (f FieldMap) Str(key string) string {
	switch v := f[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}
