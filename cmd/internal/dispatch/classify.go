package dispatch

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	collectionPattern = "/api/appointments"
	itemPattern       = "/api/appointments/{id}"

	// Legacy single-endpoint convention: a POST to the collection may
	// carry an action field naming the intended operation.
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

// Classify maps a request onto one Operation. All routing and
// precedence rules live here: the legacy action field wins over the
// id-presence heuristic, and delete is checked before update because a
// delete payload legitimately carries an id.
func Classify(method, path string, query url.Values, fields FieldMap) Operation {
	path = normalizePath(path)
	if fields == nil {
		fields = FieldMap{}
	}

	if path == "/" && method == http.MethodGet {
		return Operation{Kind: KindIndex}
	}

	if path == collectionPattern {
		switch method {
		case http.MethodGet:
			return Operation{Kind: KindList, Filters: Filters{
				Date:   query.Get("date"),
				Status: query.Get("status"),
				Email:  query.Get("email"),
			}}
		case http.MethodPost:
			return classifyPost(fields)
		}
	}

	if params, ok := matchPattern(itemPattern, path); ok {
		// Item routes only match numeric ids; anything else falls
		// through to not-found.
		if raw := params["id"]; isDigits(raw) {
			id, err := strconv.Atoi(raw)
			if err == nil {
				switch method {
				case http.MethodGet:
					return Operation{Kind: KindGetOne, ID: id}
				case http.MethodPut, http.MethodPatch:
					// The path id overrides any id in the body.
					fields["id"] = raw
					return Operation{Kind: KindUpdate, Fields: fields}
				case http.MethodDelete:
					return Operation{Kind: KindDelete, Fields: FieldMap{"id": raw}}
				}
			}
		}
	}

	return Operation{Kind: KindNotFound, Path: path, Method: method}
}

func classifyPost(fields FieldMap) Operation {
	switch fields.Str("action") {
	case actionDelete:
		return Operation{Kind: KindDelete, Fields: fields}
	case actionCreate:
		return Operation{Kind: KindCreate, Fields: fields}
	case actionUpdate:
		return Operation{Kind: KindUpdate, Fields: fields}
	}
	if fields.Has("id") {
		return Operation{Kind: KindUpdate, Fields: fields}
	}
	return Operation{Kind: KindCreate, Fields: fields}
}
