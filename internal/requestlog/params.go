package requestlog

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
)

const (
	maxMultipartMemory = 32 << 20
	// JSON bodies above this size are passed on unread and contribute no params
	maxJSONBody = 1 << 20
)

// replayBody serves the bytes already read, then the rest of the original body
type replayBody struct {
	io.Reader
	io.Closer
}

// requestParams merges path params, query string and body into one mapping.
// Later sources win: path < query < body. A JSON body is read and put back
// so downstream handlers can still bind it.
func requestParams(r *http.Request, pathParams map[string]string) map[string]any {
	params := make(map[string]any)
	for k, v := range pathParams {
		params[k] = v
	}
	mergeValues(params, r.URL.Query())

	if r.Body == nil || r.Body == http.NoBody {
		return params
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody+1))
		r.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(raw), r.Body), Closer: r.Body}
		if err != nil || len(raw) > maxJSONBody {
			return params
		}
		var body map[string]any
		if json.Unmarshal(raw, &body) == nil {
			for k, v := range body {
				params[k] = v
			}
		}
	case "application/x-www-form-urlencoded":
		if r.ParseForm() == nil {
			mergeValues(params, r.PostForm)
		}
	case "multipart/form-data":
		if r.ParseMultipartForm(maxMultipartMemory) == nil {
			mergeValues(params, r.PostForm)
		}
	}

	return params
}

// mergeValues copies single values as strings and repeated keys as []string
func mergeValues(dst map[string]any, values url.Values) {
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			dst[k] = vs[0]
		default:
			dst[k] = append([]string(nil), vs...)
		}
	}
}
