// Package spec ships the Trip Explorer OpenAPI document inside the binary.
package spec

import (
	_ "embed"
	"hash/fnv"
	"net/http"
	"strconv"
)

//go:embed openapi.yaml
var OpenAPI []byte

// Handler serves the embedded document as YAML. Browsers and API clients
// revalidate through the ETag, which changes with every build that edits it.
func Handler() http.Handler {
	sum := fnv.New64a()
	_, _ = sum.Write(OpenAPI)
	etag := `"` + strconv.FormatUint(sum.Sum64(), 16) + `"`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Content-Length", strconv.Itoa(len(OpenAPI)))
		_, _ = w.Write(OpenAPI)
	})
}
