package api

import (
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// links maps operation paths to their RFC 8288 Link header values.
// Enables restish hypermedia navigation via `restish links <url>`.
var links = map[string][]string{
	"/health": {
		`</api/v1/info>; rel="info"`,
		`</api/v1/scene/layers>; rel="layers"`,
		`</api/v1/scene/basemaps>; rel="basemaps"`,
	},
	"/api/v1/info": {
		`</health>; rel="health"`,
		`</api/v1/scene/layers>; rel="layers"`,
	},
	"/api/v1/scene/layers": {
		`</api/v1/scene/basemaps>; rel="basemaps"`,
		`</api/v1/scene/priority>; rel="priority"`,
		`</api/v1/scene/highlight>; rel="highlight"`,
	},
	"/api/v1/scene/basemaps": {
		`</api/v1/scene/layers>; rel="layers"`,
	},
	"/api/v1/scene/highlight": {
		`</api/v1/scene/reset>; rel="reset"`,
		`</api/v1/scene/zoom>; rel="zoom"`,
	},
}

// LinkTransformer returns a Huma Transformer that injects RFC 8288 Link headers.
func LinkTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range links[op.Path] {
			ctx.AppendHeader("Link", link)
		}

		// Item endpoints get a self link
		if strings.Contains(op.Path, "{") {
			ctx.AppendHeader("Link", fmt.Sprintf(`<%s>; rel="self"`, ctx.URL().Path))
		}

		return v, nil
	}
}
