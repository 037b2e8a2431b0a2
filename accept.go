package bfault

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// AnyMediaType is the media range that accepts everything.
const AnyMediaType = "*/*"

// MediaRange is one entry of an Accept header.
type MediaRange struct {
	Type    string            // e.g. "application/json", as sent by the client
	Quality float64           // q parameter, 1 when absent
	Params  map[string]string // other parameters, keys lower-cased
}

// AcceptedMediaTypes returns the media ranges of the request's Accept header in the order in
// which the client declared them. Ranges with a quality of zero are dropped, other quality values
// do not reorder the list. A request without an Accept header yields nil which means: anything
// is acceptable.
func AcceptedMediaTypes(r *http.Request) []MediaRange {
	if r == nil {
		return nil
	}

	return ParseAccept(strings.Join(r.Header.Values("Accept"), ","))
}

// ParseAccept parses the value of an Accept header. See [AcceptedMediaTypes].
func ParseAccept(header string) []MediaRange {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	return lo.FilterMap(strings.Split(header, ","), func(part string, _ int) (MediaRange, bool) {
		mr, ok := parseMediaRange(strings.TrimSpace(part))
		return mr, ok && mr.Quality > 0
	})
}

// parseMediaRange parses a single entry like "application/json;q=0.8".
func parseMediaRange(s string) (MediaRange, bool) {
	params := strings.Split(s, ";")

	main, sub, ok := strings.Cut(strings.TrimSpace(params[0]), "/")
	if !ok {
		return MediaRange{}, false
	}

	main, sub = strings.TrimSpace(main), strings.TrimSpace(sub)
	if main == "" || sub == "" {
		return MediaRange{}, false
	}

	mr := MediaRange{Type: main + "/" + sub, Quality: 1}
	for _, param := range params[1:] {
		key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.Trim(strings.TrimSpace(val), `"`)

		if key == "q" {
			if q, err := strconv.ParseFloat(val, 64); err == nil && q >= 0 && q <= 1 {
				mr.Quality = q
			}

			continue
		}

		if mr.Params == nil {
			mr.Params = map[string]string{}
		}

		mr.Params[key] = val
	}

	return mr, true
}
