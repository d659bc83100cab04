package web

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"bookstall/app"
)

var templateFuncs = template.FuncMap{
	"price":   app.FormatPrice,
	"rating":  func(r float64) string { return fmt.Sprintf("%.1f", r) },
	"join":    strings.Join,
	"pageURL": pageURL,
	"postURL": postURL,
}

// cloneParams copies v so template helpers never modify the page parameters
func cloneParams(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// pageURL returns a storefront link with the given key/value pairs replaced.
// An empty value removes the key.
func pageURL(params url.Values, kv ...string) template.URL {
	v := cloneParams(params)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			v.Del(kv[i])
		} else {
			v.Set(kv[i], kv[i+1])
		}
	}
	return template.URL("/?" + v.Encode())
}

// postURL builds a form action for a cart endpoint that keeps the page parameters
func postURL(prefix, id string, params url.Values) template.URL {
	path := prefix
	if id != "" {
		path += url.PathEscape(id)
	}
	return template.URL(actionURL(path, params))
}
