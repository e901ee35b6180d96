package api

import (
	"fmt"

	"github.com/google/go-querystring/query"
)

// withQuery appends the url-tagged fields of opt to path.
func withQuery(path string, opt any) (string, error) {
	if opt == nil {
		return path, nil
	}
	qs, err := query.Values(opt)
	if err != nil {
		return "", fmt.Errorf("%w: encode query: %v", ErrInvalidRequest, err)
	}
	if enc := qs.Encode(); enc != "" {
		return path + "?" + enc, nil
	}
	return path, nil
}
