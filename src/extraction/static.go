package extraction

import (
	"context"
	"fmt"
)

// StaticExtractor serves canned results keyed by the first page path. Used
// by tests and dry runs that must not touch the filesystem.
type StaticExtractor struct {
	Results map[string]*Result
	Errors  map[string]error
}

func NewStaticExtractor() *StaticExtractor {
	return &StaticExtractor{
		Results: make(map[string]*Result),
		Errors:  make(map[string]error),
	}
}

func (e *StaticExtractor) Extract(ctx context.Context, imagePaths []string) (*Result, error) {
	if len(imagePaths) == 0 {
		return nil, fmt.Errorf("no page images supplied")
	}
	key := imagePaths[0]
	if err, ok := e.Errors[key]; ok {
		return nil, err
	}
	if res, ok := e.Results[key]; ok {
		return res, nil
	}
	return nil, fmt.Errorf("no canned extraction for %s", key)
}
