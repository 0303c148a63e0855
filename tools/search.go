package tools

import (
	"context"

	"github.com/richinex/tubegate/auth"
)

const (
	DefaultSearchResults = 5
	MaxSearchResults     = 50

	DefaultTrendingResults = 10
	DefaultRegion          = "IN"
)

// SearchTool runs a keyword video search.
type SearchTool struct {
	upstream Upstream
}

// NewSearchTool creates a search tool.
func NewSearchTool(upstream Upstream) *SearchTool {
	return &SearchTool{upstream: upstream}
}

// Metadata returns the tool metadata.
func (t *SearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "search",
		Description: "Search videos by keyword",
		Parameters: []ToolParameter{
			{Name: "query", ParamType: "string", Description: "Search terms", Required: true},
			{Name: "maxResults", ParamType: "integer", Description: "Number of results, 1-50 (default 5)", Required: false},
		},
		Aliases: []string{"youtube.search"},
	}
}

// Validate validates the arguments.
func (t *SearchTool) Validate(in Input) error {
	if _, err := in.RequireString("query"); err != nil {
		return err
	}
	_, err := in.IntInRange("maxResults", DefaultSearchResults, 1, MaxSearchResults)
	return err
}

// Execute runs the search.
func (t *SearchTool) Execute(ctx context.Context, ac auth.Context, in Input) (any, error) {
	token, err := ac.Require()
	if err != nil {
		return nil, err
	}
	q, _ := in.String("query")
	n, err := in.IntInRange("maxResults", DefaultSearchResults, 1, MaxSearchResults)
	if err != nil {
		return nil, err
	}

	page, err := t.upstream.Search(ctx, token, q, n)
	if err != nil {
		return nil, err
	}
	return itemsOf(page), nil
}

// NaturalSearchTool searches from a free-text request such as
// "show me 4 videos of bmw".
type NaturalSearchTool struct {
	upstream    Upstream
	interpreter Interpreter
}

// NewNaturalSearchTool creates a natural-language search tool.
func NewNaturalSearchTool(upstream Upstream, interpreter Interpreter) *NaturalSearchTool {
	return &NaturalSearchTool{upstream: upstream, interpreter: interpreter}
}

// Metadata returns the tool metadata.
func (t *NaturalSearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "naturalSearch",
		Description: "Search videos from a natural-language request; resolves topic and count (1-10)",
		Parameters: []ToolParameter{
			{Name: "prompt", ParamType: "string", Description: "What the user asked for", Required: true},
		},
		Aliases: []string{"youtube.naturalSearch"},
	}
}

// Validate validates the arguments.
func (t *NaturalSearchTool) Validate(in Input) error {
	_, err := in.RequireString("prompt")
	return err
}

// Execute interprets the prompt and runs the resolved search.
func (t *NaturalSearchTool) Execute(ctx context.Context, ac auth.Context, in Input) (any, error) {
	token, err := ac.Require()
	if err != nil {
		return nil, err
	}
	if t.interpreter == nil {
		return nil, internalf("naturalSearch has no interpreter")
	}
	prompt, _ := in.String("prompt")
	q := t.interpreter.Interpret(ctx, prompt)

	page, err := t.upstream.Search(ctx, token, q.Topic, q.Count)
	if err != nil {
		return nil, err
	}
	result := itemsOf(page)
	result.Query = &q
	return result, nil
}

// TrendingTool lists the most popular videos in a region.
type TrendingTool struct {
	upstream Upstream
	region   string
}

// NewTrendingTool creates a trending tool. An empty region uses DefaultRegion.
func NewTrendingTool(upstream Upstream, region string) *TrendingTool {
	if region == "" {
		region = DefaultRegion
	}
	return &TrendingTool{upstream: upstream, region: region}
}

// Metadata returns the tool metadata.
func (t *TrendingTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "trending",
		Description: "List the most popular videos in a region",
		Parameters: []ToolParameter{
			{Name: "regionCode", ParamType: "string", Description: "ISO 3166-1 alpha-2 region (default " + t.region + ")", Required: false},
			{Name: "maxResults", ParamType: "integer", Description: "Number of results, 1-50 (default 10)", Required: false},
		},
		Aliases: []string{"youtube.trending"},
	}
}

// Validate validates the arguments.
func (t *TrendingTool) Validate(in Input) error {
	if region, ok := in.String("regionCode"); ok && len(region) != 2 {
		return invalidInputf("regionCode must be a two-letter country code")
	}
	_, err := in.IntInRange("maxResults", DefaultTrendingResults, 1, MaxSearchResults)
	return err
}

// Execute fetches the chart.
func (t *TrendingTool) Execute(ctx context.Context, ac auth.Context, in Input) (any, error) {
	token, err := ac.Require()
	if err != nil {
		return nil, err
	}
	region, ok := in.String("regionCode")
	if !ok {
		region = t.region
	}
	n, err := in.IntInRange("maxResults", DefaultTrendingResults, 1, MaxSearchResults)
	if err != nil {
		return nil, err
	}

	page, err := t.upstream.Trending(ctx, token, region, n)
	if err != nil {
		return nil, err
	}
	return itemsOf(page), nil
}

var (
	_ Tool = (*SearchTool)(nil)
	_ Tool = (*NaturalSearchTool)(nil)
	_ Tool = (*TrendingTool)(nil)
)
