package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"staybook/internal/apperror"
	"staybook/internal/model"
	"staybook/internal/utils"

	"github.com/sirupsen/logrus"
)

const filterSystemPrompt = `You are a property search assistant.
Extract search filters from the user's request and return a JSON object with these fields:
- "location": city, area or neighbourhood (string or null)
- "category": one of "Apartment", "Villa", "Cottage", "House", "Any" (string or null)
- "min_price": minimum price per night (number or null)
- "max_price": maximum price per night (number or null)
- "must_have": required facilities such as "wifi", "pool", "parking" (array of strings, may be empty)

Output ONLY valid JSON. Do not include explanations or markdown.`

// Categories the model is asked to choose from
var knownCategories = []string{"Apartment", "Villa", "Cottage", "House", "Any"}

// Interpretation is a successfully parsed model reply
type Interpretation struct {
	Filter model.StructuredFilter
	Raw    string
}

// QueryInterpreter turns free text into a StructuredFilter using a language model
type QueryInterpreter struct {
	llm Completer
}

// NewQueryInterpreter creates a new interpreter
func NewQueryInterpreter(llm Completer) *QueryInterpreter {
	return &QueryInterpreter{llm: llm}
}

// Interpret asks the model for filters. Empty input is rejected without a
// model call; a reply that is not a conforming JSON object is an
// UpstreamParse error carrying the raw text.
func (qi *QueryInterpreter) Interpret(ctx context.Context, query string) (*Interpretation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.InvalidInput("Query is required")
	}

	raw, err := qi.llm.Complete(ctx, filterSystemPrompt, query)
	if err != nil {
		return nil, apperror.Upstream(err)
	}

	filter, err := ParseFilter(raw)
	if err != nil {
		utils.Logger.WithFields(logrus.Fields{
			"query": query,
			"raw":   utils.Truncate(raw, 200),
		}).WithError(err).Warn("Language model reply did not parse")
		return nil, apperror.UpstreamParse(raw, err)
	}

	utils.Logger.WithFields(logrus.Fields{
		"query":  query,
		"filter": filter,
	}).Debug("Interpreted search query")

	return &Interpretation{Filter: filter, Raw: raw}, nil
}

// ParseFilter validates and normalizes a model reply
func ParseFilter(raw string) (model.StructuredFilter, error) {
	var filter model.StructuredFilter

	fields, err := utils.ParseAIObject(raw)
	if err != nil {
		return filter, err
	}

	if filter.Location, err = optionalString(fields, "location"); err != nil {
		return filter, err
	}
	if filter.Category, err = optionalString(fields, "category"); err != nil {
		return filter, err
	}
	if filter.Category != nil {
		c := normalizeCategory(*filter.Category)
		filter.Category = &c
	}
	if filter.MinPrice, err = optionalPrice(fields, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = optionalPrice(fields, "max_price"); err != nil {
		return filter, err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return filter, fmt.Errorf("min_price %.2f is greater than max_price %.2f", *filter.MinPrice, *filter.MaxPrice)
	}
	if filter.MustHave, err = stringList(fields, "must_have"); err != nil {
		return filter, err
	}

	return filter, nil
}

func decodeField(fields map[string]json.RawMessage, key string) (any, bool, error) {
	rawValue, ok := fields[key]
	if !ok {
		return nil, false, nil
	}
	var v any
	if err := json.Unmarshal(rawValue, &v); err != nil {
		return nil, false, fmt.Errorf("%s: %w", key, err)
	}
	if v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

func optionalString(fields map[string]json.RawMessage, key string) (*string, error) {
	v, ok, err := decodeField(fields, key)
	if err != nil || !ok {
		return nil, err
	}
	s, isString := v.(string)
	if !isString {
		return nil, fmt.Errorf("%s must be a string, got %T", key, v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

func optionalPrice(fields map[string]json.RawMessage, key string) (*float64, error) {
	v, ok, err := decodeField(fields, key)
	if err != nil || !ok {
		return nil, err
	}
	n, isNumber := v.(float64)
	if !isNumber {
		return nil, fmt.Errorf("%s must be a number, got %T", key, v)
	}
	if n < 0 {
		return nil, fmt.Errorf("%s must not be negative", key)
	}
	return &n, nil
}

func stringList(fields map[string]json.RawMessage, key string) ([]string, error) {
	v, ok, err := decodeField(fields, key)
	if err != nil || !ok {
		return nil, err
	}
	items, isList := v.([]any)
	if !isList {
		return nil, fmt.Errorf("%s must be a list of strings, got %T", key, v)
	}

	var out []string
	for i, item := range items {
		s, isString := item.(string)
		if !isString {
			return nil, fmt.Errorf("%s[%d] must be a string, got %T", key, i, item)
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// normalizeCategory maps case variants of a known category to its canonical
// spelling. Unknown names are kept as given.
func normalizeCategory(c string) string {
	for _, known := range knownCategories {
		if strings.EqualFold(c, known) {
			return known
		}
	}
	return c
}
