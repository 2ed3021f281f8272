// Package help describes the built-in classes and the error catalog.
// It backs the `quest describe` command.
package help

import (
	"fmt"
	"sort"
	"strings"

	qerrors "github.com/sambeau/quest/pkg/quest/errors"
	"github.com/sambeau/quest/pkg/quest/runtime"
)

// TopicResult represents the help output for a topic
type TopicResult struct {
	Kind       string               `json:"kind"`
	Name       string               `json:"name"`
	Parents    []string             `json:"parents,omitempty"`
	Methods    []runtime.MethodInfo `json:"methods,omitempty"`
	ClassNames []string             `json:"class_names,omitempty"`
	Errors     []ErrorEntry         `json:"errors,omitempty"`
}

// ErrorEntry is one catalog entry
type ErrorEntry struct {
	Code     string   `json:"code"`
	Class    string   `json:"class"`
	Template string   `json:"template"`
	Hints    []string `json:"hints,omitempty"`
}

// DescribeTopic returns help information for the given topic.
// Topics can be: a class name (Number, text), an error code (KEY-0001),
// or the keywords classes and errors.
func DescribeTopic(topic string) (*TopicResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("no topic specified (try: classes, errors, Number, Text)")
	}

	switch strings.ToLower(topic) {
	case "classes":
		return describeClasses(), nil
	case "errors":
		return describeErrors(""), nil
	}

	if result := describeClass(topic); result != nil {
		return result, nil
	}

	code := strings.ToUpper(topic)
	if _, ok := qerrors.ErrorCatalog[code]; ok {
		return describeErrors(code), nil
	}

	return nil, unknownTopicError(topic)
}

// describeClass returns help for a class, or nil if not found.
// Lookup is case insensitive.
func describeClass(topic string) *TopicResult {
	var name string
	for _, n := range runtime.ClassNames() {
		if strings.EqualFold(n, topic) {
			name = n
			break
		}
	}
	if name == "" {
		return nil
	}

	var parents []string
	for _, p := range runtime.ClassNamed(name).Parents() {
		parents = append(parents, p.String())
	}

	return &TopicResult{
		Kind:    "class",
		Name:    name,
		Parents: parents,
		Methods: runtime.MethodsFor(name),
	}
}

func describeClasses() *TopicResult {
	return &TopicResult{
		Kind:       "class-list",
		Name:       "classes",
		ClassNames: runtime.ClassNames(),
	}
}

// describeErrors lists the catalog, or the single entry for code
func describeErrors(code string) *TopicResult {
	var entries []ErrorEntry
	for c, def := range qerrors.ErrorCatalog {
		if code != "" && c != code {
			continue
		}
		entries = append(entries, ErrorEntry{
			Code:     c,
			Class:    string(def.Class),
			Template: def.Template,
			Hints:    def.Hints,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Code < entries[j].Code
	})

	result := &TopicResult{Kind: "error-list", Name: "errors", Errors: entries}
	if code != "" {
		result.Kind = "error"
		result.Name = code
	}
	return result
}

func unknownTopicError(topic string) error {
	candidates := append(runtime.ClassNames(), "classes", "errors")
	if suggestions := qerrors.FindTopMatches(topic, candidates, 3); len(suggestions) > 0 {
		return fmt.Errorf("unknown topic: %s\nDid you mean: %s?", topic, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("unknown topic: %s\nTry: classes, errors, Number, Text, KEY-0001", topic)
}
