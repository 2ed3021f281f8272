package help

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText formats a TopicResult for terminal output with the given width
func FormatText(result *TopicResult, width int) string {
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder

	switch result.Kind {
	case "class":
		formatClassText(&sb, result)
	case "class-list":
		formatClassListText(&sb, result, width)
	case "error", "error-list":
		formatErrorsText(&sb, result)
	default:
		fmt.Fprintf(&sb, "Unknown result kind: %s\n", result.Kind)
	}

	return sb.String()
}

// FormatJSON formats a TopicResult as JSON
func FormatJSON(result *TopicResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

func formatClassText(sb *strings.Builder, result *TopicResult) {
	fmt.Fprintf(sb, "Class: %s\n", result.Name)
	if len(result.Parents) > 0 {
		fmt.Fprintf(sb, "Parents: %s\n", strings.Join(result.Parents, ", "))
	}

	if len(result.Methods) == 0 {
		sb.WriteString("\n(no methods)\n")
		return
	}

	sb.WriteString("\nMethods:\n")

	// Align descriptions on the longest signature
	maxLen := 0
	for _, m := range result.Methods {
		if n := len(signature(m.Name, m.Arity)); n > maxLen {
			maxLen = n
		}
	}
	for _, m := range result.Methods {
		display := signature(m.Name, m.Arity)
		padding := strings.Repeat(" ", maxLen-len(display)+2)
		fmt.Fprintf(sb, "  %s%s%s\n", display, padding, m.Description)
	}
}

func formatClassListText(sb *strings.Builder, result *TopicResult, width int) {
	sb.WriteString("Built-in Classes\n")
	sb.WriteString("================\n\n")

	line := " "
	for _, name := range result.ClassNames {
		if len(line)+len(name)+1 > width && line != " " {
			sb.WriteString(line + "\n")
			line = " "
		}
		line += " " + name
	}
	if line != " " {
		sb.WriteString(line + "\n")
	}
}

func formatErrorsText(sb *strings.Builder, result *TopicResult) {
	if result.Kind == "error-list" {
		sb.WriteString("Error Catalog\n")
		sb.WriteString("=============\n\n")
	}
	for _, e := range result.Errors {
		fmt.Fprintf(sb, "%s  [%s]  %s\n", e.Code, e.Class, e.Template)
		for _, h := range e.Hints {
			fmt.Fprintf(sb, "    hint: %s\n", h)
		}
	}
}

func signature(name, arity string) string {
	return fmt.Sprintf("%s(%s)", name, arityToParams(arity))
}

// arityToParams renders an arity spec as a parameter list
func arityToParams(arity string) string {
	switch arity {
	case "", "0":
		return ""
	case "1":
		return "arg"
	case "2":
		return "arg1, arg2"
	case "0-1":
		return "arg?"
	case "1-2":
		return "arg1, arg2?"
	case "0-2":
		return "arg1?, arg2?"
	case "2-3":
		return "arg1, arg2, arg3?"
	case "1+":
		return "arg, ..."
	case "0+":
		return "..."
	default:
		return "..."
	}
}
