package scene

import (
	"strconv"
	"strings"
)

// DescribeObject renders the single descriptive line for one detection class.
// The "(s)" marker is appended whatever the count is.
func DescribeObject(obj DetectedObject) string {
	positions := make([]string, len(obj.Positions))
	for i, p := range obj.Positions {
		positions[i] = p.String()
	}

	var sb strings.Builder
	sb.WriteString("There are ")
	sb.WriteString(strconv.Itoa(obj.Count))
	sb.WriteString(" ")
	sb.WriteString(obj.Label)
	sb.WriteString("(s) detected with ")
	sb.WriteString(formatPercent(obj.Confidence))
	sb.WriteString(" confidence at positions ")
	sb.WriteString(strings.Join(positions, ", "))
	sb.WriteString(".")
	return sb.String()
}

// Describe renders one line per object, in input order, joined by newlines.
// An empty slice yields an empty string.
func Describe(objects []DetectedObject) string {
	lines := make([]string, len(objects))
	for i, obj := range objects {
		lines[i] = DescribeObject(obj)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt renders objects and timestamp with the default template.
func BuildPrompt(objects []DetectedObject, timestamp string) string {
	return Default().Render(objects, timestamp)
}
