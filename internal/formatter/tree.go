package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xlab/treeprint"
)

const defaultMaxArrayInline = 4

// OutlineOptions control FormatOutline.
type OutlineOptions struct {
	// NoValues hides scalar values and shows keys only.
	NoValues bool
	// MaxDepth limits nesting (0 = unlimited).
	MaxDepth int
	// MaxArrayInline is the longest scalar sequence shown inline.
	MaxArrayInline int
	// Marks annotates keys by their address joined with ':', for example
	// the widget a key carries.
	Marks map[string]string
}

// FormatOutline draws a scene tree with its keys in sorted order.
func FormatOutline(tree any, opts OutlineOptions) string {
	if opts.MaxArrayInline == 0 {
		opts.MaxArrayInline = defaultMaxArrayInline
	}
	root := treeprint.New()
	switch t := tree.(type) {
	case map[string]any:
		addMapping(root, nil, t, opts, 0)
	case nil:
	default:
		root.AddNode(scalarText(t))
	}
	return root.String()
}

func addMapping(branch treeprint.Tree, path []string, m map[string]any, opts OutlineOptions, depth int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		addEntry(branch, append(path[:len(path):len(path)], k), m[k], opts, depth)
	}
}

func addEntry(branch treeprint.Tree, path []string, val any, opts OutlineOptions, depth int) {
	label := path[len(path)-1]
	if mark, ok := opts.Marks[strings.Join(path, ":")]; ok {
		label += " <" + mark + ">"
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode(label + ": ...")
		return
	}

	switch v := val.(type) {
	case map[string]any:
		if len(v) == 0 {
			branch.AddNode(withValue(label, "{}", opts))
			return
		}
		addMapping(branch.AddBranch(label), path, v, opts, depth+1)
	case []any:
		switch {
		case len(v) == 0:
			branch.AddNode(withValue(label, "[]", opts))
		case isScalarArray(v) && len(v) <= opts.MaxArrayInline:
			branch.AddNode(withValue(label, inlineArray(v), opts))
		case isScalarArray(v):
			branch.AddNode(withValue(label, fmt.Sprintf("[%d items]", len(v)), opts))
		default:
			child := branch.AddBranch(label)
			for i, item := range v {
				addEntry(child, append(path[:len(path):len(path)], fmt.Sprintf("[%d]", i)), item, opts, depth+1)
			}
		}
	default:
		branch.AddNode(withValue(label, scalarText(v), opts))
	}
}

func withValue(label, value string, opts OutlineOptions) string {
	if opts.NoValues {
		return label
	}
	return label + ": " + value
}

func isScalarArray(arr []any) bool {
	for _, item := range arr {
		switch item.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func inlineArray(arr []any) string {
	parts := make([]string, len(arr))
	for i, item := range arr {
		parts[i] = scalarText(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		if strings.Contains(t, "\n") {
			first, _, _ := strings.Cut(t, "\n")
			return first + " …"
		}
		return t
	}
	return Stringify(v)
}
