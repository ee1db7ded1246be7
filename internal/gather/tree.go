package gather

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type node struct {
	name     string
	children map[string]*node
}

func (n *node) sorted() []*node {
	out := make([]*node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// RenderTree draws files (slash-separated, relative to root) the way
// `tree` does, followed by a directory and file count.
func RenderTree(root string, files []string) string {
	top := &node{name: root, children: map[string]*node{}}
	for _, f := range files {
		cur := top
		for _, part := range strings.Split(filepath.ToSlash(f), "/") {
			if part == "" {
				continue
			}
			next, ok := cur.children[part]
			if !ok {
				next = &node{name: part, children: map[string]*node{}}
				cur.children[part] = next
			}
			cur = next
		}
	}

	var b strings.Builder
	b.WriteString(root + "\n")
	dirs, nfiles := 0, 0
	var walk func(n *node, prefix string)
	walk = func(n *node, prefix string) {
		kids := n.sorted()
		for i, c := range kids {
			branch, indent := "├── ", "│   "
			if i == len(kids)-1 {
				branch, indent = "└── ", "    "
			}
			b.WriteString(prefix + branch + c.name + "\n")
			if len(c.children) > 0 {
				dirs++
				walk(c, prefix+indent)
			} else {
				nfiles++
			}
		}
	}
	walk(top, "")

	fmt.Fprintf(&b, "\n%d %s, %d %s\n", dirs, plural(dirs, "directory", "directories"), nfiles, plural(nfiles, "file", "files"))
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
