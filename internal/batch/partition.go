// Package batch partitions written import items into size-bounded zip
// archives and integrity-checks each archive with an external tool.
package batch

import (
	"fmt"
	"os"
	"strings"
)

// Partition splits the item list into parts whose sizes differ by at
// most one. Exactly one of parts/size may be set; with neither, the
// list stays whole up to maxBatch items and splits by maxBatch beyond
// that.
func Partition(items []string, parts, size, maxBatch int) ([][]string, error) {
	if parts > 0 && size > 0 {
		return nil, fmt.Errorf("part count and part size are mutually exclusive")
	}
	n := len(items)
	if n == 0 {
		return nil, nil
	}

	count := 1
	switch {
	case size > 0:
		count = ceilDiv(n, size)
	case parts > 1:
		count = parts
	case parts <= 0 && size <= 0:
		if maxBatch > 0 && n > maxBatch {
			count = ceilDiv(n, maxBatch)
		}
	}
	if count > n {
		count = n
	}

	// Rebalance so memberships differ by at most one: the first `extra`
	// parts give up one item each.
	per := ceilDiv(n, count)
	extra := count*per - n

	out := make([][]string, 0, count)
	at := 0
	for i := 0; i < count; i++ {
		take := per
		if extra > 0 {
			take--
			extra--
		}
		out = append(out, items[at:at+take])
		at += take
	}
	return out, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// ListItems returns the item directory names under the import root in
// lexicographic order, the order partitioning operates on.
func ListItems(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read import root %s: %w", root, err)
	}
	var items []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		items = append(items, e.Name())
	}
	return items, nil
}
