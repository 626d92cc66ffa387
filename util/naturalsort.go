package util

import "sort"

// NaturalCompare compares two strings treating embedded digit runs as
// integers, so "file2" orders before "file10". Returns -1, 0, or 1.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			an := digitRunEnd(a, i)
			bn := digitRunEnd(b, j)
			if c := compareDigits(a[i:an], b[j:bn]); c != 0 {
				return c
			}
			i, j = an, bn
			continue
		}
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

// NaturalLess reports whether a orders before b under natural comparison.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// SortNatural sorts ss in place in natural order.
func SortNatural(ss []string) {
	sort.Slice(ss, func(i, j int) bool {
		return NaturalLess(ss[i], ss[j])
	})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digitRunEnd returns the index just past the digit run beginning at i.
func digitRunEnd(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// compareDigits compares two digit runs by numeric value without
// converting to integers, so arbitrarily long runs never overflow.
func compareDigits(a, b string) int {
	a = trimZeros(a)
	b = trimZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func trimZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}
