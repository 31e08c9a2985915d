package rmw

import "sort"

// setUnion returns the sorted union of lhs and rhs.
func setUnion(lhs []string, rhs []string) []string {
	set := map[string]bool{}
	for _, item := range lhs {
		set[item] = true
	}
	for _, item := range rhs {
		set[item] = true
	}
	result := make([]string, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// mergeNamesAndTypes adds the types of src to dst under each name.
func mergeNamesAndTypes(dst, src map[string][]string) {
	for name, types := range src {
		dst[name] = setUnion(dst[name], types)
	}
}
