package quillkit

import (
	"sort"
	"strings"
	"unicode"
)

// searchIndex is a small inverted index over visible posts, rebuilt whenever
// the post cache reloads. Title and tag hits are weighted above body hits so
// a query matching a post's title outranks one buried in prose.
type searchIndex struct {
	postings map[string]map[int]int // term -> post index -> weighted hits
}

const (
	weightTitle = 4
	weightTag   = 3
	weightBody  = 1
)

func buildSearchIndex(posts []BlogPost) *searchIndex {
	idx := &searchIndex{postings: make(map[string]map[int]int)}
	for i, p := range posts {
		idx.addTerms(i, p.Title, weightTitle)
		idx.addTerms(i, strings.Join(p.Tags, " "), weightTag)
		idx.addTerms(i, p.Summary, weightBody)
		idx.addTerms(i, p.Content, weightBody)
	}
	return idx
}

func (idx *searchIndex) addTerms(post int, text string, weight int) {
	for _, term := range tokenize(text) {
		m := idx.postings[term]
		if m == nil {
			m = make(map[int]int)
			idx.postings[term] = m
		}
		m[post] += weight
	}
}

// search scores posts by summed term weight; every query term must match at
// least one indexed term (prefix match allowed for the final term, so typing
// "sched" finds "scheduling").
func (idx *searchIndex) search(query string, posts []BlogPost) []BlogPost {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	scores := make(map[int]int)
	for qi, term := range terms {
		hits := idx.postings[term]
		if hits == nil && qi == len(terms)-1 {
			hits = idx.prefixHits(term)
		}
		if len(hits) == 0 {
			return nil
		}
		if qi == 0 {
			for post, w := range hits {
				scores[post] = w
			}
			continue
		}
		for post := range scores {
			w, ok := hits[post]
			if !ok {
				delete(scores, post)
				continue
			}
			scores[post] += w
		}
		if len(scores) == 0 {
			return nil
		}
	}

	order := make([]int, 0, len(scores))
	for post := range scores {
		order = append(order, post)
	}
	sort.Slice(order, func(i, j int) bool {
		if scores[order[i]] != scores[order[j]] {
			return scores[order[i]] > scores[order[j]]
		}
		return order[i] < order[j] // cache order is newest-first
	})

	results := make([]BlogPost, 0, len(order))
	for _, post := range order {
		results = append(results, posts[post])
	}
	return results
}

func (idx *searchIndex) prefixHits(prefix string) map[int]int {
	var merged map[int]int
	for term, hits := range idx.postings {
		if !strings.HasPrefix(term, prefix) {
			continue
		}
		if merged == nil {
			merged = make(map[int]int)
		}
		for post, w := range hits {
			merged[post] += w
		}
	}
	return merged
}

// tokenize lowercases and splits on anything that is not a letter or digit.
// Single-rune tokens are dropped; they match too much to rank anything.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			terms = append(terms, f)
		}
	}
	return terms
}

func sortedTags(set map[string]struct{}) []string {
	var tags []string
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
