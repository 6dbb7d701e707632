// Package lexical implements a sparse term-weighting (tf-idf) vector space
// with unigram/bigram tokenization, stop word removal and document-frequency
// pruning. Vectors are l2-normalized so cosine similarity is a dot product.
package lexical

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Options controls vocabulary construction during Fit
type Options struct {
	NgramMax    int     // highest n-gram order; 1 = unigrams only, 2 adds bigrams
	MinDocFreq  int     // ignore terms appearing in fewer documents; <=1 disables
	MaxDocShare float64 // ignore terms appearing in more than this share of documents; <=0 disables
	MaxFeatures int     // keep only the most frequent terms; <=0 disables
}

// DefaultOptions is the configuration used for transient per-request fits,
// where the corpus is too small for document-frequency pruning to make sense.
func DefaultOptions() Options {
	return Options{NgramMax: 2}
}

// TrainingOptions is the configuration used by the offline pipeline over the
// full talent pool corpus.
func TrainingOptions() Options {
	return Options{
		NgramMax:    2,
		MinDocFreq:  5,
		MaxDocShare: 0.70,
		MaxFeatures: 3000,
	}
}

// Vector is a sparse column->weight mapping, l2-normalized by Vectorize
type Vector map[int]float64

// Model is a fitted vector space: frozen vocabulary, idf weights and the
// corpus matrix in fit order. Terms outside the vocabulary weigh zero.
type Model struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Rows       []Vector       `json:"rows"`
}

// Fit builds the vocabulary and idf weights over corpus and vectorizes every
// document. Row order matches corpus order.
func Fit(corpus []string, opts Options) *Model {
	if opts.NgramMax < 1 {
		opts.NgramMax = 1
	}

	docTerms := make([][]string, len(corpus))
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for i, text := range corpus {
		terms := Tokenize(text, opts.NgramMax)
		docTerms[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			termFreq[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}

	n := len(corpus)
	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if opts.MinDocFreq > 1 && df < opts.MinDocFreq {
			continue
		}
		if opts.MaxDocShare > 0 && float64(df) > opts.MaxDocShare*float64(n) {
			continue
		}
		kept = append(kept, term)
	}

	if opts.MaxFeatures > 0 && len(kept) > opts.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if termFreq[kept[i]] != termFreq[kept[j]] {
				return termFreq[kept[i]] > termFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:opts.MaxFeatures]
	}
	sort.Strings(kept)

	m := &Model{
		Vocabulary: make(map[string]int, len(kept)),
		IDF:        make([]float64, len(kept)),
	}
	for col, term := range kept {
		m.Vocabulary[term] = col
		// smooth idf, matching the weighting the corpus artifacts were fitted with
		m.IDF[col] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	m.Rows = make([]Vector, len(corpus))
	for i, terms := range docTerms {
		m.Rows[i] = m.vectorizeTerms(terms)
	}
	return m
}

// Vectorize maps text into the fitted space. Out-of-vocabulary terms are
// dropped; an all-unknown text yields an empty vector.
func (m *Model) Vectorize(text string) Vector {
	ngramMax := 1
	for term := range m.Vocabulary {
		if strings.ContainsRune(term, ' ') {
			ngramMax = 2
			break
		}
	}
	return m.vectorizeTerms(Tokenize(text, ngramMax))
}

func (m *Model) vectorizeTerms(terms []string) Vector {
	vec := make(Vector)
	for _, t := range terms {
		if col, ok := m.Vocabulary[t]; ok {
			vec[col] += m.IDF[col]
		}
	}
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col, w := range vec {
			vec[col] = w / norm
		}
	}
	return vec
}

// Cosine computes cosine similarity between two sparse vectors. Result is in
// [0,1] for tf-idf vectors (weights are non-negative); zero vectors score 0.
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot, normA, normB float64
	for col, w := range a {
		normA += w * w
		if bw, ok := b[col]; ok {
			dot += w * bw
		}
	}
	for _, w := range b {
		normB += w * w
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Tokenize lowercases, splits on non-alphanumeric runes, drops stop words and
// single characters, and appends n-grams up to ngramMax joined by a space.
func Tokenize(text string, ngramMax int) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		words = append(words, f)
	}

	terms := make([]string, 0, len(words)*ngramMax)
	terms = append(terms, words...)
	for n := 2; n <= ngramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}
