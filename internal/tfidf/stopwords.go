package tfidf

// English stop words, the common closed-class vocabulary used by most
// bag-of-words tools.
var stopWords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "almost", "alone", "along",
		"already", "also", "although", "always", "am", "among", "an", "and", "another", "any",
		"anyhow", "anyone", "anything", "anyway", "anywhere", "are", "around", "as", "at", "be",
		"became", "because", "become", "becomes", "been", "before", "being", "below", "beside",
		"besides", "between", "beyond", "both", "but", "by", "can", "cannot", "could", "do",
		"does", "done", "down", "due", "during", "each", "either", "else", "elsewhere", "enough",
		"etc", "even", "ever", "every", "everyone", "everything", "everywhere", "except", "few",
		"for", "from", "further", "had", "has", "have", "he", "hence", "her", "here", "hers",
		"herself", "him", "himself", "his", "how", "however", "ie", "if", "in", "indeed", "into",
		"is", "it", "its", "itself", "just", "last", "latter", "least", "less", "ltd", "made",
		"many", "may", "me", "meanwhile", "might", "mine", "more", "moreover", "most", "mostly",
		"much", "must", "my", "myself", "namely", "neither", "never", "nevertheless", "next",
		"no", "nobody", "none", "nor", "not", "nothing", "now", "nowhere", "of", "off", "often",
		"on", "once", "one", "only", "onto", "or", "other", "others", "otherwise", "our", "ours",
		"ourselves", "out", "over", "own", "per", "perhaps", "please", "rather", "re", "same",
		"seem", "seemed", "seeming", "seems", "several", "she", "should", "since", "so", "some",
		"somehow", "someone", "something", "sometime", "sometimes", "somewhere", "still", "such",
		"than", "that", "the", "their", "them", "themselves", "then", "thence", "there",
		"thereafter", "thereby", "therefore", "therein", "thereupon", "these", "they", "this",
		"those", "though", "through", "throughout", "thru", "thus", "to", "together", "too",
		"toward", "towards", "under", "until", "up", "upon", "us", "very", "via", "was", "we",
		"well", "were", "what", "whatever", "when", "whence", "whenever", "where", "whereafter",
		"whereas", "whereby", "wherein", "whereupon", "wherever", "whether", "which", "while",
		"whither", "who", "whoever", "whole", "whom", "whose", "why", "will", "with", "within",
		"without", "would", "yet", "you", "your", "yours", "yourself", "yourselves",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopWord reports whether the lower-cased token w is an English stop word.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
