package language_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"bank_reviews/internal/domain"
	"bank_reviews/internal/language"
)

type fakeDetector struct {
	code  string
	err   error
	calls int
}

func (f *fakeDetector) Detect(s string) (string, error) {
	f.calls++
	return f.code, f.err
}

func TestClassify_EmptyAndWhitespace(t *testing.T) {
	c := language.NewClassifier(&fakeDetector{code: "en"})
	assert.Equal(t, domain.LangUnknown, c.Classify(""))
	assert.Equal(t, domain.LangUnknown, c.Classify("   \t"))
}

func TestClassify_ShortTextIsUnknownUnlessKnownWord(t *testing.T) {
	det := &fakeDetector{code: "en"}
	c := language.NewClassifier(det)
	for _, s := range []string{"hi", "app", "abcd", "x", "ሰላም"} {
		assert.Equal(t, domain.LangUnknown, c.Classify(s), s)
	}
	assert.Zero(t, det.calls, "short texts must not reach the detector")

	assert.Equal(t, domain.LangEnglish, c.Classify("good"))
	assert.Equal(t, domain.LangEnglish, c.Classify("ok"))
	assert.Equal(t, domain.LangAmharic, c.Classify("ጥሩ"))
	assert.Equal(t, domain.LangAmharic, c.Classify("እሺ"))
}

func TestClassify_EthiopicFraction(t *testing.T) {
	det := &fakeDetector{code: "en"}
	c := language.NewClassifier(det)
	// 3 of 5 runes
	assert.Equal(t, domain.LangAmharic, c.Classify("ሰላምab"))
	// 3 of 10 runes
	assert.Equal(t, domain.LangBilingual, c.Classify("ሰላምabcdefg"))
	// exactly half
	assert.Equal(t, domain.LangBilingual, c.Classify("ሰላምabc"))
	assert.Zero(t, det.calls)
}

func TestClassify_Scenarios(t *testing.T) {
	c := language.NewClassifier(&fakeDetector{code: "en"})
	assert.Equal(t, domain.LangAmharic, c.Classify("በጣም ጥሩ ነው"))
	assert.Equal(t, domain.LangBilingual, c.Classify("this is በጣም good"))
	assert.Equal(t, domain.LangUnknown, c.Classify("hi"))
	assert.Equal(t, domain.LangEnglish, c.Classify("great app"))
}

func TestClassify_DetectorFallback(t *testing.T) {
	assert.Equal(t, domain.Language("fr"), language.NewClassifier(&fakeDetector{code: "fr"}).Classify("bonjour tout le monde"))
	assert.Equal(t, domain.LangUnknown, language.NewClassifier(&fakeDetector{err: errors.New("boom")}).Classify("something long"))
	assert.Equal(t, domain.LangUnknown, language.NewClassifier(nil).Classify("something long"))
}

func TestIsKnownSentimentWord(t *testing.T) {
	assert.True(t, language.IsKnownSentimentWord("Top"))
	assert.True(t, language.IsKnownSentimentWord(" FINE "))
	assert.True(t, language.IsKnownSentimentWord("በጣም ጥሩ"))
	assert.False(t, language.IsKnownSentimentWord("meh"))
}

func TestKnownSentimentWord_CarriesItsLanguage(t *testing.T) {
	l, ok := language.KnownSentimentWord("Fast")
	assert.True(t, ok)
	assert.Equal(t, domain.LangEnglish, l)
	l, ok = language.KnownSentimentWord("አሪፍ")
	assert.True(t, ok)
	assert.Equal(t, domain.LangAmharic, l)
	_, ok = language.KnownSentimentWord("meh")
	assert.False(t, ok)
}
