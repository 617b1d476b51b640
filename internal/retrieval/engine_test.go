package retrieval

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laborChunk(text string) domain.LegalChunk {
	return domain.LegalChunk{
		Text: text,
		Meta: domain.ChunkMeta{
			Source: "board-of-experts",
			URL:    "https://laws.boe.gov.sa/BoeLaws/Laws/1",
			Title:  "نظام العمل",
		},
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	fake := testutil.NewFakeFetcher()
	engine := New(testutil.NewMemStore(), fake, nil, Config{})

	assert.Empty(t, engine.Search(context.Background(), ""))
	assert.Empty(t, engine.Search(context.Background(), "   \t "))
	assert.Empty(t, fake.Requested)
}

func TestSearchVectorTier(t *testing.T) {
	store := testutil.NewMemStore()
	const query = "ما هي حقوق العامل عند انتهاء العقد"

	relevant := laborChunk("تُحسب مكافأة نهاية الخدمة على أساس الأجر الأخير للعامل")
	relevant.Embedding = []float32{1, 0, 0}
	store.AddChunk(relevant)

	offTopic := laborChunk("أحكام تسجيل العلامات التجارية لدى الوزارة")
	offTopic.Embedding = []float32{0, 1, 0}
	store.AddChunk(offTopic)

	embedder := &testutil.StubEmbedder{
		Vectors: map[string][]float32{query: {1, 0, 0}},
	}
	engine := New(store, testutil.NewFakeFetcher(), embedder, Config{})

	results := engine.Search(context.Background(), query)
	require.Len(t, results, 1)
	assert.Equal(t, relevant.Text, results[0].Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "board-of-experts", results[0].Source)
}

func TestSearchVectorThresholdFiltersNoise(t *testing.T) {
	store := testutil.NewMemStore()
	const query = "سؤال عام"

	weak := laborChunk("نص بعيد تماماً عن الموضوع")
	weak.Embedding = []float32{0.1, 1, 0}
	store.AddChunk(weak)

	embedder := &testutil.StubEmbedder{
		Vectors: map[string][]float32{
			query:     {1, 0, 0},
			weak.Text: {0.1, 1, 0},
		},
	}
	engine := New(store, testutil.NewFakeFetcher(), embedder, Config{})

	// Cosine ≈ 0.0995, below the 0.2 floor, so nothing survives the
	// vector tier and the keyword tier has no matching chunk text either.
	assert.Empty(t, engine.Search(context.Background(), query))
}

func TestSearchKeywordTierForArticleQuery(t *testing.T) {
	store := testutil.NewMemStore()
	store.AddChunk(laborChunk("المادة 80: لا يجوز لصاحب العمل فسخ العقد دون مكافأة أو إشعار العامل إلا في الحالات الآتية"))
	store.AddChunk(laborChunk("أحكام عامة في التدرج الوظيفي لا تخص المادة المطلوبة"))

	engine := New(store, testutil.NewFakeFetcher(), nil, Config{})

	// Both chunks match keyword terms; the cited-article chunk ranks
	// first and its acceptance carries the tier's whole ranked list.
	results := engine.Search(context.Background(), "المادة 80 من نظام العمل")
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Text, "المادة 80")
	assert.Equal(t, "https://laws.boe.gov.sa/BoeLaws/Laws/1", results[0].URL)
}

func TestSearchKeywordUngatedForNonTextQuery(t *testing.T) {
	store := testutil.NewMemStore()
	// Relevant to the law but does not quote the cited article verbatim.
	store.AddChunk(laborChunk("يحظر نظام العمل فسخ العقد تعسفياً ويقرر التعويض عن ذلك"))

	fake := testutil.NewFakeFetcher()
	engine := New(store, fake, nil, Config{SerperAPIKey: "key"})

	// "المادة رقم 80" cites an article without asking for its literal
	// text, so the keyword tier's best result is returned as-is.
	results := engine.Search(context.Background(), "المادة رقم 80 من نظام العمل")
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Text, "نظام العمل")
	// No literal-text intent means no live-web traffic either.
	assert.Empty(t, fake.Requested)
}

func TestSearchGateRejectsWrongArticle(t *testing.T) {
	store := testutil.NewMemStore()
	// Contains the digits of the query tokens but cites a different article.
	store.AddChunk(laborChunk("المادة 109: يستحق العامل إجازة سنوية وفق نظام العمل"))

	engine := New(store, testutil.NewFakeFetcher(), nil, Config{})

	// Article 10 is cited; the stored chunk carries 109 only, and the
	// digit boundary must not let 109 satisfy 10.
	results := engine.Search(context.Background(), "المادة 10 من نظام العمل")
	assert.Empty(t, results)
}

func TestSearchGateJudgesTopCandidate(t *testing.T) {
	store := testutil.NewMemStore()
	// Ranks first on term count but does not quote article 107.
	store.AddChunk(laborChunk("دليل رقم 107 حول نظام العمل والمادة التمهيدية وشرح أحكام المادة"))
	// Quotes the article but ranks lower.
	store.AddChunk(laborChunk("المادة السابعة بعد المائة: يجب على صاحب العمل أن يدفع أجراً إضافياً عن ساعات العمل الإضافية"))

	fake := testutil.NewFakeFetcher()
	fake.Err = errors.New("offline")
	engine := New(store, fake, nil, Config{})

	// The keyword tier stands or falls with its top candidate: the top
	// one fails the gate, so the whole tier is rejected and the cascade
	// ends at the static cache.
	results := engine.Search(context.Background(), "نص المادة 107 من نظام العمل")
	require.Len(t, results, 1)
	assert.Equal(t, "static-cache", results[0].Source)
}

func TestSearchGazetteTier(t *testing.T) {
	store := testutil.NewMemStore()
	fake := testutil.NewFakeFetcher()

	body := "<html><body>" +
		"<p>المادة السادسة بعد المائة: يجوز لصاحب العمل بموافقة الوزارة تشغيل العامل ساعات إضافية في بعض الحالات الموسمية</p>" +
		"<p>المادة السابعة بعد المائة: يجب على صاحب العمل أن يدفع للعامل أجراً إضافياً عن ساعات العمل الإضافية يوازي أجر الساعة مضافاً إليه خمسين في المائة من أجره الأساسي</p>" +
		"<p>المادة الثامنة بعد المائة: تسري أحكام المادتين السابقتين على العاملين بالقطعة</p>" +
		"</body></html>"
	fake.AddHTML(laborLawGazetteURL, body)

	engine := New(store, fake, nil, Config{})

	results := engine.Search(context.Background(), "نص المادة 107 من نظام العمل")
	require.Len(t, results, 1)
	assert.True(t, strings.HasPrefix(results[0].Text, "المادة السابعة بعد المائة"))
	assert.NotContains(t, results[0].Text, "الثامنة بعد المائة")
	assert.Equal(t, "board-of-experts", results[0].Source)
	assert.Equal(t, laborLawGazetteURL, results[0].URL)
	assert.Contains(t, fake.Requested, laborLawGazetteURL)
}

func TestSearchGazetteTierRequiresLaborLawMention(t *testing.T) {
	store := testutil.NewMemStore()
	fake := testutil.NewFakeFetcher()

	// "ساعات العمل" is not a labor-law citation; the gazette page must
	// not be fetched for other statutes.
	results := New(store, fake, nil, Config{}).
		Search(context.Background(), "نص المادة 12 من لائحة ساعات العمل")
	assert.Empty(t, results)
	assert.NotContains(t, fake.Requested, laborLawGazetteURL)

	// The colloquial labor-office form does reach the gazette.
	fake2 := testutil.NewFakeFetcher()
	New(store, fake2, nil, Config{}).
		Search(context.Background(), "نص المادة 107 بعد شكوى مكتب العمل")
	assert.Contains(t, fake2.Requested, laborLawGazetteURL)
}

func TestSearchSerperTier(t *testing.T) {
	store := testutil.NewMemStore()
	fake := testutil.NewFakeFetcher()

	const page = "https://laws.boe.gov.sa/BoeLaws/Laws/2"
	fake.AddJSON(serperEndpoint, `{"organic":[
		{"title":"موقع غير رسمي","link":"https://example.com/labor"},
		{"title":"نظام العمل","link":"`+page+`"}
	]}`)
	fake.AddHTML(page, "<html><body><p>المادة السابعة بعد المائة: يجب على صاحب العمل أن يدفع للعامل أجراً إضافياً عن ساعات العمل الإضافية يوازي أجر الساعة مضافاً إليه خمسين في المائة من أجره الأساسي</p></body></html>")

	engine := New(store, fake, nil, Config{SerperAPIKey: "key"})

	results := engine.Search(context.Background(), "نص المادة 107 من نظام العمل")
	require.Len(t, results, 1)
	assert.Equal(t, page, results[0].URL)
	assert.Equal(t, "نظام العمل", results[0].Title)
	assert.NotContains(t, fake.Requested, "https://example.com/labor")

	// The paid search itself is scoped to the official gazette.
	body, ok := fake.PostBodies[serperEndpoint].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, body["q"], "site:laws.boe.gov.sa")
}

func TestSearchStaticCacheFallThrough(t *testing.T) {
	store := testutil.NewMemStore()
	fake := testutil.NewFakeFetcher()
	fake.Err = errors.New("network unreachable")

	engine := New(store, fake, nil, Config{})

	results := engine.Search(context.Background(), "نص المادة 107 من نظام العمل")
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Text, "السابعة بعد المائة")
	assert.Contains(t, results[0].Text, "أجراً إضافياً")
	assert.Equal(t, "static-cache", results[0].Source)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestSearchNonCitationQueryNeverHitsLiveWeb(t *testing.T) {
	store := testutil.NewMemStore()
	fake := testutil.NewFakeFetcher()

	engine := New(store, fake, nil, Config{SerperAPIKey: "key", GoogleAPIKey: "key", GoogleEngineID: "cx"})

	results := engine.Search(context.Background(), "ما هي مدة إجازة الوضع للعاملة")
	assert.Empty(t, results)
	assert.Empty(t, fake.Requested)
}

func TestSearchArabicIndicDigits(t *testing.T) {
	store := testutil.NewMemStore()
	fake := testutil.NewFakeFetcher()
	fake.Err = errors.New("offline")

	engine := New(store, fake, nil, Config{})

	// ١٠٧ normalizes to 107 and resolves through the static cache.
	results := engine.Search(context.Background(), "نص المادة ١٠٧ من نظام العمل")
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Text, "السابعة بعد المائة")
}

func TestSearchConcurrent(t *testing.T) {
	store := testutil.NewMemStore()
	store.AddChunk(laborChunk("المادة 80: لا يجوز فسخ العقد دون مكافأة إلا في الحالات الآتية من نظام العمل"))
	fake := testutil.NewFakeFetcher()
	fake.Err = errors.New("offline")

	engine := New(store, fake, nil, Config{})

	queries := []string{
		"المادة 80 من نظام العمل",
		"نص المادة 107 من نظام العمل",
		"نص المادة 109 من نظام العمل",
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for _, q := range queries {
			wg.Add(1)
			go func(q string) {
				defer wg.Done()
				results := engine.Search(context.Background(), q)
				assert.NotEmpty(t, results)
			}(q)
		}
	}
	wg.Wait()
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestKeywordTerms(t *testing.T) {
	q := analyzeQuery("المادة 107 من نظام العمل")
	terms := keywordTerms(q)
	assert.Contains(t, terms, "المادة 107")
	assert.Contains(t, terms, "المادة السابعة بعد المائة")
	assert.Contains(t, terms, "107")

	q = analyzeQuery("اشتكى علي في مكتب العمل")
	assert.Contains(t, keywordTerms(q), "نظام العمل")

	assert.Empty(t, keywordTerms(analyzeQuery("")))
}
