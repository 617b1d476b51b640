package retrieval

import (
	"context"

	"github.com/mizanhq/mizan/internal/domain"
)

// cachedArticle is one hand-curated article text served when every other
// tier fails. The wording mirrors the gazette publication.
type cachedArticle struct {
	law   string
	title string
	text  string
}

// staticArticles holds the labor-law articles users ask for most often.
var staticArticles = map[int]cachedArticle{
	107: {
		law:   "نظام العمل",
		title: "نظام العمل - المادة السابعة بعد المائة",
		text: "المادة السابعة بعد المائة: يجب على صاحب العمل أن يدفع للعامل " +
			"أجراً إضافياً عن ساعات العمل الإضافية يوازي أجر الساعة مضافاً " +
			"إليه 50% من أجره الأساسي.",
	},
	109: {
		law:   "نظام العمل",
		title: "نظام العمل - المادة التاسعة بعد المائة",
		text: "المادة التاسعة بعد المائة: يستحق العامل عن كل عام إجازة سنوية " +
			"لا تقل مدتها عن واحد وعشرين يوماً، تُزاد إلى مدة لا تقل عن " +
			"ثلاثين يوماً إذا أمضى العامل في خدمة صاحب العمل خمس سنوات " +
			"متصلة، وللعامل أن يحصل على أجرها مقدماً.",
	},
}

// staticStrategy is the cascade's floor: a small built-in cache of gazette
// article texts, so the common questions still get an answer when the index
// is empty and the network is unreachable.
type staticStrategy struct {
	e *Engine
}

func (s *staticStrategy) name() string { return "static-cache" }

func (s *staticStrategy) search(_ context.Context, q *queryInfo) ([]domain.Snippet, error) {
	if !q.hasArticle {
		return nil, nil
	}
	article, ok := staticArticles[q.articleNum]
	if !ok {
		return nil, nil
	}
	return []domain.Snippet{{
		Text:   article.text,
		Score:  1.0,
		Source: "static-cache",
		URL:    laborLawGazetteURL,
		Title:  article.title,
		Meta:   article.law,
	}}, nil
}
