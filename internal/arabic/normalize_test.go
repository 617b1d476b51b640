package arabic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "script and style removed",
			html: `<html><head><style>body{color:red}</style><script>alert("x")</script></head><body>نظام العمل</body></html>`,
			want: "نظام العمل",
		},
		{
			name: "block tags become newlines",
			html: `<div>المادة الأولى</div><p>يسمى هذا النظام نظام العمل.</p>`,
			want: "المادة الأولى\nيسمى هذا النظام نظام العمل.",
		},
		{
			name: "entities unescaped",
			html: `A&nbsp;&amp;&nbsp;B &lt;tag&gt;`,
			want: "A & B <tag>",
		},
		{
			name: "whitespace collapsed",
			html: "a  \t b\n\n\n\n\nc",
			want: "a b\n\nc",
		},
		{
			name: "empty input",
			html: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.html))
		})
	}
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "المادة 107", NormalizeDigits("المادة ١٠٧"))
	assert.Equal(t, "0123456789", NormalizeDigits("٠١٢٣٤٥٦٧٨٩"))
	assert.Equal(t, "no digits here", NormalizeDigits("no digits here"))
}

func TestExtractArticleNumber(t *testing.T) {
	tests := []struct {
		query string
		want  int
		found bool
	}{
		{"نص المادة 107 من نظام العمل", 107, true},
		{"ما تنص عليه المادة رقم 5", 5, true},
		{"المادة ١٠٩ من نظام العمل", 109, true},
		{"ما هي حقوق الموظف عند الفصل", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		n, ok := ExtractArticleNumber(tt.query)
		assert.Equal(t, tt.found, ok, "query %q", tt.query)
		if tt.found {
			assert.Equal(t, tt.want, n, "query %q", tt.query)
		}
	}
}

func TestIsArticleTextQuery(t *testing.T) {
	assert.True(t, IsArticleTextQuery("نص المادة 107 من نظام العمل"))
	assert.True(t, IsArticleTextQuery("ماذا تنص المادة 80"))
	assert.True(t, IsArticleTextQuery("المادة 74 من نظام العمل"))
	assert.True(t, IsArticleTextQuery("المادة ٧٤"))
	assert.False(t, IsArticleTextQuery("ما هي حقوق الموظف عند الفصل"))
	assert.False(t, IsArticleTextQuery(""))
}

func TestLooksLikeRequestedArticleText(t *testing.T) {
	label, ok := ArticleLabelBoeStyle(107)
	require.True(t, ok)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"ordinal label", "المادة السابعة بعد المائة: يجب على صاحب العمل أن يدفع للعامل أجراً إضافياً", true},
		{"bare number", "المادة 107 يجب على صاحب العمل", true},
		{"bracketed number", "المادة (107) يجب على صاحب العمل", true},
		{"arabic-indic number", "المادة ١٠٧ يجب على صاحب العمل", true},
		{"wrong article", "المادة 10 من النظام", false},
		{"no marker at all", "يجب على صاحب العمل أن يدفع للعامل", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeRequestedArticleText(tt.text, 107, label))
		})
	}
}

func TestExtractArticleSpan(t *testing.T) {
	label, ok := ArticleLabelBoeStyle(107)
	require.True(t, ok)

	body := "المادة السادسة بعد المائة: نص سابق لا يهم هنا. " +
		"المادة السابعة بعد المائة: يجب على صاحب العمل أن يدفع للعامل أجراً إضافياً عن ساعات العمل الإضافية يوازي أجر الساعة مضافاً إليه خمسين في المائة من أجره الأساسي. " +
		"المادة الثامنة بعد المائة: نص لاحق لا يهم."

	span := ExtractArticleSpan(body, 107, label)
	require.NotEmpty(t, span)
	assert.True(t, strings.HasPrefix(span, "المادة السابعة بعد المائة"))
	assert.NotContains(t, span, "الثامنة بعد المائة")
	assert.Contains(t, span, "أجراً إضافياً")

	// A marker with nothing behind it is too short to be the article body.
	assert.Empty(t, ExtractArticleSpan("المادة 107", 107, label))

	// Missing article yields nothing.
	assert.Empty(t, ExtractArticleSpan(body, 55, ""))
}
