package arabic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleLabelBoeStyle(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "الأولى"},
		{2, "الثانية"},
		{7, "السابعة"},
		{10, "العاشرة"},
		{11, "الحادية عشرة"},
		{15, "الخامسة عشرة"},
		{19, "التاسعة عشرة"},
		{20, "العشرون"},
		{21, "الحادية والعشرون"},
		{35, "الخامسة والثلاثون"},
		{74, "الرابعة والسبعون"},
		{90, "التسعون"},
		{99, "التاسعة والتسعون"},
		{100, "المائة"},
		{101, "الأولى بعد المائة"},
		{107, "السابعة بعد المائة"},
		{120, "العشرون بعد المائة"},
		{199, "التاسعة والتسعون بعد المائة"},
		{200, "المائتين"},
		{201, "الأولى بعد المائتين"},
		{245, "الخامسة والأربعون بعد المائتين"},
		{299, "التاسعة والتسعون بعد المائتين"},
	}

	for _, tt := range tests {
		got, ok := ArticleLabelBoeStyle(tt.n)
		assert.True(t, ok, "n=%d", tt.n)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}

func TestArticleLabelBoeStyleOutOfRange(t *testing.T) {
	for _, n := range []int{0, -1, 300, 1000} {
		got, ok := ArticleLabelBoeStyle(n)
		assert.False(t, ok, "n=%d", n)
		assert.Empty(t, got, "n=%d", n)
	}
}
