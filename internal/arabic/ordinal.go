package arabic

// Ordinal labels as printed by the official gazette (laws.boe.gov.sa) for
// article headings. The gazette writes feminine ordinals: irregular forms
// for 1–10, teen compounds for 11–19, tens with unit+tens compounds for
// 21–99, and "بعد المائة"/"بعد المائتين" suffixes for 101–299.

// standalone ordinals 1..10
var boeOnes = [...]string{
	"",
	"الأولى",
	"الثانية",
	"الثالثة",
	"الرابعة",
	"الخامسة",
	"السادسة",
	"السابعة",
	"الثامنة",
	"التاسعة",
	"العاشرة",
}

// unit forms used inside teen and tens compounds (11 → "الحادية عشرة")
var boeCompoundUnits = [...]string{
	"",
	"الحادية",
	"الثانية",
	"الثالثة",
	"الرابعة",
	"الخامسة",
	"السادسة",
	"السابعة",
	"الثامنة",
	"التاسعة",
}

var boeTens = map[int]string{
	2: "العشرون",
	3: "الثلاثون",
	4: "الأربعون",
	5: "الخمسون",
	6: "الستون",
	7: "السبعون",
	8: "الثمانون",
	9: "التسعون",
}

// ArticleLabelBoeStyle produces the Arabic ordinal label the gazette uses
// for article number n, e.g. 107 → "السابعة بعد المائة". The second return
// value is false outside 1–299 or on a lookup miss.
func ArticleLabelBoeStyle(n int) (string, bool) {
	switch {
	case n >= 1 && n <= 99:
		return boeLabelUnder100(n)
	case n == 100:
		return "المائة", true
	case n >= 101 && n <= 199:
		under, ok := boeLabelUnder100(n - 100)
		if !ok {
			return "", false
		}
		return under + " بعد المائة", true
	case n == 200:
		return "المائتين", true
	case n >= 201 && n <= 299:
		under, ok := boeLabelUnder100(n - 200)
		if !ok {
			return "", false
		}
		return under + " بعد المائتين", true
	default:
		return "", false
	}
}

func boeLabelUnder100(n int) (string, bool) {
	switch {
	case n >= 1 && n <= 10:
		return boeOnes[n], true
	case n >= 11 && n <= 19:
		return boeCompoundUnits[n-10] + " عشرة", true
	case n >= 20 && n <= 99:
		tens, ok := boeTens[n/10]
		if !ok {
			return "", false
		}
		if n%10 == 0 {
			return tens, true
		}
		return boeCompoundUnits[n%10] + " و" + tens, true
	default:
		return "", false
	}
}
