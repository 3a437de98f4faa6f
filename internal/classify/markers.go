package classify

import (
	"regexp"
	"strings"
)

// coupangAppBonus is awarded only when the in-app Coupay payment layout is detected
const coupangAppBonus = 10

// rule awards weight to a signal group when match holds
type rule struct {
	weight int
	match  func(input) bool
}

var (
	// cuStorePattern accepts "CU" only when a store suffix follows, e.g. "CU점",
	// "CU 강남역점" or "CU STORE". Bare "CU" is too common in unrelated text.
	cuStorePattern = regexp.MustCompile(`\bCU(?:\s*STORE|\s*[가-힣0-9]{0,10}점)`)

	// maskedCardPattern finds card numbers printed with a masked middle section,
	// e.g. "1234-****-****-5678" or "1234-56**-****-7890". The mask run is part of
	// the pattern and separators stay on one line.
	maskedCardPattern = regexp.MustCompile(`\b\d{4}[- \t]?\d{0,2}[- \t]?[*Xx]{2,}[- \t*Xx\d]{0,12}\d{4}\b`)
)

var coupangAppRules = []rule{
	{coupangAppBonus, allOf(
		rawAny("쿠팡(쿠페이)"),
		rawAny("거래메모"),
		not(rawAny("카드영수증", "구매정보")),
	)},
}

var coupangCardRules = []rule{
	{3, anyOf(rawAny("쿠팡"), upperAny("COUPANG"))},
	{2, rawAny("주문번호")},
	{3, rawAny("카드영수증", "구매정보")},
}

var convenienceRules = []rule{
	{6, upperAny("GS25")},
	{6, anyOf(upperAny("7-ELEVEN"), rawAny("세븐일레븐"))},
	{5, upperMatches(cuStorePattern)},
}

var martRules = []rule{
	{2, rawAny("과세물품")},
	{2, rawAny("면세물품")},
	{3, rawAny("공급가액")},
	{3, anyOf(rawAny("부가세"), upperAny("VAT"))},
	{2, rawAny("과세물품가액", "면세물품가액", "과세합계", "면세합계")},
}

var slipRules = []rule{
	{3, rawAny("승인")},
	{2, rawAny("일시불", "할부")},
	{2, anyOf(rawAny("가맹점번호", "단말기"), upperAny("TID"))},
	{1, anyOf(rawAny("매입사"), upperAny("VAN"))},
	{2, hasMaskedCardNumber},
}

func hasMaskedCardNumber(in input) bool {
	return maskedCardPattern.MatchString(in.raw)
}

func rawAny(markers ...string) func(input) bool {
	return func(in input) bool {
		return containsAny(in.raw, markers)
	}
}

func upperAny(markers ...string) func(input) bool {
	return func(in input) bool {
		return containsAny(in.upper, markers)
	}
}

func upperMatches(re *regexp.Regexp) func(input) bool {
	return func(in input) bool {
		return re.MatchString(in.upper)
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func allOf(preds ...func(input) bool) func(input) bool {
	return func(in input) bool {
		for _, p := range preds {
			if !p(in) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...func(input) bool) func(input) bool {
	return func(in input) bool {
		for _, p := range preds {
			if p(in) {
				return true
			}
		}
		return false
	}
}

func not(pred func(input) bool) func(input) bool {
	return func(in input) bool {
		return !pred(in)
	}
}
