package entity

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var savingsPrinter = message.NewPrinter(language.English)

// FormatMonthlySavings gera o texto exibido nas oportunidades: "$1,200/mes".
func FormatMonthlySavings(amount float64) string {
	return savingsPrinter.Sprintf("$%d/mes", int64(math.Round(amount)))
}

// FormatAmount formata valores sem sufixo: "$48,000".
func FormatAmount(amount float64) string {
	return savingsPrinter.Sprintf("$%d", int64(math.Round(amount)))
}

// ParseMonthlySavings extrai o valor mensal do texto livre de uma oportunidade.
// Pega o primeiro número; "," e "." são milhares, a não ser que o último separador
// tenha 1 ou 2 dígitos depois (decimal). Texto sem número vale 0.
func ParseMonthlySavings(s string) float64 {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && strings.ContainsRune("0123456789.,", rune(s[end])) {
		end++
	}
	token := strings.TrimRight(s[start:end], ".,")

	decimals := ""
	if i := strings.LastIndexAny(token, ".,"); i >= 0 {
		tail := token[i+1:]
		if len(tail) == 1 || len(tail) == 2 {
			decimals = tail
			token = token[:i]
		}
	}
	digits := strings.NewReplacer(",", "", ".", "").Replace(token)
	if decimals != "" {
		digits += "." + decimals
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return v
}

type Totals struct {
	MonthlySavings float64 `json:"monthlySavings"`
	AnnualSavings  float64 `json:"annualSavings"`
	ROIMultiplier  float64 `json:"roiMultiplier"`
	NetMonthly     float64 `json:"netMonthlySavings"`
}

// ComputeTotals recalcula os totais a partir das oportunidades visíveis.
// ROI = anual / investimento (1 casa decimal); sem investimento usa fallbackROI.
func ComputeTotals(opps []Opportunity, investment, retainer, fallbackROI float64) Totals {
	var monthly float64
	for _, o := range opps {
		monthly += ParseMonthlySavings(o.EstimatedSavings)
	}
	annual := monthly * 12
	roi := fallbackROI
	if investment > 0 && annual > 0 {
		roi = RoundTo(annual/investment, 1)
	}
	return Totals{
		MonthlySavings: monthly,
		AnnualSavings:  annual,
		ROIMultiplier:  roi,
		NetMonthly:     monthly - retainer,
	}
}

func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
