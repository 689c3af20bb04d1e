package domain

// defaultCurrencies is the fallback catalogue used when the upstream table
// listing cannot be fetched. Names are the publisher's own (Polish) names.
var defaultCurrencies = map[TableType][]CurrencyInfo{
	TableA: {
		{"THB", "bat (Tajlandia)"}, {"USD", "dolar amerykański"}, {"AUD", "dolar australijski"},
		{"HKD", "dolar Hongkongu"}, {"CAD", "dolar kanadyjski"}, {"NZD", "dolar nowozelandzki"},
		{"SGD", "dolar singapurski"}, {"EUR", "euro"}, {"HUF", "forint (Węgry)"},
		{"CHF", "frank szwajcarski"}, {"GBP", "funt szterling"}, {"UAH", "hrywna (Ukraina)"},
		{"JPY", "jen (Japonia)"}, {"CZK", "korona czeska"}, {"DKK", "korona duńska"},
		{"ISK", "korona islandzka"}, {"NOK", "korona norweska"}, {"SEK", "korona szwedzka"},
		{"RON", "lej rumuński"}, {"BGN", "lew (Bułgaria)"}, {"TRY", "lira turecka"},
		{"ILS", "nowy izraelski szekel"}, {"CLP", "peso chilijskie"}, {"PHP", "peso filipińskie"},
		{"MXN", "peso meksykańskie"}, {"ZAR", "rand (Republika Południowej Afryki)"}, {"BRL", "real (Brazylia)"},
		{"MYR", "ringgit (Malezja)"}, {"IDR", "rupia indonezyjska"}, {"INR", "rupia indyjska"},
		{"KRW", "won południowokoreański"}, {"CNY", "yuan renminbi (Chiny)"}, {"XDR", "SDR (MFW)"},
	},
	TableB: {
		{"AFN", "afgani (Afganistan)"}, {"MGA", "ariary (Madagaskar)"}, {"PAB", "balboa (Panama)"},
		{"ETB", "birr etiopski"}, {"VES", "boliwar soberano (Wenezuela)"}, {"BOB", "boliviano (Boliwia)"},
		{"BRL", "real (Brazylia)"}, {"BND", "dolar brunejski"}, {"FJD", "dolar Fidżi"},
		{"XCD", "dolar wschodniokaraibski"}, {"AMD", "dram (Armenia)"}, {"CVE", "escudo Zielonego Przylądka"},
		{"AWG", "florin arubański"}, {"GMD", "dalasi (Gambia)"}, {"GEL", "lari (Gruzja)"},
		{"LBP", "funt libański"}, {"ALL", "lek (Albania)"}, {"HNL", "lempira (Honduras)"},
		{"SLE", "leone (Sierra Leone)"}, {"MDL", "lej mołdawski"}, {"MKD", "denar (Macedonia Północna)"},
		{"AZN", "manat azerbejdżański"}, {"TMT", "manat turkmeński"}, {"MZN", "metical (Mozambik)"},
		{"NGN", "naira (Nigeria)"}, {"NAD", "dolar namibijski"}, {"TWD", "nowy dolar tajwański"},
		{"PGK", "kina (Papua-Nowa Gwinea)"}, {"LAK", "kip (Laos)"}, {"MWK", "kwacha malawijska"},
		{"ZMW", "kwacha zambijska"}, {"AOA", "kwanza (Angola)"}, {"MMK", "kyat (Myanmar)"},
		{"GHS", "cedi ghańskie"}, {"HTG", "gourde (Haiti)"}, {"PYG", "guarani (Paragwaj)"},
		{"ANG", "gulden antylski"}, {"LSL", "loti (Lesotho)"}, {"SZL", "lilangeni (Eswatini)"},
		{"MRU", "ouguiya (Mauretania)"},
	},
	TableC: {
		{"USD", "dolar amerykański"}, {"AUD", "dolar australijski"}, {"CAD", "dolar kanadyjski"},
		{"EUR", "euro"}, {"HUF", "forint (Węgry)"}, {"CHF", "frank szwajcarski"},
		{"GBP", "funt szterling"}, {"JPY", "jen (Japonia)"}, {"CZK", "korona czeska"},
		{"DKK", "korona duńska"}, {"NOK", "korona norweska"}, {"SEK", "korona szwedzka"},
		{"XDR", "SDR (MFW)"},
	},
}

// DefaultCurrencies returns a copy of the fallback catalogue for t, using
// table A for an unknown type.
func DefaultCurrencies(t TableType) []CurrencyInfo {
	list, ok := defaultCurrencies[t]
	if !ok {
		list = defaultCurrencies[TableA]
	}
	return append([]CurrencyInfo(nil), list...)
}

// Label renders the currency as "CODE - name".
func (c CurrencyInfo) Label() string {
	if c.Name == "" {
		return c.Code
	}
	return c.Code + " - " + c.Name
}
