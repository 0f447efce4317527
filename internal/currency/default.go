package currency

import "sync"

var symbols = map[string]string{
	"DZD": "دج",
	"AOA": "Kz",
	"XOF": "Fr",
	"BWP": "P",
	"XAF": "Fr",
	"CDF": "FC",
	"EGP": "£",
	"GHS": "₵",
	"INR": "₹",
	"ILS": "₪",
	"JOD": "JD",
	"KES": "KSh",
	"KWD": "KD",
	"LRD": "$",
	"LYD": "LD",
	"MGA": "Ar",
	"MWK": "MK",
	"MRU": "UM",
	"MUR": "₨",
	"MAD": "د.م.",
	"MZN": "MTn",
	"NAD": "$",
	"NGN": "₦",
	"OMR": "ر.ع.",
	"PKR": "₨",
	"QAR": "ر.ق",
	"RWF": "FRw",
	"SAR": "ر.س",
	"SCR": "SR",
	"SLL": "Le",
	"ZAR": "R",
	"TZS": "TZS",
	"TND": "د.ت",
	"UGX": "USh",
	"AED": "د.إ",
	"ZMW": "ZK",
	"ZWL": "Z$",
	"AUD": "$",
	"BDT": "৳",
	"BTN": "Nu.",
	"BND": "B$",
	"KHR": "៛",
	"CNY": "¥",
	"FJD": "FJ$",
	"HKD": "HK$",
	"IDR": "Rp",
	"JPY": "¥",
	"KZT": "₸",
	"KGS": "лв",
	"MOP": "P",
	"MYR": "RM",
	"MVR": "Rf.",
	"MNT": "₮",
	"MMK": "K",
	"NPR": "₨",
	"NZD": "NZ$",
	"PHP": "₱",
	"SGD": "S$",
	"KRW": "₩",
	"LKR": "Rs",
	"TWD": "NT$",
	"TJS": "TJS",
	"THB": "฿",
	"TMT": "m",
	"UZS": "so'm",
	"VND": "₫",
	"ALL": "L",
	"AMD": "AMD",
	"EUR": "€",
	"AZN": "₼",
	"BYN": "Br",
	"BAM": "KM",
	"BGN": "лв",
	"HRK": "kn",
	"CZK": "Kč",
	"DKK": "kr",
	"GEL": "₾",
	"HUF": "HUF",
	"ISK": "kr",
	"MDL": "L",
	"MKD": "ден",
	"NOK": "kr",
	"PLN": "zł",
	"RON": "lei",
	"RUB": "₽",
	"SEK": "kr",
	"CHF": "Fr.",
	"TRY": "₺",
	"UAH": "₴",
	"GBP": "£",
	"XCD": "EC$",
	"ARS": "$",
	"BSD": "B$",
	"BBD": "Bds$",
	"BZD": "BZ$",
	"BOB": "Bs.",
	"BRL": "R$",
	"KYD": "CI$",
	"CLP": "$",
	"COP": "$",
	"CRC": "₡",
	"DOP": "RD$",
	"GTQ": "Q",
	"GYD": "G$",
	"HNL": "L",
	"JMD": "J$",
	"MXN": "$",
	"NIO": "C$",
	"PAB": "B/.",
	"PYG": "₲",
	"PEN": "S/.",
	"SRD": "$",
	"TTD": "TT$",
	"UYU": "$",
	"VES": "Bs.S",
	"CAD": "$",
	"USD": "$",
	"PGK": "K",
	"SBD": "SI$",
	"TOP": "T$",
	"VUV": "VT",
}

var suffixCodes = []string{
	"DZD", "AOA", "BWP", "GHS", "KES", "LSL", "LYD", "MGA", "MWK", "MUR",
	"MZN", "NAD", "NGN", "RWF", "SCR", "SLL", "SZL", "TZS", "UGX", "XAF",
	"XOF", "ZAR", "ZMW", "ZWL", "KMF", "CFA", "CDF", "KHR", "MMK", "VND",
	"VUV", "TOP", "ALL", "MKD", "MDL", "RON", "RSD", "UAH", "HUF", "BYN",
}

var zeroDecimalCodes = []string{
	"JPY", "KRW", "VND", "IDR", "MMK", "LAK", "KHR", "UGX", "TZS", "MWK",
	"MGA", "CDF", "RWF", "GNF", "XOF", "XAF", "KMF", "MZN", "BIF", "VUV",
	"SLL", "BYN",
}

var threeDecimalCodes = []string{
	"KWD", "BHD", "IQD", "OMR", "TND", "LYD", "JOD",
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// DefaultTable returns the built-in metadata for App Store currencies.
func DefaultTable() *Table {
	defaultOnce.Do(func() {
		entries := make(map[string]Info, len(symbols))
		get := func(code string) Info {
			if info, ok := entries[code]; ok {
				return info
			}
			return Info{Decimals: 2}
		}
		for code, sym := range symbols {
			info := get(code)
			info.Symbol = sym
			entries[code] = info
		}
		for _, code := range suffixCodes {
			info := get(code)
			info.Suffix = true
			entries[code] = info
		}
		for _, code := range zeroDecimalCodes {
			info := get(code)
			info.Decimals = 0
			entries[code] = info
		}
		for _, code := range threeDecimalCodes {
			info := get(code)
			info.Decimals = 3
			entries[code] = info
		}
		defaultTable = NewTable(entries)
	})
	return defaultTable
}
