package catalog

// defaultRegions is the storefront list in display order. Fiji and New Zealand
// appear under both Asia Pacific and Oceania; New collapses the repeats.
var defaultRegions = []Region{
	// Africa, Middle East, and India
	{"DZ", "Algeria"},
	{"AO", "Angola"},
	{"BJ", "Benin"},
	{"BW", "Botswana"},
	{"BF", "Burkina Faso"},
	{"CM", "Cameroon"},
	{"CI", "Côte d’Ivoire"},
	{"CD", "Democratic Republic of the Congo"},
	{"EG", "Egypt"},
	{"GH", "Ghana"},
	{"GW", "Guinea-Bissau"},
	{"IN", "India"},
	{"IL", "Israel"},
	{"JO", "Jordan"},
	{"KE", "Kenya"},
	{"KW", "Kuwait"},
	{"LR", "Liberia"},
	{"LY", "Libya"},
	{"MG", "Madagascar"},
	{"MW", "Malawi"},
	{"ML", "Mali"},
	{"MR", "Mauritania"},
	{"MU", "Mauritius"},
	{"MA", "Morocco"},
	{"MZ", "Mozambique"},
	{"NA", "Namibia"},
	{"NE", "Niger"},
	{"NG", "Nigeria"},
	{"OM", "Oman"},
	{"PK", "Pakistan"},
	{"QA", "Qatar"},
	{"RW", "Rwanda"},
	{"SA", "Saudi Arabia"},
	{"SN", "Senegal"},
	{"SC", "Seychelles"},
	{"SL", "Sierra Leone"},
	{"ZA", "South Africa"},
	{"TZ", "Tanzania"},
	{"TN", "Tunisia"},
	{"UG", "Uganda"},
	{"AE", "United Arab Emirates"},
	{"ZM", "Zambia"},
	{"ZW", "Zimbabwe"},

	// Asia Pacific
	{"AU", "Australia"},
	{"BD", "Bangladesh"},
	{"BT", "Bhutan"},
	{"BN", "Brunei Darussalam"},
	{"KH", "Cambodia"},
	{"CN", "China"},
	{"FJ", "Fiji"},
	{"HK", "Hong Kong"},
	{"ID", "Indonesia"},
	{"JP", "Japan"},
	{"KZ", "Kazakhstan"},
	{"KG", "Kyrgyzstan"},
	{"MO", "Macau"},
	{"MY", "Malaysia"},
	{"MV", "Maldives"},
	{"MN", "Mongolia"},
	{"MM", "Myanmar"},
	{"NP", "Nepal"},
	{"NZ", "New Zealand"},
	{"PH", "Philippines"},
	{"SG", "Singapore"},
	{"KR", "South Korea"},
	{"LK", "Sri Lanka"},
	{"TW", "Taiwan"},
	{"TJ", "Tajikistan"},
	{"TH", "Thailand"},
	{"TM", "Turkmenistan"},
	{"UZ", "Uzbekistan"},
	{"VN", "Vietnam"},

	// Europe
	{"AL", "Albania"},
	{"AM", "Armenia"},
	{"AT", "Austria"},
	{"AZ", "Azerbaijan"},
	{"BY", "Belarus"},
	{"BE", "Belgium"},
	{"BA", "Bosnia and Herzegovina"},
	{"BG", "Bulgaria"},
	{"HR", "Croatia"},
	{"CY", "Cyprus"},
	{"CZ", "Czech Republic"},
	{"DK", "Denmark"},
	{"EE", "Estonia"},
	{"FI", "Finland"},
	{"FR", "France"},
	{"GE", "Georgia"},
	{"DE", "Germany"},
	{"GR", "Greece"},
	{"HU", "Hungary"},
	{"IS", "Iceland"},
	{"IE", "Ireland"},
	{"IT", "Italy"},
	{"XK", "Kosovo"},
	{"LV", "Latvia"},
	{"LI", "Liechtenstein"},
	{"LT", "Lithuania"},
	{"LU", "Luxembourg"},
	{"MT", "Malta"},
	{"MD", "Moldova"},
	{"ME", "Montenegro"},
	{"NL", "Netherlands"},
	{"MK", "North Macedonia"},
	{"NO", "Norway"},
	{"PL", "Poland"},
	{"PT", "Portugal"},
	{"RO", "Romania"},
	{"RU", "Russia"},
	{"SK", "Slovakia"},
	{"SI", "Slovenia"},
	{"ES", "Spain"},
	{"SE", "Sweden"},
	{"CH", "Switzerland"},
	{"TR", "Turkey"},
	{"UA", "Ukraine"},
	{"GB", "United Kingdom"},

	// Latin America and the Caribbean
	{"AI", "Anguilla"},
	{"AG", "Antigua and Barbuda"},
	{"AR", "Argentina"},
	{"BS", "Bahamas"},
	{"BB", "Barbados"},
	{"BZ", "Belize"},
	{"BM", "Bermuda"},
	{"BO", "Bolivia"},
	{"BR", "Brazil"},
	{"VG", "British Virgin Islands"},
	{"KY", "Cayman Islands"},
	{"CL", "Chile"},
	{"CO", "Colombia"},
	{"CR", "Costa Rica"},
	{"DM", "Dominica"},
	{"DO", "Dominican Republic"},
	{"EC", "Ecuador"},
	{"SV", "El Salvador"},
	{"GD", "Grenada"},
	{"GT", "Guatemala"},
	{"GY", "Guyana"},
	{"HN", "Honduras"},
	{"JM", "Jamaica"},
	{"MX", "Mexico"},
	{"MS", "Montserrat"},
	{"NI", "Nicaragua"},
	{"PA", "Panama"},
	{"PY", "Paraguay"},
	{"PE", "Peru"},
	{"KN", "St. Kitts & Nevis"},
	{"LC", "St. Lucia"},
	{"VC", "St. Vincent & The Grenadines"},
	{"SR", "Suriname"},
	{"TT", "Trinidad & Tobago"},
	{"TC", "Turks & Caicos"},
	{"UY", "Uruguay"},
	{"VE", "Venezuela"},

	// North America
	{"CA", "Canada"},
	{"US", "United States"},
	{"PR", "Puerto Rico"},

	// Oceania
	{"FJ", "Fiji"},
	{"FM", "Micronesia"},
	{"NR", "Nauru"},
	{"NZ", "New Zealand"},
	{"PG", "Papua New Guinea"},
	{"SB", "Solomon Islands"},
	{"TO", "Tonga"},
	{"VU", "Vanuatu"},
}
