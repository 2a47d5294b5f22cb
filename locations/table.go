package locations

// builtinAbbreviations is the default expansion table: US states, the
// District of Columbia, Canadian provinces and territories, and the country
// short forms that show up constantly in genealogical sources.
var builtinAbbreviations = map[string]string{
	// US states
	"al": "alabama",
	"ak": "alaska",
	"az": "arizona",
	"ar": "arkansas",
	"ca": "california",
	"co": "colorado",
	"ct": "connecticut",
	"de": "delaware",
	"fl": "florida",
	"ga": "georgia",
	"hi": "hawaii",
	"id": "idaho",
	"il": "illinois",
	"in": "indiana",
	"ia": "iowa",
	"ks": "kansas",
	"ky": "kentucky",
	"la": "louisiana",
	"me": "maine",
	"md": "maryland",
	"ma": "massachusetts",
	"mi": "michigan",
	"mn": "minnesota",
	"ms": "mississippi",
	"mo": "missouri",
	"mt": "montana",
	"ne": "nebraska",
	"nv": "nevada",
	"nh": "new hampshire",
	"nj": "new jersey",
	"nm": "new mexico",
	"ny": "new york",
	"nc": "north carolina",
	"nd": "north dakota",
	"oh": "ohio",
	"ok": "oklahoma",
	"or": "oregon",
	"pa": "pennsylvania",
	"ri": "rhode island",
	"sc": "south carolina",
	"sd": "south dakota",
	"tn": "tennessee",
	"tx": "texas",
	"ut": "utah",
	"vt": "vermont",
	"va": "virginia",
	"wa": "washington",
	"wv": "west virginia",
	"wi": "wisconsin",
	"wy": "wyoming",
	"dc": "district of columbia",

	// Canadian provinces and territories
	"ab": "alberta",
	"bc": "british columbia",
	"mb": "manitoba",
	"nb": "new brunswick",
	"nl": "newfoundland and labrador",
	"ns": "nova scotia",
	"nt": "northwest territories",
	"nu": "nunavut",
	"on": "ontario",
	"pe": "prince edward island",
	"qc": "quebec",
	"sk": "saskatchewan",
	"yt": "yukon",

	// Countries
	"usa": "united states",
	"us":  "united states",
	"uk":  "united kingdom",
	"ger": "germany",
	"rus": "russia",
}
