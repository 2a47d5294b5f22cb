package names

// builtinNicknames maps common nicknames and short forms to canonical given
// names. English forms plus the Germanic pairs that dominate 19th-century
// immigration records.
var builtinNicknames = map[string]string{
	// English
	"abe":     "abraham",
	"al":      "albert",
	"alex":    "alexander",
	"andy":    "andrew",
	"becky":   "rebecca",
	"ben":     "benjamin",
	"bess":    "elizabeth",
	"beth":    "elizabeth",
	"betsy":   "elizabeth",
	"betty":   "elizabeth",
	"bill":    "william",
	"billy":   "william",
	"bob":     "robert",
	"bobby":   "robert",
	"cathy":   "catherine",
	"charlie": "charles",
	"chuck":   "charles",
	"dan":     "daniel",
	"danny":   "daniel",
	"dave":    "david",
	"dick":    "richard",
	"dottie":  "dorothy",
	"ed":      "edward",
	"eddie":   "edward",
	"fanny":   "frances",
	"frank":   "francis",
	"fred":    "frederick",
	"greg":    "gregory",
	"hank":    "henry",
	"harry":   "henry",
	"jack":    "john",
	"jake":    "jacob",
	"jim":     "james",
	"jimmy":   "james",
	"joe":     "joseph",
	"kate":    "katherine",
	"katie":   "katherine",
	"ken":     "kenneth",
	"larry":   "lawrence",
	"liz":     "elizabeth",
	"maggie":  "margaret",
	"mike":    "michael",
	"molly":   "mary",
	"nancy":   "anne",
	"ned":     "edward",
	"nell":    "helen",
	"peggy":   "margaret",
	"polly":   "mary",
	"rick":    "richard",
	"rob":     "robert",
	"sally":   "sarah",
	"sam":     "samuel",
	"steve":   "stephen",
	"sue":     "susan",
	"ted":     "theodore",
	"tom":     "thomas",
	"tommy":   "thomas",
	"tony":    "anthony",
	"will":    "william",

	// Germanic
	"fritz": "friedrich",
	"greta": "margarethe",
	"hans":  "johannes",
	"heinz": "heinrich",
	"klaus": "nikolaus",
	"lena":  "magdalena",
	"sepp":  "josef",
	"stine": "christine",
	"trina": "katharina",
	"willi": "wilhelm",
}
