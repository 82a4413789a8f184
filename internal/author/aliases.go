package author

// staticAliases maps raw author strings left behind by imported legacy
// comments to display names. Entries in the author_display_map table win
// over these on key collision.
var staticAliases = map[string]string{
	"migration":    "Data Migration",
	"system":       "System",
	"mailgateway":  "Mail Gateway",
	"cron-escalat": "Escalation Job",
}
