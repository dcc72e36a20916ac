package constvars

// CustomValidationErrorMessages maps validator tags to client phrasing.
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"oneof":    "must be one of: %s",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gt":       "must be greater than %s",
	"e164":     "must be a valid phone number in international format",
	"datetime": "must be a valid date/time",
}

// TagsWithParams marks the tags whose message embeds the tag parameter.
var TagsWithParams = map[string]bool{
	"oneof": true,
	"min":   true,
	"max":   true,
	"gt":    true,
}
