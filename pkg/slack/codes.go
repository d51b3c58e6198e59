package slack

// Error codes every Slack method may return. They are untyped constants so
// they compare directly against any family's ErrorCode.
const (
	CodeNotAuthed            = "not_authed"
	CodeInvalidAuth          = "invalid_auth"
	CodeAccountInactive      = "account_inactive"
	CodeTokenRevoked         = "token_revoked"
	CodeNoPermission         = "no_permission"
	CodeMissingScope         = "missing_scope"
	CodeOrgLoginRequired     = "org_login_required"
	CodeInvalidArgName       = "invalid_arg_name"
	CodeInvalidArrayArg      = "invalid_array_arg"
	CodeInvalidCharset       = "invalid_charset"
	CodeInvalidFormData      = "invalid_form_data"
	CodeInvalidPostType      = "invalid_post_type"
	CodeMissingPostType      = "missing_post_type"
	CodeTeamAddedToOrg       = "team_added_to_org"
	CodeRequestTimeout       = "request_timeout"
	CodeRatelimited          = "ratelimited"
	CodeFatalError           = "fatal_error"
	CodeMigrationInProgress  = "migration_in_progress"
	CodeMethodDeprecated     = "method_deprecated"
	CodeDeprecatedEndpoint   = "deprecated_endpoint"
	CodeNotAllowedTokenType  = "not_allowed_token_type"
	CodeEkmAccessDenied      = "ekm_access_denied"
	CodeTwoFactorSetupNeeded = "two_factor_setup_required"
)

// CommonCodes lists the codes every ErrorTable recognizes.
var CommonCodes = []string{
	CodeNotAuthed,
	CodeInvalidAuth,
	CodeAccountInactive,
	CodeTokenRevoked,
	CodeNoPermission,
	CodeMissingScope,
	CodeOrgLoginRequired,
	CodeInvalidArgName,
	CodeInvalidArrayArg,
	CodeInvalidCharset,
	CodeInvalidFormData,
	CodeInvalidPostType,
	CodeMissingPostType,
	CodeTeamAddedToOrg,
	CodeRequestTimeout,
	CodeRatelimited,
	CodeFatalError,
	CodeMethodDeprecated,
	CodeDeprecatedEndpoint,
	CodeNotAllowedTokenType,
	CodeEkmAccessDenied,
	CodeTwoFactorSetupNeeded,
}

var descriptions = map[string]string{
	CodeNotAuthed:            "No authentication token provided.",
	CodeInvalidAuth:          "Invalid authentication token.",
	CodeAccountInactive:      "Authentication token is for a deleted user or team.",
	CodeTokenRevoked:         "Authentication token is for a deleted user or workspace or the app has been removed.",
	CodeNoPermission:         "The workspace token used in this request does not have the permissions necessary to complete the request.",
	CodeMissingScope:         "The token used is not granted the specific scope permissions required to complete this request.",
	CodeOrgLoginRequired:     "The workspace is undergoing an enterprise migration and will not be available until migration is complete.",
	CodeInvalidArgName:       "The method was passed an argument whose name falls outside the bounds of common decency. This includes very long names and names with non-alphanumeric characters other than _. If you get this error, it is typically an indication that you have made a very malformed API call.",
	CodeInvalidArrayArg:      "The method was passed a PHP-style array argument (e.g. with a name like foo[7]). These are never valid with the Slack API.",
	CodeInvalidCharset:       "The method was called via a POST request, but the charset specified in the Content-Type header was invalid. Valid charset names are: utf-8 iso-8859-1.",
	CodeInvalidFormData:      "The method was called via a POST request with Content-Type application/x-www-form-urlencoded or multipart/form-data, but the form data was either missing or syntactically invalid.",
	CodeInvalidPostType:      "The method was called via a POST request, but the specified Content-Type was invalid. Valid types are: application/x-www-form-urlencoded multipart/form-data text/plain.",
	CodeMissingPostType:      "The method was called via a POST request and included a data payload, but the request did not include a Content-Type header.",
	CodeTeamAddedToOrg:       "The team associated with your request is currently undergoing migration to an Enterprise Organization. Web API and other platform operations will be intermittently unavailable until the transition is complete.",
	CodeRequestTimeout:       "The method was called via a POST request, but the POST data was either missing or truncated.",
	CodeRatelimited:          "The request has been ratelimited. Refer to the Retry-After header for when to retry the request.",
	CodeFatalError:           "The server could not complete your operation(s) without encountering a catastrophic error.",
	CodeMigrationInProgress:  "Team is being migrated between servers. See the team_migration_started event documentation for details.",
	CodeMethodDeprecated:     "The method has been deprecated.",
	CodeDeprecatedEndpoint:   "The endpoint has been deprecated.",
	CodeNotAllowedTokenType:  "The token type used in this request is not allowed.",
	CodeEkmAccessDenied:      "Administrators have suspended the ability to post a message.",
	CodeTwoFactorSetupNeeded: "Two-factor authentication setup is required.",
}

// Describe returns the human-readable description of a code, or "" when none
// is recorded.
func Describe(code string) string {
	return descriptions[code]
}

// RegisterDescriptions adds descriptions for family-specific codes. It is meant
// to be called from package init functions.
func RegisterDescriptions(m map[string]string) {
	for code, desc := range m {
		if _, ok := descriptions[code]; !ok {
			descriptions[code] = desc
		}
	}
}
