package rbac

const (
	PermQuizImport     = "quiz:import"
	PermQuizView       = "quiz:view"
	PermAttemptCreate  = "attempt:create"
	PermAttemptSubmit  = "attempt:submit"
	PermAttemptViewOwn = "attempt:view-own"
	PermEventsView     = "events:view"
)

// RolePermissions is the default policy. Patterns may end in "*".
var RolePermissions = map[string][]string{
	"user": {
		PermQuizView,
		"attempt:*",
	},
	"admin": {
		"*",
	},
}
