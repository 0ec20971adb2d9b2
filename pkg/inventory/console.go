package inventory

// Console receives the user-facing lines of a reconciliation pass.
type Console interface {
	Notice(format string, args ...any)
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Failure(format string, args ...any)
	Collision(c Collision)
}
