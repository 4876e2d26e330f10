package domain

// Command is a single shell command line ready for execution.
type Command struct {
	// Line is the expanded command text passed to the shell.
	Line string
	// Dir is the working directory the command runs in.
	Dir string
	// Env is the complete environment in "KEY=VALUE" form.
	Env []string
}
