package domain

import "go.trai.ch/zerr"

var (
	// ErrDependencyConflict is returned when two dependents require different tags of the same dependency.
	ErrDependencyConflict = zerr.New("conflicting dependency tags")

	// ErrDependencyCycle is returned when the package dependency graph contains a cycle.
	ErrDependencyCycle = zerr.New("circular dependency detected")

	// ErrUnknownPackage is returned when a package filter references a name absent from the plan.
	ErrUnknownPackage = zerr.New("unknown package")

	// ErrDuplicatePackage is returned when two manifest entries resolve to the same package name.
	ErrDuplicatePackage = zerr.New("duplicate package name")

	// ErrMissingDescriptor is returned when a package spec has no descriptor to resolve against.
	ErrMissingDescriptor = zerr.New("package descriptor missing")

	// ErrResolveFileNotFound is returned when the resolve file does not exist.
	ErrResolveFileNotFound = zerr.New("resolve file not found")

	// ErrResolveFileCorrupt is returned when the resolve file cannot be parsed or lacks required fields.
	ErrResolveFileCorrupt = zerr.New("resolve file is corrupt")

	// ErrResolveFileWriteFailed is returned when the resolve file cannot be written.
	ErrResolveFileWriteFailed = zerr.New("failed to write resolve file")

	// ErrDescriptorNotFound is returned when a package has no arieo_package.json.
	ErrDescriptorNotFound = zerr.New("package descriptor not found")

	// ErrDescriptorCorrupt is returned when a package descriptor cannot be parsed.
	ErrDescriptorCorrupt = zerr.New("package descriptor is corrupt")

	// ErrManifestNotFound is returned when no manifest file can be located.
	ErrManifestNotFound = zerr.New("could not find " + ManifestFileName)

	// ErrManifestReadFailed is returned when the manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest file")

	// ErrManifestParseFailed is returned when the manifest file cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse manifest file")

	// ErrInvalidPackageEntry is returned when a manifest package entry has neither a git url nor a local path.
	ErrInvalidPackageEntry = zerr.New("package entry needs git_url, git or local")

	// ErrLocalPackageNotFound is returned when a local package path does not exist.
	ErrLocalPackageNotFound = zerr.New("local package path not found")

	// ErrFetchFailed is returned when a package source cannot be cloned or updated.
	ErrFetchFailed = zerr.New("failed to fetch package source")

	// ErrInvalidStage is returned when a stage name is not build, install or build_and_install.
	ErrInvalidStage = zerr.New("invalid stage, expected 'build', 'install' or 'build_and_install'")

	// ErrInvalidOverride is returned when an environment override argument cannot be parsed.
	ErrInvalidOverride = zerr.New("invalid environment override")

	// ErrCommandFailed is returned when a build or install command exits with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCommandStartFailed is returned when a command could not be started at all.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrCleanFailed is returned when removing a workspace folder fails.
	ErrCleanFailed = zerr.New("failed to remove folder")

	// ErrAborted is returned when the user declines to proceed with a run.
	ErrAborted = zerr.New("aborted by user")
)
