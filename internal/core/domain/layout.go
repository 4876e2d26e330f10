package domain

import (
	"path/filepath"
	"strings"
)

const (
	// ManifestFileName is the name of the workspace manifest.
	ManifestFileName = "package.manifest.yaml"

	// DescriptorFileName is the name of the metadata file every package carries in its source folder.
	DescriptorFileName = "arieo_package.json"

	// ResolveFileName is the default name of the resolve file inside the install folder.
	ResolveFileName = "package.lock.json"

	// DefaultSourceFolder is the default root for fetched package sources.
	DefaultSourceFolder = "./_packages/src"

	// DefaultInstallFolder is the default root for installed packages.
	DefaultInstallFolder = "./_packages/published"

	// DefaultBuildFolder is the default root for package build trees.
	DefaultBuildFolder = "./_build"

	// DefaultTag is the tag used when a git source does not name one.
	DefaultTag = "main"

	// LocalTag is the tag recorded for packages sourced from a local path.
	LocalTag = "local"

	// DefaultVersion is the descriptor version used when none is declared.
	DefaultVersion = "0.0.0"

	// ManifestDirVar is expanded to the absolute manifest directory in manifest values.
	ManifestDirVar = "CUR_MANIFEST_FILE_DIR"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Environment variable names shared by every package.
const (
	EnvRootInstallFolder    = "ARIEO_PACKAGE_ROOT_INSTALL_FOLDER"
	EnvCurrentSourceFolder  = "ARIEO_CUR_PACKAGE_SOURCE_FOLDER"
	EnvCurrentBuildFolder   = "ARIEO_CUR_PACKAGE_BUILD_FOLDER"
	EnvCurrentInstallFolder = "ARIEO_CUR_PACKAGE_INSTALL_FOLDER"
	EnvCurrentName          = "ARIEO_CUR_PACKAGE_NAME"
	EnvBuildEnvBuildFolder  = "ARIEO_BUILDENV_BUILD_FOLDER"
	EnvSourceFolder         = "SOURCE_FOLDER"
	EnvBuildFolder          = "BUILD_FOLDER"
	EnvInstallFolder        = "INSTALL_FOLDER"
)

const packageVarPrefix = "ARIEO_PACKAGE_"

// PackageVarBase returns the variable family prefix for a package name.
// "Arieo-BuildEnv" becomes "ARIEO_PACKAGE_BUILDENV".
func PackageVarBase(name string) string {
	upper := strings.ReplaceAll(strings.ToUpper(name), "-", "_")
	upper = strings.ReplaceAll(upper, "ARIEOENGINE_", "")
	upper = strings.ReplaceAll(upper, "ARIEO_", "")
	return packageVarPrefix + upper
}

// InstallFolderVar names the public variable pointing at a package's install folder.
func InstallFolderVar(name string) string {
	return PackageVarBase(name) + "_INSTALL_FOLDER"
}

// SourceFolderVar names the private variable pointing at a package's source folder.
func SourceFolderVar(name string) string {
	return PackageVarBase(name) + "_SOURCE_FOLDER"
}

// BuildFolderVar names the private variable pointing at a package's build folder.
func BuildFolderVar(name string) string {
	return PackageVarBase(name) + "_BUILD_FOLDER"
}

// DefaultResolveFile returns the resolve file location for an install folder.
func DefaultResolveFile(installFolder string) string {
	return filepath.Join(installFolder, ResolveFileName)
}
