package config_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.arieo.dev/arieo-pkg/internal/adapters/config"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const root = "/workspace"

func newTestLoader(t *testing.T, files fstest.MapFS) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return &config.Loader{FS: config.NewMapFSAdapter(root, files), Logger: log}, log
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader, _ := newTestLoader(t, fstest.MapFS{
		"package.manifest.yaml": {Data: []byte("packages:\n")},
	})

	m, err := loader.Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, "/workspace/package.manifest.yaml", m.Path)
	assert.Equal(t, "/workspace", m.Dir)
	assert.Equal(t, "/workspace/_packages/src", m.SourceFolder)
	assert.Equal(t, "/workspace/_packages/published", m.InstallFolder)
	assert.Equal(t, "/workspace/_build", m.BuildFolder)
	assert.Equal(t, "/workspace/_packages/published/package.lock.json", m.ResolveFile)
	assert.Empty(t, m.Packages)
}

func TestLoader_Load_PackagesInDeclarationOrder(t *testing.T) {
	manifest := `
packages_src_folder: ${CUR_MANIFEST_FILE_DIR}/deps/src
packages_install_folder: out/install
packages_build_folder: /tmp/arieo-build
packages:
  02_engine:
    - git_url: https://github.com/arieo/Arieo-Core.git
      tag: v1.2.0
    - git: https://github.com/arieo/Arieo-Render@v0.3
  00_build:
    - git_url: https://github.com/arieo/Arieo-BuildEnv
    - name: thirdparty
      local: ./vendor/thirdparty
`
	loader, _ := newTestLoader(t, fstest.MapFS{
		"package.manifest.yaml":           {Data: []byte(manifest)},
		"vendor/thirdparty/CMakeLists.txt": {Data: []byte("")},
	})

	m, err := loader.Load(root, "package.manifest.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/workspace/deps/src", m.SourceFolder)
	assert.Equal(t, "/workspace/out/install", m.InstallFolder)
	assert.Equal(t, "/tmp/arieo-build", m.BuildFolder)

	assert.Equal(t, []domain.PackageSpec{
		{
			Name:         "Arieo-Core",
			Category:     "02_engine",
			Kind:         domain.SourceGit,
			GitURL:       "https://github.com/arieo/Arieo-Core.git",
			Tag:          "v1.2.0",
			SourceFolder: "/workspace/deps/src/02_engine/Arieo-Core-v1.2.0",
			FolderName:   "02_engine/Arieo-Core-v1.2.0",
		},
		{
			Name:         "Arieo-Render",
			Category:     "02_engine",
			Kind:         domain.SourceGit,
			GitURL:       "https://github.com/arieo/Arieo-Render",
			Tag:          "v0.3",
			SourceFolder: "/workspace/deps/src/02_engine/Arieo-Render-v0.3",
			FolderName:   "02_engine/Arieo-Render-v0.3",
		},
		{
			Name:         "Arieo-BuildEnv",
			Category:     "00_build",
			Kind:         domain.SourceGit,
			GitURL:       "https://github.com/arieo/Arieo-BuildEnv",
			Tag:          "main",
			SourceFolder: "/workspace/deps/src/00_build/Arieo-BuildEnv-main",
			FolderName:   "00_build/Arieo-BuildEnv-main",
		},
		{
			Name:         "thirdparty",
			Category:     "00_build",
			Kind:         domain.SourceLocal,
			Tag:          "local",
			LocalPath:    "/workspace/vendor/thirdparty",
			SourceFolder: "/workspace/vendor/thirdparty",
			FolderName:   "00_build/thirdparty",
		},
	}, m.Packages)
}

func TestLoader_Load_EnvironmentExpansion(t *testing.T) {
	t.Setenv("ARIEO_TEST_ROOT", "/opt/arieo")
	loader, _ := newTestLoader(t, fstest.MapFS{
		"package.manifest.yaml": {Data: []byte(
			"packages_install_folder: ${ARIEO_TEST_ROOT}/published\n" +
				"packages_resolve_file: $ARIEO_TEST_ROOT/lock/resolve.json\n" +
				"packages_build_folder: ${ARIEO_TEST_UNSET}/build\n")},
	})

	m, err := loader.Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, "/opt/arieo/published", m.InstallFolder)
	assert.Equal(t, "/opt/arieo/lock/resolve.json", m.ResolveFile)
	assert.Equal(t, "/workspace/${ARIEO_TEST_UNSET}/build", m.BuildFolder)
}

func TestLoader_Load_DiscoversManifestInParent(t *testing.T) {
	loader, _ := newTestLoader(t, fstest.MapFS{
		"package.manifest.yaml":   {Data: []byte("packages_build_folder: build\n")},
		"engine/core/src/main.cc": {Data: []byte("")},
	})

	m, err := loader.Load("/workspace/engine/core/src", "")
	require.NoError(t, err)
	assert.Equal(t, "/workspace/package.manifest.yaml", m.Path)
	assert.Equal(t, "/workspace/build", m.BuildFolder)
}

func TestLoader_Load_GitSSHURLWithoutTag(t *testing.T) {
	loader, _ := newTestLoader(t, fstest.MapFS{
		"package.manifest.yaml": {Data: []byte("packages:\n  core:\n    - git: git@github.com:arieo/Arieo-Core.git\n")},
	})

	m, err := loader.Load(root, "")
	require.NoError(t, err)
	require.Len(t, m.Packages, 1)
	assert.Equal(t, "git@github.com:arieo/Arieo-Core.git", m.Packages[0].GitURL)
	assert.Equal(t, "main", m.Packages[0].Tag)
	assert.Equal(t, "Arieo-Core", m.Packages[0].Name)
}

func TestLoader_Load_LocalWinsOverGit(t *testing.T) {
	loader, log := newTestLoader(t, fstest.MapFS{
		"package.manifest.yaml": {Data: []byte("packages:\n  core:\n    - local: ./core\n      git_url: https://example.com/core.git\n")},
		"core/arieo_package.json": {Data: []byte("{}")},
	})
	log.EXPECT().Warn(gomock.Any())

	m, err := loader.Load(root, "")
	require.NoError(t, err)
	require.Len(t, m.Packages, 1)
	assert.True(t, m.Packages[0].IsLocal())
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    fstest.MapFS
		path     string
		wantErr  error
		wantMeta map[string]any
	}{
		{
			name:    "no manifest anywhere",
			files:   fstest.MapFS{},
			wantErr: domain.ErrManifestNotFound,
		},
		{
			name:     "explicit path missing",
			files:    fstest.MapFS{},
			path:     "custom.yaml",
			wantErr:  domain.ErrManifestNotFound,
			wantMeta: map[string]any{"path": "/workspace/custom.yaml"},
		},
		{
			name:    "invalid yaml",
			files:   fstest.MapFS{"package.manifest.yaml": {Data: []byte("packages: [unclosed")}},
			wantErr: domain.ErrManifestParseFailed,
		},
		{
			name:    "packages is not a map",
			files:   fstest.MapFS{"package.manifest.yaml": {Data: []byte("packages:\n  - git: x\n")}},
			wantErr: domain.ErrManifestParseFailed,
		},
		{
			name:     "entry without source",
			files:    fstest.MapFS{"package.manifest.yaml": {Data: []byte("packages:\n  engine:\n    - tag: v1\n")}},
			wantErr:  domain.ErrInvalidPackageEntry,
			wantMeta: map[string]any{"category": "engine", "entry": 1},
		},
		{
			name:     "local path missing",
			files:    fstest.MapFS{"package.manifest.yaml": {Data: []byte("packages:\n  engine:\n    - local: ./missing\n")}},
			wantErr:  domain.ErrLocalPackageNotFound,
			wantMeta: map[string]any{"local": "/workspace/missing"},
		},
		{
			name: "duplicate names",
			files: fstest.MapFS{"package.manifest.yaml": {Data: []byte(
				"packages:\n  a:\n    - git: https://x/core.git@v1\n  b:\n    - git: https://y/core@v2\n")}},
			wantErr:  domain.ErrDuplicatePackage,
			wantMeta: map[string]any{"package": "core"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newTestLoader(t, tt.files)

			_, err := loader.Load(root, tt.path)
			require.ErrorIs(t, err, tt.wantErr)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			for k, v := range tt.wantMeta {
				assert.Equal(t, v, zErr.Metadata()[k], "metadata %s", k)
			}
		})
	}
}
