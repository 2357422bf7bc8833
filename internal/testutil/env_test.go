package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/gotool/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	if got := os.Getenv("GOTOOL_HOME"); got != env.Home {
		t.Errorf("GOTOOL_HOME = %q, want %q", got, env.Home)
	}

	for _, dir := range []string{env.BinDir, env.VendorDir} {
		if !filepath.IsAbs(dir) {
			t.Errorf("path %s is not absolute", dir)
		}
		if !strings.HasPrefix(dir, env.Home) {
			t.Errorf("path %s is not under %s", dir, env.Home)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory %s does not exist: %v", dir, err)
		}
	}
}

func TestSetupTestEnv_Isolation(t *testing.T) {
	env1 := testutil.SetupTestEnv(t)

	t.Run("subtest", func(t *testing.T) {
		env2 := testutil.SetupTestEnv(t)
		if env1.Home == env2.Home {
			t.Error("expected different temp directories for different test contexts")
		}
	})
}
