package platform

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func evalLua(t *testing.T, L *lua.LState, code string) lua.LValue {
	t.Helper()
	if err := L.DoString(code); err != nil {
		t.Fatalf("failed to execute %q: %v", code, err)
	}
	v := L.Get(-1)
	L.Pop(1)
	return v
}

func TestInjectPlatformTable(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	info := &Info{
		OS:       "linux",
		Arch:     "arm",
		ArchRaw:  "armv7l",
		Platform: "debian",
		Family:   FamilyDebian,
		Version:  "12",
	}
	if err := InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	tests := []struct {
		code string
		want lua.LValue
	}{
		{`return platform.os`, lua.LString("linux")},
		{`return platform.arch`, lua.LString("arm")},
		{`return platform.arch_raw`, lua.LString("armv7l")},
		{`return platform.go_arch`, lua.LString("armv6l")},
		{`return platform.is_linux`, lua.LTrue},
		{`return platform.is_windows`, lua.LFalse},
		{`return platform.is_apple_silicon`, lua.LFalse},
		{`return platform.distro.family`, lua.LString("debian")},
		{`return platform.when(platform.is_linux, "yes")`, lua.LString("yes")},
		{`return platform.when(platform.is_windows, "yes")`, lua.LNil},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := evalLua(t, L, tt.code)
			if got.Type() != tt.want.Type() || got.String() != tt.want.String() {
				t.Errorf("got %v (%s), want %v (%s)", got, got.Type(), tt.want, tt.want.Type())
			}
		})
	}
}

func TestInjectPlatformTable_Windows(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "windows", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	if got := evalLua(t, L, `return platform.is_windows`); got != lua.LTrue {
		t.Errorf("is_windows = %v, want true", got)
	}
	if got := evalLua(t, L, `return platform.distro`); got != lua.LNil {
		t.Errorf("distro = %v, want nil", got)
	}
}

func TestInjectPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	for _, code := range []string{
		`platform.os = "windows"`,
		`platform.new_field = 1`,
		`setmetatable(platform, {})`,
	} {
		err := L.DoString(code)
		if err == nil {
			t.Errorf("%q should fail on a read-only table", code)
			continue
		}
		if strings.Contains(code, "platform.") && !strings.Contains(err.Error(), "read-only") {
			t.Errorf("%q error = %v, want read-only error", code, err)
		}
	}
}

func TestInjectPlatformTable_NilInfo(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, nil); err == nil {
		t.Error("expected error for nil info")
	}
}
