package platform_test

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/gotool/internal/platform"
)

func ExampleResolveArchitecture() {
	arch, err := platform.ResolveArchitecture("aarch64")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(arch)
	// Output: arm64
}

func ExampleInfo_GetDistro() {
	info := &platform.Info{
		OS:       "linux",
		Platform: "ubuntu",
		Family:   platform.FamilyDebian,
		Version:  "22.04",
	}

	if distro := info.GetDistro(); distro != nil {
		fmt.Printf("%s %s (%s family)\n", distro.ID, distro.Version, distro.Family)
	}
	// Output: ubuntu 22.04 (debian family)
}
