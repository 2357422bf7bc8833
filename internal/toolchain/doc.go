// Package toolchain downloads, unpacks and exposes Go toolchain releases.
//
// # Pipeline
//
// Install runs five stages in order and stops at the first failure:
//
//  1. resolve: build the archive URL from the configured template
//  2. download: fetch the archive into the vendor directory
//  3. extract: replace <vendor>/<archive name> with the archive contents
//  4. resolve-root: find the directory the archive actually unpacked into
//  5. link: point every configured command in the bin directory at its
//     executable inside the install root
//
// Stage failures are reported as typed errors (DownloadError,
// ExtractionError, LayoutError, MissingExecutableError); StageOf maps any
// returned error back to its stage.
//
// # Usage
//
//	tc, err := toolchain.NewContext(info, binDir, vendorDir)
//	if err != nil {
//	    return err
//	}
//	inst, err := toolchain.New(tc, cfg, toolchain.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	res, err := inst.Install(ctx, "1.21.0")
//
// The package does no locking. Callers that may install concurrently into
// the same vendor directory must serialise themselves.
package toolchain
